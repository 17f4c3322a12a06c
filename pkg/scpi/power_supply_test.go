package scpi_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/log"
	"github.com/psu-tools/psu-go/pkg/scpi"
	"github.com/psu-tools/psu-go/pkg/session"
	"github.com/psu-tools/psu-go/pkg/transport/mocks"
)

const resource = "USB0::0x1AB1::0x0E11::DP8C1234::INSTR"

func connected(t *testing.T, opts session.Options) (*scpi.PowerSupply, *mocks.MockConn) {
	t.Helper()
	conn := mocks.NewMockConn(t)
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Open(mock.Anything, resource, mock.Anything).Return(conn, nil).Once()

	psu := scpi.New(tr, opts)
	require.NoError(t, psu.Connect(context.Background(), discovery.ParseEndpoint(resource)))
	return psu, conn
}

func TestSetpointCommands(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().WriteLine("VOLT 5").Return(nil).Once()
	conn.EXPECT().WriteLine("VOLT 12.5").Return(nil).Once()
	conn.EXPECT().WriteLine("CURR 0.25").Return(nil).Once()
	conn.EXPECT().WriteLine("CURR 0").Return(nil).Once()

	require.NoError(t, psu.SetVoltage(5))
	require.NoError(t, psu.SetVoltage(12.5))
	require.NoError(t, psu.SetCurrent(0.25))
	require.NoError(t, psu.SetCurrent(0))
}

func TestSetpointValidationPrecedesIO(t *testing.T) {
	// The mock fails the test on any WriteLine call.
	psu, conn := connected(t, session.Options{})

	for _, v := range []float64{-0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := psu.SetVoltage(v)
		assert.ErrorIs(t, err, fault.ErrInvalidParameter, "voltage %v", v)

		err = psu.SetCurrent(v)
		assert.ErrorIs(t, err, fault.ErrInvalidParameter, "current %v", v)
	}
	conn.AssertNotCalled(t, "WriteLine", mock.Anything)
}

func TestOutputAndRemote(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().WriteLine("OUTP ON").Return(nil).Once()
	conn.EXPECT().WriteLine("OUTP OFF").Return(nil).Once()
	conn.EXPECT().WriteLine("SYST:REMOTE").Return(nil).Once()
	conn.EXPECT().WriteLine("SYST:LOCAL").Return(nil).Once()

	require.NoError(t, psu.SetOutput(true))
	require.NoError(t, psu.SetOutput(false))
	require.NoError(t, psu.SetRemote(true))
	require.NoError(t, psu.SetRemote(false))
}

func TestMeasure(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().WriteLine("MEAS:VOLT?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("12.50", nil).Once()
	conn.EXPECT().WriteLine("MEAS:CURR?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("1.234", nil).Once()

	m, err := psu.Measure()
	require.NoError(t, err)
	assert.Equal(t, scpi.Measurement{Voltage: 12.50, Current: 1.234}, m)
	assert.InDelta(t, 15.425, m.Power(), 1e-9)
	assert.Equal(t, "12.5000 V, 1.2340 A", m.String())
}

func TestMeasureMalformed(t *testing.T) {
	var rec log.Recorder
	psu, conn := connected(t, session.Options{ProtocolLogger: &rec})
	conn.EXPECT().WriteLine("MEAS:VOLT?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("ERROR", nil).Once()

	_, err := psu.Measure()
	assert.ErrorIs(t, err, fault.ErrMalformedResponse)
	assert.Contains(t, err.Error(), `"ERROR"`)

	// The current query is never issued after a bad voltage reply.
	conn.AssertNotCalled(t, "WriteLine", "MEAS:CURR?")

	events := rec.Events()
	last := events[len(events)-1]
	require.NotNil(t, last.Error)
	assert.Equal(t, "MalformedResponse", last.Error.Kind)
}

func TestMeasureCommunicationFailure(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	cause := errors.New("usb stall")
	conn.EXPECT().WriteLine("MEAS:VOLT?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("5.0", nil).Once()
	conn.EXPECT().WriteLine("MEAS:CURR?").Return(cause).Once()

	_, err := psu.Measure()
	assert.ErrorIs(t, err, fault.ErrCommunication)
	assert.ErrorIs(t, err, cause)
}

func TestIdentify(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().WriteLine("*IDN?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("RIGOL TECHNOLOGIES,DP832,DP8C1234,00.01.14", nil).Once()

	id, err := psu.Identify()
	require.NoError(t, err)
	assert.Equal(t, scpi.Identity{
		Manufacturer: "RIGOL TECHNOLOGIES",
		Model:        "DP832",
		Serial:       "DP8C1234",
		Firmware:     "00.01.14",
	}, id)
}

func TestIdentifyMalformed(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().WriteLine("*IDN?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("DP832", nil).Once()

	_, err := psu.Identify()
	assert.ErrorIs(t, err, fault.ErrMalformedResponse)
}

func TestNotConnected(t *testing.T) {
	psu := scpi.New(mocks.NewMockTransport(t), session.Options{})

	assert.False(t, psu.Connected())
	assert.ErrorIs(t, psu.SetVoltage(1), fault.ErrNotConnected)
	assert.ErrorIs(t, psu.SetCurrent(1), fault.ErrNotConnected)
	assert.ErrorIs(t, psu.SetOutput(true), fault.ErrNotConnected)
	assert.ErrorIs(t, psu.SetRemote(false), fault.ErrNotConnected)
	_, err := psu.Measure()
	assert.ErrorIs(t, err, fault.ErrNotConnected)
	_, err = psu.Identify()
	assert.ErrorIs(t, err, fault.ErrNotConnected)

	_, ok := psu.Endpoint()
	assert.False(t, ok)
	assert.NoError(t, psu.Close())
}

func TestNotConnectedBeforeValidation(t *testing.T) {
	psu := scpi.New(mocks.NewMockTransport(t), session.Options{})

	for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
		err := psu.SetVoltage(v)
		assert.ErrorIs(t, err, fault.ErrNotConnected, "voltage %v", v)
		assert.NotErrorIs(t, err, fault.ErrInvalidParameter, "voltage %v", v)

		assert.ErrorIs(t, psu.SetCurrent(v), fault.ErrNotConnected, "current %v", v)
	}
}

func TestMeasureRejectsOverRange(t *testing.T) {
	psu, conn := connected(t, session.Options{})

	conn.EXPECT().WriteLine("MEAS:VOLT?").Return(nil).Once()
	conn.EXPECT().ReadLine(mock.Anything).Return("9.9E37", nil).Once()

	_, err := psu.MeasureVoltage()
	assert.ErrorIs(t, err, fault.ErrMalformedResponse)
}

func TestCheckSetpoint(t *testing.T) {
	assert.NoError(t, scpi.CheckSetpoint("VOLT", 0))
	assert.NoError(t, scpi.CheckSetpoint("VOLT", 30))
	for _, v := range []float64{-0.001, math.NaN(), math.Inf(-1)} {
		assert.ErrorIs(t, scpi.CheckSetpoint("CURR", v), fault.ErrInvalidParameter, "%v", v)
	}
}

func TestConnectClosesPreviousSession(t *testing.T) {
	first := mocks.NewMockConn(t)
	second := mocks.NewMockConn(t)
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Open(mock.Anything, resource, mock.Anything).Return(first, nil).Once()
	tr.EXPECT().Open(mock.Anything, "ASRL1::INSTR", mock.Anything).Return(second, nil).Once()
	first.EXPECT().Close().Return(nil).Once()

	psu := scpi.New(tr, session.Options{})
	require.NoError(t, psu.Connect(context.Background(), discovery.ParseEndpoint(resource)))
	require.NoError(t, psu.Connect(context.Background(), discovery.ParseEndpoint("ASRL1::INSTR")))

	ep, ok := psu.Endpoint()
	require.True(t, ok)
	assert.Equal(t, "ASRL1::INSTR", ep.Resource)
}

func TestConnectFailureLeavesDisconnected(t *testing.T) {
	first := mocks.NewMockConn(t)
	tr := mocks.NewMockTransport(t)
	tr.EXPECT().Open(mock.Anything, resource, mock.Anything).Return(first, nil).Once()
	tr.EXPECT().Open(mock.Anything, "ASRL9::INSTR", mock.Anything).Return(nil, errors.New("no such port")).Once()
	first.EXPECT().Close().Return(nil).Once()

	psu := scpi.New(tr, session.Options{})
	require.NoError(t, psu.Connect(context.Background(), discovery.ParseEndpoint(resource)))

	err := psu.Connect(context.Background(), discovery.ParseEndpoint("ASRL9::INSTR"))
	assert.ErrorIs(t, err, fault.ErrConnection)
	assert.False(t, psu.Connected())
	assert.ErrorIs(t, psu.SetOutput(true), fault.ErrNotConnected)
}

func TestCloseTwice(t *testing.T) {
	psu, conn := connected(t, session.Options{})
	conn.EXPECT().Close().Return(nil).Once()

	assert.NoError(t, psu.Close())
	assert.NoError(t, psu.Close())
	assert.False(t, psu.Connected())
	assert.Empty(t, psu.SessionID())
}
