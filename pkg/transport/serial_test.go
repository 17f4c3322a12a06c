package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

func TestParseSerialResource(t *testing.T) {
	tests := []struct {
		resource string
		want     string
		wantErr  bool
	}{
		{"ASRL/dev/ttyUSB0::INSTR", "/dev/ttyUSB0", false},
		{"asrl/dev/ttyACM1::instr", "/dev/ttyACM1", false},
		{"ASRL3::INSTR", "COM3", false},
		{"ASRLCOM4::INSTR", "COM4", false},
		{"ASRL::INSTR", "", true},
		{"TCPIP0::host::5025::SOCKET", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			got, err := ParseSerialResource(tt.resource)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedResource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSerialEnumerate(t *testing.T) {
	ports := []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyUSB0", IsUSB: true, VID: "1A86", PID: "7523"},
	}
	s := &Serial{listPorts: func() ([]*enumerator.PortDetails, error) { return ports, nil }}

	all, err := s.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ASRL/dev/ttyS0::INSTR", "ASRL/dev/ttyUSB0::INSTR"}, all)

	s.USBOnly = true
	usb, err := s.Enumerate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"ASRL/dev/ttyUSB0::INSTR"}, usb)
}

func TestSerialEnumerateError(t *testing.T) {
	s := &Serial{listPorts: func() ([]*enumerator.PortDetails, error) { return nil, errors.New("no sysfs") }}

	_, err := s.Enumerate(context.Background())
	assert.ErrorContains(t, err, "no sysfs")
}

func TestSerialOpenAppliesModeDefaults(t *testing.T) {
	var gotName string
	var gotMode serial.Mode
	s := &Serial{openPort: func(name string, mode *serial.Mode) (serial.Port, error) {
		gotName, gotMode = name, *mode
		return nil, errors.New("busy")
	}}

	_, err := s.Open(context.Background(), "ASRL/dev/ttyUSB0::INSTR", OpenOptions{})
	assert.ErrorContains(t, err, "busy")
	assert.Equal(t, "/dev/ttyUSB0", gotName)
	assert.Equal(t, DefaultBaudRate, gotMode.BaudRate)
	assert.Equal(t, 8, gotMode.DataBits)
}
