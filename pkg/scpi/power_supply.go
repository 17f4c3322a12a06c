package scpi

import (
	"context"
	"io"
	"log/slog"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/log"
	"github.com/psu-tools/psu-go/pkg/session"
	"github.com/psu-tools/psu-go/pkg/transport"
)

// PowerSupply controls one instrument over at most one open session.
// It is not safe for concurrent use.
type PowerSupply struct {
	transport transport.Transport
	opts      session.Options
	logger    *slog.Logger
	sess      *session.Session
}

// New creates a disconnected PowerSupply that opens sessions through t.
func New(t transport.Transport, opts session.Options) *PowerSupply {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PowerSupply{
		transport: t,
		opts:      opts,
		logger:    logger,
	}
}

// Connect opens a session to ep. Any session already open is closed first,
// so a failed Connect leaves the PowerSupply disconnected.
func (p *PowerSupply) Connect(ctx context.Context, ep discovery.Endpoint) error {
	if err := p.Close(); err != nil {
		p.logger.Warn("closing previous session", "resource", p.sess.Endpoint().Resource, "error", err)
	}
	p.sess = nil

	sess, err := session.Open(ctx, p.transport, ep, p.opts)
	if err != nil {
		return err
	}
	p.sess = sess
	p.logger.Info("connected", "resource", ep.Resource, "vendor", ep.Label())
	return nil
}

// Close closes the open session, if any. Calling Close more than once is
// safe.
func (p *PowerSupply) Close() error {
	if p.sess == nil {
		return nil
	}
	return p.sess.Close()
}

// Connected reports whether a session is open.
func (p *PowerSupply) Connected() bool {
	return p.sess.IsOpen()
}

// Endpoint returns the endpoint of the open session.
func (p *PowerSupply) Endpoint() (discovery.Endpoint, bool) {
	if !p.Connected() {
		return discovery.Endpoint{}, false
	}
	return p.sess.Endpoint(), true
}

// SessionID returns the trace identifier of the open session, or "".
func (p *PowerSupply) SessionID() string {
	if !p.Connected() {
		return ""
	}
	return p.sess.ID()
}

// SetVoltage programs the output voltage setpoint in volts.
func (p *PowerSupply) SetVoltage(volts float64) error {
	return p.setpoint(cmdVoltage, volts)
}

// SetCurrent programs the current limit in amperes.
func (p *PowerSupply) SetCurrent(amps float64) error {
	return p.setpoint(cmdCurrent, amps)
}

func (p *PowerSupply) setpoint(mnemonic string, v float64) error {
	if !p.Connected() {
		return fault.NotConnected(mnemonic)
	}
	if err := CheckSetpoint(mnemonic, v); err != nil {
		return err
	}
	return p.sess.SendLine(setpoint(mnemonic, v))
}

// SetOutput switches the output on or off.
func (p *PowerSupply) SetOutput(on bool) error {
	cmd := outputCommand(on)
	if !p.Connected() {
		return fault.NotConnected(cmd)
	}
	if err := p.sess.SendLine(cmd); err != nil {
		return err
	}
	p.sess.LogState(log.StateEntityOutput, "", onOff(on))
	return nil
}

// SetRemote locks (remote) or unlocks (local) the front panel.
func (p *PowerSupply) SetRemote(remote bool) error {
	cmd := remoteCommand(remote)
	if !p.Connected() {
		return fault.NotConnected(cmd)
	}
	if err := p.sess.SendLine(cmd); err != nil {
		return err
	}
	state := "LOCAL"
	if remote {
		state = "REMOTE"
	}
	p.sess.LogState(log.StateEntityControl, "", state)
	return nil
}

// MeasureVoltage reads the actual output voltage.
func (p *PowerSupply) MeasureVoltage() (float64, error) {
	return p.queryReading(cmdMeasureVoltage)
}

// MeasureCurrent reads the actual output current.
func (p *PowerSupply) MeasureCurrent() (float64, error) {
	return p.queryReading(cmdMeasureCurrent)
}

// Measure reads voltage, then current.
func (p *PowerSupply) Measure() (Measurement, error) {
	v, err := p.MeasureVoltage()
	if err != nil {
		return Measurement{}, err
	}
	c, err := p.MeasureCurrent()
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Voltage: v, Current: c}, nil
}

// Identify queries *IDN?.
func (p *PowerSupply) Identify() (Identity, error) {
	if !p.Connected() {
		return Identity{}, fault.NotConnected(cmdIdentify)
	}
	reply, err := p.sess.QueryLine(cmdIdentify)
	if err != nil {
		return Identity{}, err
	}
	id, err := parseIdentity(reply)
	if err != nil {
		err = fault.Malformed(cmdIdentify, reply, err)
		p.sess.LogError(cmdIdentify, err)
		return Identity{}, err
	}
	return id, nil
}

func (p *PowerSupply) queryReading(cmd string) (float64, error) {
	if !p.Connected() {
		return 0, fault.NotConnected(cmd)
	}
	reply, err := p.sess.QueryLine(cmd)
	if err != nil {
		return 0, err
	}
	v, err := parseReading(reply)
	if err != nil {
		err = fault.Malformed(cmd, reply, err)
		p.sess.LogError(cmd, err)
		return 0, err
	}
	return v, nil
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
