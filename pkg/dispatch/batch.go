package dispatch

import (
	"context"
	"strconv"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/scpi"
)

// Request is a fully resolved batch invocation.
type Request struct {
	// Address overrides endpoint selection when non-empty.
	Address string

	Voltage *float64
	Current *float64
	Output  *bool

	// Measure reads voltage and current after the setpoints.
	Measure bool

	// Local releases the front panel as the last step.
	Local bool
}

// Empty reports whether the request asks for no instrument operation.
func (r Request) Empty() bool {
	return r.Voltage == nil && r.Current == nil && r.Output == nil && !r.Measure && !r.Local
}

// Validate checks the setpoints with the same rule the instrument commands
// apply, so a bad value is caught before anything is sent.
func (r Request) Validate() error {
	_, err := r.invalidStep()
	return err
}

// invalidStep returns the first step whose setpoint is rejected, in
// execution order.
func (r Request) invalidStep() (StepName, error) {
	if r.Current != nil {
		if err := scpi.CheckSetpoint("CURR", *r.Current); err != nil {
			return StepCurrent, err
		}
	}
	if r.Voltage != nil {
		if err := scpi.CheckSetpoint("VOLT", *r.Voltage); err != nil {
			return StepVoltage, err
		}
	}
	return "", nil
}

// StepName names a batch pipeline step.
type StepName string

// Pipeline steps, in execution order.
const (
	StepConnect StepName = "connect"
	StepCurrent StepName = "current"
	StepVoltage StepName = "voltage"
	StepOutput  StepName = "output"
	StepMeasure StepName = "measure"
	StepLocal   StepName = "local"
	StepClose   StepName = "close"
)

// StepStatus is the outcome of one step.
type StepStatus string

const (
	StatusOK      StepStatus = "ok"
	StatusFailed  StepStatus = "failed"
	StatusSkipped StepStatus = "skipped"
)

// Step records one executed or skipped pipeline step.
type Step struct {
	Name   StepName
	Detail string
	Status StepStatus
	Err    error
}

// Report aggregates a batch run. Err is the first failure verbatim, or nil.
type Report struct {
	Endpoint    discovery.Endpoint
	Steps       []Step
	Measurement *scpi.Measurement
	Err         error
}

// OK reports whether every step succeeded.
func (r *Report) OK() bool {
	return r.Err == nil
}

// Failed returns the step that failed first.
func (r *Report) Failed() (Step, bool) {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s, true
		}
	}
	return Step{}, false
}

type plannedStep struct {
	name   StepName
	detail string
	run    func() error
}

// RunBatch executes req in the fixed order connect, current, voltage,
// output, measure, local, close. The first failure skips the remaining
// steps; close runs regardless. An invalid setpoint fails the run before
// any endpoint is selected or opened.
func (d *Dispatcher) RunBatch(ctx context.Context, req Request) *Report {
	report := &Report{}

	if bad, err := req.invalidStep(); err != nil {
		report.skip(StepConnect, req.Address)
		for _, p := range d.plan(ctx, req, report) {
			if p.name == bad {
				report.record(p.name, p.detail, err)
				continue
			}
			report.skip(p.name, p.detail)
		}
		return report
	}

	ep, err := d.Connect(ctx, req.Address)
	report.Endpoint = ep
	if err != nil {
		detail := req.Address
		if detail == "" {
			detail = ep.Resource
		}
		report.record(StepConnect, detail, err)
		for _, p := range d.plan(ctx, req, report) {
			report.skip(p.name, p.detail)
		}
		return report
	}
	report.record(StepConnect, ep.Resource, nil)

	for _, p := range d.plan(ctx, req, report) {
		if report.Err != nil {
			report.skip(p.name, p.detail)
			continue
		}
		report.record(p.name, p.detail, p.run())
	}

	// A close failure never masks an earlier one.
	report.record(StepClose, ep.Resource, d.psu.Close())
	return report
}

func (d *Dispatcher) plan(ctx context.Context, req Request, report *Report) []plannedStep {
	var steps []plannedStep

	if req.Current != nil {
		c := *req.Current
		steps = append(steps, plannedStep{StepCurrent, "CURR " + formatValue(c), func() error {
			return d.psu.SetCurrent(c)
		}})
	}
	if req.Voltage != nil {
		v := *req.Voltage
		steps = append(steps, plannedStep{StepVoltage, "VOLT " + formatValue(v), func() error {
			return d.psu.SetVoltage(v)
		}})
	}
	switchedOn := false
	if req.Output != nil {
		on := *req.Output
		switchedOn = on
		detail := "OUTP OFF"
		if on {
			detail = "OUTP ON"
		}
		steps = append(steps, plannedStep{StepOutput, detail, func() error {
			return d.psu.SetOutput(on)
		}})
	}
	if req.Measure {
		steps = append(steps, plannedStep{StepMeasure, "MEAS:VOLT? MEAS:CURR?", func() error {
			if switchedOn {
				if err := sleep(ctx, d.settle); err != nil {
					return fault.New(fault.KindCommunication, "settle", err)
				}
			}
			m, err := d.psu.Measure()
			if err != nil {
				return err
			}
			report.Measurement = &m
			return nil
		}})
	}
	if req.Local {
		steps = append(steps, plannedStep{StepLocal, "SYST:LOCAL", func() error {
			return d.psu.SetRemote(false)
		}})
	}
	return steps
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *Report) record(name StepName, detail string, err error) {
	s := Step{Name: name, Detail: detail, Status: StatusOK}
	if err != nil {
		s.Status = StatusFailed
		s.Err = err
		if r.Err == nil {
			r.Err = err
		}
	}
	r.Steps = append(r.Steps, s)
}

func (r *Report) skip(name StepName, detail string) {
	r.Steps = append(r.Steps, Step{Name: name, Detail: detail, Status: StatusSkipped})
}
