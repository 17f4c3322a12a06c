package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
)

const defaultCycleDwell = 2 * time.Second

func (d *Dispatcher) printErr(err error) {
	fmt.Fprintf(d.out, "Error: %v\n", err)
	if errors.Is(err, fault.ErrNotConnected) {
		fmt.Fprintln(d.out, "Not connected. Use 'connect' or 'list'.")
	}
}

// parseValue parses an operator-supplied number. A bad value is an
// InvalidParameter fault so it is reported like a rejected setpoint.
func parseValue(what, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fault.InvalidParameter(what, "%q is not a number", s)
	}
	return v, nil
}

func (d *Dispatcher) cmdSetpoint(args []string, what, unit string, set func(float64) error) {
	if len(args) < 1 {
		fmt.Fprintf(d.out, "Usage: %c <value>  (set %s in %s)\n", what[0], what, unit)
		return
	}
	v, err := parseValue(what, args[0])
	if err != nil {
		d.printErr(err)
		return
	}
	if err := set(v); err != nil {
		d.printErr(err)
		return
	}
	fmt.Fprintf(d.out, "Set %s to %s %s\n", what, formatValue(v), unit)
}

func (d *Dispatcher) cmdOutput(on bool) {
	if err := d.psu.SetOutput(on); err != nil {
		d.printErr(err)
		return
	}
	if on {
		fmt.Fprintln(d.out, "Output on")
	} else {
		fmt.Fprintln(d.out, "Output off")
	}
}

func (d *Dispatcher) cmdMeasure() {
	m, err := d.psu.Measure()
	if err != nil {
		d.printErr(err)
		return
	}
	fmt.Fprintf(d.out, "Measured: %s (%.4f W)\n", m, m.Power())
}

func (d *Dispatcher) cmdRemote(remote bool) {
	if err := d.psu.SetRemote(remote); err != nil {
		d.printErr(err)
		return
	}
	if remote {
		fmt.Fprintln(d.out, "Front panel locked (remote)")
	} else {
		fmt.Fprintln(d.out, "Front panel released (local)")
	}
}

func (d *Dispatcher) cmdIdentify() {
	id, err := d.psu.Identify()
	if err != nil {
		d.printErr(err)
		return
	}
	fmt.Fprintf(d.out, "Identity: %s\n", id)
}

func (d *Dispatcher) cmdList(ctx context.Context) {
	endpoints, err := d.list(ctx)
	if err != nil {
		d.printErr(err)
		return
	}
	if err := RenderEndpoints(d.out, endpoints, FormatText); err != nil {
		d.printErr(err)
	}
}

// cmdConnect accepts no argument (policy selection), a 1-based index into
// a fresh listing, or a resource address.
func (d *Dispatcher) cmdConnect(ctx context.Context, args []string) {
	var (
		ep  discovery.Endpoint
		err error
	)
	switch {
	case len(args) == 0:
		ep, err = d.Connect(ctx, "")
	default:
		if idx, convErr := strconv.Atoi(args[0]); convErr == nil {
			ep, err = d.connectIndex(ctx, idx)
		} else {
			ep, err = d.Connect(ctx, args[0])
		}
	}
	if err != nil {
		d.printErr(err)
		return
	}

	fmt.Fprintf(d.out, "Connected to %s\n", ep)
	if id, err := d.psu.Identify(); err != nil {
		fmt.Fprintf(d.out, "Warning: identification failed: %v\n", err)
	} else {
		fmt.Fprintf(d.out, "Identity: %s\n", id)
	}
}

func (d *Dispatcher) connectIndex(ctx context.Context, idx int) (discovery.Endpoint, error) {
	endpoints, err := d.list(ctx)
	if err != nil {
		return discovery.Endpoint{}, err
	}
	if idx < 1 || idx > len(endpoints) {
		return discovery.Endpoint{}, fault.InvalidParameter("connect", "index %d out of range 1..%d", idx, len(endpoints))
	}
	ep := endpoints[idx-1]
	return ep, d.psu.Connect(ctx, ep)
}

func (d *Dispatcher) cmdDisconnect() {
	if !d.psu.Connected() {
		fmt.Fprintln(d.out, "Not connected")
		return
	}
	if err := d.psu.Close(); err != nil {
		d.printErr(err)
		return
	}
	fmt.Fprintln(d.out, "Disconnected")
}

func (d *Dispatcher) cmdStatus() {
	ep, ok := d.psu.Endpoint()
	if !ok {
		fmt.Fprintln(d.out, "Status: not connected")
		return
	}
	fmt.Fprintln(d.out, "Status: connected")
	fmt.Fprintf(d.out, "  Resource:  %s\n", ep.Resource)
	fmt.Fprintf(d.out, "  Vendor:    %s\n", ep.Label())
	if ep.Signature != nil {
		fmt.Fprintf(d.out, "  Signature: %s\n", ep.Signature)
	}
	fmt.Fprintf(d.out, "  Session:   %s\n", d.psu.SessionID())
}

// cmdCycle sets v1 and enables the output, changes to v2 while the output
// stays on, then disables it, measuring after each change.
func (d *Dispatcher) cmdCycle(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(d.out, "Usage: cycle <v1> <v2> [seconds]")
		return
	}
	v1, err := parseValue("voltage", args[0])
	if err != nil {
		d.printErr(err)
		return
	}
	v2, err := parseValue("voltage", args[1])
	if err != nil {
		d.printErr(err)
		return
	}
	dwell := defaultCycleDwell
	if len(args) > 2 {
		secs, err := parseValue("dwell", args[2])
		if err != nil || secs < 0 {
			d.printErr(fault.InvalidParameter("dwell", "%q is not a non-negative number of seconds", args[2]))
			return
		}
		dwell = time.Duration(secs * float64(time.Second))
	}

	if err := d.runCycle(ctx, v1, v2, dwell); err != nil {
		d.printErr(err)
		// Leave the output off if the cycle was interrupted.
		if offErr := d.psu.SetOutput(false); offErr != nil && !errors.Is(offErr, fault.ErrNotConnected) {
			d.printErr(offErr)
		}
		return
	}
	fmt.Fprintln(d.out, "Cycle complete")
}

func (d *Dispatcher) runCycle(ctx context.Context, v1, v2 float64, dwell time.Duration) error {
	fmt.Fprintf(d.out, "Step 1: %s V, output on\n", formatValue(v1))
	if err := d.psu.SetVoltage(v1); err != nil {
		return err
	}
	if err := d.psu.SetOutput(true); err != nil {
		return err
	}
	if err := d.measureAfter(ctx, d.settle); err != nil {
		return err
	}
	if err := sleep(ctx, dwell); err != nil {
		return err
	}

	fmt.Fprintf(d.out, "Step 2: %s V, output stays on\n", formatValue(v2))
	if err := d.psu.SetVoltage(v2); err != nil {
		return err
	}
	if err := d.measureAfter(ctx, d.settle); err != nil {
		return err
	}
	if err := sleep(ctx, dwell); err != nil {
		return err
	}

	fmt.Fprintln(d.out, "Step 3: output off")
	return d.psu.SetOutput(false)
}

func (d *Dispatcher) measureAfter(ctx context.Context, delay time.Duration) error {
	if err := sleep(ctx, delay); err != nil {
		return err
	}
	v, err := d.psu.MeasureVoltage()
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "  -> %.3f V\n", v)
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
