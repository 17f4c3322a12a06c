package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/scpi"
	"github.com/psu-tools/psu-go/pkg/session"
	"github.com/psu-tools/psu-go/pkg/transport"
)

// DefaultSettleDelay is how long the batch pipeline waits after switching
// the output on before it measures.
const DefaultSettleDelay = 500 * time.Millisecond

// Config configures a Dispatcher.
type Config struct {
	// Catalog lists endpoints for automatic selection and "list".
	Catalog *discovery.Catalog

	// Transport opens sessions.
	Transport transport.Transport

	// Policy selects the endpoint when no address is given.
	Policy discovery.SelectPolicy

	// SessionOptions are passed to every session.
	SessionOptions session.Options

	// Out receives operator-facing output. Default: os.Stdout.
	Out io.Writer

	// SettleDelay is waited before measuring a freshly enabled output.
	// Zero waits nothing; use DefaultSettleDelay for real instruments.
	SettleDelay time.Duration
}

// Dispatcher maps operator requests onto one scpi.PowerSupply.
type Dispatcher struct {
	catalog *discovery.Catalog
	policy  discovery.SelectPolicy
	psu     *scpi.PowerSupply
	out     io.Writer
	logger  *slog.Logger
	settle  time.Duration
}

// New creates a Dispatcher. It does not connect.
func New(cfg Config) *Dispatcher {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	logger := cfg.SessionOptions.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		catalog: cfg.Catalog,
		policy:  cfg.Policy,
		psu:     scpi.New(cfg.Transport, cfg.SessionOptions),
		out:     out,
		logger:  logger,
		settle:  cfg.SettleDelay,
	}
}

// PowerSupply returns the controlled instrument.
func (d *Dispatcher) PowerSupply() *scpi.PowerSupply {
	return d.psu
}

// Close closes the session, if one is open.
func (d *Dispatcher) Close() error {
	return d.psu.Close()
}

// Resolve picks the endpoint to connect to: the address if one is given,
// otherwise the policy's choice from a fresh catalog listing.
func (d *Dispatcher) Resolve(ctx context.Context, address string) (discovery.Endpoint, error) {
	if address != "" {
		return discovery.ResolveAddress(address)
	}
	endpoints, err := d.list(ctx)
	if err != nil {
		return discovery.Endpoint{}, err
	}
	return d.policy.Select(endpoints)
}

// Connect resolves address (see Resolve) and opens a session to it,
// replacing any open session.
func (d *Dispatcher) Connect(ctx context.Context, address string) (discovery.Endpoint, error) {
	ep, err := d.Resolve(ctx, address)
	if err != nil {
		return discovery.Endpoint{}, err
	}
	if err := d.psu.Connect(ctx, ep); err != nil {
		return ep, err
	}
	return ep, nil
}

func (d *Dispatcher) list(ctx context.Context) ([]discovery.Endpoint, error) {
	if d.catalog == nil {
		return nil, errors.New("no catalog configured")
	}
	return d.catalog.List(ctx)
}

// LineReader supplies interactive input lines. *readline.Instance
// satisfies it.
type LineReader interface {
	Readline() (string, error)
}

// RunInteractive evaluates lines from r until quit, end of input, an
// interrupt, or ctx is done. The session is closed before it returns.
func (d *Dispatcher) RunInteractive(ctx context.Context, r LineReader) error {
	defer func() {
		if err := d.psu.Close(); err != nil {
			d.logger.Warn("closing session", "error", err)
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(d.out, "Exiting...")
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if d.Execute(ctx, line) {
			return nil
		}
	}
}

// Execute evaluates one interactive line and reports whether it asked to
// quit. Errors are printed, never returned.
func (d *Dispatcher) Execute(ctx context.Context, line string) (quit bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?", "h":
		d.printHelp()

	case "v", "volt", "voltage":
		d.cmdSetpoint(args, "voltage", "V", d.psu.SetVoltage)

	case "c", "curr", "current":
		d.cmdSetpoint(args, "current", "A", d.psu.SetCurrent)

	case "on":
		d.cmdOutput(true)

	case "off":
		d.cmdOutput(false)

	case "m", "meas", "measure":
		d.cmdMeasure()

	case "l", "ls", "list":
		d.cmdList(ctx)

	case "local":
		d.cmdRemote(false)

	case "remote":
		d.cmdRemote(true)

	case "idn", "id":
		d.cmdIdentify()

	case "connect":
		d.cmdConnect(ctx, args)

	case "disconnect":
		d.cmdDisconnect()

	case "cycle":
		d.cmdCycle(ctx, args)

	case "status":
		d.cmdStatus()

	case "q", "quit", "exit":
		fmt.Fprintln(d.out, "Exiting...")
		if err := d.psu.Close(); err != nil {
			d.printErr(err)
		}
		return true

	default:
		fmt.Fprintf(d.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

// Commands lists the interactive vocabulary, for completion.
func Commands() []string {
	return []string{
		"v", "c", "on", "off", "measure", "list", "local", "remote",
		"idn", "connect", "disconnect", "cycle", "status", "help", "quit",
	}
}

func (d *Dispatcher) printHelp() {
	fmt.Fprintln(d.out, `
Power Supply Commands:
  Setpoints:
    v <volts>                  - Set output voltage (e.g. v 5.0)
    c <amps>                   - Set current limit (e.g. c 1.0)
    on | off                   - Switch output
    m                          - Measure voltage and current

  Connection:
    l                          - List available endpoints
    connect [index|address]    - Connect (default: preferred instrument)
    disconnect                 - Close the session
    idn                        - Query instrument identity
    remote | local             - Lock or release the front panel
    status                     - Show connection status

  Sequences:
    cycle <v1> <v2> [seconds]  - v1 + output on, then v2, then output off

  General:
    help                       - Show this help
    q                          - Exit`)
}
