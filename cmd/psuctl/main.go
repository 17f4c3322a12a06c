// Command psuctl controls a bench power supply over SCPI.
//
// Without -interactive it runs one batch request and exits: it selects the
// instrument, applies the requested settings in a fixed order (current,
// voltage, output), optionally measures and releases the front panel, then
// closes the session. The exit status is 0 on success, 1 on any failure and
// 2 for invalid usage.
//
// Usage:
//
//	psuctl [flags]
//
// Flags:
//
//	-address string     Instrument resource (default: auto-select)
//	-v float            Set voltage (V)
//	-c float            Set current limit (A)
//	-o on|off           Switch output
//	-m                  Measure voltage and current after the settings
//	-local              Release the front panel when done
//	-list               List available endpoints and exit
//	-format string      Output format for -list and the report: text, json, yaml
//	-interactive        Enter interactive command mode
//	-fallback           Use the first endpoint if no preferred instrument is found
//	-signature string   Preferred instrument vendor:product (default 0x1AB1:0x0E11)
//	-timeout duration   Connection and read timeout (default 2s)
//	-settle duration    Delay before measuring a freshly enabled output (default 500ms)
//	-baud int           Serial baud rate (default 9600)
//	-mdns               Browse for network instruments (default true)
//	-trace string       Write the SCPI trace to a .plog file
//	-verbose            Print the SCPI trace to stderr
//	-log-level string   Log level: debug, info, warn, error (default "info")
//
// Examples:
//
//	# 12 V, 2 A limit, output on
//	psuctl -v 12 -c 2 -o on
//
//	# Measure only, on an explicit instrument
//	psuctl -address TCPIP0::192.168.1.50::5555::SOCKET -m
//
//	# List what is attached, as YAML
//	psuctl -list -format yaml
//
//	# Interactive session with a trace file
//	psuctl -interactive -trace bench.plog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.bug.st/serial"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/dispatch"
	plog "github.com/psu-tools/psu-go/pkg/log"
	"github.com/psu-tools/psu-go/pkg/scpi"
	"github.com/psu-tools/psu-go/pkg/session"
	"github.com/psu-tools/psu-go/pkg/transport"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// Config holds the psuctl configuration.
type Config struct {
	Address string
	Voltage *float64
	Current *float64
	Output  *bool
	Measure bool
	Local   bool

	List        bool
	Format      string
	Interactive bool
	Fallback    bool
	FallbackSet bool
	Signature   discovery.Signature

	Timeout     time.Duration
	Settle      time.Duration
	Baud        int
	SerialUSB   bool
	MDNS        bool
	MDNSTimeout time.Duration
	MDNSIface   string

	Trace    string
	Verbose  bool
	LogLevel string
}

var config Config

func init() {
	flag.StringVar(&config.Address, "address", "", "Instrument resource (default: auto-select)")
	flag.StringVar(&config.Address, "a", "", "Shorthand for -address")
	flag.Func("v", "Set voltage (V)", setpointFlag("VOLT", &config.Voltage))
	flag.Func("c", "Set current limit (A)", setpointFlag("CURR", &config.Current))
	flag.Func("o", "Switch output: on, off", outputFlag(&config.Output))
	flag.BoolVar(&config.Measure, "m", false, "Measure voltage and current after the settings")
	flag.BoolVar(&config.Local, "local", false, "Release the front panel when done")

	flag.BoolVar(&config.List, "list", false, "List available endpoints and exit")
	flag.BoolVar(&config.List, "l", false, "Shorthand for -list")
	flag.StringVar(&config.Format, "format", "text", "Output format: text, json, yaml")
	flag.BoolVar(&config.Interactive, "interactive", false, "Enter interactive command mode")
	flag.BoolVar(&config.Fallback, "fallback", false, "Use the first endpoint if no preferred instrument is found (default: on in interactive mode)")
	flag.TextVar(&config.Signature, "signature", discovery.DefaultTarget, "Preferred instrument vendor:product")

	flag.DurationVar(&config.Timeout, "timeout", transport.DefaultTimeout, "Connection and read timeout")
	flag.DurationVar(&config.Settle, "settle", dispatch.DefaultSettleDelay, "Delay before measuring a freshly enabled output")
	flag.IntVar(&config.Baud, "baud", transport.DefaultBaudRate, "Serial baud rate")
	flag.BoolVar(&config.SerialUSB, "serial-usb-only", true, "Only list USB serial adapters")
	flag.BoolVar(&config.MDNS, "mdns", true, "Browse for network instruments over mDNS")
	flag.DurationVar(&config.MDNSTimeout, "mdns-timeout", transport.DefaultBrowseTimeout, "mDNS browse duration")
	flag.StringVar(&config.MDNSIface, "mdns-iface", "", "Network interface for mDNS (default: all)")

	flag.StringVar(&config.Trace, "trace", "", "Write the SCPI trace to a .plog file")
	flag.BoolVar(&config.Verbose, "verbose", false, "Print the SCPI trace to stderr")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "fallback" {
			config.FallbackSet = true
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, &config)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, cfg *Config) int {
	setupLogging(cfg.LogLevel)

	format, err := dispatch.ParseFormat(cfg.Format)
	if err != nil {
		log.Printf("Invalid -format: %v", err)
		return exitUsage
	}

	req := cfg.Request()
	if err := req.Validate(); err != nil {
		log.Printf("Invalid request: %v", err)
		return exitUsage
	}
	if !cfg.List && !cfg.Interactive && req.Empty() {
		flag.Usage()
		fmt.Fprintln(os.Stderr, "\nSpecify at least one operation, e.g.: psuctl -v 5.0 -o on")
		return exitUsage
	}

	logger := newSlogLogger(cfg.LogLevel)
	protocolLogger, closeTrace, err := setupTrace(cfg, logger)
	if err != nil {
		log.Printf("Failed to open trace: %v", err)
		return exitFailure
	}
	defer closeTrace()

	tr := buildTransport(cfg, logger)
	dcfg := dispatch.Config{
		Catalog:   discovery.NewCatalog(tr),
		Transport: tr,
		Policy:    cfg.Policy(),
		SessionOptions: session.Options{
			Timeout:        cfg.Timeout,
			Logger:         logger,
			ProtocolLogger: protocolLogger,
		},
		SettleDelay: cfg.Settle,
	}

	switch {
	case cfg.List:
		return runList(ctx, dcfg.Catalog, format)
	case cfg.Interactive:
		return runInteractive(ctx, cfg, dcfg)
	}

	dcfg.Out = os.Stdout
	d := dispatch.New(dcfg)
	report := d.RunBatch(ctx, req)
	if err := report.RenderFormat(os.Stdout, format); err != nil {
		log.Printf("Failed to write report: %v", err)
	}
	if !report.OK() {
		return exitFailure
	}
	return exitOK
}

func runList(ctx context.Context, catalog *discovery.Catalog, format dispatch.Format) int {
	endpoints, err := catalog.List(ctx)
	if err != nil {
		log.Printf("Listing endpoints failed: %v", err)
		return exitFailure
	}
	if err := dispatch.RenderEndpoints(os.Stdout, endpoints, format); err != nil {
		log.Printf("Failed to write listing: %v", err)
		return exitFailure
	}
	return exitOK
}

// Request converts the batch flags into a dispatch.Request.
func (c *Config) Request() dispatch.Request {
	return dispatch.Request{
		Address: c.Address,
		Voltage: c.Voltage,
		Current: c.Current,
		Output:  c.Output,
		Measure: c.Measure,
		Local:   c.Local,
	}
}

// Policy returns the selection policy: batch mode is strict and
// interactive mode permissive unless -fallback was given explicitly.
func (c *Config) Policy() discovery.SelectPolicy {
	fallback := c.Interactive
	if c.FallbackSet {
		fallback = c.Fallback
	}
	return discovery.SelectPolicy{Preferred: c.Signature, AllowFallback: fallback}
}

// buildTransport registers the USBTMC, serial and socket backends, in that
// enumeration order.
func buildTransport(cfg *Config, logger *slog.Logger) *transport.Registry {
	tcp := &transport.TCPSocket{}
	if cfg.MDNS {
		tcp.Browser = &transport.MDNSBrowser{
			Timeout:   cfg.MDNSTimeout,
			Interface: cfg.MDNSIface,
		}
	}
	return transport.NewRegistry(logger,
		&transport.USBTMC{},
		&transport.Serial{
			Mode:    serial.Mode{BaudRate: cfg.Baud},
			USBOnly: cfg.SerialUSB,
		},
		tcp,
	)
}

// setupTrace assembles the protocol logger from -verbose and -trace.
func setupTrace(cfg *Config, logger *slog.Logger) (plog.Logger, func(), error) {
	var loggers []plog.Logger
	closeFn := func() {}

	if cfg.Verbose {
		verbose := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		loggers = append(loggers, plog.NewSlogAdapter(verbose))
	}
	if cfg.Trace != "" {
		fl, err := plog.NewFileLogger(cfg.Trace)
		if err != nil {
			return nil, closeFn, err
		}
		loggers = append(loggers, fl)
		closeFn = func() {
			written, dropped := fl.Stats()
			logger.Debug("trace closed", "path", fl.Path(), "events", written, "dropped", dropped)
			if err := fl.Close(); err != nil {
				log.Printf("Warning: closing trace: %v", err)
			}
		}
	}

	switch len(loggers) {
	case 0:
		return nil, closeFn, nil
	case 1:
		return loggers[0], closeFn, nil
	default:
		return plog.NewMultiLogger(loggers...), closeFn, nil
	}
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}

// newSlogLogger returns the logger handed to library packages. Below debug
// level they stay quiet unless something needs a warning.
func newSlogLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(logWriter{}, &slog.HandlerOptions{Level: lvl}))
}

// logWriter routes slog output through the standard logger so it follows
// log.SetOutput (readline redirects it in interactive mode).
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	if err := log.Output(2, strings.TrimRight(string(p), "\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}

var _ io.Writer = logWriter{}

// setpointFlag parses a voltage or current flag. flag reports a returned
// error as a usage error (exit 2).
func setpointFlag(op string, dst **float64) func(string) error {
	return func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("not a number: %q", s)
		}
		if err := scpi.CheckSetpoint(op, v); err != nil {
			return err
		}
		*dst = &v
		return nil
	}
}

func outputFlag(dst **bool) func(string) error {
	return func(s string) error {
		on, err := parseOnOff(s)
		if err != nil {
			return err
		}
		*dst = &on
		return nil
	}
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}
