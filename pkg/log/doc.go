// Package log provides the protocol trace for instrument sessions.
//
// This package defines the Logger interface and Event types for capturing
// every line exchanged with an instrument, along with session state changes
// and failures. It is separate from operational logging (slog): the trace is
// a complete machine-readable record for debugging a bench setup.
//
// # Basic Usage
//
// Sessions are configured with a Logger implementation:
//
//	// For development: log to console via slog
//	opts.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For a record of the run: write to binary file
//	opts.ProtocolLogger, _ = log.NewFileLogger("bench.plog")
//
//	// Both: use MultiLogger
//	opts.ProtocolLogger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
//   - Exchange: a command written (OUT) or a response read (IN)
//   - StateChange: session opened/closed, output switched, remote/local
//   - Error: write, read or parse failures with their fault kind
//
// # File Format
//
// Trace files are a stream of CBOR-encoded events with the .plog extension.
// The psu-log CLI tool provides viewing, filtering, and export capabilities.
package log
