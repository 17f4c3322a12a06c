package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/psu-tools/psu-go/pkg/log"
)

const (
	sessA = "3f2a9c1e-0000-4000-8000-000000000001"
	sessB = "7b1d0e44-0000-4000-8000-000000000002"
	rigol = "USB0::0x1AB1::0x0E11::DP8C000001::INSTR"
)

// createTestLogFile writes events to a fresh trace file and returns its path.
func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

// sampleSession is a short session: open, set voltage, measure, close.
func sampleSession(start time.Time) []log.Event {
	latency := 3 * time.Millisecond
	return []log.Event{
		{
			Timestamp: start, SessionID: sessA, Resource: rigol, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntitySession, NewState: log.StateOpen},
		},
		{
			Timestamp: start.Add(10 * time.Millisecond), SessionID: sessA, Resource: rigol,
			Direction: log.DirectionOut, Category: log.CategoryCommand,
			Exchange: &log.ExchangeEvent{Line: "VOLT 5"},
		},
		{
			Timestamp: start.Add(20 * time.Millisecond), SessionID: sessA, Resource: rigol,
			Direction: log.DirectionOut, Category: log.CategoryCommand,
			Exchange: &log.ExchangeEvent{Line: "MEAS:VOLT?", Query: true},
		},
		{
			Timestamp: start.Add(23 * time.Millisecond), SessionID: sessA, Resource: rigol,
			Direction: log.DirectionIn, Category: log.CategoryResponse,
			Exchange: &log.ExchangeEvent{Line: "5.0012", Latency: &latency},
		},
		{
			Timestamp: start.Add(30 * time.Millisecond), SessionID: sessA, Resource: rigol, Category: log.CategoryState,
			StateChange: &log.StateChangeEvent{Entity: log.StateEntitySession, OldState: log.StateOpen, NewState: log.StateClosed},
		},
	}
}
