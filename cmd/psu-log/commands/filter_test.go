package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/psu-tools/psu-go/pkg/log"
)

func readTrace(t *testing.T, path string) []log.Event {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	events, err := log.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	return events
}

func TestFilterBySessionID(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, SessionID: sessA, Category: log.CategoryCommand, Exchange: &log.ExchangeEvent{Line: "OUTP ON"}},
		{Timestamp: ts, SessionID: sessB, Category: log.CategoryCommand, Exchange: &log.ExchangeEvent{Line: "OUTP OFF"}},
		{Timestamp: ts, SessionID: sessA, Category: log.CategoryCommand, Exchange: &log.ExchangeEvent{Line: "VOLT 1"}},
	}
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.plog")

	count, err := RunFilter(path, outPath, FilterOptions{SessionID: sessA})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 events, got %d", count)
	}

	got := readTrace(t, outPath)
	if len(got) != 2 {
		t.Fatalf("expected 2 events in output file, got %d", len(got))
	}
	for _, e := range got {
		if e.SessionID != sessA {
			t.Errorf("unexpected session %s in output", e.SessionID)
		}
	}
	if got[1].Exchange == nil || got[1].Exchange.Line != "VOLT 1" {
		t.Errorf("expected order preserved, got %+v", got[1].Exchange)
	}
}

func TestFilterByTimeRange(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, SessionID: sessA},
		{Timestamp: base.Add(1 * time.Hour), SessionID: sessA},
		{Timestamp: base.Add(2 * time.Hour), SessionID: sessA},
	}
	path := createTestLogFile(t, events)
	outPath := filepath.Join(t.TempDir(), "filtered.plog")

	count, err := RunFilter(path, outPath, FilterOptions{
		TimeStart: base.Add(30 * time.Minute).Format(time.RFC3339),
		TimeEnd:   base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterByCommandAndResource(t *testing.T) {
	start := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleSession(start))
	outPath := filepath.Join(t.TempDir(), "filtered.plog")

	count, err := RunFilter(path, outPath, FilterOptions{Resource: rigol, Command: "volt"})
	if err != nil {
		t.Fatalf("RunFilter failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 event, got %d", count)
	}
}

func TestFilterInvalidOptions(t *testing.T) {
	path := createTestLogFile(t, nil)
	outPath := filepath.Join(t.TempDir(), "filtered.plog")

	tests := []FilterOptions{
		{Direction: "up"},
		{Category: "frame"},
		{TimeStart: "yesterday"},
		{TimeEnd: "2026-13-01"},
	}
	for _, opts := range tests {
		if _, err := RunFilter(path, outPath, opts); err == nil {
			t.Errorf("expected error for %+v", opts)
		}
	}
}

func TestFilterMissingInput(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "filtered.plog")
	if _, err := RunFilter("/nonexistent/trace.plog", outPath, FilterOptions{}); err == nil {
		t.Error("expected error for missing input")
	}
}
