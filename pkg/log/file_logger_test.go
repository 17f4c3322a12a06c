package log

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileLoggerCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.plog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	defer logger.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("trace file not created: %v", err)
	}
	if logger.Path() != path {
		t.Errorf("Path() = %q, want %q", logger.Path(), path)
	}
}

func TestFileLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.plog")

	for i, line := range []string{"VOLT 5", "CURR 1"} {
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger #%d: %v", i, err)
		}
		logger.Log(Event{Timestamp: time.Now(), Exchange: &ExchangeEvent{Line: line}})
		if err := logger.Close(); err != nil {
			t.Fatalf("Close #%d: %v", i, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	events, err := ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Exchange.Line != "VOLT 5" || events[1].Exchange.Line != "CURR 1" {
		t.Errorf("unexpected lines: %q, %q", events[0].Exchange.Line, events[1].Exchange.Line)
	}
}

func TestFileLoggerThreadSafe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.plog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				logger.Log(Event{Timestamp: time.Now(), Category: CategoryCommand, Exchange: &ExchangeEvent{Line: "MEAS:VOLT?", Query: true}})
			}
		}()
	}
	wg.Wait()

	written, dropped := logger.Stats()
	if written != workers*perWorker || dropped != 0 {
		t.Errorf("Stats() = %d, %d; want %d, 0", written, dropped, workers*perWorker)
	}
	logger.Close()

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	count := 0
	for {
		_, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		count++
	}
	if count != workers*perWorker {
		t.Errorf("read %d events, want %d", count, workers*perWorker)
	}
}

func TestFileLoggerClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.plog")
	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("first Close: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	// Ignored after close.
	logger.Log(Event{SessionID: "late"})
	if written, _ := logger.Stats(); written != 0 {
		t.Errorf("written = %d after close, want 0", written)
	}
}

func TestFileLoggerBadPath(t *testing.T) {
	if _, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "bench.plog")); err == nil {
		t.Error("expected error for missing directory")
	}
}
