package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/psu-tools/psu-go/pkg/log"
)

// exportRecord is the flat, format-neutral view of an event.
type exportRecord struct {
	Timestamp string `json:"timestamp" yaml:"timestamp"`
	SessionID string `json:"session_id" yaml:"session_id"`
	Direction string `json:"direction" yaml:"direction"`
	Category  string `json:"category" yaml:"category"`
	Resource  string `json:"resource,omitempty" yaml:"resource,omitempty"`
	Line      string `json:"line,omitempty" yaml:"line,omitempty"`
	Query     bool   `json:"query,omitempty" yaml:"query,omitempty"`
	LatencyNS int64  `json:"latency_ns,omitempty" yaml:"latency_ns,omitempty"`
	Entity    string `json:"entity,omitempty" yaml:"entity,omitempty"`
	OldState  string `json:"old_state,omitempty" yaml:"old_state,omitempty"`
	NewState  string `json:"new_state,omitempty" yaml:"new_state,omitempty"`
	Reason    string `json:"reason,omitempty" yaml:"reason,omitempty"`
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	ErrorMsg  string `json:"error_message,omitempty" yaml:"error_message,omitempty"`
	Context   string `json:"context,omitempty" yaml:"context,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	rec := exportRecord{
		Timestamp: event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		SessionID: event.SessionID,
		Direction: event.Direction.String(),
		Category:  event.Category.String(),
		Resource:  event.Resource,
	}
	if ex := event.Exchange; ex != nil {
		rec.Line = ex.Line
		rec.Query = ex.Query
		if ex.Latency != nil {
			rec.LatencyNS = ex.Latency.Nanoseconds()
		}
	}
	if sc := event.StateChange; sc != nil {
		rec.Entity = sc.Entity.String()
		rec.OldState = sc.OldState
		rec.NewState = sc.NewState
		rec.Reason = sc.Reason
	}
	if e := event.Error; e != nil {
		rec.ErrorKind = e.Kind
		rec.ErrorMsg = e.Message
		rec.Context = e.Context
	}
	return rec
}

// RunExport exports the trace file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return export(reader, format, w)
}

func export(reader *log.Reader, format string, w io.Writer) error {
	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	case "yaml", "yml":
		return exportYAML(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv, yaml)", format)
	}
}

// each calls fn for every remaining event of reader.
func each(reader *log.Reader, fn func(log.Event) error) error {
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return each(reader, func(event log.Event) error {
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "category", "resource", "type", "line", "latency_ns"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return each(reader, func(event log.Event) error {
		rec := newExportRecord(event)
		eventType := "unknown"
		switch {
		case event.Exchange != nil:
			eventType = "exchange"
		case event.StateChange != nil:
			eventType = "state"
		case event.Error != nil:
			eventType = "error"
		}
		latency := ""
		if rec.LatencyNS > 0 {
			latency = strconv.FormatInt(rec.LatencyNS, 10)
		}

		row := []string{
			rec.Timestamp,
			rec.SessionID,
			rec.Direction,
			rec.Category,
			rec.Resource,
			eventType,
			rec.Line,
			latency,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
}

// exportYAML writes the events as a single YAML sequence.
func exportYAML(reader *log.Reader, w io.Writer) error {
	var records []exportRecord
	if err := each(reader, func(event log.Event) error {
		records = append(records, newExportRecord(event))
		return nil
	}); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	return enc.Close()
}
