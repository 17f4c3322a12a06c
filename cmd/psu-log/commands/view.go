package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/psu-tools/psu-go/pkg/log"
)

// RunView writes the events of path matching filter in human-readable form.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}

// formatEvent writes a human-readable representation of an event.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	fmt.Fprintf(w, "%s [sess:%s] %-3s %-8s %s\n",
		ts,
		shortenSessionID(event.SessionID),
		event.Direction.String(),
		event.Category.String(),
		eventSummary(event),
	)

	switch {
	case event.StateChange != nil:
		if event.StateChange.Reason != "" {
			fmt.Fprintf(w, "  Reason: %s\n", event.StateChange.Reason)
		}
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}
}

// eventSummary returns the one-line description shown after the header.
func eventSummary(event log.Event) string {
	switch {
	case event.Exchange != nil:
		ex := event.Exchange
		if ex.Latency != nil {
			return fmt.Sprintf("%q (%s)", ex.Line, formatDuration(*ex.Latency))
		}
		return fmt.Sprintf("%q", ex.Line)
	case event.StateChange != nil:
		sc := event.StateChange
		from := sc.OldState
		if from == "" {
			from = "-"
		}
		return fmt.Sprintf("%s %s -> %s", sc.Entity.String(), from, sc.NewState)
	case event.Error != nil:
		return event.Error.Kind
	case event.Resource != "":
		return event.Resource
	default:
		return "(empty)"
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// shortenSessionID returns the first 8 characters of a session ID.
func shortenSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
