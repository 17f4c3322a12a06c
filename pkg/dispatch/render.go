package dispatch

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/scpi"
)

// Format selects how listings and reports are rendered.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a -format flag value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (use: text, json, yaml)", s)
	}
}

// RenderEndpoints writes a catalog listing.
func RenderEndpoints(w io.Writer, endpoints []discovery.Endpoint, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, endpoints)
	case FormatYAML:
		return writeYAML(w, endpoints)
	}

	if len(endpoints) == 0 {
		_, err := fmt.Fprintln(w, "No endpoints found")
		return err
	}
	if _, err := fmt.Fprintf(w, "Found %d endpoint(s):\n", len(endpoints)); err != nil {
		return err
	}
	for i, ep := range endpoints {
		line := fmt.Sprintf("  %d. %s", i+1, ep.Resource)
		if ep.VendorLabel != "" {
			line += " [" + ep.VendorLabel + "]"
		} else if ep.Signature != nil {
			line += " [" + ep.Signature.String() + "]"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// reportView is the serialized form of a Report.
type reportView struct {
	Endpoint    discovery.Endpoint `json:"endpoint" yaml:"endpoint"`
	Success     bool               `json:"success" yaml:"success"`
	Steps       []stepView         `json:"steps" yaml:"steps"`
	Measurement *scpi.Measurement  `json:"measurement,omitempty" yaml:"measurement,omitempty"`
	Error       string             `json:"error,omitempty" yaml:"error,omitempty"`
	Kind        string             `json:"kind,omitempty" yaml:"kind,omitempty"`
}

type stepView struct {
	Name   StepName   `json:"name" yaml:"name"`
	Detail string     `json:"detail,omitempty" yaml:"detail,omitempty"`
	Status StepStatus `json:"status" yaml:"status"`
	Error  string     `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r *Report) view() reportView {
	v := reportView{
		Endpoint:    r.Endpoint,
		Success:     r.OK(),
		Measurement: r.Measurement,
		Steps:       make([]stepView, 0, len(r.Steps)),
	}
	for _, s := range r.Steps {
		sv := stepView{Name: s.Name, Detail: s.Detail, Status: s.Status}
		if s.Err != nil {
			sv.Error = s.Err.Error()
		}
		v.Steps = append(v.Steps, sv)
	}
	if r.Err != nil {
		v.Error = r.Err.Error()
		v.Kind = fault.KindOf(r.Err).String()
	}
	return v
}

// Render writes the report as text.
func (r *Report) Render(w io.Writer) error {
	return r.RenderFormat(w, FormatText)
}

// RenderFormat writes the report in the given format.
func (r *Report) RenderFormat(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, r.view())
	case FormatYAML:
		return writeYAML(w, r.view())
	}

	var b strings.Builder
	if r.Endpoint.Resource != "" {
		fmt.Fprintf(&b, "Device: %s\n", r.Endpoint)
	}
	for _, s := range r.Steps {
		tag := "[ok]  "
		switch s.Status {
		case StatusFailed:
			tag = "[FAIL]"
		case StatusSkipped:
			tag = "[skip]"
		}
		fmt.Fprintf(&b, "  %s %-8s %s", tag, s.Name, s.Detail)
		if s.Err != nil {
			fmt.Fprintf(&b, ": %v", s.Err)
		}
		b.WriteString("\n")
	}
	if r.Measurement != nil {
		fmt.Fprintf(&b, "Measured: %s\n", r.Measurement)
	}
	if failed, ok := r.Failed(); ok {
		fmt.Fprintf(&b, "Result: FAILED at %s (%s): %v\n", failed.Name, fault.KindOf(failed.Err), failed.Err)
	} else {
		b.WriteString("Result: OK\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
