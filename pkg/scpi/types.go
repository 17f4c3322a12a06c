package scpi

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Measurement is one voltage/current reading. It is a snapshot and is not
// retained by the PowerSupply.
type Measurement struct {
	Voltage float64 `json:"voltage" yaml:"voltage"`
	Current float64 `json:"current" yaml:"current"`
}

// Power returns Voltage * Current in watts.
func (m Measurement) Power() float64 {
	return m.Voltage * m.Current
}

func (m Measurement) String() string {
	return fmt.Sprintf("%.4f V, %.4f A", m.Voltage, m.Current)
}

// Identity is the parsed reply to *IDN?.
type Identity struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Model        string `json:"model" yaml:"model"`
	Serial       string `json:"serial" yaml:"serial"`
	Firmware     string `json:"firmware" yaml:"firmware"`
}

func (id Identity) String() string {
	return strings.Join([]string{id.Manufacturer, id.Model, id.Serial, id.Firmware}, ",")
}

// parseIdentity splits an IEEE 488.2 identification string into its four
// comma-separated fields.
func parseIdentity(reply string) (Identity, error) {
	fields := strings.Split(reply, ",")
	if len(fields) != 4 {
		return Identity{}, fmt.Errorf("want 4 comma-separated fields, got %d", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if fields[0] == "" || fields[1] == "" {
		return Identity{}, fmt.Errorf("empty manufacturer or model")
	}
	return Identity{
		Manufacturer: fields[0],
		Model:        fields[1],
		Serial:       fields[2],
		Firmware:     fields[3],
	}, nil
}

// overRange is the SCPI 9.9E37 marker for an overflowed or invalid
// reading; 9.91E37 (NaN) and the infinities lie above it.
const overRange = 9.9e37

// parseReading parses a numeric reply such as "12.500" or "1.2E+01".
// NaN, infinities and the SCPI over-range markers are rejected.
func parseReading(reply string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.Abs(v) >= overRange {
		return 0, fmt.Errorf("not a finite reading: %q", reply)
	}
	return v, nil
}
