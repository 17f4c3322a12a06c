package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := map[float64]string{
		5:         "5",
		12.5:      "12.5",
		0.001:     "0.001",
		1e-7:      "0.0000001",
		30.000001: "30.000001",
		0:         "0",
	}
	for v, want := range tests {
		assert.Equal(t, want, formatValue(v), "value %v", v)
	}
}

func TestParseReading(t *testing.T) {
	for reply, want := range map[string]float64{
		"12.50":      12.5,
		" 1.234\r":   1.234,
		"+5.000E+00": 5,
		"-0.002":     -0.002,
	} {
		v, err := parseReading(reply)
		require.NoError(t, err, reply)
		assert.InDelta(t, want, v, 1e-12, reply)
	}

	for _, bad := range []string{"", "ERROR", "12,5", "5V", "NaN", "Inf", "-inf", "9.9E37", "9.91E+37", "-9.9E37"} {
		_, err := parseReading(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseIdentity(t *testing.T) {
	id, err := parseIdentity("Keysight Technologies, E36312A , MY1234, 2.1.0-1.0.4-1.12")
	require.NoError(t, err)
	assert.Equal(t, "Keysight Technologies", id.Manufacturer)
	assert.Equal(t, "E36312A", id.Model)
	assert.Equal(t, "MY1234", id.Serial)
	assert.Equal(t, "Keysight Technologies,E36312A,MY1234,2.1.0-1.0.4-1.12", id.String())

	for _, bad := range []string{"", "a,b,c", "a,b,c,d,e", ",model,sn,fw"} {
		_, err := parseIdentity(bad)
		assert.Error(t, err, bad)
	}
}
