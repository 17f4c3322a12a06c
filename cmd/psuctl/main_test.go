package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
	plog "github.com/psu-tools/psu-go/pkg/log"
	"github.com/psu-tools/psu-go/pkg/transport"
)

func TestPolicyDefaults(t *testing.T) {
	batch := Config{Signature: discovery.DefaultTarget}
	assert.Equal(t, discovery.DefaultBatchPolicy(), batch.Policy())

	interactive := Config{Signature: discovery.DefaultTarget, Interactive: true}
	assert.Equal(t, discovery.DefaultInteractivePolicy(), interactive.Policy())
}

func TestPolicyExplicitFallback(t *testing.T) {
	cfg := Config{Interactive: true, Fallback: false, FallbackSet: true}
	assert.False(t, cfg.Policy().AllowFallback)

	cfg = Config{Fallback: true, FallbackSet: true}
	assert.True(t, cfg.Policy().AllowFallback)
}

func TestRequestFromFlags(t *testing.T) {
	var cfg Config
	require.NoError(t, setpointFlag("VOLT", &cfg.Voltage)("12.5"))
	require.NoError(t, setpointFlag("CURR", &cfg.Current)("2"))
	require.NoError(t, outputFlag(&cfg.Output)("ON"))
	cfg.Measure = true

	req := cfg.Request()
	require.NotNil(t, req.Voltage)
	assert.Equal(t, 12.5, *req.Voltage)
	assert.Equal(t, 2.0, *req.Current)
	assert.True(t, *req.Output)
	assert.True(t, req.Measure)
	assert.False(t, req.Empty())

	assert.Error(t, setpointFlag("VOLT", &cfg.Voltage)("twelve"))
	assert.Error(t, outputFlag(&cfg.Output)("maybe"))
}

func TestParseOnOff(t *testing.T) {
	for in, want := range map[string]bool{"on": true, "On": true, "1": true, "off": false, "false": false} {
		got, err := parseOnOff(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestRunRejectsEmptyRequest(t *testing.T) {
	assert.Equal(t, exitUsage, run(context.Background(), &Config{Format: "text"}))
}

func TestSetpointFlagRejectsInvalid(t *testing.T) {
	var cfg Config
	for _, s := range []string{"-3", "NaN", "+Inf"} {
		err := setpointFlag("VOLT", &cfg.Voltage)(s)
		assert.ErrorIs(t, err, fault.ErrInvalidParameter, s)
	}
	assert.Nil(t, cfg.Voltage)
}

func TestRunRejectsInvalidSetpoint(t *testing.T) {
	cfg := &Config{Format: "text", Current: ptr(1.0), Voltage: ptr(-3.0)}
	assert.Equal(t, exitUsage, run(context.Background(), cfg))
}

func ptr[T any](v T) *T { return &v }

func TestRunRejectsBadFormat(t *testing.T) {
	assert.Equal(t, exitUsage, run(context.Background(), &Config{Format: "xml", Measure: true}))
}

func TestSetupTrace(t *testing.T) {
	logger := newSlogLogger("error")

	l, closeFn, err := setupTrace(&Config{}, logger)
	require.NoError(t, err)
	assert.Nil(t, l)
	closeFn()

	path := filepath.Join(t.TempDir(), "run.plog")
	l, closeFn, err = setupTrace(&Config{Trace: path, Verbose: true}, logger)
	require.NoError(t, err)
	require.IsType(t, &plog.MultiLogger{}, l)

	l.Log(plog.Event{Timestamp: time.Now(), SessionID: "s", Exchange: &plog.ExchangeEvent{Line: "VOLT 1"}})
	closeFn()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	events, err := plog.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "VOLT 1", events[0].Exchange.Line)
}

func TestSetupTraceBadPath(t *testing.T) {
	_, _, err := setupTrace(&Config{Trace: filepath.Join(t.TempDir(), "no", "such", "dir.plog")}, newSlogLogger("error"))
	assert.Error(t, err)
}

func TestBuildTransportRoutes(t *testing.T) {
	tr := buildTransport(&Config{Baud: 9600, MDNS: false}, newSlogLogger("error"))

	_, err := tr.Open(context.Background(), "GPIB0::5::INSTR", transport.OpenOptions{})
	assert.ErrorIs(t, err, transport.ErrUnsupportedResource)
}
