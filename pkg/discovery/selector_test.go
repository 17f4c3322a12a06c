package discovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psu-tools/psu-go/pkg/discovery"
	"github.com/psu-tools/psu-go/pkg/fault"
)

func endpoints(raw ...string) []discovery.Endpoint {
	eps := make([]discovery.Endpoint, 0, len(raw))
	for _, r := range raw {
		eps = append(eps, discovery.ParseEndpoint(r))
	}
	return eps
}

func TestSelect(t *testing.T) {
	eps := endpoints(
		"ASRL1::INSTR",
		"USB0::0x2A8D::0x1102::MY1234::INSTR",
		"USB0::0x1AB1::0x0E11::DP8C0001::INSTR",
		"USB1::0x1AB1::0x0E11::DP8C0002::INSTR",
	)

	t.Run("first exact match wins", func(t *testing.T) {
		ep, err := discovery.Select(eps, discovery.DefaultTarget, false)
		require.NoError(t, err)
		assert.Equal(t, "USB0::0x1AB1::0x0E11::DP8C0001::INSTR", ep.Resource)
	})

	t.Run("match preferred over fallback", func(t *testing.T) {
		ep, err := discovery.Select(eps, discovery.DefaultTarget, true)
		require.NoError(t, err)
		assert.Equal(t, "USB0::0x1AB1::0x0E11::DP8C0001::INSTR", ep.Resource)
	})

	t.Run("fallback to first", func(t *testing.T) {
		other := endpoints("ASRL1::INSTR", "USB0::0x2A8D::0x1102::MY1234::INSTR")
		ep, err := discovery.Select(other, discovery.DefaultTarget, true)
		require.NoError(t, err)
		assert.Equal(t, "ASRL1::INSTR", ep.Resource)
	})

	t.Run("strict without match", func(t *testing.T) {
		other := endpoints("ASRL1::INSTR", "USB0::0x2A8D::0x1102::MY1234::INSTR")
		_, err := discovery.Select(other, discovery.DefaultTarget, false)
		assert.ErrorIs(t, err, fault.ErrNoDeviceFound)
	})

	t.Run("empty always fails", func(t *testing.T) {
		_, err := discovery.Select(nil, discovery.DefaultTarget, true)
		assert.ErrorIs(t, err, fault.ErrNoDeviceFound)
		assert.ErrorContains(t, err, "no endpoints available")
		_, err = discovery.Select(nil, discovery.DefaultTarget, false)
		assert.ErrorIs(t, err, fault.ErrNoDeviceFound)
	})
}

func TestSelectPolicy(t *testing.T) {
	eps := endpoints("ASRL1::INSTR")

	ep, err := discovery.DefaultInteractivePolicy().Select(eps)
	require.NoError(t, err)
	assert.Equal(t, "ASRL1::INSTR", ep.Resource)

	_, err = discovery.DefaultBatchPolicy().Select(eps)
	assert.ErrorIs(t, err, fault.ErrNoDeviceFound)
}

func TestResolveAddress(t *testing.T) {
	ep, err := discovery.ResolveAddress(" USB0::0x1AB1::0x0E11::DP8C0001::INSTR ")
	require.NoError(t, err)
	assert.Equal(t, "USB0::0x1AB1::0x0E11::DP8C0001::INSTR", ep.Resource)
	assert.True(t, ep.Matches(discovery.DefaultTarget))

	_, err = discovery.ResolveAddress("  ")
	assert.ErrorIs(t, err, fault.ErrInvalidParameter)
}
