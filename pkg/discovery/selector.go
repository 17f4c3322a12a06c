package discovery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/psu-tools/psu-go/pkg/fault"
)

var errNoEndpoints = errors.New("no endpoints available")

// SelectPolicy decides which endpoint to connect to.
type SelectPolicy struct {
	// Preferred is the signature to look for first.
	Preferred Signature

	// AllowFallback selects the first endpoint when none matches Preferred.
	AllowFallback bool
}

// DefaultInteractivePolicy targets DefaultTarget and falls back.
func DefaultInteractivePolicy() SelectPolicy {
	return SelectPolicy{Preferred: DefaultTarget, AllowFallback: true}
}

// DefaultBatchPolicy targets DefaultTarget and never falls back.
func DefaultBatchPolicy() SelectPolicy {
	return SelectPolicy{Preferred: DefaultTarget, AllowFallback: false}
}

// Select applies the policy to endpoints.
func (p SelectPolicy) Select(endpoints []Endpoint) (Endpoint, error) {
	return Select(endpoints, p.Preferred, p.AllowFallback)
}

// Select returns the first endpoint whose signature equals preferred. If none
// matches it returns the first endpoint when allowFallback is set, and
// fault.ErrNoDeviceFound otherwise. An empty list always fails.
func Select(endpoints []Endpoint, preferred Signature, allowFallback bool) (Endpoint, error) {
	if len(endpoints) == 0 {
		return Endpoint{}, fault.New(fault.KindNoDeviceFound, "select", errNoEndpoints)
	}
	for _, ep := range endpoints {
		if ep.Matches(preferred) {
			return ep, nil
		}
	}
	if allowFallback {
		return endpoints[0], nil
	}
	return Endpoint{}, fault.New(fault.KindNoDeviceFound, "select",
		fmt.Errorf("no endpoint matches %s among %d candidate(s)", preferred, len(endpoints)))
}

// ResolveAddress turns an operator-supplied address into an Endpoint without
// querying a catalog. An empty address is rejected.
func ResolveAddress(addr string) (Endpoint, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return Endpoint{}, fault.InvalidParameter("address", "empty address")
	}
	return ParseEndpoint(addr), nil
}
