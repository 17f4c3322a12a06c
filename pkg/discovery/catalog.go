package discovery

import (
	"context"
	"regexp"

	"github.com/psu-tools/psu-go/pkg/fault"
	"github.com/psu-tools/psu-go/pkg/transport"
)

// signaturePattern matches the vendor/product segment of USB-style
// identifiers such as USB0::0x1AB1::0x0E11::DP8C1234::INSTR.
var signaturePattern = regexp.MustCompile(`(?i)::0x([0-9a-f]{1,4})::0x([0-9a-f]{1,4})::`)

// ParseEndpoint builds an Endpoint from a raw identifier. It never fails:
// identifiers without a recognisable signature segment yield an Endpoint
// with a nil Signature.
func ParseEndpoint(raw string) Endpoint {
	ep := Endpoint{Resource: raw}

	m := signaturePattern.FindStringSubmatch(raw)
	if m == nil {
		return ep
	}
	vid, err := parseHex16(m[1])
	if err != nil {
		return ep
	}
	pid, err := parseHex16(m[2])
	if err != nil {
		return ep
	}

	sig := Signature{VendorID: vid, ProductID: pid}
	ep.Signature = &sig
	ep.VendorLabel, _ = LookupLabel(sig)
	return ep
}

// Catalog lists the endpoints currently visible to a transport.
type Catalog struct {
	enum transport.Enumerator
}

// NewCatalog creates a Catalog over enum.
func NewCatalog(enum transport.Enumerator) *Catalog {
	return &Catalog{enum: enum}
}

// List enumerates the transport once and parses every identifier, keeping
// the transport's order. Only a failed enumeration is an error; no
// connection is opened.
func (c *Catalog) List(ctx context.Context) ([]Endpoint, error) {
	raw, err := c.enum.Enumerate(ctx)
	if err != nil {
		return nil, fault.Communication("enumerate", err)
	}

	endpoints := make([]Endpoint, 0, len(raw))
	for _, r := range raw {
		endpoints = append(endpoints, ParseEndpoint(r))
	}
	return endpoints, nil
}
