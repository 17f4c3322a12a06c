package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// Signature is the USB (vendor ID, product ID) pair identifying an
// instrument model.
type Signature struct {
	VendorID  uint16
	ProductID uint16
}

// String returns the signature as "0xVVVV:0xPPPP".
func (s Signature) String() string {
	return fmt.Sprintf("0x%04X:0x%04X", s.VendorID, s.ProductID)
}

// ParseSignature parses "VVVV:PPPP" with optional 0x prefixes.
func ParseSignature(s string) (Signature, error) {
	vendor, product, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Signature{}, fmt.Errorf("invalid signature %q: want vendor:product", s)
	}
	vid, err := parseHex16(vendor)
	if err != nil {
		return Signature{}, fmt.Errorf("invalid vendor id in %q: %w", s, err)
	}
	pid, err := parseHex16(product)
	if err != nil {
		return Signature{}, fmt.Errorf("invalid product id in %q: %w", s, err)
	}
	return Signature{VendorID: vid, ProductID: pid}, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Signature) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Signature) UnmarshalText(text []byte) error {
	parsed, err := ParseSignature(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func parseHex16(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 16)
	return uint16(v), err
}

// InterfaceType is the transport family named by an identifier prefix.
type InterfaceType string

// Interface types.
const (
	InterfaceUnknown InterfaceType = "unknown"
	InterfaceUSB     InterfaceType = "USB"
	InterfaceTCPIP   InterfaceType = "TCPIP"
	InterfaceSerial  InterfaceType = "ASRL"
	InterfaceGPIB    InterfaceType = "GPIB"
)

// Endpoint is one discoverable resource through which an instrument may be
// reached. Endpoints are values built by ParseEndpoint; they are never
// cached across catalog queries.
type Endpoint struct {
	// Resource is the raw identifier as reported by the transport.
	Resource string `json:"resource" yaml:"resource"`

	// Signature is set when Resource carries USB-style vendor/product IDs.
	Signature *Signature `json:"signature,omitempty" yaml:"signature,omitempty"`

	// VendorLabel is a human-readable name for a known Signature.
	VendorLabel string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
}

// Interface returns the transport family of the endpoint.
func (e Endpoint) Interface() InterfaceType {
	upper := strings.ToUpper(e.Resource)
	for _, it := range []InterfaceType{InterfaceUSB, InterfaceTCPIP, InterfaceSerial, InterfaceGPIB} {
		if strings.HasPrefix(upper, string(it)) {
			return it
		}
	}
	return InterfaceUnknown
}

// Matches reports whether the endpoint carries exactly sig.
func (e Endpoint) Matches(sig Signature) bool {
	return e.Signature != nil && *e.Signature == sig
}

// String returns the resource, annotated with the vendor label if known.
func (e Endpoint) String() string {
	if e.VendorLabel != "" {
		return fmt.Sprintf("%s (%s)", e.Resource, e.VendorLabel)
	}
	return e.Resource
}

// Label returns the vendor label, or "unknown" if the signature is not in
// the vendor table.
func (e Endpoint) Label() string {
	if e.VendorLabel == "" {
		return "unknown"
	}
	return e.VendorLabel
}
