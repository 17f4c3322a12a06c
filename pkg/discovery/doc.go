// Package discovery finds the power supply to talk to.
//
// It has two parts:
//
//   - Catalog queries a transport.Enumerator and turns each raw resource
//     identifier into an Endpoint, extracting the USB vendor/product
//     Signature when the identifier carries one and labelling known
//     instruments from a static table.
//   - Select picks the connection target from a catalog listing: an exact
//     Signature match first, then (if allowed) the first endpoint.
//
// Identifier parsing never fails. Anything that does not look like
// "::0x<hex>::0x<hex>::" simply yields an Endpoint without a Signature.
//
// # Fallback Policy
//
// Interactive use is permissive and falls back to the first endpoint so an
// operator can poke at whatever is attached. Batch use is strict and refuses
// to talk to an instrument that does not carry the preferred Signature.
// The choice is carried as SelectPolicy.AllowFallback rather than being
// hardcoded per mode.
package discovery
