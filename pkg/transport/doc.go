// Package transport provides the byte-level collaborators psu-go talks to
// instruments through.
//
// The rest of the module only sees three narrow interfaces:
//
//   - Enumerator lists the resource identifiers currently visible.
//   - Transport adds Open, returning a Conn for one identifier.
//   - Conn writes and reads terminated text lines and is closed once.
//
// # Backends
//
// Identifiers follow the VISA resource naming convention:
//
//	USB0::0x1AB1::0x0E11::DP8C123456789::INSTR   USBTMC (google/gousb)
//	TCPIP0::192.168.1.20::5025::SOCKET          raw SCPI socket (net)
//	ASRL/dev/ttyUSB0::INSTR                     serial port (go.bug.st/serial)
//
// Network instruments are discovered through mDNS (_scpi-raw._tcp) by
// MDNSBrowser. A Registry combines backends, concatenating their enumerations
// and routing Open to the backend that handles the identifier.
//
// # Timeouts
//
// Every ReadLine is bounded by its timeout argument. Expiry returns
// ErrTimeout; nothing in this package blocks indefinitely.
package transport
