package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// DefaultBaudRate is used when Serial.Mode leaves BaudRate zero.
const DefaultBaudRate = 9600

// Serial opens serial-port instruments (ASRL<port>::INSTR).
type Serial struct {
	// Mode is the line configuration. Zero fields take 8N1 at DefaultBaudRate.
	Mode serial.Mode

	// USBOnly restricts Enumerate to USB serial adapters, hiding on-board
	// UARTs that rarely have an instrument attached.
	USBOnly bool

	// Overridable in tests.
	listPorts func() ([]*enumerator.PortDetails, error)
	openPort  func(name string, mode *serial.Mode) (serial.Port, error)
}

// Enumerate lists the serial ports present on the host.
func (s *Serial) Enumerate(ctx context.Context) ([]string, error) {
	list := s.listPorts
	if list == nil {
		list = enumerator.GetDetailedPortsList
	}
	ports, err := list()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	resources := make([]string, 0, len(ports))
	for _, p := range ports {
		if s.USBOnly && !p.IsUSB {
			continue
		}
		resources = append(resources, SerialResource(p.Name))
	}
	return resources, nil
}

// Handles reports whether resource is an ASRL identifier.
func (s *Serial) Handles(resource string) bool {
	_, err := ParseSerialResource(resource)
	return err == nil
}

// Open opens the serial port named by resource.
func (s *Serial) Open(ctx context.Context, resource string, opts OpenOptions) (Conn, error) {
	opts = opts.withDefaults()
	name, err := ParseSerialResource(resource)
	if err != nil {
		return nil, err
	}

	mode := s.Mode
	if mode.BaudRate == 0 {
		mode.BaudRate = DefaultBaudRate
	}
	if mode.DataBits == 0 {
		mode.DataBits = 8
	}

	open := s.openPort
	if open == nil {
		open = serial.Open
	}
	port, err := open(name, &mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	// Stale bytes from a previous session would be read as a reply.
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to reset %s: %w", name, err)
	}
	return newStreamConn(&serialPort{port: port}, opts), nil
}

// SerialResource formats an ASRL identifier for a port name.
func SerialResource(port string) string {
	return "ASRL" + port + "::INSTR"
}

// ParseSerialResource returns the OS port name of an ASRL identifier.
// Numeric ports map to COM<n>.
func ParseSerialResource(resource string) (string, error) {
	upper := strings.ToUpper(resource)
	if !strings.HasPrefix(upper, "ASRL") || !strings.HasSuffix(upper, "::INSTR") {
		return "", fmt.Errorf("%w: %q is not a serial resource", ErrUnsupportedResource, resource)
	}
	name := resource[len("ASRL") : len(resource)-len("::INSTR")]
	if name == "" || strings.Contains(name, "::") {
		return "", fmt.Errorf("%w: %q has no port name", ErrUnsupportedResource, resource)
	}
	if strings.Trim(name, "0123456789") == "" {
		return "COM" + name, nil
	}
	return name, nil
}

type serialPort struct {
	port serial.Port
}

func (p *serialPort) Write(b []byte) (int, error) { return p.port.Write(b) }

func (p *serialPort) Close() error { return p.port.Close() }

func (p *serialPort) readTimeout(b []byte, d time.Duration) (int, error) {
	if err := p.port.SetReadTimeout(d); err != nil {
		return 0, err
	}
	return p.port.Read(b)
}
