package transport

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// mDNS defaults for LXI raw-socket discovery.
const (
	// ServiceTypeSCPIRaw is the DNS-SD service LXI instruments register for
	// their raw SCPI socket.
	ServiceTypeSCPIRaw = "_scpi-raw._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultBrowseTimeout bounds one Enumerate call.
	DefaultBrowseTimeout = time.Second
)

type browseFunc func(ctx context.Context, service, domain string,
	entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error

// MDNSBrowser enumerates network instruments announced over mDNS.
type MDNSBrowser struct {
	// Service is the DNS-SD service type. Default: ServiceTypeSCPIRaw.
	Service string

	// Timeout bounds the browse. Default: DefaultBrowseTimeout.
	Timeout time.Duration

	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string

	browse browseFunc
}

// Enumerate browses for Timeout and returns one TCPIP SOCKET identifier per
// announced instance, in order of first appearance.
func (b *MDNSBrowser) Enumerate(ctx context.Context) ([]string, error) {
	service := b.Service
	if service == "" {
		service = ServiceTypeSCPIRaw
	}
	timeout := b.Timeout
	if timeout <= 0 {
		timeout = DefaultBrowseTimeout
	}
	browse := b.browse
	if browse == nil {
		browse = func(ctx context.Context, service, domain string,
			entries, removed chan *zeroconf.ServiceEntry, opts ...zeroconf.ClientOption) error {
			return zeroconf.Browse(ctx, service, domain, entries, removed, opts...)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry, 16)
	removed := make(chan *zeroconf.ServiceEntry, 16)
	errCh := make(chan error, 1)

	// Start browsing in background
	go func() {
		errCh <- browse(ctx, service, Domain, entries, removed, b.browserOptions()...)
	}()

	var resources []string
	seen := make(map[string]struct{})
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				entries = nil
				break
			}
			res := entryToResource(entry)
			if res == "" {
				break
			}
			if _, dup := seen[entry.Instance]; dup {
				break
			}
			seen[entry.Instance] = struct{}{}
			resources = append(resources, res)

		case _, ok := <-removed:
			if !ok {
				removed = nil
			}

		case err := <-errCh:
			if err != nil {
				return nil, fmt.Errorf("mdns browse failed: %w", err)
			}
			errCh = nil

		case <-ctx.Done():
			return resources, nil
		}

		// The browse returned and closed its results: nothing more can arrive.
		if entries == nil && errCh == nil {
			return resources, nil
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	// Select specific interface if configured
	if b.Interface != "" {
		iface, err := net.InterfaceByName(b.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// entryToResource converts a zeroconf entry to a TCPIP SOCKET identifier,
// preferring an IPv4 address over the host name. IPv6 literals are not used
// because their colons collide with the "::" identifier separator.
func entryToResource(entry *zeroconf.ServiceEntry) string {
	if entry == nil || entry.Port <= 0 {
		return ""
	}
	var host string
	switch {
	case len(entry.AddrIPv4) > 0:
		host = entry.AddrIPv4[0].String()
	default:
		host = strings.TrimSuffix(entry.HostName, ".")
	}
	if host == "" {
		return ""
	}
	return SocketResource(host, entry.Port)
}
