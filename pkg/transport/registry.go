package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Registry combines backends into one Transport.
type Registry struct {
	backends []Backend
	logger   *slog.Logger
}

// NewRegistry creates a Registry. Enumeration order follows backend order.
// logger may be nil.
func NewRegistry(logger *slog.Logger, backends ...Backend) *Registry {
	return &Registry{backends: backends, logger: logger}
}

// Enumerate concatenates every backend's identifiers. A failing backend is
// skipped; an error is returned only when all backends fail.
func (r *Registry) Enumerate(ctx context.Context) ([]string, error) {
	var (
		resources []string
		errs      []error
	)
	for _, b := range r.backends {
		res, err := b.Enumerate(ctx)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("enumeration failed", "backend", fmt.Sprintf("%T", b), "error", err)
			}
			errs = append(errs, err)
			continue
		}
		resources = append(resources, res...)
	}
	if len(r.backends) > 0 && len(errs) == len(r.backends) {
		return nil, errors.Join(errs...)
	}
	return resources, nil
}

// Open routes to the first backend that handles resource.
func (r *Registry) Open(ctx context.Context, resource string, opts OpenOptions) (Conn, error) {
	for _, b := range r.backends {
		if b.Handles(resource) {
			return b.Open(ctx, resource, opts)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedResource, resource)
}
