package store

import (
	"context"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/imfine/texwire/pkg/shader"
)

// DryRun wraps a provider so reads reach it and saves are dropped. Batches
// run against it end to end without changing stored materials.
type DryRun struct {
	inner  Provider
	logger *log.Logger

	mu      sync.Mutex
	dropped []string
}

// NewDryRun wraps inner. Dropped saves are logged at info level to logger;
// a nil logger discards them.
func NewDryRun(inner Provider, logger *log.Logger) *DryRun {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &DryRun{inner: inner, logger: logger}
}

// Graph loads from the wrapped provider.
func (d *DryRun) Graph(ctx context.Context, material string) (*shader.Graph, error) {
	return d.inner.Graph(ctx, material)
}

// Save records the material and does nothing else.
func (d *DryRun) Save(_ context.Context, material string, g *shader.Graph) error {
	d.mu.Lock()
	d.dropped = append(d.dropped, material)
	d.mu.Unlock()
	d.logger.Info("dry run, not saving", "material", material, "nodes", g.NodeCount(), "revision", g.Revision())
	return nil
}

// List lists the wrapped provider's materials.
func (d *DryRun) List(ctx context.Context) ([]string, error) {
	return d.inner.List(ctx)
}

// Dropped returns the materials whose saves were dropped, in order.
func (d *DryRun) Dropped() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.dropped...)
}

// Close closes the wrapped provider.
func (d *DryRun) Close() error {
	return d.inner.Close()
}

var _ Provider = (*DryRun)(nil)
