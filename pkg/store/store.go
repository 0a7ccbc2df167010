package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	texerr "github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/shader"
)

// Sentinel errors for graph lookups.
var (
	// ErrNoGraph is returned when a material has no node graph.
	ErrNoGraph = errors.New("material has no node graph")

	// ErrUnsupported is returned when a material is not in the Redshift
	// node space.
	ErrUnsupported = errors.New("material is not a Redshift node material")
)

// KV is a byte-oriented key-value store.
type KV interface {
	// Get returns the value of key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A positive ttl expires the entry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every live key with the given prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Close releases resources held by the store.
	Close() error
}

// Provider loads and saves material graphs.
type Provider interface {
	// Graph returns the graph of material.
	Graph(ctx context.Context, material string) (*shader.Graph, error)

	// Save stores g as the graph of material.
	Save(ctx context.Context, material string, g *shader.Graph) error

	// List returns the names of all stored materials, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases resources held by the provider.
	Close() error
}

func noGraph(material string) error {
	return texerr.Wrap(texerr.ErrCodeNoGraph, ErrNoGraph, "material %q", material)
}

func unsupported(material string, cause error) error {
	return texerr.Wrap(texerr.ErrCodeUnsupported, fmt.Errorf("%w: %w", ErrUnsupported, cause), "material %q", material)
}

// Open returns the provider addressed by rawURL.
func Open(ctx context.Context, rawURL string) (Provider, error) {
	if err := texerr.ValidateStoreURL(rawURL); err != nil {
		return nil, err
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeInvalidInput, err, "parse store URL")
	}
	ns, backend := splitScope(u)

	switch u.Scheme {
	case "file":
		dir := u.Host + u.Path
		kv, err := NewFileStore(dir)
		if err != nil {
			return nil, texerr.Wrap(texerr.ErrCodeStore, err, "open file store %s", dir)
		}
		return NewKVProvider(scoped(ns, kv), "file"), nil
	case "mem":
		return NewKVProvider(scoped(ns, NewMemoryStore()), "memory"), nil
	case "redis", "rediss":
		kv, err := NewRedisStore(ctx, backend)
		if err != nil {
			return nil, texerr.Wrap(texerr.ErrCodeStore, err, "open redis store")
		}
		return NewKVProvider(scoped(ns, kv), "redis"), nil
	case "mongodb", "mongodb+srv":
		db := strings.Trim(u.Path, "/")
		if db == "" {
			db = DefaultDatabase
		}
		p, err := NewMongoProvider(ctx, backend, db, mongoCollection(ns))
		if err != nil {
			return nil, texerr.Wrap(texerr.ErrCodeStore, err, "open mongo store")
		}
		return p, nil
	}
	return nil, texerr.New(texerr.ErrCodeInvalidInput, "unsupported store scheme %q", u.Scheme)
}

// splitScope returns the scope query parameter of u and u's string form
// without it. Backend drivers reject query options they do not know.
func splitScope(u *url.URL) (ns, backend string) {
	q := u.Query()
	ns = q.Get("scope")
	q.Del("scope")
	stripped := *u
	stripped.RawQuery = q.Encode()
	return ns, stripped.String()
}

// scoped wraps kv in a ScopedStore when ns is set.
func scoped(ns string, kv KV) KV {
	if ns != "" {
		return NewScopedStore(kv, ns+":")
	}
	return kv
}

// mongoCollection returns the materials collection name for scope ns.
func mongoCollection(ns string) string {
	if ns == "" {
		return MaterialsCollection
	}
	return ns + "_" + MaterialsCollection
}
