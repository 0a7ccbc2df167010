package store

import (
	"bytes"
	"context"
	"time"

	texerr "github.com/imfine/texwire/pkg/errors"
	pkgio "github.com/imfine/texwire/pkg/io"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/shader"
)

// KVProvider stores material graphs as JSON documents in a [KV].
type KVProvider struct {
	kv      KV
	backend string
	ttl     time.Duration
	opts    []shader.Option
}

// KVOption configures a KVProvider.
type KVOption func(*KVProvider)

// WithTTL expires saved graphs after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) KVOption {
	return func(p *KVProvider) { p.ttl = ttl }
}

// WithGraphOptions passes opts to every graph the provider builds.
func WithGraphOptions(opts ...shader.Option) KVOption {
	return func(p *KVProvider) { p.opts = append(p.opts, opts...) }
}

// NewKVProvider wraps kv. The backend name labels store metrics.
func NewKVProvider(kv KV, backend string, opts ...KVOption) *KVProvider {
	p := &KVProvider{kv: kv, backend: backend}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Graph loads the graph of material.
func (p *KVProvider) Graph(ctx context.Context, material string) (*shader.Graph, error) {
	data, ok, err := p.kv.Get(ctx, materialKey(material))
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeStore, err, "load material %q", material)
	}
	if !ok {
		observability.Store().OnGraphMiss(ctx, p.backend)
		return nil, noGraph(material)
	}

	doc, err := pkgio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeInvalidFormat, err, "decode material %q", material)
	}
	g, err := graphOf(material, doc, p.opts...)
	if err != nil {
		return nil, err
	}
	observability.Store().OnGraphLoad(ctx, p.backend)
	return g, nil
}

// Save stores g under material.
func (p *KVProvider) Save(ctx context.Context, material string, g *shader.Graph) error {
	doc, err := pkgio.FromGraph(material, g)
	if err != nil {
		return texerr.Wrap(texerr.ErrCodeInvalidMaterial, err, "encode material %q", material)
	}
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return texerr.Wrap(texerr.ErrCodeInvalidMaterial, err, "encode material %q", material)
	}
	if err := p.kv.Set(ctx, materialKey(material), buf.Bytes(), p.ttl); err != nil {
		return texerr.Wrap(texerr.ErrCodeStore, err, "save material %q", material)
	}
	observability.Store().OnGraphSave(ctx, p.backend, buf.Len())
	return nil
}

// List returns the stored material names, sorted.
func (p *KVProvider) List(ctx context.Context) ([]string, error) {
	keys, err := p.kv.Keys(ctx, materialPrefix)
	if err != nil {
		return nil, texerr.Wrap(texerr.ErrCodeStore, err, "list materials")
	}
	return materialNames(keys), nil
}

// Close closes the underlying store.
func (p *KVProvider) Close() error {
	return p.kv.Close()
}

// graphOf turns a stored document into a graph, mapping empty documents to
// ErrNoGraph and foreign node spaces to ErrUnsupported.
func graphOf(material string, doc *pkgio.Document, opts ...shader.Option) (*shader.Graph, error) {
	if len(doc.Nodes) == 0 {
		return nil, noGraph(material)
	}
	g, err := doc.Graph(opts...)
	if texerr.Is(err, texerr.ErrCodeUnsupported) {
		return nil, unsupported(material, err)
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Ensure KVProvider implements Provider.
var _ Provider = (*KVProvider)(nil)
