package collect

import (
	"context"
	"io"
	"os"
	"path"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	billy "github.com/go-git/go-billy/v5"

	"github.com/imfine/texwire/pkg/channel"
	texerr "github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/store"
	"github.com/imfine/texwire/pkg/trace"
)

// Status is the outcome of collecting one texture.
type Status string

const (
	StatusCopied     Status = "copied"
	StatusUnresolved Status = "unresolved"
	StatusFailed     Status = "failed"
)

// Item is one texture sampler found in a material.
type Item struct {
	Material string            `json:"material"`
	Node     shader.NodeID     `json:"node"`
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Channels []channel.Channel `json:"channels,omitempty"`
	Channel  channel.Channel   `json:"channel,omitempty"`
	Source   string            `json:"source,omitempty"`
	Dest     string            `json:"dest,omitempty"`
	Status   Status            `json:"status,omitempty"`
	Err      error             `json:"-"`
}

// Skip records a material that could not be processed.
type Skip struct {
	Material string `json:"material"`
	Err      error  `json:"-"`
}

// Summary reports a collection run.
type Summary struct {
	Dir       string   `json:"dir"`
	Materials []string `json:"materials"`
	Copied    int      `json:"copied"`
	Rewired   int      `json:"rewired"`
	Items     []Item   `json:"items"`
	Skipped   []Skip   `json:"skipped,omitempty"`
}

// Count returns the number of items with status s.
func (s *Summary) Count(st Status) int {
	n := 0
	for _, it := range s.Items {
		if it.Status == st {
			n++
		}
	}
	return n
}

// Failures returns the items that were not copied.
func (s *Summary) Failures() []Item {
	var out []Item
	for _, it := range s.Items {
		if it.Status != StatusCopied {
			out = append(out, it)
		}
	}
	return out
}

// Scan returns the texture samplers of v that carry a non-empty file path,
// with their traced channels.
func Scan(material string, v shader.View, opts ...trace.Option) []Item {
	var items []Item
	for _, n := range v.NodesOfKind(shader.KindTextureSampler) {
		p, ok := v.Value(v.FindInput(n.ID, shader.PortTexture, shader.PortTexturePath))
		if !ok {
			continue
		}
		s, ok := p.(string)
		if !ok || s == "" {
			continue
		}
		chs := trace.Usage(v, n.ID, opts...)
		ch, _ := trace.Primary(chs)
		items = append(items, Item{
			Material: material,
			Node:     n.ID,
			Name:     n.Name,
			Path:     s,
			Channels: chs,
			Channel:  ch,
		})
	}
	return items
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// WithRewire points sampler paths at the copied files.
func WithRewire(rewire bool) Option {
	return func(c *Collector) { c.rewire = rewire }
}

// WithProgress calls fn after each texture is processed.
func WithProgress(fn func(Item)) Option {
	return func(c *Collector) { c.progress = fn }
}

// Collector copies the textures of material graphs into a folder.
type Collector struct {
	resolver *Resolver
	src      billy.Filesystem
	dst      billy.Filesystem
	logger   *log.Logger
	rewire   bool
	progress func(Item)
}

// New returns a collector that reads textures through resolver's filesystem
// and writes them to dst/tex.
func New(src billy.Filesystem, resolver *Resolver, dst billy.Filesystem, opts ...Option) *Collector {
	c := &Collector{
		resolver: resolver,
		src:      src,
		dst:      dst,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the destination directory as seen by the sampler paths.
func (c *Collector) Dir() string {
	return c.dst.Join(c.dst.Root(), TexDir)
}

// Collect loads each material from p, copies its textures and, when
// rewiring, saves the updated graph back. Materials without a usable graph
// are recorded in Summary.Skipped; other store errors abort the run.
func (c *Collector) Collect(ctx context.Context, p store.Provider, materials []string) (*Summary, error) {
	sum := &Summary{Dir: c.Dir()}
	for _, m := range materials {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		g, err := p.Graph(ctx, m)
		if texerr.Skippable(err) {
			c.logger.Warn("skipping material", "material", m, "err", texerr.UserMessage(err))
			sum.Skipped = append(sum.Skipped, Skip{Material: m, Err: err})
			continue
		}
		if err != nil {
			return sum, err
		}

		rewired := sum.Rewired
		if err := c.CollectGraph(ctx, g, sum); err != nil {
			return sum, err
		}
		if sum.Rewired > rewired {
			if err := p.Save(ctx, m, g); err != nil {
				return sum, err
			}
		}
	}
	return sum, nil
}

// CollectGraph copies the textures of g and appends the outcome to sum.
func (c *Collector) CollectGraph(ctx context.Context, g *shader.Graph, sum *Summary) error {
	material := g.Name()
	items := Scan(material, g, trace.WithLogger(c.logger))
	c.logger.Info("scanning material", "material", material, "textures", len(items))

	start := time.Now()
	observability.Batch().OnBatchStart(ctx, "collect", material, len(items))

	if err := c.dst.MkdirAll(TexDir, 0o755); err != nil {
		err = texerr.Wrap(texerr.ErrCodeCopyFailed, err, "create %s", c.Dir())
		observability.Batch().OnBatchComplete(ctx, "collect", material, 0, time.Since(start), err)
		return err
	}

	copied := 0
	for i := range items {
		if err := ctx.Err(); err != nil {
			observability.Batch().OnBatchComplete(ctx, "collect", material, copied, time.Since(start), err)
			return err
		}
		it := &items[i]
		c.collectItem(it)
		if it.Status == StatusCopied {
			copied++
		}
		if c.progress != nil {
			c.progress(*it)
		}
	}

	var err error
	if c.rewire && copied > 0 {
		err = c.rewireGraph(g, items)
		if err == nil {
			sum.Rewired += copied
		}
	}
	observability.Batch().OnBatchComplete(ctx, "collect", material, copied, time.Since(start), err)

	sum.Items = append(sum.Items, items...)
	sum.Copied += copied
	if copied > 0 {
		sum.Materials = appendUnique(sum.Materials, material)
	}
	return err
}

func (c *Collector) collectItem(it *Item) {
	if len(it.Channels) == 0 {
		c.logger.Debug("no traced channel", "material", it.Material, "node", it.Name)
	} else {
		c.logger.Debug("traced channels", "material", it.Material, "node", it.Name, "channels", it.Channels)
	}

	src, err := c.resolver.Resolve(it.Path)
	if err != nil {
		c.logger.Warn("texture not found", "material", it.Material, "path", it.Path)
		it.Status, it.Err = StatusUnresolved, err
		return
	}
	it.Source = src

	name := freeName(c.dst, TexDir, FileName(it.Material, it.Channel, path.Ext(src)))
	rel := path.Join(TexDir, name)
	if err := texerr.ValidatePath(rel); err != nil {
		it.Status, it.Err = StatusFailed, err
		return
	}
	if err := c.copy(src, rel); err != nil {
		c.logger.Warn("copy failed", "material", it.Material, "path", src, "err", err)
		it.Status, it.Err = StatusFailed, texerr.Wrap(texerr.ErrCodeCopyFailed, err, "copy %s", src)
		return
	}
	it.Dest = c.dst.Join(c.dst.Root(), rel)
	it.Status = StatusCopied
	c.logger.Info("collected", "material", it.Material, "file", name)
}

func (c *Collector) copy(src, dst string) error {
	in, err := c.src.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := c.dst.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	// Keep the source modification time when the filesystem allows it.
	if ch, ok := c.dst.(billy.Change); ok {
		if fi, err := c.src.Stat(src); err == nil {
			_ = ch.Chtimes(dst, fi.ModTime(), fi.ModTime())
		}
	}
	return nil
}

// rewireGraph points every copied sampler at its new file in one
// transaction.
func (c *Collector) rewireGraph(g *shader.Graph, items []Item) error {
	err := g.Update(func(tx *shader.Tx) error {
		for _, it := range items {
			if it.Status != StatusCopied {
				continue
			}
			ref := tx.FindInput(it.Node, shader.PortTexture, shader.PortTexturePath)
			if err := tx.SetValue(ref, it.Dest); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return texerr.Wrap(texerr.ErrCodeTxFailed, err, "rewire material %q", g.Name())
	}
	return nil
}

func appendUnique(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	if i < len(list) && list[i] == s {
		return list
	}
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}
