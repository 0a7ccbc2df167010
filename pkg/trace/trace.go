package trace

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/shader"
)

// displacementTag marks the render output inputs that count as channels.
const displacementTag = "displacement"

// Option configures a trace.
type Option func(*tracer)

// WithLogger logs every hop at debug level.
func WithLogger(l *log.Logger) Option {
	return func(t *tracer) {
		if l != nil {
			t.logger = l
		}
	}
}

type tracer struct {
	view    shader.View
	logger  *log.Logger
	visited map[shader.NodeID]bool
}

// Usage returns the channels reachable from the outputs of node id, in
// discovery order and with duplicates. Unknown nodes yield nil.
func Usage(v shader.View, id shader.NodeID, opts ...Option) []channel.Channel {
	t := &tracer{
		view:    v,
		logger:  log.New(io.Discard),
		visited: make(map[shader.NodeID]bool),
	}
	for _, o := range opts {
		o(t)
	}
	n, ok := v.Node(id)
	if !ok {
		return nil
	}
	return t.walk(n)
}

// Primary returns the first channel, or false when chs is empty.
func Primary(chs []channel.Channel) (channel.Channel, bool) {
	if len(chs) == 0 {
		return "", false
	}
	return chs[0], true
}

// Channels traces every node in ids and returns the primary channel of each
// node that feeds at least one.
func Channels(v shader.View, ids []shader.NodeID, opts ...Option) map[shader.NodeID]channel.Channel {
	out := make(map[shader.NodeID]channel.Channel, len(ids))
	for _, id := range ids {
		if ch, ok := Primary(Usage(v, id, opts...)); ok {
			out[id] = ch
		}
	}
	return out
}

func (t *tracer) walk(n *shader.Node) []channel.Channel {
	if t.visited[n.ID] {
		return nil
	}
	t.visited[n.ID] = true

	var found []channel.Channel
	for _, out := range t.view.Outputs(n.ID) {
		for _, c := range t.view.Connections(out, shader.Output) {
			dst, ok := t.view.Node(c.To.Node)
			if !ok {
				continue
			}
			found = append(found, t.visit(n, dst, c.To)...)
		}
	}
	return found
}

func (t *tracer) visit(from, dst *shader.Node, port shader.PortRef) []channel.Channel {
	if !dst.Kind.IsSink() {
		t.logger.Debug("trace step", "from", from.Name, "to", dst.Name, "kind", dst.Kind)
		return t.walk(dst)
	}
	local := port.LocalName()
	if dst.Kind.IsMaterial() {
		ch := channel.Channel(local)
		if local == shader.BumpInputLocal {
			ch = bumpChannel(from)
		}
		t.logger.Debug("trace hit material", "from", from.Name, "material", dst.Name, "channel", ch)
		return []channel.Channel{ch}
	}
	if !strings.Contains(strings.ToLower(local), displacementTag) {
		return nil
	}
	t.logger.Debug("trace hit output", "from", from.Name, "port", local)
	return []channel.Channel{channel.Channel(local)}
}

// bumpChannel tells bump from normal by the mode of the node feeding the
// material's bump input.
func bumpChannel(n *shader.Node) channel.Channel {
	if n.Kind != shader.KindBumpMap {
		return channel.Normal
	}
	v, ok := n.Param(shader.PortBumpType)
	if !ok {
		return channel.Normal
	}
	if mode, ok := shader.IntValue(v); ok && mode == shader.BumpHeightField {
		return channel.Bump
	}
	return channel.Normal
}
