package shader

import (
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInvalidNodeID is returned when a node without an identifier is inserted.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when a node identifier is already in use.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by edits that reference a missing node.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownPort is returned by edits that reference a missing port.
	ErrUnknownPort = errors.New("unknown port")

	// ErrUnknownKind is returned when the catalogue has no schema for a kind or asset.
	ErrUnknownKind = errors.New("kind not in catalogue")

	// ErrDirection is returned when a connection does not run from an output to an input.
	ErrDirection = errors.New("connection must run from an output to an input")

	// ErrInputOccupied is returned when connecting into an input that already
	// has a writer. Inputs accept a single incoming connection.
	ErrInputOccupied = errors.New("input already connected")
)

// NodeID is the stable identity of a node within its graph.
type NodeID string

// NewNodeID returns a fresh random identifier.
func NewNodeID() NodeID { return NodeID(uuid.NewString()) }

// Node is a vertex of the material graph. Typed parameters such as the bump
// map input type live as default values of input ports.
type Node struct {
	ID      NodeID
	Kind    Kind
	Asset   string
	Name    string
	Inputs  []*Port
	Outputs []*Port
}

// Ports returns the top-level ports in direction d.
func (n *Node) Ports(d Direction) []*Port {
	if d == Output {
		return n.Outputs
	}
	return n.Inputs
}

// Param returns the default value of the input port addressed by path.
func (n *Node) Param(path ...string) (any, bool) {
	p := findPort(n.Inputs, path)
	if p == nil {
		return nil, false
	}
	return p.Value, true
}

func (n *Node) clone() *Node {
	c := *n
	c.Inputs = clonePorts(n.Inputs)
	c.Outputs = clonePorts(n.Outputs)
	return &c
}

func clonePorts(ps []*Port) []*Port {
	if ps == nil {
		return nil
	}
	out := make([]*Port, len(ps))
	for i, p := range ps {
		out[i] = p.clone()
	}
	return out
}

func findPort(ps []*Port, path []string) *Port {
	if len(path) == 0 {
		return nil
	}
	var cur *Port
	for _, p := range ps {
		if p.ID == path[0] {
			cur = p
			break
		}
	}
	for _, seg := range path[1:] {
		if cur == nil {
			return nil
		}
		cur = cur.Child(seg)
	}
	return cur
}

// View is the read side of a graph, shared by committed graphs and open
// transactions.
type View interface {
	Node(id NodeID) (*Node, bool)
	Nodes() []*Node
	NodesOfKind(k Kind) []*Node
	Inputs(id NodeID) []PortRef
	Outputs(id NodeID) []PortRef
	FindInput(id NodeID, path ...string) PortRef
	FindOutput(id NodeID, path ...string) PortRef
	FindPort(id NodeID, path ...string) PortRef
	Port(ref PortRef) (*Port, bool)
	Value(ref PortRef) (any, bool)
	Connections(ref PortRef, dir Direction) []Connection
	Edges() []Connection
	Owner(ref PortRef) (*Node, bool)
	Selected() []NodeID
}

// state is one version of a graph. Committed states are never modified; a
// transaction edits its own clone.
type state struct {
	nodes    map[NodeID]*Node
	order    []NodeID
	conns    []Connection
	selected map[NodeID]bool
}

func newState() *state {
	return &state{
		nodes:    make(map[NodeID]*Node),
		selected: make(map[NodeID]bool),
	}
}

func (s *state) clone() *state {
	c := &state{
		nodes:    make(map[NodeID]*Node, len(s.nodes)),
		order:    slices.Clone(s.order),
		conns:    slices.Clone(s.conns),
		selected: make(map[NodeID]bool, len(s.selected)),
	}
	for id, n := range s.nodes {
		c.nodes[id] = n.clone()
	}
	for id, v := range s.selected {
		c.selected[id] = v
	}
	return c
}

func (s *state) Node(id NodeID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (s *state) Nodes() []*Node {
	out := make([]*Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

func (s *state) NodesOfKind(k Kind) []*Node {
	var out []*Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}

func (s *state) Inputs(id NodeID) []PortRef  { return s.topLevel(id, Input) }
func (s *state) Outputs(id NodeID) []PortRef { return s.topLevel(id, Output) }

func (s *state) topLevel(id NodeID, d Direction) []PortRef {
	n, ok := s.nodes[id]
	if !ok {
		return nil
	}
	ps := n.Ports(d)
	refs := make([]PortRef, len(ps))
	for i, p := range ps {
		refs[i] = PortRef{Node: id, Dir: d, Path: p.ID}
	}
	return refs
}

func (s *state) FindInput(id NodeID, path ...string) PortRef {
	return s.find(id, Input, path)
}

func (s *state) FindOutput(id NodeID, path ...string) PortRef {
	return s.find(id, Output, path)
}

// FindPort searches the inputs first, then the outputs.
func (s *state) FindPort(id NodeID, path ...string) PortRef {
	if r := s.find(id, Input, path); r.IsValid() {
		return r
	}
	return s.find(id, Output, path)
}

func (s *state) find(id NodeID, d Direction, path []string) PortRef {
	n, ok := s.nodes[id]
	if !ok || findPort(n.Ports(d), path) == nil {
		return PortRef{}
	}
	return Ref(id, d, path...)
}

func (s *state) Port(ref PortRef) (*Port, bool) {
	if !ref.IsValid() {
		return nil, false
	}
	n, ok := s.nodes[ref.Node]
	if !ok {
		return nil, false
	}
	p := findPort(n.Ports(ref.Dir), ref.Segments())
	return p, p != nil
}

func (s *state) Value(ref PortRef) (any, bool) {
	p, ok := s.Port(ref)
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Connections returns the incoming connections of ref when dir is Input and
// the outgoing ones when dir is Output.
func (s *state) Connections(ref PortRef, dir Direction) []Connection {
	if !ref.IsValid() {
		return nil
	}
	var out []Connection
	for _, c := range s.conns {
		if (dir == Input && c.To == ref) || (dir == Output && c.From == ref) {
			out = append(out, c)
		}
	}
	return out
}

// Edges returns a copy of every connection in creation order.
func (s *state) Edges() []Connection { return slices.Clone(s.conns) }

func (s *state) Owner(ref PortRef) (*Node, bool) {
	if _, ok := s.Port(ref); !ok {
		return nil, false
	}
	return s.Node(ref.Node)
}

// Selected returns selected node IDs in insertion order.
func (s *state) Selected() []NodeID {
	var out []NodeID
	for _, id := range s.order {
		if s.selected[id] {
			out = append(out, id)
		}
	}
	return out
}

// Graph is a material node graph. Reads are served from the last committed
// state; edits require a transaction.
//
// The zero value is not usable; create graphs with New.
type Graph struct {
	name      string
	catalogue *Catalogue

	mu   sync.Mutex
	cur  *state
	open *Tx
	rev  uint64
}

// Option configures a Graph.
type Option func(*Graph)

// WithCatalogue replaces the Redshift catalogue.
func WithCatalogue(c *Catalogue) Option {
	return func(g *Graph) { g.catalogue = c }
}

// New returns an empty graph.
func New(name string, opts ...Option) *Graph {
	g := &Graph{name: name, catalogue: Redshift, cur: newState()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Name returns the name of the material that owns the graph.
func (g *Graph) Name() string { return g.name }

// Catalogue returns the node catalogue used to create and recognise nodes.
func (g *Graph) Catalogue() *Catalogue { return g.catalogue }

// Revision counts committed transactions.
func (g *Graph) Revision() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rev
}

func (g *Graph) snapshot() *state {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cur
}

func (g *Graph) Node(id NodeID) (*Node, bool)   { return g.snapshot().Node(id) }
func (g *Graph) Nodes() []*Node                 { return g.snapshot().Nodes() }
func (g *Graph) NodesOfKind(k Kind) []*Node     { return g.snapshot().NodesOfKind(k) }
func (g *Graph) Inputs(id NodeID) []PortRef     { return g.snapshot().Inputs(id) }
func (g *Graph) Outputs(id NodeID) []PortRef    { return g.snapshot().Outputs(id) }
func (g *Graph) Port(ref PortRef) (*Port, bool) { return g.snapshot().Port(ref) }
func (g *Graph) Value(ref PortRef) (any, bool)  { return g.snapshot().Value(ref) }
func (g *Graph) Edges() []Connection            { return g.snapshot().Edges() }
func (g *Graph) Selected() []NodeID             { return g.snapshot().Selected() }

func (g *Graph) Owner(ref PortRef) (*Node, bool) { return g.snapshot().Owner(ref) }

func (g *Graph) FindInput(id NodeID, path ...string) PortRef {
	return g.snapshot().FindInput(id, path...)
}

func (g *Graph) FindOutput(id NodeID, path ...string) PortRef {
	return g.snapshot().FindOutput(id, path...)
}

func (g *Graph) FindPort(id NodeID, path ...string) PortRef {
	return g.snapshot().FindPort(id, path...)
}

func (g *Graph) Connections(ref PortRef, dir Direction) []Connection {
	return g.snapshot().Connections(ref, dir)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.snapshot().nodes) }

// EdgeCount returns the number of connections.
func (g *Graph) EdgeCount() int { return len(g.snapshot().conns) }

var (
	_ View = (*Graph)(nil)
	_ View = (*Tx)(nil)
)
