package io

import (
	"fmt"
	"strings"

	"github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/shader"
)

// Document is the serialized form of a material graph.
type Document struct {
	Material string   `json:"material" yaml:"material" bson:"material"`
	Space    string   `json:"space" yaml:"space" bson:"space"`
	Nodes    []Node   `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges    []Edge   `json:"edges" yaml:"edges" bson:"edges"`
	Selected []string `json:"selected,omitempty" yaml:"selected,omitempty" bson:"selected,omitempty"`
}

// Node is a serialized graph node.
type Node struct {
	ID      string `json:"id" yaml:"id" bson:"id"`
	Asset   string `json:"asset" yaml:"asset" bson:"asset"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
	Name    string `json:"name" yaml:"name" bson:"name"`
	Inputs  []Port `json:"inputs,omitempty" yaml:"inputs,omitempty" bson:"inputs,omitempty"`
	Outputs []Port `json:"outputs,omitempty" yaml:"outputs,omitempty" bson:"outputs,omitempty"`
}

// Port is a serialized port and its children.
type Port struct {
	ID       string `json:"id" yaml:"id" bson:"id"`
	Value    *Value `json:"value,omitempty" yaml:"value,omitempty" bson:"value,omitempty"`
	Children []Port `json:"children,omitempty" yaml:"children,omitempty" bson:"children,omitempty"`
}

// Endpoint addresses a port in an edge.
type Endpoint struct {
	Node string `json:"node" yaml:"node" bson:"node"`
	Port string `json:"port" yaml:"port" bson:"port"`
}

// Edge is a serialized connection.
type Edge struct {
	From Endpoint `json:"from" yaml:"from" bson:"from"`
	To   Endpoint `json:"to" yaml:"to" bson:"to"`
}

// FromGraph captures the current state of v as a document.
func FromGraph(material string, v shader.View) (*Document, error) {
	d := &Document{Material: material, Space: shader.NodeSpace}
	for _, n := range v.Nodes() {
		in, err := encodePorts(n.Inputs)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		out, err := encodePorts(n.Outputs)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}
		d.Nodes = append(d.Nodes, Node{
			ID:      string(n.ID),
			Asset:   n.Asset,
			Kind:    n.Kind.String(),
			Name:    n.Name,
			Inputs:  in,
			Outputs: out,
		})
	}
	for _, c := range v.Edges() {
		d.Edges = append(d.Edges, Edge{
			From: Endpoint{Node: string(c.From.Node), Port: c.From.Path},
			To:   Endpoint{Node: string(c.To.Node), Port: c.To.Path},
		})
	}
	for _, id := range v.Selected() {
		d.Selected = append(d.Selected, string(id))
	}
	return d, nil
}

func encodePorts(ps []*shader.Port) ([]Port, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]Port, len(ps))
	for i, p := range ps {
		v, err := encodeValue(p.Value)
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", p.ID, err)
		}
		children, err := encodePorts(p.Children)
		if err != nil {
			return nil, err
		}
		out[i] = Port{ID: p.ID, Value: v, Children: children}
	}
	return out, nil
}

// Graph rebuilds the material graph. Node kinds are taken from the
// catalogue by asset; the stored kind is only used for assets the catalogue
// does not know.
func (d *Document) Graph(opts ...shader.Option) (*shader.Graph, error) {
	if d.Space != "" && d.Space != shader.NodeSpace {
		return nil, errors.New(errors.ErrCodeUnsupported, "material %q uses node space %q", d.Material, d.Space)
	}

	g := shader.New(d.Material, opts...)
	cat := g.Catalogue()
	err := g.Update(func(tx *shader.Tx) error {
		for _, n := range d.Nodes {
			node, err := d.decodeNode(cat, n)
			if err != nil {
				return err
			}
			if err := tx.Insert(node); err != nil {
				return fmt.Errorf("node %s: %w", n.ID, err)
			}
		}
		for _, e := range d.Edges {
			from := shader.Ref(shader.NodeID(e.From.Node), shader.Output, strings.Split(e.From.Port, "/")...)
			to := shader.Ref(shader.NodeID(e.To.Node), shader.Input, strings.Split(e.To.Port, "/")...)
			if err := tx.Connect(from, to); err != nil {
				return fmt.Errorf("edge %s->%s: %w", e.From.Node, e.To.Node, err)
			}
		}
		ids := make([]shader.NodeID, len(d.Selected))
		for i, id := range d.Selected {
			ids[i] = shader.NodeID(id)
		}
		return tx.Select(ids...)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "material %q", d.Material)
	}
	return g, nil
}

func (d *Document) decodeNode(cat *shader.Catalogue, n Node) (*shader.Node, error) {
	kind := cat.KindOf(n.Asset)
	if _, known := cat.Schema(n.Asset); !known && n.Kind != "" {
		kind = shader.ParseKind(n.Kind)
	}
	in, err := decodePorts(n.Inputs, shader.Input)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}
	out, err := decodePorts(n.Outputs, shader.Output)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}
	return &shader.Node{
		ID:      shader.NodeID(n.ID),
		Kind:    kind,
		Asset:   n.Asset,
		Name:    n.Name,
		Inputs:  in,
		Outputs: out,
	}, nil
}

func decodePorts(ps []Port, dir shader.Direction) ([]*shader.Port, error) {
	if len(ps) == 0 {
		return nil, nil
	}
	out := make([]*shader.Port, len(ps))
	for i, p := range ps {
		v, err := p.Value.decode()
		if err != nil {
			return nil, fmt.Errorf("port %s: %w", p.ID, err)
		}
		children, err := decodePorts(p.Children, dir)
		if err != nil {
			return nil, err
		}
		out[i] = &shader.Port{ID: p.ID, Dir: dir, Value: v, Children: children}
	}
	return out, nil
}
