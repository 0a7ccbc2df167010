package shader

import (
	"fmt"
	"strings"
)

// Direction tells inputs from outputs.
type Direction int

const (
	Input Direction = iota
	Output
)

func (d Direction) String() string {
	if d == Output {
		return "output"
	}
	return "input"
}

// pathSep joins port path segments inside a PortRef. Port identifiers contain
// dots, so a slash is used.
const pathSep = "/"

// Port is a connection point on a node. Inputs may carry a default value used
// while unconnected. Group ports hold child ports.
type Port struct {
	ID       string
	Dir      Direction
	Value    any
	Children []*Port
}

// Child returns the direct child with the given identifier, or nil.
func (p *Port) Child(id string) *Port {
	for _, c := range p.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (p *Port) clone() *Port {
	c := &Port{ID: p.ID, Dir: p.Dir, Value: p.Value}
	if len(p.Children) > 0 {
		c.Children = make([]*Port, len(p.Children))
		for i, ch := range p.Children {
			c.Children[i] = ch.clone()
		}
	}
	return c
}

// PortRef addresses a port by owning node, direction and path. The zero value
// is the invalid reference returned by failed lookups.
type PortRef struct {
	Node NodeID
	Dir  Direction
	Path string
}

// Ref builds a reference from path segments.
func Ref(node NodeID, dir Direction, path ...string) PortRef {
	if node == "" || len(path) == 0 {
		return PortRef{}
	}
	return PortRef{Node: node, Dir: dir, Path: strings.Join(path, pathSep)}
}

// IsValid reports whether r refers to something. It does not check that the
// port exists in any graph.
func (r PortRef) IsValid() bool { return r.Node != "" && r.Path != "" }

// Segments splits the path into port identifiers.
func (r PortRef) Segments() []string {
	if r.Path == "" {
		return nil
	}
	return strings.Split(r.Path, pathSep)
}

// ID returns the identifier of the addressed port, the last path segment.
func (r PortRef) ID() string {
	s := r.Segments()
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}

// LocalName returns the port identifier without its owning node type prefix:
// "com.redshift3d.redshift4c4d.nodes.core.standardmaterial.base_color" becomes
// "base_color".
func (r PortRef) LocalName() string {
	return LocalName(r.ID())
}

// Child extends r by one path segment.
func (r PortRef) Child(id string) PortRef {
	if !r.IsValid() || id == "" {
		return PortRef{}
	}
	return PortRef{Node: r.Node, Dir: r.Dir, Path: r.Path + pathSep + id}
}

func (r PortRef) String() string {
	if !r.IsValid() {
		return "<invalid port>"
	}
	return fmt.Sprintf("%s:%s:%s", r.Node, r.Dir, r.Path)
}

// LocalName strips everything up to the last dot of a port identifier.
func LocalName(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	From PortRef
	To   PortRef
}

// Vector is a three-component value used by transform and color ports.
type Vector struct {
	X, Y, Z float64
}

// IntValue converts numeric port values to int. Values decoded from documents are
// often float64, so all numeric types are accepted.
func IntValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// StringValue returns v when it is a string.
func StringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
