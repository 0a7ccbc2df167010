package shader

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrTxInProgress is returned by Begin while another transaction is open.
	ErrTxInProgress = errors.New("transaction already in progress")

	// ErrTxClosed is returned by edits on a committed or discarded transaction.
	ErrTxClosed = errors.New("transaction closed")

	// ErrCommitFailed wraps validation failures detected at commit time.
	ErrCommitFailed = errors.New("commit failed")
)

// EditOp names the kind of change recorded by an Edit.
type EditOp string

const (
	OpAddNode    EditOp = "add_node"
	OpRemoveNode EditOp = "remove_node"
	OpRename     EditOp = "rename"
	OpSetValue   EditOp = "set_value"
	OpConnect    EditOp = "connect"
	OpDisconnect EditOp = "disconnect"
	OpSelect     EditOp = "select"
)

// Edit is one entry of a transaction's change log.
type Edit struct {
	Op   EditOp
	Node NodeID
	Port PortRef
	From PortRef
}

// Tx is an open set of edits against a private copy of the graph. Reads on a
// Tx see its own edits. Nothing becomes visible to the Graph until Commit.
type Tx struct {
	*state
	g     *Graph
	base  *state
	edits []Edit
	done  bool
}

// Begin opens a transaction. Only one transaction may be open per graph.
func (g *Graph) Begin() (*Tx, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.open != nil {
		return nil, ErrTxInProgress
	}
	tx := &Tx{state: g.cur.clone(), g: g, base: g.cur}
	g.open = tx
	return tx, nil
}

// Update runs fn inside a transaction and commits when fn returns nil. Any
// error or panic from fn discards all of its edits.
func (g *Graph) Update(fn func(tx *Tx) error) error {
	tx, err := g.Begin()
	if err != nil {
		return err
	}
	defer tx.Discard()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Graph returns the graph the transaction edits.
func (tx *Tx) Graph() *Graph { return tx.g }

// Catalogue returns the graph's node catalogue.
func (tx *Tx) Catalogue() *Catalogue { return tx.g.catalogue }

// Active reports whether the transaction still accepts edits.
func (tx *Tx) Active() bool { return !tx.done }

// Edits returns the change log in order.
func (tx *Tx) Edits() []Edit { return slices.Clone(tx.edits) }

func (tx *Tx) check() error {
	if tx.done {
		return ErrTxClosed
	}
	return nil
}

func (tx *Tx) log(e Edit) { tx.edits = append(tx.edits, e) }

// AddNode creates a node of kind k from the catalogue.
func (tx *Tx) AddNode(k Kind, name string) (*Node, error) {
	if err := tx.check(); err != nil {
		return nil, err
	}
	n, err := tx.g.catalogue.Instantiate(k, name)
	if err != nil {
		return nil, err
	}
	return n, tx.Insert(n)
}

// Insert adds a prepared node. Importers use it to keep node identities.
func (tx *Tx) Insert(n *Node) error {
	if err := tx.check(); err != nil {
		return err
	}
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := tx.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeID, n.ID)
	}
	tx.nodes[n.ID] = n
	tx.order = append(tx.order, n.ID)
	tx.log(Edit{Op: OpAddNode, Node: n.ID})
	return nil
}

// RemoveNode deletes a node and every connection touching it.
func (tx *Tx) RemoveNode(id NodeID) error {
	if err := tx.check(); err != nil {
		return err
	}
	if _, ok := tx.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	tx.conns = slices.DeleteFunc(tx.conns, func(c Connection) bool {
		return c.From.Node == id || c.To.Node == id
	})
	delete(tx.nodes, id)
	delete(tx.selected, id)
	tx.order = slices.DeleteFunc(tx.order, func(x NodeID) bool { return x == id })
	tx.log(Edit{Op: OpRemoveNode, Node: id})
	return nil
}

// SetName renames a node.
func (tx *Tx) SetName(id NodeID, name string) error {
	if err := tx.check(); err != nil {
		return err
	}
	n, ok := tx.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	n.Name = name
	tx.log(Edit{Op: OpRename, Node: id})
	return nil
}

// SetValue writes the default value of a port.
func (tx *Tx) SetValue(ref PortRef, v any) error {
	if err := tx.check(); err != nil {
		return err
	}
	p, ok := tx.Port(ref)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, ref)
	}
	p.Value = v
	tx.log(Edit{Op: OpSetValue, Node: ref.Node, Port: ref})
	return nil
}

// Connect links output from to input to. The input must be free.
func (tx *Tx) Connect(from, to PortRef) error {
	if err := tx.check(); err != nil {
		return err
	}
	if err := tx.connectable(from, to); err != nil {
		return err
	}
	if len(tx.Connections(to, Input)) > 0 {
		return fmt.Errorf("%w: %s", ErrInputOccupied, to)
	}
	tx.conns = append(tx.conns, Connection{From: from, To: to})
	tx.log(Edit{Op: OpConnect, Node: to.Node, Port: to, From: from})
	return nil
}

func (tx *Tx) connectable(from, to PortRef) error {
	if from.Dir != Output || to.Dir != Input {
		return ErrDirection
	}
	if _, ok := tx.Port(from); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, from)
	}
	if _, ok := tx.Port(to); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPort, to)
	}
	return nil
}

// Disconnect removes the connection from -> to if present. It reports
// whether a connection was removed.
func (tx *Tx) Disconnect(from, to PortRef) (bool, error) {
	if err := tx.check(); err != nil {
		return false, err
	}
	i := slices.Index(tx.conns, Connection{From: from, To: to})
	if i < 0 {
		return false, nil
	}
	tx.conns = slices.Delete(tx.conns, i, i+1)
	tx.log(Edit{Op: OpDisconnect, Node: to.Node, Port: to, From: from})
	return true, nil
}

// DisconnectAll removes every connection of ref in direction dir and returns
// them.
func (tx *Tx) DisconnectAll(ref PortRef, dir Direction) ([]Connection, error) {
	if err := tx.check(); err != nil {
		return nil, err
	}
	removed := tx.Connections(ref, dir)
	for _, c := range removed {
		if _, err := tx.Disconnect(c.From, c.To); err != nil {
			return nil, err
		}
	}
	return removed, nil
}

// Select marks nodes as selected.
func (tx *Tx) Select(ids ...NodeID) error {
	if err := tx.check(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := tx.nodes[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownNode, id)
		}
		tx.selected[id] = true
		tx.log(Edit{Op: OpSelect, Node: id})
	}
	return nil
}

// DeselectAll clears the selection.
func (tx *Tx) DeselectAll() error {
	if err := tx.check(); err != nil {
		return err
	}
	clear(tx.selected)
	return nil
}

// Commit validates the edited state and publishes it atomically. The
// transaction is closed afterwards, whether or not the commit succeeded.
func (tx *Tx) Commit() error {
	if err := tx.check(); err != nil {
		return err
	}
	tx.done = true

	g := tx.g
	g.mu.Lock()
	defer g.mu.Unlock()
	g.open = nil

	if err := tx.state.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	if g.cur != tx.base {
		return fmt.Errorf("%w: graph changed since Begin", ErrCommitFailed)
	}
	g.cur = tx.state
	g.rev++
	return nil
}

// Discard drops all edits. It is safe to call more than once and after
// Commit.
func (tx *Tx) Discard() {
	if tx.done {
		return
	}
	tx.done = true
	g := tx.g
	g.mu.Lock()
	if g.open == tx {
		g.open = nil
	}
	g.mu.Unlock()
}

func (s *state) validate() error {
	seen := make(map[PortRef]bool, len(s.conns))
	for _, c := range s.conns {
		if _, ok := s.Port(c.From); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPort, c.From)
		}
		if _, ok := s.Port(c.To); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPort, c.To)
		}
		if seen[c.To] {
			return fmt.Errorf("%w: %s", ErrInputOccupied, c.To)
		}
		seen[c.To] = true
	}
	return nil
}
