package wire

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/shader"
)

// Session is the bookkeeping of one batch. It is created per transaction
// and never shared between batches.
type Session struct {
	tx       *shader.Tx
	logger   *log.Logger
	material *shader.Node
	output   *shader.Node

	connected map[channel.Channel]bool
	aux       map[string]*shader.Node
	created   []shader.NodeID
}

// NewSession starts a batch on tx. material and output may be nil when the
// batch does not wire into them.
func NewSession(tx *shader.Tx, material, output *shader.Node, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Session{
		tx:        tx,
		logger:    logger,
		material:  material,
		output:    output,
		connected: make(map[channel.Channel]bool),
		aux:       make(map[string]*shader.Node),
	}
}

// Tx returns the session's transaction.
func (s *Session) Tx() *shader.Tx { return s.tx }

// slot maps a channel to the material slot it occupies. Bump and normal
// share the bump input.
func slot(ch channel.Channel) channel.Channel {
	if ch == channel.Bump || ch == channel.Normal {
		return channel.Channel(shader.BumpInputLocal)
	}
	return ch
}

// Connected reports whether the slot of ch was wired during this batch.
func (s *Session) Connected(ch channel.Channel) bool {
	return s.connected[slot(ch)]
}

// Claim marks the slot of ch as wired. It returns false when the slot was
// already claimed.
func (s *Session) Claim(ch channel.Channel) bool {
	k := slot(ch)
	if s.connected[k] {
		return false
	}
	s.connected[k] = true
	return true
}

// Create adds a node and records it as created by the batch.
func (s *Session) Create(k shader.Kind, name string, params ...Param) (*shader.Node, error) {
	n, err := CreateNode(s.tx, k, name, params...)
	if err != nil {
		return nil, err
	}
	s.created = append(s.created, n.ID)
	s.logger.Debug("created node", "kind", k, "name", name)
	return n, nil
}

// Aux returns the auxiliary node stored under key, creating it on first use.
func (s *Session) Aux(key string, k shader.Kind, name string, params ...Param) (*shader.Node, error) {
	if n, ok := s.aux[key]; ok {
		return n, nil
	}
	n, err := s.Create(k, name, params...)
	if err != nil {
		return nil, err
	}
	s.aux[key] = n
	return n, nil
}

// Created returns the IDs of nodes created during the batch in creation
// order.
func (s *Session) Created() []shader.NodeID {
	return append([]shader.NodeID(nil), s.created...)
}

// SelectCreated replaces the selection with the created nodes and extra.
func (s *Session) SelectCreated(extra ...*shader.Node) ([]shader.NodeID, error) {
	if err := s.tx.DeselectAll(); err != nil {
		return nil, err
	}
	ids := s.Created()
	for _, n := range extra {
		if n != nil {
			ids = append(ids, n.ID)
		}
	}
	if err := s.tx.Select(ids...); err != nil {
		return nil, err
	}
	return ids, nil
}
