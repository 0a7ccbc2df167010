package wire

import (
	"fmt"

	"github.com/imfine/texwire/pkg/shader"
)

// Param sets the default value of the input port at Path.
type Param struct {
	Path  []string
	Value any
}

// Set builds a Param.
func Set(value any, path ...string) Param {
	return Param{Path: path, Value: value}
}

// CreateNode adds a node of kind k and applies params to its inputs.
func CreateNode(tx *shader.Tx, k shader.Kind, name string, params ...Param) (*shader.Node, error) {
	n, err := tx.AddNode(k, name)
	if err != nil {
		return nil, err
	}
	for _, p := range params {
		ref := tx.FindInput(n.ID, p.Path...)
		if !ref.IsValid() {
			return nil, fmt.Errorf("%s %q: %w: %v", k, name, shader.ErrUnknownPort, p.Path)
		}
		if err := tx.SetValue(ref, p.Value); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// ConnectReplacing connects src to dst after removing every connection that
// fed dst. Applying it twice leaves only the latest connection.
func ConnectReplacing(tx *shader.Tx, src, dst shader.PortRef) error {
	if _, err := tx.DisconnectAll(dst, shader.Input); err != nil {
		return err
	}
	return tx.Connect(src, dst)
}

// WrapWithTriplanar inserts triplanar between a texture sampler and every
// port its color output fed. It returns the rerouted targets.
func WrapWithTriplanar(tx *shader.Tx, texture, triplanar shader.NodeID) ([]shader.PortRef, error) {
	out := tx.FindOutput(texture, shader.PortTexOutColor)
	imageX := tx.FindInput(triplanar, shader.PortTriImageX)
	triOut := tx.FindOutput(triplanar, shader.PortTriOutColor)
	if !out.IsValid() || !imageX.IsValid() || !triOut.IsValid() {
		return nil, fmt.Errorf("wrap %s with %s: %w", texture, triplanar, shader.ErrUnknownPort)
	}

	removed, err := tx.DisconnectAll(out, shader.Output)
	if err != nil {
		return nil, err
	}
	if err := ConnectReplacing(tx, out, imageX); err != nil {
		return nil, err
	}

	var targets []shader.PortRef
	for _, c := range removed {
		if c.To.Node == triplanar {
			continue
		}
		if err := ConnectReplacing(tx, triOut, c.To); err != nil {
			return nil, err
		}
		targets = append(targets, c.To)
	}
	return targets, nil
}
