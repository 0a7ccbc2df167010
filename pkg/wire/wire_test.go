package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/imfine/texwire/pkg/shader"
)

type testMaterial struct {
	g   *shader.Graph
	mat *shader.Node
	out *shader.Node
}

// newTestMaterial returns a graph holding a standard material wired into a
// render output. withOutput false leaves the output out.
func newTestMaterial(t *testing.T, withOutput bool) *testMaterial {
	t.Helper()
	m := &testMaterial{g: shader.New("Steel")}
	require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
		var err error
		if m.mat, err = tx.AddNode(shader.KindStandardMaterial, "Standard Material"); err != nil {
			return err
		}
		if !withOutput {
			return nil
		}
		if m.out, err = tx.AddNode(shader.KindOutput, "Output"); err != nil {
			return err
		}
		return tx.Connect(tx.FindOutput(m.mat.ID, shader.PortStdOutColor), tx.FindInput(m.out.ID, shader.PortOutputSurface))
	}))
	return m
}

func (m *testMaterial) texture(t *testing.T, name, target string) *shader.Node {
	t.Helper()
	var n *shader.Node
	require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
		var err error
		if n, err = tx.AddNode(shader.KindTextureSampler, name); err != nil {
			return err
		}
		if target == "" {
			return nil
		}
		return tx.Connect(tx.FindOutput(n.ID, shader.PortTexOutColor), tx.FindInput(m.mat.ID, target))
	}))
	return n
}

// feeder returns the node connected into input port of node id, or nil.
func feeder(g shader.View, id shader.NodeID, port string) *shader.Node {
	conns := g.Connections(g.FindInput(id, port), shader.Input)
	if len(conns) != 1 {
		return nil
	}
	n, _ := g.Node(conns[0].From.Node)
	return n
}

func nodeNamed(g shader.View, k shader.Kind, name string) []*shader.Node {
	var out []*shader.Node
	for _, n := range g.NodesOfKind(k) {
		if n.Name == name {
			out = append(out, n)
		}
	}
	return out
}
