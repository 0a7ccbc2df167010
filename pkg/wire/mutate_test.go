package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfine/texwire/pkg/shader"
)

func TestCreateNode(t *testing.T) {
	m := newTestMaterial(t, false)
	var n *shader.Node
	require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
		var err error
		n, err = CreateNode(tx, shader.KindTextureSampler, "BaseColor",
			Set("/tex/a.png", shader.PortTexture, shader.PortTexturePath),
			Set(shader.ColorspaceRaw, shader.PortTexture, shader.PortTextureColor))
		return err
	}))

	v, ok := m.g.Value(m.g.FindInput(n.ID, shader.PortTexture, shader.PortTexturePath))
	require.True(t, ok)
	assert.Equal(t, "/tex/a.png", v)
	got, _ := m.g.Node(n.ID)
	assert.Equal(t, "BaseColor", got.Name)
}

func TestCreateNodeUnknownParam(t *testing.T) {
	m := newTestMaterial(t, false)
	err := m.g.Update(func(tx *shader.Tx) error {
		_, err := CreateNode(tx, shader.KindMathAbs, "Abs", Set(1.0, "nope"))
		return err
	})
	assert.ErrorIs(t, err, shader.ErrUnknownPort)
	assert.Empty(t, m.g.NodesOfKind(shader.KindMathAbs))
}

func TestConnectReplacingTwice(t *testing.T) {
	m := newTestMaterial(t, false)
	a := m.texture(t, "a", "")
	b := m.texture(t, "b", "")
	dst := m.g.FindInput(m.mat.ID, shader.PortStdBaseColor)

	for _, src := range []*shader.Node{a, b} {
		require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
			return ConnectReplacing(tx, tx.FindOutput(src.ID, shader.PortTexOutColor), dst)
		}))
	}

	conns := m.g.Connections(dst, shader.Input)
	require.Len(t, conns, 1)
	assert.Equal(t, b.ID, conns[0].From.Node)
}

func TestWrapWithTriplanar(t *testing.T) {
	m := newTestMaterial(t, true)
	tex := m.texture(t, "tex", shader.PortStdBaseColor)
	require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
		return tx.Connect(tx.FindOutput(tex.ID, shader.PortTexOutColor), tx.FindInput(m.mat.ID, shader.PortStdEmission))
	}))

	out := m.g.FindOutput(tex.ID, shader.PortTexOutColor)
	var before []shader.PortRef
	for _, c := range m.g.Connections(out, shader.Output) {
		before = append(before, c.To)
	}
	require.Len(t, before, 2)

	var tri *shader.Node
	var rerouted []shader.PortRef
	require.NoError(t, m.g.Update(func(tx *shader.Tx) error {
		var err error
		if tri, err = tx.AddNode(shader.KindTriplanar, "Triplanar"); err != nil {
			return err
		}
		rerouted, err = WrapWithTriplanar(tx, tex.ID, tri.ID)
		return err
	}))

	var after []shader.PortRef
	for _, c := range m.g.Connections(m.g.FindOutput(tri.ID, shader.PortTriOutColor), shader.Output) {
		after = append(after, c.To)
	}
	assert.ElementsMatch(t, before, after)
	assert.ElementsMatch(t, before, rerouted)

	texOut := m.g.Connections(out, shader.Output)
	require.Len(t, texOut, 1)
	assert.Equal(t, m.g.FindInput(tri.ID, shader.PortTriImageX), texOut[0].To)
}

func TestWrapWithTriplanarUnknownNode(t *testing.T) {
	m := newTestMaterial(t, false)
	tex := m.texture(t, "tex", "")
	err := m.g.Update(func(tx *shader.Tx) error {
		_, err := WrapWithTriplanar(tx, tex.ID, "missing")
		return err
	})
	assert.ErrorIs(t, err, shader.ErrUnknownPort)
}
