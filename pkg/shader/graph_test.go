package shader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMaterialGraph(t *testing.T) (*Graph, *Node, *Node) {
	t.Helper()
	g := New("Steel")
	var mat, out *Node
	err := g.Update(func(tx *Tx) error {
		var err error
		if mat, err = tx.AddNode(KindStandardMaterial, "Standard Material"); err != nil {
			return err
		}
		if out, err = tx.AddNode(KindOutput, "Output"); err != nil {
			return err
		}
		return tx.Connect(tx.FindOutput(mat.ID, PortStdOutColor), tx.FindInput(out.ID, PortOutputSurface))
	})
	require.NoError(t, err)
	return g, mat, out
}

func TestFindPort(t *testing.T) {
	g, mat, _ := newMaterialGraph(t)

	tests := []struct {
		name  string
		path  []string
		dir   Direction
		valid bool
	}{
		{"Input", []string{PortStdBaseColor}, Input, true},
		{"Output", []string{PortStdOutColor}, Output, true},
		{"Missing", []string{"nope"}, Input, false},
		{"NoPath", nil, Input, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := g.FindPort(mat.ID, tt.path...)
			assert.Equal(t, tt.valid, ref.IsValid())
			if tt.valid {
				assert.Equal(t, tt.dir, ref.Dir)
			}
		})
	}

	assert.False(t, g.FindInput("missing", PortStdBaseColor).IsValid())
	assert.False(t, g.FindOutput(mat.ID, PortStdBaseColor).IsValid())
}

func TestNestedPorts(t *testing.T) {
	g := New("m")
	var tex *Node
	require.NoError(t, g.Update(func(tx *Tx) error {
		var err error
		tex, err = tx.AddNode(KindTextureSampler, "BaseColor")
		if err != nil {
			return err
		}
		return tx.SetValue(tx.FindInput(tex.ID, PortTexture, PortTexturePath), "/tex/a.png")
	}))

	ref := g.FindInput(tex.ID, PortTexture, PortTexturePath)
	require.True(t, ref.IsValid())
	assert.Equal(t, PortTexturePath, ref.ID())
	assert.Equal(t, ref, g.FindInput(tex.ID, PortTexture).Child(PortTexturePath))

	v, ok := g.Value(ref)
	require.True(t, ok)
	assert.Equal(t, "/tex/a.png", v)

	n, ok := g.Owner(ref)
	require.True(t, ok)
	assert.Equal(t, tex.ID, n.ID)
}

func TestConnections(t *testing.T) {
	g, mat, out := newMaterialGraph(t)

	from := g.FindOutput(mat.ID, PortStdOutColor)
	to := g.FindInput(out.ID, PortOutputSurface)

	in := g.Connections(to, Input)
	require.Len(t, in, 1)
	assert.Equal(t, from, in[0].From)

	outgoing := g.Connections(from, Output)
	require.Len(t, outgoing, 1)
	assert.Equal(t, to, outgoing[0].To)

	assert.Empty(t, g.Connections(to, Output))
	assert.Empty(t, g.Connections(PortRef{}, Input))
}

func TestNodesOfKind(t *testing.T) {
	g, mat, out := newMaterialGraph(t)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())

	mats := g.NodesOfKind(KindStandardMaterial)
	require.Len(t, mats, 1)
	assert.Equal(t, mat.ID, mats[0].ID)

	outs := g.NodesOfKind(KindOutput)
	require.Len(t, outs, 1)
	assert.Equal(t, out.ID, outs[0].ID)

	assert.Empty(t, g.NodesOfKind(KindTriplanar))
}

func TestNodeParam(t *testing.T) {
	g := New("m")
	var bump *Node
	require.NoError(t, g.Update(func(tx *Tx) error {
		var err error
		bump, err = tx.AddNode(KindBumpMap, "Bump")
		return err
	}))

	n, ok := g.Node(bump.ID)
	require.True(t, ok)
	v, ok := n.Param(PortBumpType)
	require.True(t, ok)
	typ, ok := IntValue(v)
	require.True(t, ok)
	assert.Equal(t, BumpHeightField, typ)

	_, ok = n.Param("missing")
	assert.False(t, ok)
}

func TestCatalogue(t *testing.T) {
	assert.Equal(t, KindTextureSampler, Redshift.KindOf(AssetTextureSampler))
	assert.Equal(t, KindPassthrough, Redshift.KindOf(AssetColorCorrection))
	assert.Equal(t, KindPassthrough, Redshift.KindOf("com.example.unknown"))

	a, ok := Redshift.Asset(KindTriplanar)
	require.True(t, ok)
	assert.Equal(t, AssetTriplanar, a)

	empty := NewCatalogue()
	_, err := empty.Instantiate(KindTriplanar, "x")
	assert.True(t, errors.Is(err, ErrUnknownKind))

	n1, err := Redshift.Instantiate(KindMathAbs, "a")
	require.NoError(t, err)
	n2, err := Redshift.Instantiate(KindMathAbs, "b")
	require.NoError(t, err)
	assert.NotEqual(t, n1.ID, n2.ID)
}

func TestLocalName(t *testing.T) {
	tests := map[string]string{
		PortStdBaseColor:  "base_color",
		PortStdBumpInput:  BumpInputLocal,
		PortOutputSurface: "surface",
		"plain":           "plain",
	}
	for in, want := range tests {
		if got := LocalName(in); got != want {
			t.Errorf("LocalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIntValue(t *testing.T) {
	for _, v := range []any{1, int32(1), int64(1), float32(1), 1.0} {
		got, ok := IntValue(v)
		if !ok || got != 1 {
			t.Errorf("IntValue(%T) = %d, %v", v, got, ok)
		}
	}
	if _, ok := IntValue("1"); ok {
		t.Error("IntValue(string) should fail")
	}
}

func TestKindIsSink(t *testing.T) {
	for _, k := range []Kind{KindStandardMaterial, KindMaterial, KindOutput} {
		assert.True(t, k.IsSink(), k.String())
	}
	for _, k := range []Kind{KindTextureSampler, KindBumpMap, KindTriplanar, KindMathAbs} {
		assert.False(t, k.IsSink(), k.String())
	}
}
