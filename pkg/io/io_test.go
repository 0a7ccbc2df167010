package io

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/shader"
)

func sampleGraph(t *testing.T) (*shader.Graph, *shader.Node, *shader.Node) {
	t.Helper()
	g := shader.New("Steel")
	var tex, mat *shader.Node
	require.NoError(t, g.Update(func(tx *shader.Tx) error {
		var err error
		if mat, err = tx.AddNode(shader.KindStandardMaterial, "Standard Material"); err != nil {
			return err
		}
		if tex, err = tx.AddNode(shader.KindTextureSampler, "BaseColor"); err != nil {
			return err
		}
		if err := tx.SetValue(tx.FindInput(tex.ID, shader.PortTexture, shader.PortTexturePath), "/tex/steel_basecolor.png"); err != nil {
			return err
		}
		if err := tx.SetValue(tx.FindInput(tex.ID, shader.PortTexScale), shader.Vector{X: 2, Y: 2, Z: 1}); err != nil {
			return err
		}
		if err := tx.Connect(tx.FindOutput(tex.ID, shader.PortTexOutColor), tx.FindInput(mat.ID, shader.PortStdBaseColor)); err != nil {
			return err
		}
		return tx.Select(tex.ID)
	}))
	return g, tex, mat
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			g, tex, mat := sampleGraph(t)
			doc, err := FromGraph(g.Name(), g)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Write(doc, &buf, format))
			back, err := Read(&buf, format)
			require.NoError(t, err)

			g2, err := back.Graph()
			require.NoError(t, err)

			assert.Equal(t, "Steel", g2.Name())
			assert.Equal(t, g.NodeCount(), g2.NodeCount())
			assert.Equal(t, g.Edges(), g2.Edges())
			assert.Equal(t, []shader.NodeID{tex.ID}, g2.Selected())

			n, ok := g2.Node(tex.ID)
			require.True(t, ok)
			assert.Equal(t, shader.KindTextureSampler, n.Kind)

			path, _ := g2.Value(g2.FindInput(tex.ID, shader.PortTexture, shader.PortTexturePath))
			assert.Equal(t, "/tex/steel_basecolor.png", path)
			scale, _ := g2.Value(g2.FindInput(tex.ID, shader.PortTexScale))
			assert.Equal(t, shader.Vector{X: 2, Y: 2, Z: 1}, scale)

			m, ok := g2.Node(mat.ID)
			require.True(t, ok)
			assert.Equal(t, shader.KindStandardMaterial, m.Kind)
		})
	}
}

func TestIntValuesSurvive(t *testing.T) {
	g := shader.New("m")
	var bump *shader.Node
	require.NoError(t, g.Update(func(tx *shader.Tx) error {
		var err error
		if bump, err = tx.AddNode(shader.KindBumpMap, "Normal Map"); err != nil {
			return err
		}
		return tx.SetValue(tx.FindInput(bump.ID, shader.PortBumpType), shader.BumpTangentNormal)
	}))
	doc, err := FromGraph("m", g)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(doc, &buf))
	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	g2, err := back.Graph()
	require.NoError(t, err)

	v, _ := g2.Value(g2.FindInput(bump.ID, shader.PortBumpType))
	assert.Equal(t, shader.BumpTangentNormal, v)
}

func TestUnsupportedSpace(t *testing.T) {
	doc := &Document{Material: "Arnold", Space: "com.autodesk.arnold.nodespace"}
	_, err := doc.Graph()
	assert.True(t, errors.Is(err, errors.ErrCodeUnsupported))
}

func TestUnknownAssetKeepsKind(t *testing.T) {
	doc := &Document{
		Material: "m",
		Nodes: []Node{
			{ID: "a", Asset: "com.example.custom", Kind: "triplanar"},
			{ID: "b", Asset: "com.example.other"},
		},
	}
	g, err := doc.Graph()
	require.NoError(t, err)
	a, _ := g.Node("a")
	b, _ := g.Node("b")
	assert.Equal(t, shader.KindTriplanar, a.Kind)
	assert.Equal(t, shader.KindPassthrough, b.Kind)
}

func TestInvalidEdge(t *testing.T) {
	doc := &Document{
		Material: "m",
		Nodes:    []Node{{ID: "a", Asset: shader.AssetMathAbs, Outputs: []Port{{ID: shader.PortAbsOut}}}},
		Edges:    []Edge{{From: Endpoint{Node: "a", Port: shader.PortAbsOut}, To: Endpoint{Node: "ghost", Port: "x"}}},
	}
	_, err := doc.Graph()
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
	assert.ErrorIs(t, err, shader.ErrUnknownPort)
}

func TestBadValueType(t *testing.T) {
	doc := &Document{
		Material: "m",
		Nodes: []Node{{ID: "a", Asset: shader.AssetMathAbs, Inputs: []Port{
			{ID: shader.PortAbsInput, Value: &Value{Type: "matrix"}},
		}}},
	}
	_, err := doc.Graph()
	assert.Error(t, err)
}

func TestImportExport(t *testing.T) {
	g, _, _ := sampleGraph(t)
	doc, err := FromGraph("Steel", g)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"steel.json", "steel.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Export(doc, path))
		back, err := Import(path)
		require.NoError(t, err)
		assert.Equal(t, doc.Material, back.Material)
		assert.Len(t, back.Nodes, len(doc.Nodes))
		assert.Equal(t, doc.Edges, back.Edges)
	}

	_, err = Import(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatJSON,
	}
	for in, want := range tests {
		if got := FormatOf(in); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", in, got, want)
		}
	}
}
