package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/store"
)

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Steel", "Steel"},
		{"Steel #1", "Steel__1"},
		{"__Brass__", "Brass"},
		{"Metal-Panel.v2", "Metal_Panel_v2"},
		{"강철", "강철"},
		{"!!!", "MaterialNameError"},
		{"", "MaterialNameError"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SafeName(tt.in), tt.in)
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Steel_BaseColor.png", FileName("Steel", channel.BaseColor, ".png"))
	assert.Equal(t, "Steel_Metalic.exr", FileName("Steel", channel.ReflMetalness, ".exr"))
	assert.Equal(t, "Steel_Texture.jpg", FileName("Steel", "", ".jpg"))
	assert.Equal(t, "Steel_Some_Port.tif", FileName("Steel", "some_port", ".tif"))
	assert.Equal(t, "Wood_Refl_Color.png", FileName("Wood", "refl_color", ".png"))
}

func TestResolver(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/abs/a.png", []byte("a"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/scene/b.png", []byte("b"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/scene/tex/c.png", []byte("c"), 0o644))
	require.NoError(t, fs.MkdirAll("/scene/tex/dir.png", 0o755))

	r := NewResolver(fs, "/scene")
	tests := []struct {
		in, want string
	}{
		{"/abs/a.png", "/abs/a.png"},
		{"b.png", "/scene/b.png"},
		{"c.png", "/scene/tex/c.png"},
	}
	for _, tt := range tests {
		got, err := r.Resolve(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, p := range []string{"missing.png", "dir.png", ""} {
		_, err := r.Resolve(p)
		assert.Error(t, err, p)
	}

	_, err := NewResolver(fs, "").Resolve("b.png")
	assert.Error(t, err)
}

func TestResolverWorkDir(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/maps/a.png", []byte("a"), 0o644))
	require.NoError(t, util.WriteFile(fs, "/maps/b.png", []byte("b"), 0o644))

	r := NewResolver(fs, "/scene", WithWorkDir("/work"))
	assert.Equal(t, []string{"/work/maps/a.png", "/scene/maps/a.png", "/scene/tex/maps/a.png"}, r.Candidates("maps/a.png"))

	got, err := r.Resolve("maps/a.png")
	require.NoError(t, err)
	assert.Equal(t, "/work/maps/a.png", got)

	// Relative paths no longer hit the filesystem root.
	_, err = r.Resolve("maps/b.png")
	assert.Error(t, err)

	got, err = r.Resolve("/maps/b.png")
	require.NoError(t, err)
	assert.Equal(t, "/maps/b.png", got)
}

// buildGraph makes a material with one sampler per entry of paths; samplers
// whose channel is non-empty are connected to that material port.
func buildGraph(t *testing.T, name string, textures map[string]string) (*shader.Graph, map[string]shader.NodeID) {
	t.Helper()
	g := shader.New(name)
	ids := make(map[string]shader.NodeID)
	require.NoError(t, g.Update(func(tx *shader.Tx) error {
		mat, err := tx.AddNode(shader.KindStandardMaterial, "Standard Material")
		if err != nil {
			return err
		}
		for p, port := range textures {
			tex, err := tx.AddNode(shader.KindTextureSampler, p)
			if err != nil {
				return err
			}
			ids[p] = tex.ID
			if err := tx.SetValue(tx.FindInput(tex.ID, shader.PortTexture, shader.PortTexturePath), p); err != nil {
				return err
			}
			if port == "" {
				continue
			}
			if err := tx.Connect(tx.FindOutput(tex.ID, shader.PortTexOutColor), tx.FindInput(mat.ID, port)); err != nil {
				return err
			}
		}
		// A sampler without a path is not collected.
		_, err = tx.AddNode(shader.KindTextureSampler, "empty")
		return err
	}))
	return g, ids
}

func TestScan(t *testing.T) {
	g, ids := buildGraph(t, "Steel", map[string]string{
		"steel_col.png":   shader.PortStdBaseColor,
		"steel_rough.png": shader.PortStdRoughness,
	})
	items := Scan("Steel", g)
	require.Len(t, items, 2)

	byNode := map[shader.NodeID]Item{}
	for _, it := range items {
		byNode[it.Node] = it
	}
	assert.Equal(t, channel.BaseColor, byNode[ids["steel_col.png"]].Channel)
	assert.Equal(t, channel.Roughness, byNode[ids["steel_rough.png"]].Channel)
	assert.Equal(t, "steel_rough.png", byNode[ids["steel_rough.png"]].Path)
}

func TestCollectGraph(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/scene/tex/steel_col.png", []byte("color"), 0o644))
	require.NoError(t, util.WriteFile(src, "/scene/steel_rough.png", []byte("rough"), 0o644))
	dst := memfs.New()

	g, ids := buildGraph(t, "Steel #1", map[string]string{
		"steel_col.png":   shader.PortStdBaseColor,
		"steel_rough.png": shader.PortStdRoughness,
		"missing.png":     shader.PortStdMetalness,
	})

	var seen []Item
	c := New(src, NewResolver(src, "/scene"), dst, WithRewire(true), WithProgress(func(it Item) { seen = append(seen, it) }))
	sum := &Summary{}
	require.NoError(t, c.CollectGraph(context.Background(), g, sum))

	assert.Len(t, seen, 3)
	assert.Equal(t, 2, sum.Copied)
	assert.Equal(t, 2, sum.Rewired)
	assert.Equal(t, 1, sum.Count(StatusUnresolved))
	assert.Equal(t, []string{"Steel #1"}, sum.Materials)
	require.Len(t, sum.Failures(), 1)
	assert.Equal(t, "missing.png", sum.Failures()[0].Path)

	data, err := util.ReadFile(dst, "/tex/Steel__1_BaseColor.png")
	require.NoError(t, err)
	assert.Equal(t, "color", string(data))
	data, err = util.ReadFile(dst, "/tex/Steel__1_Roughness.png")
	require.NoError(t, err)
	assert.Equal(t, "rough", string(data))

	v, _ := g.Value(g.FindInput(ids["steel_col.png"], shader.PortTexture, shader.PortTexturePath))
	assert.Equal(t, "/tex/Steel__1_BaseColor.png", v)
	v, _ = g.Value(g.FindInput(ids["missing.png"], shader.PortTexture, shader.PortTexturePath))
	assert.Equal(t, "missing.png", v)
}

func TestCollectCollisions(t *testing.T) {
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/a.png", []byte("a"), 0o644))
	require.NoError(t, util.WriteFile(src, "/b.png", []byte("b"), 0o644))
	dst := memfs.New()
	require.NoError(t, util.WriteFile(dst, "/tex/Steel_Texture.png", []byte("old"), 0o644))

	g, _ := buildGraph(t, "Steel", map[string]string{"/a.png": "", "/b.png": ""})
	sum := &Summary{}
	require.NoError(t, New(src, NewResolver(src, ""), dst).CollectGraph(context.Background(), g, sum))
	assert.Equal(t, 2, sum.Copied)
	assert.Zero(t, sum.Rewired)

	for _, name := range []string{"Steel_Texture.png", "Steel_Texture_00.png", "Steel_Texture_01.png"} {
		_, err := dst.Stat("/tex/" + name)
		assert.NoError(t, err, name)
	}
	data, _ := util.ReadFile(dst, "/tex/Steel_Texture.png")
	assert.Equal(t, "old", string(data))
}

func TestCollectFromStore(t *testing.T) {
	ctx := context.Background()
	src := memfs.New()
	require.NoError(t, util.WriteFile(src, "/scene/brass_bc.png", []byte("bc"), 0o644))
	dst := memfs.New()

	p := store.NewKVProvider(store.NewMemoryStore(), "memory")
	g, ids := buildGraph(t, "Brass", map[string]string{"brass_bc.png": shader.PortStdBaseColor})
	require.NoError(t, p.Save(ctx, "Brass", g))

	c := New(src, NewResolver(src, "/scene"), dst, WithRewire(true))
	sum, err := c.Collect(ctx, p, []string{"Brass", "Ghost"})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Copied)
	require.Len(t, sum.Skipped, 1)
	assert.Equal(t, "Ghost", sum.Skipped[0].Material)
	assert.True(t, errors.Is(sum.Skipped[0].Err, store.ErrNoGraph))

	saved, err := p.Graph(ctx, "Brass")
	require.NoError(t, err)
	v, _ := saved.Value(saved.FindInput(ids["brass_bc.png"], shader.PortTexture, shader.PortTexturePath))
	assert.Equal(t, "/tex/Brass_BaseColor.png", v)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := store.NewKVProvider(store.NewMemoryStore(), "memory")
	_, err := New(memfs.New(), NewResolver(memfs.New(), ""), memfs.New()).Collect(ctx, p, []string{"Steel"})
	assert.ErrorIs(t, err, context.Canceled)
}
