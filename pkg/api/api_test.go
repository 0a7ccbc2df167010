package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imfine/texwire/pkg/channel"
	pkgio "github.com/imfine/texwire/pkg/io"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/observability/promhooks"
	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/store"
	"github.com/imfine/texwire/pkg/wire"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, store.Provider) {
	t.Helper()
	p := store.NewKVProvider(store.NewMemoryStore(), "memory")
	t.Cleanup(func() { p.Close() })
	return New(p, opts...), p
}

// saveMaterial stores a graph with a standard material, an output and one
// connected texture sampler.
func saveMaterial(t *testing.T, p store.Provider, name string) *shader.Node {
	t.Helper()
	g := shader.New(name)
	var tex *shader.Node
	require.NoError(t, g.Update(func(tx *shader.Tx) error {
		mat, err := tx.AddNode(shader.KindStandardMaterial, "Standard Material")
		if err != nil {
			return err
		}
		if _, err := tx.AddNode(shader.KindOutput, "Output"); err != nil {
			return err
		}
		if tex, err = tx.AddNode(shader.KindTextureSampler, "BaseColor"); err != nil {
			return err
		}
		if err := tx.SetValue(tx.FindInput(tex.ID, shader.PortTexture, shader.PortTexturePath), "steel_col.png"); err != nil {
			return err
		}
		return tx.Connect(tx.FindOutput(tex.ID, shader.PortTexOutColor), tx.FindInput(mat.ID, shader.PortStdBaseColor))
	}))
	require.NoError(t, p.Save(context.Background(), name, g))
	return tex
}

func do(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestClassify(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s, http.MethodPost, "/v1/classify", ClassifyRequest{Files: []string{
		"Metal_Panel_BaseColor.tif", "brick_nrm.png", "readme.png",
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[[]ClassifyResult](t, rec)
	require.Len(t, got, 3)
	assert.Equal(t, channel.BaseColor, got[0].Channel)
	assert.Equal(t, "basecolor", got[0].Token)
	assert.Equal(t, "Normal", got[1].Suffix)
	assert.False(t, got[2].Matched)
	assert.Equal(t, "Texture", got[2].Suffix)
}

func TestClassifyValidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodPost, "/v1/classify", ClassifyRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Code)
	assert.Contains(t, resp.Message, "Files")

	req := httptest.NewRequest(http.MethodPost, "/v1/classify", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMaterials(t *testing.T) {
	s, p := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/materials", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"materials":[]}`, rec.Body.String())

	saveMaterial(t, p, "Steel")
	rec = do(t, s, http.MethodGet, "/v1/materials/Steel", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decodeBody[pkgio.Document](t, rec)
	assert.Equal(t, "Steel", doc.Material)
	assert.Len(t, doc.Nodes, 3)

	// Store the same document under another name.
	rec = do(t, s, http.MethodPut, "/v1/materials/Copy", doc)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, s, http.MethodGet, "/v1/materials", nil)
	assert.JSONEq(t, `{"materials":["Copy","Steel"]}`, rec.Body.String())
}

func TestMaterialErrors(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/materials/Ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NO_GRAPH", decodeBody[ErrorResponse](t, rec).Code)

	rec = do(t, s, http.MethodGet, "/v1/materials/a..b", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_MATERIAL", decodeBody[ErrorResponse](t, rec).Code)

	rec = do(t, s, http.MethodPut, "/v1/materials/Arnold", pkgio.Document{Space: "arnold"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTrace(t *testing.T) {
	s, p := newTestServer(t)
	tex := saveMaterial(t, p, "Steel")

	rec := do(t, s, http.MethodGet, "/v1/materials/Steel/trace", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[[]TraceResult](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, tex.ID, got[0].Node)
	assert.Equal(t, []channel.Channel{channel.BaseColor}, got[0].Channels)
	assert.Equal(t, "BaseColor", got[0].Suffix)
}

func TestSetup(t *testing.T) {
	s, p := newTestServer(t)
	saveMaterial(t, p, "Steel")

	rec := do(t, s, http.MethodPost, "/v1/materials/Steel/setup", SetupRequest{Files: []string{
		"/tex/steel_rough.png", "/tex/steel_nrm.png", "/tex/steel_disp.exr",
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[BatchResponse](t, rec)
	assert.Len(t, resp.Outcomes, 3)
	assert.Contains(t, resp.Targets, channel.Roughness)
	assert.Equal(t, "bump_input", resp.Targets[channel.Normal].Port)
	assert.Equal(t, "displacement", resp.Targets[channel.Displacement].Port)

	g, err := p.Graph(context.Background(), "Steel")
	require.NoError(t, err)
	assert.Len(t, g.NodesOfKind(shader.KindTextureSampler), 4)
	assert.ElementsMatch(t, resp.Selected, g.Selected())
}

func TestSetupRejectsNonImages(t *testing.T) {
	s, p := newTestServer(t)
	saveMaterial(t, p, "Steel")

	rec := do(t, s, http.MethodPost, "/v1/materials/Steel/setup", SetupRequest{Files: []string{"notes_basecolor.txt"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_FORMAT", decodeBody[ErrorResponse](t, rec).Code)
}

func TestTransform(t *testing.T) {
	s, p := newTestServer(t)
	tex := saveMaterial(t, p, "Steel")

	opts := wire.Options{Scale: true, Offset: true}
	rec := do(t, s, http.MethodPost, "/v1/materials/Steel/transform", TransformRequest{
		Nodes:   []string{string(tex.ID)},
		Options: &opts,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[BatchResponse](t, rec)
	assert.Len(t, resp.Created, 2)

	g, err := p.Graph(context.Background(), "Steel")
	require.NoError(t, err)
	assert.Len(t, g.NodesOfKind(shader.KindMathAbs), 1)
	assert.Len(t, g.NodesOfKind(shader.KindMathAbsVector), 1)
}

func TestTransformErrors(t *testing.T) {
	s, p := newTestServer(t)
	saveMaterial(t, p, "Steel")

	rec := do(t, s, http.MethodPost, "/v1/materials/Steel/transform", TransformRequest{Nodes: []string{"not-a-uuid"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing is selected in the stored graph.
	rec = do(t, s, http.MethodPost, "/v1/materials/Steel/transform", TransformRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "NO_TEXTURES", decodeBody[ErrorResponse](t, rec).Code)
}

func TestRenderDOT(t *testing.T) {
	s, p := newTestServer(t)
	saveMaterial(t, p, "Steel")

	rec := do(t, s, http.MethodGet, "/v1/materials/Steel/render?format=dot&detailed=true", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/vnd.graphviz", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "channel: base_color")

	rec = do(t, s, http.MethodGet, "/v1/materials/Steel/render?format=gif", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetrics(t *testing.T) {
	reg := promhooks.NewRegistry()
	reg.Install()
	t.Cleanup(observability.Reset)

	s, _ := newTestServer(t, WithMetrics(reg))
	do(t, s, http.MethodGet, "/healthz", nil)
	do(t, s, http.MethodGet, "/v1/materials/Ghost", nil)

	rec := do(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `texwire_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
	assert.Contains(t, body, `status="404"`)
	assert.Contains(t, body, `texwire_store_operations_total{backend="memory",op="miss"} 1`)
}

func TestMaterialLockReleased(t *testing.T) {
	s, _ := newTestServer(t)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holding int
		maxHeld int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.lock("Steel")
			mu.Lock()
			holding++
			maxHeld = max(maxHeld, holding)
			mu.Unlock()

			mu.Lock()
			holding--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxHeld)

	for _, name := range []string{"Oak", "Pine", "Birch"} {
		s.lock(name)()
	}
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	assert.Empty(t, s.locks)
}
