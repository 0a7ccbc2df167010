package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imfine/texwire/pkg/buildinfo"
	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/collect"
	texerr "github.com/imfine/texwire/pkg/errors"
	pkgio "github.com/imfine/texwire/pkg/io"
	"github.com/imfine/texwire/pkg/render/nodelink"
	"github.com/imfine/texwire/pkg/shader"
	"github.com/imfine/texwire/pkg/wire"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

// ClassifyResult is the channel of one filename.
type ClassifyResult struct {
	File    string          `json:"file"`
	Token   string          `json:"token,omitempty"`
	Channel channel.Channel `json:"channel,omitempty"`
	Suffix  string          `json:"suffix"`
	Matched bool            `json:"matched"`
}

// TraceResult lists the channels a texture sampler feeds.
type TraceResult struct {
	Node     shader.NodeID     `json:"node"`
	Name     string            `json:"name"`
	Path     string            `json:"path"`
	Channels []channel.Channel `json:"channels"`
	Primary  channel.Channel   `json:"primary,omitempty"`
	Suffix   string            `json:"suffix"`
}

// Target is a material or output port a batch wired a channel into.
type Target struct {
	Node shader.NodeID `json:"node"`
	Port string        `json:"port"`
}

// BatchResponse reports a committed setup or transform batch.
type BatchResponse struct {
	Material string                     `json:"material"`
	Revision uint64                     `json:"revision"`
	Created  []shader.NodeID            `json:"created"`
	Selected []shader.NodeID            `json:"selected"`
	Targets  map[channel.Channel]Target `json:"targets,omitempty"`
	Outcomes []wire.Outcome             `json:"outcomes"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "build": buildinfo.Get()})
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if !s.decode(w, r, &req) {
		return
	}
	out := make([]ClassifyResult, len(req.Files))
	for i, f := range req.Files {
		ch, ok := s.classifier.Classify(f)
		tok, _ := channel.SuffixToken(f)
		out[i] = ClassifyResult{File: f, Token: tok, Channel: ch, Suffix: channel.Suffix(ch), Matched: ok}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleListMaterials(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List(r.Context())
	if err != nil {
		s.respondErr(w, "list materials", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"materials": names})
}

func (s *Server) handleGetMaterial(w http.ResponseWriter, r *http.Request) {
	name, g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	doc, err := pkgio.FromGraph(name, g)
	if err != nil {
		s.respondErr(w, "encode material", err)
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handlePutMaterial(w http.ResponseWriter, r *http.Request) {
	name, ok := s.materialName(w, r)
	if !ok {
		return
	}
	doc, err := pkgio.ReadJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, texerr.ErrCodeInvalidFormat, err.Error())
		return
	}
	doc.Material = name
	g, err := doc.Graph()
	if err != nil {
		s.respondErr(w, "decode material", err)
		return
	}

	defer s.lock(name)()
	if err := s.store.Save(r.Context(), name, g); err != nil {
		s.respondErr(w, "save material", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"material": name,
		"nodes":    g.NodeCount(),
		"edges":    g.EdgeCount(),
	})
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	name, g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	items := collect.Scan(name, g)
	out := make([]TraceResult, len(items))
	for i, it := range items {
		chs := it.Channels
		if chs == nil {
			chs = []channel.Channel{}
		}
		out[i] = TraceResult{
			Node:     it.Node,
			Name:     it.Name,
			Path:     it.Path,
			Channels: chs,
			Primary:  it.Channel,
			Suffix:   channel.Suffix(it.Channel),
		}
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	_, g, ok := s.loadGraph(w, r)
	if !ok {
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: detailed})

	switch format := r.URL.Query().Get("format"); format {
	case "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case "", "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			s.respondErr(w, "render", err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		s.respondError(w, http.StatusBadRequest, texerr.ErrCodeInvalidInput, fmt.Sprintf("unsupported format %q", format))
	}
}

func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	name, ok := s.materialName(w, r)
	if !ok {
		return
	}
	var req SetupRequest
	if !s.decode(w, r, &req) {
		return
	}
	for _, f := range req.Files {
		if err := texerr.ValidateTextureFile(f); err != nil {
			s.respondErr(w, "setup", err)
			return
		}
	}

	defer s.lock(name)()
	g, ok := s.graph(w, r, name)
	if !ok {
		return
	}
	res, err := wire.Setup(r.Context(), g, req.Files, wire.WithClassifier(s.classifier), wire.WithLogger(s.logger))
	if err != nil {
		s.respondErr(w, "setup", err)
		return
	}
	s.saveBatch(w, r, name, g, res)
}

func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	name, ok := s.materialName(w, r)
	if !ok {
		return
	}
	var req TransformRequest
	if !s.decode(w, r, &req) {
		return
	}
	opts := wire.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}
	ids := make([]shader.NodeID, len(req.Nodes))
	for i, id := range req.Nodes {
		ids[i] = shader.NodeID(id)
	}

	defer s.lock(name)()
	g, ok := s.graph(w, r, name)
	if !ok {
		return
	}
	res, err := wire.Transform(r.Context(), g, ids, opts, wire.WithLogger(s.logger))
	if err != nil {
		s.respondErr(w, "transform", err)
		return
	}
	s.saveBatch(w, r, name, g, res)
}

func (s *Server) saveBatch(w http.ResponseWriter, r *http.Request, name string, g *shader.Graph, res *wire.Result) {
	if err := s.store.Save(r.Context(), name, g); err != nil {
		s.respondErr(w, "save material", err)
		return
	}
	resp := BatchResponse{
		Material: name,
		Revision: g.Revision(),
		Created:  res.Created,
		Selected: res.Selected,
		Outcomes: res.Outcomes,
	}
	if len(res.Targets) > 0 {
		resp.Targets = make(map[channel.Channel]Target, len(res.Targets))
		for ch, ref := range res.Targets {
			resp.Targets[ch] = Target{Node: ref.Node, Port: ref.LocalName()}
		}
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// decode reads and validates a JSON body into req.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(req); err != nil {
		s.respondError(w, http.StatusBadRequest, texerr.ErrCodeInvalidInput, "invalid request body: "+err.Error())
		return false
	}
	if err := validateRequest(req); err != nil {
		s.respondError(w, http.StatusBadRequest, texerr.ErrCodeInvalidInput, err.Error())
		return false
	}
	return true
}

func (s *Server) materialName(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := chi.URLParam(r, "name")
	if err := texerr.ValidateMaterialName(name); err != nil {
		s.respondErr(w, "material", err)
		return "", false
	}
	return name, true
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request, name string) (*shader.Graph, bool) {
	g, err := s.store.Graph(r.Context(), name)
	if err != nil {
		s.respondErr(w, "load material", err)
		return nil, false
	}
	return g, true
}

func (s *Server) loadGraph(w http.ResponseWriter, r *http.Request) (string, *shader.Graph, bool) {
	name, ok := s.materialName(w, r)
	if !ok {
		return "", nil, false
	}
	g, ok := s.graph(w, r, name)
	return name, g, ok
}
