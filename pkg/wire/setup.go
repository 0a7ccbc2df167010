package wire

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/imfine/texwire/pkg/channel"
	"github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/shader"
)

// Status is the outcome of one item of a batch.
type Status string

const (
	// StatusConnected means the item was wired into its slot.
	StatusConnected Status = "connected"
	// StatusSkipped means the slot was already wired earlier in the batch.
	StatusSkipped Status = "skipped"
	// StatusUnwired means the item was created but its channel has no wiring.
	StatusUnwired Status = "unwired"
	// StatusUnclassified means the filename matched no channel.
	StatusUnclassified Status = "unclassified"
	// StatusNoTarget means the target node or port does not exist.
	StatusNoTarget Status = "no_target"
	// StatusIgnored means the item is not something the batch works on.
	StatusIgnored Status = "ignored"
)

// Outcome reports what happened to one file or node of a batch.
type Outcome struct {
	File    string          `json:"file,omitempty"`
	Node    shader.NodeID   `json:"node"`
	Name    string          `json:"name"`
	Channel channel.Channel `json:"channel,omitempty"`
	Status  Status          `json:"status"`
	Target  shader.PortRef  `json:"-"`
}

// Result describes a committed batch.
type Result struct {
	Created  []shader.NodeID                    `json:"created"`
	Selected []shader.NodeID                    `json:"selected"`
	Targets  map[channel.Channel]shader.PortRef `json:"-"`
	Outcomes []Outcome                          `json:"outcomes"`
}

// Count returns how many outcomes have status s.
func (r *Result) Count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// SetupOption configures Setup.
type SetupOption func(*setupConfig)

type setupConfig struct {
	classifier *channel.Classifier
	logger     *log.Logger
}

// WithClassifier replaces the default filename classifier.
func WithClassifier(c *channel.Classifier) SetupOption {
	return func(cfg *setupConfig) { cfg.classifier = c }
}

// WithLogger sets the logger used for per-item debug output.
func WithLogger(l *log.Logger) SetupOption {
	return func(cfg *setupConfig) { cfg.logger = l }
}

// rawChannels hold non-color data and are sampled without color management.
var rawChannels = map[channel.Channel]bool{
	channel.Metalness:    true,
	channel.Roughness:    true,
	channel.Opacity:      true,
	channel.Normal:       true,
	channel.Bump:         true,
	channel.Displacement: true,
}

// directPorts are the channels wired straight into the standard material.
var directPorts = map[channel.Channel]string{
	channel.BaseColor: shader.PortStdBaseColor,
	channel.Metalness: shader.PortStdMetalness,
	channel.Roughness: shader.PortStdRoughness,
	channel.Opacity:   shader.PortStdOpacity,
	channel.Emission:  shader.PortStdEmission,
}

// FindMaterial returns the first standard material and render output of g.
// The output may be nil.
func FindMaterial(v shader.View) (material, output *shader.Node) {
	if ms := v.NodesOfKind(shader.KindStandardMaterial); len(ms) > 0 {
		material = ms[0]
	}
	if outs := v.NodesOfKind(shader.KindOutput); len(outs) > 0 {
		output = outs[0]
	}
	return material, output
}

// Setup creates one texture sampler per file, names it after its channel
// and wires it into the standard material of g. All edits are committed in
// one transaction; on error nothing changes.
func Setup(ctx context.Context, g *shader.Graph, files []string, opts ...SetupOption) (*Result, error) {
	cfg := setupConfig{classifier: channel.Default}
	for _, o := range opts {
		o(&cfg)
	}

	start := time.Now()
	observability.Batch().OnBatchStart(ctx, "setup", g.Name(), len(files))

	var res *Result
	err := g.Update(func(tx *shader.Tx) error {
		material, output := FindMaterial(tx)
		if material == nil {
			return errors.New(errors.ErrCodeNoMaterialNode, "material %q has no standard material node", g.Name())
		}
		s := NewSession(tx, material, output, cfg.logger)
		res = &Result{Targets: make(map[channel.Channel]shader.PortRef)}

		for _, file := range files {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := setupFile(s, cfg.classifier, file)
			if err != nil {
				return errors.Wrap(errors.ErrCodeTxFailed, err, "setup %s", filepath.Base(file))
			}
			if o.Status == StatusConnected {
				res.Targets[o.Channel] = o.Target
			}
			s.logger.Debug("texture", "file", filepath.Base(file), "channel", o.Channel, "status", o.Status)
			res.Outcomes = append(res.Outcomes, o)
		}

		sel, err := s.SelectCreated(material, output)
		if err != nil {
			return err
		}
		res.Created = s.Created()
		res.Selected = sel
		return nil
	})

	observability.Batch().OnBatchComplete(ctx, "setup", g.Name(), created(res), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func created(r *Result) int {
	if r == nil {
		return 0
	}
	return len(r.Created)
}

func setupFile(s *Session, c *channel.Classifier, file string) (Outcome, error) {
	ch, ok := c.Classify(file)
	name := channel.Suffix(ch)

	tex, err := s.Create(shader.KindTextureSampler, name, Set(file, shader.PortTexture, shader.PortTexturePath))
	if err != nil {
		return Outcome{}, err
	}
	o := Outcome{File: file, Node: tex.ID, Name: name, Channel: ch}
	if !ok {
		o.Status = StatusUnclassified
		return o, nil
	}

	tx := s.Tx()
	if rawChannels[ch] {
		if err := tx.SetValue(tx.FindInput(tex.ID, shader.PortTexture, shader.PortTextureColor), shader.ColorspaceRaw); err != nil {
			return Outcome{}, err
		}
	}

	texOut := tx.FindOutput(tex.ID, shader.PortTexOutColor)
	switch {
	case directPorts[ch] != "":
		o.Status, o.Target, err = s.wireDirect(ch, texOut)
	case ch == channel.Normal:
		o.Status, o.Target, err = s.wireBump(ch, texOut, "Normal Map", shader.BumpTangentNormal)
	case ch == channel.Bump:
		o.Status, o.Target, err = s.wireBump(ch, texOut, "Bump Map", shader.BumpHeightField)
	case ch == channel.Displacement:
		o.Status, o.Target, err = s.wireDisplacement(texOut)
	default:
		o.Status = StatusUnwired
	}
	return o, err
}

func (s *Session) wireDirect(ch channel.Channel, src shader.PortRef) (Status, shader.PortRef, error) {
	if s.Connected(ch) {
		return StatusSkipped, shader.PortRef{}, nil
	}
	dst := s.tx.FindInput(s.material.ID, directPorts[ch])
	if !dst.IsValid() {
		return StatusNoTarget, shader.PortRef{}, nil
	}
	if err := ConnectReplacing(s.tx, src, dst); err != nil {
		return "", shader.PortRef{}, err
	}
	s.Claim(ch)
	return StatusConnected, dst, nil
}

func (s *Session) wireBump(ch channel.Channel, src shader.PortRef, name string, mode int) (Status, shader.PortRef, error) {
	if s.Connected(ch) {
		return StatusSkipped, shader.PortRef{}, nil
	}
	dst := s.tx.FindInput(s.material.ID, shader.PortStdBumpInput)
	if !dst.IsValid() {
		return StatusNoTarget, shader.PortRef{}, nil
	}
	bump, err := s.Create(shader.KindBumpMap, name, Set(mode, shader.PortBumpType))
	if err != nil {
		return "", shader.PortRef{}, err
	}
	if err := s.tx.Connect(src, s.tx.FindInput(bump.ID, shader.PortBumpInput)); err != nil {
		return "", shader.PortRef{}, err
	}
	if err := ConnectReplacing(s.tx, s.tx.FindOutput(bump.ID, shader.PortBumpOut), dst); err != nil {
		return "", shader.PortRef{}, err
	}
	s.Claim(ch)
	return StatusConnected, dst, nil
}

func (s *Session) wireDisplacement(src shader.PortRef) (Status, shader.PortRef, error) {
	if s.Connected(channel.Displacement) {
		return StatusSkipped, shader.PortRef{}, nil
	}
	if s.output == nil {
		return StatusNoTarget, shader.PortRef{}, nil
	}
	dst := s.tx.FindInput(s.output.ID, shader.PortOutputDisplacement)
	if !dst.IsValid() {
		return StatusNoTarget, shader.PortRef{}, nil
	}
	disp, err := s.Create(shader.KindDisplacement, "Displacement")
	if err != nil {
		return "", shader.PortRef{}, err
	}
	if err := s.tx.Connect(src, s.tx.FindInput(disp.ID, shader.PortDispTexMap)); err != nil {
		return "", shader.PortRef{}, err
	}
	if err := ConnectReplacing(s.tx, s.tx.FindOutput(disp.ID, shader.PortDispOut), dst); err != nil {
		return "", shader.PortRef{}, err
	}
	s.Claim(channel.Displacement)
	return StatusConnected, dst, nil
}
