package wire

import (
	"context"
	"time"

	"github.com/imfine/texwire/pkg/errors"
	"github.com/imfine/texwire/pkg/observability"
	"github.com/imfine/texwire/pkg/shader"
)

// control is one transform input driven by a math node.
type control struct {
	key     string
	name    string
	enabled func(Options) bool
	vector  func(Options) bool
	sampler string
	tri     string
}

var controls = []control{
	{
		key:     "scale",
		name:    "Scale Abs",
		enabled: func(o Options) bool { return o.Scale },
		vector:  func(o Options) bool { return o.ScaleUsesVectorAbs },
		sampler: shader.PortTexScale,
		tri:     shader.PortTriScale,
	},
	{
		key:     "offset",
		name:    "Offset Abs",
		enabled: func(o Options) bool { return o.Offset },
		vector:  func(Options) bool { return true },
		sampler: shader.PortTexOffset,
		tri:     shader.PortTriOffset,
	},
	{
		key:     "rotation",
		name:    "Rotation Abs",
		enabled: func(o Options) bool { return o.Rotation },
		vector:  func(o Options) bool { return o.Triplanar },
		sampler: shader.PortTexRotate,
		tri:     shader.PortTriRotation,
	},
}

// Transform adds scale, offset and rotation controls to the texture
// samplers among ids. When ids is empty the graph's selection is used.
// Controls are shared by all textures unless opts.PerTexture is set.
func Transform(ctx context.Context, g *shader.Graph, ids []shader.NodeID, opts Options, setupOpts ...SetupOption) (*Result, error) {
	cfg := setupConfig{}
	for _, o := range setupOpts {
		o(&cfg)
	}
	if len(ids) == 0 {
		ids = g.Selected()
	}

	start := time.Now()
	observability.Batch().OnBatchStart(ctx, "transform", g.Name(), len(ids))

	var res *Result
	err := g.Update(func(tx *shader.Tx) error {
		s := NewSession(tx, nil, nil, cfg.logger)
		res = &Result{}

		var textures []*shader.Node
		for _, id := range ids {
			n, ok := tx.Node(id)
			if !ok || n.Kind != shader.KindTextureSampler {
				o := Outcome{Node: id, Status: StatusIgnored}
				if ok {
					o.Name = n.Name
				}
				res.Outcomes = append(res.Outcomes, o)
				continue
			}
			textures = append(textures, n)
		}
		if len(textures) == 0 {
			return errors.New(errors.ErrCodeNoTextures, "no texture sampler among %d nodes of %q", len(ids), g.Name())
		}

		for _, tex := range textures {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := transformTexture(s, tex, opts); err != nil {
				return errors.Wrap(errors.ErrCodeTxFailed, err, "transform %s", tex.Name)
			}
			res.Outcomes = append(res.Outcomes, Outcome{Node: tex.ID, Name: tex.Name, Status: StatusConnected})
		}

		res.Created = s.Created()
		if err := tx.Select(res.Created...); err != nil {
			return err
		}
		res.Selected = res.Created
		return nil
	})

	observability.Batch().OnBatchComplete(ctx, "transform", g.Name(), created(res), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func transformTexture(s *Session, tex *shader.Node, opts Options) error {
	tx := s.Tx()
	var triplanar *shader.Node
	if opts.Triplanar {
		var err error
		if triplanar, err = s.Create(shader.KindTriplanar, "Triplanar"); err != nil {
			return err
		}
		if _, err := WrapWithTriplanar(tx, tex.ID, triplanar.ID); err != nil {
			return err
		}
	}

	for _, c := range controls {
		if !c.enabled(opts) {
			continue
		}
		ctl, err := s.controlNode(c, tex, opts)
		if err != nil {
			return err
		}
		src := tx.FindOutput(ctl.ID, absOutput(ctl.Kind))
		if triplanar != nil {
			err = ConnectReplacing(tx, src, tx.FindInput(triplanar.ID, c.tri))
		} else {
			err = ConnectReplacing(tx, src, tx.FindInput(tex.ID, c.sampler))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) controlNode(c control, tex *shader.Node, opts Options) (*shader.Node, error) {
	key := c.key
	if opts.PerTexture {
		key += "/" + string(tex.ID)
	}

	kind, input := shader.KindMathAbs, shader.PortAbsInput
	if c.vector(opts) {
		kind, input = shader.KindMathAbsVector, shader.PortAbsVectorInput
	}
	var params []Param
	if c.key == "scale" {
		if kind == shader.KindMathAbsVector {
			params = append(params, Set(shader.Vector{X: 1, Y: 1, Z: 1}, input))
		} else {
			params = append(params, Set(1.0, input))
		}
	}
	return s.Aux(key, kind, c.name, params...)
}

func absOutput(k shader.Kind) string {
	if k == shader.KindMathAbsVector {
		return shader.PortAbsVectorOut
	}
	return shader.PortAbsOut
}
