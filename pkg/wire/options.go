package wire

// Options control the texture transform batch.
type Options struct {
	// Scale adds a scale control.
	Scale bool `toml:"scale" json:"scale" yaml:"scale"`
	// Offset adds an offset control.
	Offset bool `toml:"offset" json:"offset" yaml:"offset"`
	// Rotation adds a rotation control.
	Rotation bool `toml:"rotation" json:"rotation" yaml:"rotation"`
	// Triplanar routes every texture through a triplanar node and drives
	// the triplanar instead of the sampler.
	Triplanar bool `toml:"triplanar" json:"triplanar" yaml:"triplanar"`
	// ScaleUsesVectorAbs makes the scale control a vector instead of a
	// uniform float.
	ScaleUsesVectorAbs bool `toml:"scale_uses_vector_abs" json:"scale_uses_vector_abs" yaml:"scale_uses_vector_abs"`
	// PerTexture creates controls for every texture instead of sharing one
	// set across the batch.
	PerTexture bool `toml:"per_texture" json:"per_texture" yaml:"per_texture"`
}

// DefaultOptions returns the transform options used when nothing is
// configured.
func DefaultOptions() Options {
	return Options{Scale: true, Triplanar: true}
}

// Any reports whether at least one control is requested.
func (o Options) Any() bool {
	return o.Scale || o.Offset || o.Rotation
}
