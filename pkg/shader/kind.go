package shader

// Kind is the closed set of node types the graph logic distinguishes.
type Kind int

const (
	// KindPassthrough covers every node the catalogue does not single out.
	// Tracing walks through these nodes.
	KindPassthrough Kind = iota
	KindTextureSampler
	KindStandardMaterial
	// KindMaterial is the legacy RS material.
	KindMaterial
	// KindOutput is the render output sink; only its displacement input is a channel.
	KindOutput
	KindBumpMap
	KindDisplacement
	KindTriplanar
	KindMathAbs
	KindMathAbsVector
)

var kindNames = [...]string{
	KindPassthrough:      "passthrough",
	KindTextureSampler:   "texturesampler",
	KindStandardMaterial: "standardmaterial",
	KindMaterial:         "material",
	KindOutput:           "output",
	KindBumpMap:          "bumpmap",
	KindDisplacement:     "displacement",
	KindTriplanar:        "triplanar",
	KindMathAbs:          "rsmathabs",
	KindMathAbsVector:    "rsmathabsvector",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// ParseKind returns the kind named s, or KindPassthrough.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return KindPassthrough
}

// IsMaterial reports whether k is a material sink.
func (k Kind) IsMaterial() bool {
	return k == KindStandardMaterial || k == KindMaterial
}

// IsSink reports whether k terminates a trace.
func (k Kind) IsSink() bool {
	return k.IsMaterial() || k == KindOutput
}
