package shader

import "fmt"

// NodeSpace identifies the Redshift node space a material graph must live in.
const NodeSpace = "com.redshift3d.redshift4c4d.class.nodespace"

// Host asset identifiers of the catalogued node types.
const (
	AssetTextureSampler   = "com.redshift3d.redshift4c4d.nodes.core.texturesampler"
	AssetStandardMaterial = "com.redshift3d.redshift4c4d.nodes.core.standardmaterial"
	AssetMaterial         = "com.redshift3d.redshift4c4d.nodes.core.material"
	AssetOutput           = "com.redshift3d.redshift4c4d.node.output"
	AssetBumpMap          = "com.redshift3d.redshift4c4d.nodes.core.bumpmap"
	AssetDisplacement     = "com.redshift3d.redshift4c4d.nodes.core.displacement"
	AssetTriplanar        = "com.redshift3d.redshift4c4d.nodes.core.triplanar"
	AssetMathAbs          = "com.redshift3d.redshift4c4d.nodes.core.rsmathabs"
	AssetMathAbsVector    = "com.redshift3d.redshift4c4d.nodes.core.rsmathabsvector"
	AssetColorCorrection  = "com.redshift3d.redshift4c4d.nodes.core.rscolorcorrection"
)

// Texture sampler ports.
const (
	PortTexture         = AssetTextureSampler + ".tex0"
	PortTexturePath     = "path"
	PortTextureColor    = "colorspace"
	PortTexScale        = AssetTextureSampler + ".scale"
	PortTexOffset       = AssetTextureSampler + ".offset"
	PortTexRotate       = AssetTextureSampler + ".rotate"
	PortTexOutColor     = AssetTextureSampler + ".outcolor"
	PortTexOutAlpha     = AssetTextureSampler + ".outalpha"
	ColorspaceRaw       = "RS_INPUT_COLORSPACE_RAW"
	ColorspaceAuto      = ""
	defaultTextureScale = 1.0
)

// Standard material ports.
const (
	PortStdBaseColor  = AssetStandardMaterial + ".base_color"
	PortStdMetalness  = AssetStandardMaterial + ".metalness"
	PortStdReflWeight = AssetStandardMaterial + ".refl_weight"
	PortStdRoughness  = AssetStandardMaterial + ".refl_roughness"
	PortStdOpacity    = AssetStandardMaterial + ".opacity_color"
	PortStdEmission   = AssetStandardMaterial + ".emission_color"
	PortStdTransl     = AssetStandardMaterial + ".transl_color"
	PortStdBumpInput  = AssetStandardMaterial + ".bump_input"
	PortStdOutColor   = AssetStandardMaterial + ".outcolor"
)

// BumpInputLocal is the local name of the material input shared by bump and
// normal chains.
const BumpInputLocal = "bump_input"

// Output, bump map and displacement ports.
const (
	PortOutputSurface      = AssetOutput + ".surface"
	PortOutputDisplacement = AssetOutput + ".displacement"

	PortBumpInput = AssetBumpMap + ".input"
	PortBumpType  = AssetBumpMap + ".inputtype"
	PortBumpScale = AssetBumpMap + ".scale"
	PortBumpOut   = AssetBumpMap + ".out"

	PortDispTexMap = AssetDisplacement + ".texmap"
	PortDispScale  = AssetDisplacement + ".scale"
	PortDispOut    = AssetDisplacement + ".out"
)

// Bump map input types held by PortBumpType.
const (
	BumpHeightField   = 0
	BumpTangentNormal = 1
	BumpObjectNormal  = 2
)

// Triplanar and math ports.
const (
	PortTriImageX   = AssetTriplanar + ".imagex"
	PortTriScale    = AssetTriplanar + ".scale"
	PortTriOffset   = AssetTriplanar + ".offset"
	PortTriRotation = AssetTriplanar + ".rotation"
	PortTriOutColor = AssetTriplanar + ".outcolor"

	PortAbsInput       = AssetMathAbs + ".input"
	PortAbsOut         = AssetMathAbs + ".out"
	PortAbsVectorInput = AssetMathAbsVector + ".input"
	PortAbsVectorOut   = AssetMathAbsVector + ".out"

	PortCCInput    = AssetColorCorrection + ".input"
	PortCCOutColor = AssetColorCorrection + ".outcolor"
)

// PortSpec describes one port of a node schema.
type PortSpec struct {
	ID       string
	Value    any
	Children []PortSpec
}

// Schema is the catalogue entry for one node type.
type Schema struct {
	Kind    Kind
	Asset   string
	Inputs  []PortSpec
	Outputs []PortSpec
}

// Catalogue maps node kinds to host asset identifiers and port schemas. It is
// the contract between the graph logic and the host's node system.
type Catalogue struct {
	byAsset map[string]Schema
	byKind  map[Kind]string
}

// NewCatalogue indexes schemas by asset. The first schema registered for a
// kind is the one used when creating nodes of that kind.
func NewCatalogue(schemas ...Schema) *Catalogue {
	c := &Catalogue{
		byAsset: make(map[string]Schema, len(schemas)),
		byKind:  make(map[Kind]string, len(schemas)),
	}
	for _, s := range schemas {
		c.byAsset[s.Asset] = s
		if _, ok := c.byKind[s.Kind]; !ok {
			c.byKind[s.Kind] = s.Asset
		}
	}
	return c
}

// KindOf recognises an existing node by its asset identifier.
func (c *Catalogue) KindOf(asset string) Kind {
	if s, ok := c.byAsset[asset]; ok {
		return s.Kind
	}
	return KindPassthrough
}

// Asset returns the asset identifier used to create nodes of kind k.
func (c *Catalogue) Asset(k Kind) (string, bool) {
	a, ok := c.byKind[k]
	return a, ok
}

// Schema returns the schema registered for asset.
func (c *Catalogue) Schema(asset string) (Schema, bool) {
	s, ok := c.byAsset[asset]
	return s, ok
}

// Instantiate builds a fresh, unconnected node of kind k.
func (c *Catalogue) Instantiate(k Kind, name string) (*Node, error) {
	asset, ok := c.byKind[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
	}
	return c.InstantiateAsset(asset, name)
}

// InstantiateAsset builds a fresh node for a catalogued asset identifier.
func (c *Catalogue) InstantiateAsset(asset, name string) (*Node, error) {
	s, ok := c.byAsset[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, asset)
	}
	return &Node{
		ID:      NewNodeID(),
		Kind:    s.Kind,
		Asset:   s.Asset,
		Name:    name,
		Inputs:  buildPorts(s.Inputs, Input),
		Outputs: buildPorts(s.Outputs, Output),
	}, nil
}

func buildPorts(specs []PortSpec, dir Direction) []*Port {
	if len(specs) == 0 {
		return nil
	}
	ports := make([]*Port, len(specs))
	for i, s := range specs {
		ports[i] = &Port{ID: s.ID, Dir: dir, Value: s.Value, Children: buildPorts(s.Children, dir)}
	}
	return ports
}

func ports(ids ...string) []PortSpec {
	specs := make([]PortSpec, len(ids))
	for i, id := range ids {
		specs[i] = PortSpec{ID: id}
	}
	return specs
}

// Redshift is the catalogue of the Redshift node space.
var Redshift = NewCatalogue(
	Schema{
		Kind:  KindTextureSampler,
		Asset: AssetTextureSampler,
		Inputs: []PortSpec{
			{ID: PortTexture, Children: []PortSpec{
				{ID: PortTexturePath, Value: ""},
				{ID: PortTextureColor, Value: ColorspaceAuto},
			}},
			{ID: PortTexScale, Value: Vector{defaultTextureScale, defaultTextureScale, defaultTextureScale}},
			{ID: PortTexOffset, Value: Vector{}},
			{ID: PortTexRotate, Value: 0.0},
		},
		Outputs: ports(PortTexOutColor, PortTexOutAlpha),
	},
	Schema{
		Kind:  KindStandardMaterial,
		Asset: AssetStandardMaterial,
		Inputs: ports(PortStdBaseColor, PortStdMetalness, PortStdReflWeight, PortStdRoughness,
			PortStdOpacity, PortStdEmission, PortStdTransl, PortStdBumpInput),
		Outputs: ports(PortStdOutColor),
	},
	Schema{
		Kind:  KindMaterial,
		Asset: AssetMaterial,
		Inputs: ports(AssetMaterial+".diffuse_color", AssetMaterial+".refl_weight",
			AssetMaterial+".refl_roughness", AssetMaterial+".refl_metalness",
			AssetMaterial+".opacity_color", AssetMaterial+".emission_color",
			AssetMaterial+".transl_color", AssetMaterial+"."+BumpInputLocal),
		Outputs: ports(AssetMaterial + ".outcolor"),
	},
	Schema{
		Kind:   KindOutput,
		Asset:  AssetOutput,
		Inputs: ports(PortOutputSurface, PortOutputDisplacement),
	},
	Schema{
		Kind:  KindBumpMap,
		Asset: AssetBumpMap,
		Inputs: []PortSpec{
			{ID: PortBumpInput},
			{ID: PortBumpType, Value: BumpHeightField},
			{ID: PortBumpScale, Value: 1.0},
		},
		Outputs: ports(PortBumpOut),
	},
	Schema{
		Kind:  KindDisplacement,
		Asset: AssetDisplacement,
		Inputs: []PortSpec{
			{ID: PortDispTexMap},
			{ID: PortDispScale, Value: 1.0},
		},
		Outputs: ports(PortDispOut),
	},
	Schema{
		Kind:  KindTriplanar,
		Asset: AssetTriplanar,
		Inputs: []PortSpec{
			{ID: PortTriImageX},
			{ID: PortTriScale, Value: Vector{1, 1, 1}},
			{ID: PortTriOffset, Value: Vector{}},
			{ID: PortTriRotation, Value: Vector{}},
		},
		Outputs: ports(PortTriOutColor),
	},
	Schema{
		Kind:    KindMathAbs,
		Asset:   AssetMathAbs,
		Inputs:  []PortSpec{{ID: PortAbsInput, Value: 0.0}},
		Outputs: ports(PortAbsOut),
	},
	Schema{
		Kind:    KindMathAbsVector,
		Asset:   AssetMathAbsVector,
		Inputs:  []PortSpec{{ID: PortAbsVectorInput, Value: Vector{}}},
		Outputs: ports(PortAbsVectorOut),
	},
	Schema{
		Kind:    KindPassthrough,
		Asset:   AssetColorCorrection,
		Inputs:  ports(PortCCInput),
		Outputs: ports(PortCCOutColor),
	},
)
