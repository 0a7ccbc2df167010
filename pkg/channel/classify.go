package channel

import (
	"path/filepath"
	"slices"
	"strings"
)

// Separator splits a texture filename into tokens.
const Separator = "_"

// Rule declares the lower-case keyword tokens recognized for one channel.
type Rule struct {
	Channel  Channel
	Keywords []string
}

// DefaultRules is the built-in keyword table. Its order resolves keywords
// shared between channels: the earlier rule wins.
var DefaultRules = []Rule{
	{BaseColor, []string{"basecolor", "base", "color", "albedo", "diffuse", "diff", "col", "bc", "alb", "rgb", "d"}},
	{Normal, []string{"normal", "norm", "nrm", "nml", "nrml", "n"}},
	{Bump, []string{"bump", "b"}},
	{AO, []string{"ao", "ambient", "occlusion", "occ", "amb"}},
	{Metalness, []string{"metallic", "metalness", "metal", "mtl", "met", "m"}},
	{Roughness, []string{"roughness", "rough", "rgh", "r"}},
	{Specular, []string{"specular", "spec", "s", "refl", "reflection"}},
	{Glossiness, []string{"glossiness", "gloss", "g"}},
	{Opacity, []string{"opacity", "opac", "alpha", "transparency", "transparent", "o", "a", "mask", "cutout"}},
	{Translucency, []string{"translucency", "transmission", "trans", "sss", "subsurface", "scatter", "scattering"}},
	{Displacement, []string{"displacement", "disp", "dsp", "height", "h"}},
	{Emission, []string{"emissive", "emission", "emit", "illu", "illumination", "selfillum"}},
}

// Classifier matches filename suffix tokens against an ordered rule table.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// Default classifies with [DefaultRules].
var Default = NewClassifier(DefaultRules)

// NewClassifier returns a classifier over rules. Keywords are lower-cased; the
// rule order is kept.
func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{rules: make([]Rule, len(rules))}
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		c.rules[i] = Rule{Channel: r.Channel, Keywords: kw}
	}
	return c
}

// Classify returns the channel named by the last token of filename.
// It reports false when the name has no separator or the token is unknown.
func (c *Classifier) Classify(filename string) (Channel, bool) {
	token, ok := SuffixToken(filename)
	if !ok {
		return "", false
	}
	for _, r := range c.rules {
		if slices.Contains(r.Keywords, token) {
			return r.Channel, true
		}
	}
	return "", false
}

// Classify classifies filename with the [Default] classifier.
func Classify(filename string) (Channel, bool) {
	return Default.Classify(filename)
}

// SuffixToken returns the lower-cased token after the last separator of the
// base name of filename, extension removed.
func SuffixToken(filename string) (string, bool) {
	name := filepath.Base(filename)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	i := strings.LastIndex(name, Separator)
	if i < 0 {
		return "", false
	}
	return strings.ToLower(name[i+len(Separator):]), true
}
