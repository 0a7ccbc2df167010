package channel

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Channel is a semantic shading role, named after the material port it feeds.
type Channel string

// Known channels. The values match the local port names of the standard
// material so a traced port name compares equal to its channel.
const (
	BaseColor    Channel = "base_color"
	Normal       Channel = "normal"
	Bump         Channel = "bump"
	AO           Channel = "ao"
	Metalness    Channel = "metalness"
	Roughness    Channel = "refl_roughness"
	Specular     Channel = "refl_weight"
	Glossiness   Channel = "glossiness"
	Opacity      Channel = "opacity_color"
	Translucency Channel = "translucency"
	Displacement Channel = "displacement"
	Emission     Channel = "emission_color"
)

// Port names of the legacy RS material that alias known channels.
const (
	DiffuseColor  Channel = "diffuse_color"
	ReflMetalness Channel = "refl_metalness"
)

// All lists the known channels in rule declaration order.
var All = []Channel{
	BaseColor, Normal, Bump, AO, Metalness, Roughness,
	Specular, Glossiness, Opacity, Translucency, Displacement, Emission,
}

// fallbackSuffix names textures whose channel is unknown.
const fallbackSuffix = "Texture"

var suffixes = map[Channel]string{
	DiffuseColor:  "BaseColor",
	BaseColor:     "BaseColor",
	Normal:        "Normal",
	AO:            "AO",
	ReflMetalness: "Metalic",
	Metalness:     "Metalic",
	Roughness:     "Roughness",
	Specular:      "Specular",
	Glossiness:    "Glossiness",
	Opacity:       "Opacity",
	Translucency:  "Translucency",
	Bump:          "Bump",
	Displacement:  "Displacement",
	Emission:      "Emissive",
}

// String returns the channel tag.
func (c Channel) String() string { return string(c) }

// Known reports whether c is one of the closed set in [All].
func (c Channel) Known() bool {
	for _, k := range All {
		if k == c {
			return true
		}
	}
	return false
}

// Suffix returns the display suffix for c. Tags missing from the suffix table
// are title-cased part by part with the underscores kept ("some_port" becomes
// "Some_Port"); the empty channel yields "Texture".
func Suffix(c Channel) string {
	if c == "" {
		return fallbackSuffix
	}
	if s, ok := suffixes[c]; ok {
		return s
	}
	// Casers keep state between calls, so each call gets its own.
	caser := cases.Title(language.Und)
	parts := strings.Split(string(c), "_")
	for i, p := range parts {
		parts[i] = caser.String(p)
	}
	return strings.Join(parts, "_")
}
