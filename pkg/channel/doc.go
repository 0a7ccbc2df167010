// Package channel maps texture filenames to semantic shading channels.
//
// A [Channel] is the role a texture plays in a material: base color, normal,
// roughness and so on. Channels are string-valued so raw material port names
// discovered by graph tracing (for example "diffuse_color") can travel through
// the same type as the closed set of known channels.
//
// # Classification
//
// [Classify] looks only at the token after the last underscore of a filename,
// with the extension removed:
//
//	channel.Classify("Wood_Floor_01_Rough.png")   // refl_roughness, true
//	channel.Classify("Metal_Street_01_Color.jpg") // base_color, true
//	channel.Classify("wood.png")                  // "", false
//
// Only the final token is matched, so channel-like words inside the base name
// never cause false positives. Tokens are compared exactly (case-insensitive),
// never as substrings.
//
// # Rule Order
//
// When two channels declare the same keyword, the channel declared first in the
// rule table wins. [DefaultRules] is ordered and that order is part of the
// contract; custom tables passed to [NewClassifier] are honored in the order
// given.
//
// # Display Suffixes
//
// [Suffix] returns the human-readable name used when naming texture nodes and
// collected files ("BaseColor", "Roughness", ...). Tags without an entry in the
// suffix table are title-cased.
package channel
