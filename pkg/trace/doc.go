// Package trace discovers which shading channels a node feeds.
//
// [Usage] walks forward from a node's outputs through every outgoing
// connection. Material inputs and the displacement input of the render
// output terminate the walk and name a channel; any other node is walked
// through. A visited set keeps cyclic and diamond-shaped graphs finite.
//
// The material's bump input accepts both height and tangent-space normal
// chains. The node feeding it decides: a bump map in height-field mode
// yields [channel.Bump], anything else [channel.Normal].
//
// A texture may feed several channels. [Usage] returns all of them in
// discovery order; [Primary] picks the first, which is what naming uses.
package trace
