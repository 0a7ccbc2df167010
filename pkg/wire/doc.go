// Package wire edits material graphs: it creates nodes, sets their values and
// (re)connects ports, and runs the two texture batches built on those edits.
//
// # Primitives
//
// [CreateNode], [ConnectReplacing] and [WrapWithTriplanar] operate on an
// open [shader.Tx]. ConnectReplacing keeps the single-writer rule of inputs
// by dropping whatever fed the destination before connecting.
//
// # Batches
//
// [Setup] turns a list of texture files into samplers wired to a standard
// material. [Transform] adds shared scale, offset and rotation controls to
// existing samplers, optionally routing them through triplanar nodes. Each
// batch runs inside one transaction: either every edit is committed or none
// is.
//
// Per-batch bookkeeping lives in a [Session]. It remembers which material
// slots were wired during the batch and which auxiliary nodes were created,
// so a second texture of the same channel is skipped instead of replacing
// the first.
package wire
