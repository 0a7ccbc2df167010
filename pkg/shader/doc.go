// Package shader models a material node graph: typed nodes, nested ports and
// directed connections between them.
//
// # Structure
//
// A [Graph] owns its nodes and connections. Nodes are addressed by [NodeID]
// handles and ports by [PortRef] values of the form (node, direction, path),
// never by live pointers, so references stay meaningful while a transaction
// rewrites the graph. Port paths descend into port groups, for example the
// texture sampler's "tex0" group holding "path" and "colorspace":
//
//	ref := g.FindInput(id, shader.PortTexture, "path")
//	if !ref.IsValid() {
//	    // lookup failed; skip this item
//	}
//
// Lookups never panic. A missing node or port yields the zero [PortRef],
// which reports IsValid() == false.
//
// # Node Kinds
//
// Every node carries a closed [Kind] derived from its host asset identifier
// through a [Catalogue]. Asset identifiers the catalogue does not know map to
// [KindPassthrough]. The catalogue also holds the port schema used when the
// graph creates a node of a given kind.
//
// # Transactions
//
// All edits go through a [Tx] obtained from [Graph.Begin]. A transaction works
// on a private copy of the graph; [Tx.Commit] validates the copy and swaps it
// in atomically, [Tx.Discard] drops it. Only one transaction may be open per
// graph. [Graph.Update] wraps the begin/commit/discard sequence:
//
//	err := g.Update(func(tx *shader.Tx) error {
//	    n, err := tx.AddNode(shader.KindTextureSampler, "BaseColor")
//	    if err != nil {
//	        return err
//	    }
//	    return tx.Connect(tx.FindOutput(n.ID, shader.PortTexOutColor), target)
//	})
//
// Reads need no transaction. [Graph] and [Tx] both implement [View].
package shader
