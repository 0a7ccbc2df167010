// Package io provides JSON and YAML import and export for material graphs.
//
// # Overview
//
// A material graph is stored as a [Document]: the material name, the node
// space it belongs to, its nodes with their port trees, its connections and
// the current selection. The same document type is used for files, for the
// HTTP API and for every graph store backend.
//
// # Format
//
//	{
//	  "material": "Steel",
//	  "space": "com.redshift3d.redshift4c4d.class.nodespace",
//	  "nodes": [
//	    {
//	      "id": "8c1f…",
//	      "asset": "com.redshift3d.redshift4c4d.nodes.core.texturesampler",
//	      "kind": "texturesampler",
//	      "name": "BaseColor",
//	      "inputs": [
//	        {"id": "…texturesampler.tex0", "children": [
//	          {"id": "path", "value": {"type": "string", "string": "/tex/a.png"}}
//	        ]}
//	      ],
//	      "outputs": [{"id": "…texturesampler.outcolor"}]
//	    }
//	  ],
//	  "edges": [
//	    {"from": {"node": "8c1f…", "port": "…outcolor"},
//	     "to": {"node": "51aa…", "port": "…standardmaterial.base_color"}}
//	  ]
//	}
//
// Port values are tagged with their type so integers, floats and vectors
// survive formats that do not tell them apart. Nested ports are addressed in
// edges by their path joined with "/".
//
// # Import
//
// [ReadJSON] and [ReadYAML] decode a document from any io.Reader, [Import]
// reads a file and picks the format by extension. [Document.Graph] turns a
// document into a [shader.Graph], rejecting documents from other node spaces
// and connections that break the single-writer rule.
//
// # Export
//
// [FromGraph] captures a graph, [WriteJSON] and [WriteYAML] encode it and
// [Export] writes it to a file.
package io
