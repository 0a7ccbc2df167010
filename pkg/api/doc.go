// Package api serves texwire over HTTP.
//
// The server exposes the classifier, the channel tracer and the two wiring
// batches over material graphs kept in a [store.Provider]:
//
//	GET  /healthz
//	GET  /metrics                               (when a registry is set)
//	POST /v1/classify                           {"files": [...]}
//	GET  /v1/materials
//	GET  /v1/materials/{name}                   JSON document
//	PUT  /v1/materials/{name}                   JSON document
//	GET  /v1/materials/{name}/trace             channels per texture sampler
//	GET  /v1/materials/{name}/render?format=svg|dot&detailed=true
//	POST /v1/materials/{name}/setup             {"files": [...]}
//	POST /v1/materials/{name}/transform         {"nodes": [...], "options": {...}}
//
// Requests that edit a graph load it, run the batch in one transaction and
// save it back; edits of the same material are serialized.
//
// Errors are JSON bodies carrying the texwire error code:
//
//	{"error": "Not Found", "code": "NO_GRAPH", "message": "..."}
package api
