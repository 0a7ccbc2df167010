// Package store persists material graphs.
//
// A [Provider] hands out the graph of a named material and saves it back.
// Two families of backends exist:
//
//   - Key-value stores ([FileStore], [MemoryStore], [RedisStore])
//     implement [KV] and are turned into providers by [NewKVProvider], which
//     stores each material as a JSON document under "material:<name>".
//   - [MongoProvider] stores documents natively in a MongoDB collection.
//
// [Open] picks a backend from a URL:
//
//	file:///var/lib/texwire     FileStore
//	mem://                      MemoryStore
//	redis://localhost:6379/0    RedisStore
//	mongodb://localhost:27017/texwire
//	                            MongoProvider, database from the path
//
// [DryRun] wraps any provider and drops saves.
//
// Store URLs accept a scope query parameter ("mem://?scope=castle"). On
// key-value stores it prefixes every key through a [ScopedStore]; on MongoDB
// it prefixes the collection name ("castle_materials").
//
// A material without a graph yields an error matching [ErrNoGraph]; a
// document from another node space yields one matching [ErrUnsupported].
// Both are also coded errors (NO_GRAPH and UNSUPPORTED_MATERIAL) so batch
// callers can report and skip the material.
package store
