// Package collect gathers the texture files used by material graphs into a
// delivery folder.
//
// For every texture sampler with a file path, [Collector] traces the channel
// the sampler feeds, resolves the file and copies it to
//
//	<dest>/tex/<Material>_<Suffix><ext>
//
// where Material is the material name reduced to letters, digits and
// underscores, and Suffix comes from [channel.Suffix] of the first traced
// channel. Name collisions get a two-digit counter ("Steel_BaseColor_00.png").
//
// Paths are resolved by a [Resolver] in three steps: as given, joined to the
// scene directory, and joined to the scene's "tex" directory. Both the
// source and destination are go-billy filesystems, so the same code runs on
// the OS filesystem (osfs) and in memory (memfs) in tests.
//
// With rewiring enabled the sampler paths of a material are pointed at the
// copied files in one transaction and the graph is saved back to its store.
package collect
