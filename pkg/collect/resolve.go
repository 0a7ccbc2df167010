package collect

import (
	"path"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"

	texerr "github.com/imfine/texwire/pkg/errors"
)

// TexDir is the directory textures are looked up in and collected into.
const TexDir = "tex"

// Resolver finds texture files on a filesystem relative to a scene directory.
type Resolver struct {
	fs   billy.Filesystem
	base string
	wd   string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithWorkDir resolves relative paths taken as-is against dir.
func WithWorkDir(dir string) ResolverOption {
	return func(r *Resolver) { r.wd = dir }
}

// NewResolver returns a resolver over fs. An empty base disables the
// relative lookups.
func NewResolver(fs billy.Filesystem, base string, opts ...ResolverOption) *Resolver {
	r := &Resolver{fs: fs, base: base}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Candidates returns the paths Resolve tries, in order.
func (r *Resolver) Candidates(p string) []string {
	p = filepath.ToSlash(p)
	asIs := p
	if r.wd != "" && !path.IsAbs(p) {
		asIs = path.Join(filepath.ToSlash(r.wd), p)
	}
	out := []string{asIs}
	if r.base != "" {
		base := filepath.ToSlash(r.base)
		out = append(out, path.Join(base, p), path.Join(base, TexDir, p))
	}
	return out
}

// Resolve returns the first candidate that is a regular file.
func (r *Resolver) Resolve(p string) (string, error) {
	if p == "" {
		return "", texerr.New(texerr.ErrCodePathUnresolved, "empty texture path")
	}
	for _, c := range r.Candidates(p) {
		if r.isFile(c) {
			return c, nil
		}
	}
	return "", texerr.New(texerr.ErrCodePathUnresolved, "texture file not found: %s", p)
}

func (r *Resolver) isFile(p string) bool {
	fi, err := r.fs.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
