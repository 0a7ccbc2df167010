package collect

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	billy "github.com/go-git/go-billy/v5"

	"github.com/imfine/texwire/pkg/channel"
)

// fallbackMaterial names materials whose name has no usable characters.
const fallbackMaterial = "MaterialNameError"

// SafeName reduces a material name to letters, digits and underscores.
// Other characters become underscores; leading and trailing underscores are
// trimmed.
func SafeName(material string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, material)
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return fallbackMaterial
	}
	return safe
}

// FileName returns the collected file name for a texture of material on ch.
func FileName(material string, ch channel.Channel, ext string) string {
	return SafeName(material) + "_" + channel.Suffix(ch) + ext
}

// freeName returns the first name in dir that does not exist on fs, trying
// name and then the counter forms "<stem>_00<ext>", "<stem>_01<ext>", ...
func freeName(fs billy.Filesystem, dir, name string) string {
	if !exists(fs, path.Join(dir, name)) {
		return name
	}
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 0; ; i++ {
		c := fmt.Sprintf("%s_%02d%s", stem, i, ext)
		if !exists(fs, path.Join(dir, c)) {
			return c
		}
	}
}

func exists(fs billy.Filesystem, p string) bool {
	_, err := fs.Lstat(p)
	return err == nil
}
