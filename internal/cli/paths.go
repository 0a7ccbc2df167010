package cli

import (
	"os"
	"path/filepath"
	"sort"

	texerr "github.com/imfine/texwire/pkg/errors"
)

// lookupEnv is swapped in tests.
var lookupEnv = os.Getenv

// dataDir returns the default graph store directory using XDG standard
// (~/.local/share/texwire/materials).
func dataDir() (string, error) {
	if dataHome := lookupEnv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "materials"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "materials"), nil
}

// expandTextures replaces directory arguments by the texture files they
// contain, sorted by name. File arguments are kept as given, so explicit
// files are never filtered.
func expandTextures(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		fi, err := os.Stat(arg)
		if err != nil || !fi.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		var found []string
		for _, e := range entries {
			if e.IsDir() || texerr.ValidateTextureFile(e.Name()) != nil {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		files = append(files, found...)
	}
	return files, nil
}

// absPaths makes every path absolute.
func absPaths(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
