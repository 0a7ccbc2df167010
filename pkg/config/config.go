// Package config loads and saves texwire user settings.
//
// Settings live in a TOML file, by default
// $XDG_CONFIG_HOME/texwire/settings.toml (~/.config/texwire/settings.toml).
// Each tool owns one table; texwire reads and writes
// [quick_texture_transform], [store], [collect] and [server] and leaves every
// other table of the file untouched when saving:
//
//	[quick_texture_transform]
//	scale = true
//	triplanar = true
//
//	[store]
//	url = "file:///home/me/.local/share/texwire"
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/imfine/texwire/pkg/wire"
)

const (
	appName  = "texwire"
	fileName = "settings.toml"
)

// Table names in the settings file.
const (
	TableTransform = "quick_texture_transform"
	TableStore     = "store"
	TableCollect   = "collect"
	TableServer    = "server"
)

// StoreSettings selects the graph store.
type StoreSettings struct {
	URL string `toml:"url"`
}

// CollectSettings hold the defaults of the collect command.
type CollectSettings struct {
	Rewire bool `toml:"rewire"`
}

// ServerSettings hold the defaults of the serve command.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// Settings are the texwire tables of the settings file.
type Settings struct {
	Transform wire.Options    `toml:"quick_texture_transform"`
	Store     StoreSettings   `toml:"store"`
	Collect   CollectSettings `toml:"collect"`
	Server    ServerSettings  `toml:"server"`
}

// Default returns the settings used when no file exists.
func Default() Settings {
	return Settings{
		Transform: wire.DefaultOptions(),
		Server:    ServerSettings{Addr: ":8080"},
	}
}

// Dir returns the config directory using XDG standard (~/.config/texwire/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// Path returns the default settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Load reads the settings at path. A missing file yields Default; keys
// absent from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, err
	}
	if _, err := toml.Decode(string(data), &s); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path, keeping every table of an existing file that
// texwire does not own. An unreadable existing file is replaced.
func Save(path string, s Settings) error {
	all := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		if _, err := toml.Decode(string(data), &all); err != nil {
			all = map[string]any{}
		}
	}

	own, err := tables(s)
	if err != nil {
		return err
	}
	for k, v := range own {
		all[k] = v
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(all); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// tables round-trips s through TOML to get its tables as generic maps.
func tables(s Settings) (map[string]any, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	out := map[string]any{}
	if _, err := toml.Decode(buf.String(), &out); err != nil {
		return nil, err
	}
	return out, nil
}
