package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension. Unknown extensions are
// treated as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(d *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a document from r. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &d, nil
}

// WriteYAML encodes d as YAML.
func WriteYAML(d *Document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ReadYAML decodes a document from r. ReadYAML does not close r.
func ReadYAML(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &d, nil
}

// Write encodes d in format f.
func Write(d *Document, w io.Writer, f Format) error {
	if f == FormatYAML {
		return WriteYAML(d, w)
	}
	return WriteJSON(d, w)
}

// Read decodes a document in format f.
func Read(r io.Reader, f Format) (*Document, error) {
	if f == FormatYAML {
		return ReadYAML(r)
	}
	return ReadJSON(r)
}

// Import reads the document file at path, choosing the format by extension.
func Import(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatOf(path))
}

// Export writes d to path, choosing the format by extension.
func Export(d *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f, FormatOf(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
