package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateMaterialName validates a material name used as a store key.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 256 characters
func ValidateMaterialName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidMaterial, "material name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidMaterial, "material name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidMaterial, "material name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "/", "\\", "\x00"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidMaterial, "material name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// imageExtensions lists the texture formats the setup batch accepts.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
	".exr": true, ".hdr": true, ".tga": true, ".bmp": true, ".tx": true,
}

// ValidateTextureFile validates a texture filename for the setup batch. It
// checks the name only; existence is the resolver's concern.
func ValidateTextureFile(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "texture filename cannot be empty")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "texture filename contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if !imageExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported texture format %q", ext)
	}

	return nil
}

// ValidatePath validates a relative path inside a collection directory.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateStoreURL validates a graph store URL. Supported schemes are
// file, redis, rediss, mongodb, mongodb+srv and mem.
func ValidateStoreURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "store URL cannot be empty")
	}

	for _, scheme := range []string{"file://", "redis://", "rediss://", "mongodb://", "mongodb+srv://", "mem://"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "unsupported store URL scheme: %q", rawURL)
}
