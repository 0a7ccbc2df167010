package errors

import "testing"

func TestValidateMaterialName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Steel", false},
		{"spaces", "Rusty Metal 02", false},
		{"unicode", "Holz_Eiche", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 300)), true},
		{"slash", "a/b", true},
		{"traversal", "..", true},
		{"control", "a\x01b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMaterialName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateMaterialName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidMaterial) {
				t.Errorf("ValidateMaterialName(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateTextureFile(t *testing.T) {
	tests := []struct {
		input string
		code  Code
	}{
		{"Wood_Floor_01_Rough.png", ""},
		{"/abs/path/Metal_Panel_BaseColor.TIF", ""},
		{"plate_disp.exr", ""},
		{"", ErrCodeInvalidInput},
		{"notes.txt", ErrCodeInvalidFormat},
		{"noext", ErrCodeInvalidFormat},
		{"bad\x00.png", ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		err := ValidateTextureFile(tt.input)
		if got := GetCode(err); got != tt.code {
			t.Errorf("ValidateTextureFile(%q) code = %q, want %q", tt.input, got, tt.code)
		}
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "tex/Steel_BaseColor.png", false},
		{"valid filename only", "README.md", false},
		{"valid with dots", "v1.2.3/a.png", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 600)), true},
		{"absolute path", "/etc/passwd", true},
		{"path traversal", "../../../etc/passwd", true},
		{"path traversal middle", "foo/../bar", true},
		{"null byte", "foo\x00bar", true},
		{"backslash", "foo\\bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) returned wrong error code: %v", tt.input, err)
			}
		})
	}
}

func TestValidateStoreURL(t *testing.T) {
	valid := []string{"file:///var/lib/texwire", "redis://localhost:6379/0", "mongodb://db:27017", "mem://"}
	for _, u := range valid {
		if err := ValidateStoreURL(u); err != nil {
			t.Errorf("ValidateStoreURL(%q) = %v", u, err)
		}
	}
	for _, u := range []string{"", "http://x", "/plain/path"} {
		if err := ValidateStoreURL(u); err == nil {
			t.Errorf("ValidateStoreURL(%q) = nil, want error", u)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidFormat,
		ErrCodeInvalidPath,
		ErrCodeInvalidMaterial,
		ErrCodeNoGraph,
		ErrCodeUnsupported,
		ErrCodeNoMaterialNode,
		ErrCodeNoTextures,
		ErrCodeLookupFailed,
		ErrCodePathUnresolved,
		ErrCodeTxFailed,
		ErrCodeCopyFailed,
		ErrCodeStore,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
