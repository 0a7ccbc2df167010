package channel

import "testing"

func TestSuffix(t *testing.T) {
	tests := []struct {
		in   Channel
		want string
	}{
		{BaseColor, "BaseColor"},
		{DiffuseColor, "BaseColor"},
		{Metalness, "Metalic"},
		{Roughness, "Roughness"},
		{Emission, "Emissive"},
		{AO, "AO"},
		{"coat_color", "Coat_Color"},
		{"refl_color", "Refl_Color"},
		{"SHEEN", "Sheen"},
		{"", "Texture"},
	}
	for _, tt := range tests {
		if got := Suffix(tt.in); got != tt.want {
			t.Errorf("Suffix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Roughness.Known() {
		t.Error("refl_roughness should be known")
	}
	if DiffuseColor.Known() {
		t.Error("diffuse_color is an alias, not a known channel")
	}
}
