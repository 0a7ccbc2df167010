package channel

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		want   Channel
		wantOK bool
	}{
		{"roughness short", "Wood_Floor_01_Rough.png", Roughness, true},
		{"camel case token is one word", "Metal_Panel_BaseColor.tif", BaseColor, true},
		{"only last token counts", "Metal_Street_01_Color.jpg", BaseColor, true},
		{"upper case", "brick_NRM.exr", Normal, true},
		{"single letter", "rock_d.png", BaseColor, true},
		{"height is displacement", "cliff_height.tiff", Displacement, true},
		{"emission", "lamp_Emissive.png", Emission, true},
		{"no separator", "wood.png", "", false},
		{"no extension", "wood_gloss", Glossiness, true},
		{"directory ignored", "/tmp/my_textures/wood.png", "", false},
		{"unknown token", "wood_floor.png", "", false},
		{"substring is not a match", "wood_roughnessmap.png", "", false},
		{"trailing separator", "wood_.png", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.file)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Classify(%q) = (%q, %v), want (%q, %v)", tt.file, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestClassifyRuleOrder(t *testing.T) {
	c := NewClassifier([]Rule{
		{Metalness, []string{"Metal", "shared"}},
		{BaseColor, []string{"shared", "color"}},
	})

	if got, _ := c.Classify("a_shared.png"); got != Metalness {
		t.Errorf("shared keyword = %q, want first declared rule %q", got, Metalness)
	}
	if got, _ := c.Classify("a_METAL.png"); got != Metalness {
		t.Errorf("keywords should be lower-cased, got %q", got)
	}
	if got, _ := c.Classify("a_color.png"); got != BaseColor {
		t.Errorf("color = %q, want %q", got, BaseColor)
	}
}

func TestDefaultRulesCoverAllChannels(t *testing.T) {
	if len(DefaultRules) != len(All) {
		t.Fatalf("DefaultRules has %d rules, All has %d channels", len(DefaultRules), len(All))
	}
	for i, r := range DefaultRules {
		if r.Channel != All[i] {
			t.Errorf("rule %d is %q, want %q", i, r.Channel, All[i])
		}
		for _, k := range r.Keywords {
			if k != strings.ToLower(k) {
				t.Errorf("keyword %q of %q is not lower-case", k, r.Channel)
			}
		}
	}
}

func TestSuffixToken(t *testing.T) {
	tok, ok := SuffixToken("D_Wood_Maple_01_ROUGH.jpg")
	if !ok || tok != "rough" {
		t.Errorf("SuffixToken = (%q, %v), want (rough, true)", tok, ok)
	}
}

func TestClassifyProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	var keywords []string
	owner := map[string]Channel{}
	for _, r := range DefaultRules {
		for _, k := range r.Keywords {
			if _, seen := owner[k]; !seen {
				owner[k] = r.Channel
			}
			keywords = append(keywords, k)
		}
	}
	kwGen := gen.IntRange(0, len(keywords)-1).Map(func(i int) string { return keywords[i] })

	properties.Property("declared suffix keyword classifies to its channel", prop.ForAll(
		func(base, kw string, upper bool) bool {
			suffix := kw
			if upper {
				suffix = strings.ToUpper(kw)
			}
			got, ok := Classify(base + "_" + suffix + ".png")
			return ok && got == owner[kw]
		},
		gen.AlphaString(),
		kwGen,
		gen.Bool(),
	))

	properties.Property("names without separator never classify", prop.ForAll(
		func(name string) bool {
			_, ok := Classify(name + ".png")
			return !ok
		},
		gen.AlphaString(),
	))

	properties.Property("classification is deterministic", prop.ForAll(
		func(name string) bool {
			a, okA := Classify(name)
			b, okB := Classify(name)
			return a == b && okA == okB
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
