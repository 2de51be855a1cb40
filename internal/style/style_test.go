package style

import "testing"

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	d, ok := r.Lookup("水彩")
	if !ok {
		t.Fatalf("expected 水彩 to resolve")
	}
	if d.Family != FamilyPainterly {
		t.Fatalf("unexpected family: %v", d.Family)
	}
	if d.RemotePreset != "analog-film" {
		t.Fatalf("unexpected preset: %s", d.RemotePreset)
	}
	if len(d.Palette) == 0 {
		t.Fatalf("expected a palette")
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry()
	d, ok := r.Lookup("does-not-exist")
	if ok {
		t.Fatalf("unknown key should not resolve")
	}
	if d.RemotePreset != "" {
		t.Fatalf("neutral descriptor must not carry a remote preset")
	}
	if len(d.Palette) != 3 {
		t.Fatalf("expected neutral palette, got %d colors", len(d.Palette))
	}
	if d.Family != FamilyGradient {
		t.Fatalf("neutral family should be the default arm")
	}
}

func TestRegistryFamilies(t *testing.T) {
	r := NewRegistry()
	cases := map[string]Family{
		"像素艺术": FamilyBlocks,
		"二次元":  FamilyBlocks,
		"极简主义": FamilyBlocks,
		"油画":   FamilyPainterly,
		"印象派":  FamilyPainterly,
		"写实":   FamilyGradient,
		"赛博朋克": FamilyGradient,
	}
	for key, want := range cases {
		d, ok := r.Lookup(key)
		if !ok {
			t.Fatalf("%s should resolve", key)
		}
		if d.Family != want {
			t.Fatalf("%s: family %v, want %v", key, d.Family, want)
		}
	}
}

func TestPaletteForKeywords(t *testing.T) {
	d := Neutral()
	base := PaletteFor("没有颜色词", d)
	if len(base) != len(d.Palette) {
		t.Fatalf("prompt without keywords should keep the base palette")
	}
	extended := PaletteFor("红色的屋顶和蓝色的天空", d)
	if len(extended) != len(d.Palette)+2 {
		t.Fatalf("expected two detected colors, got %d extra", len(extended)-len(d.Palette))
	}
	if extended[len(d.Palette)] != (RGB{200, 50, 50}) {
		t.Fatalf("keyword order must be deterministic, got %v", extended[len(d.Palette)])
	}
}

func TestPaletteForDoesNotMutateDescriptor(t *testing.T) {
	r := NewRegistry()
	d := r.Resolve("水彩")
	before := len(d.Palette)
	_ = PaletteFor("红红红", d)
	if len(r.Resolve("水彩").Palette) != before {
		t.Fatalf("registry palette mutated")
	}
}

func TestQualityDimensions(t *testing.T) {
	cases := []struct {
		q      Quality
		w, h   int
		steps  int
	}{
		{QualityStandard, 1024, 1024, 30},
		{QualityHD, 1152, 896, 40},
		{QualityUltraHD, 1536, 640, 50},
		{Quality("bogus"), 1024, 1024, 30},
	}
	for _, tc := range cases {
		d := tc.q.Dimensions()
		if d.Width != tc.w || d.Height != tc.h || d.Steps != tc.steps {
			t.Fatalf("%s: got %+v", tc.q, d)
		}
	}
}

func TestParseQuality(t *testing.T) {
	cases := map[string]Quality{
		"standard": QualityStandard,
		"Standard": QualityStandard,
		"hd":       QualityHD,
		"高清":       QualityHD,
		"ultrahd":  QualityUltraHD,
		"超清":       QualityUltraHD,
		"":         QualityStandard,
		"nonsense": QualityStandard,
	}
	for in, want := range cases {
		if got := ParseQuality(in); got != want {
			t.Fatalf("ParseQuality(%q) = %s, want %s", in, got, want)
		}
	}
}
