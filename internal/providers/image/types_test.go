package image

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		req     GenerationRequest
		wantErr bool
	}{
		{"valid text to image", GenerationRequest{BasePrompt: "一只猫"}, false},
		{"explicit mode", GenerationRequest{BasePrompt: "一只猫", Mode: ModeTextToImage}, false},
		{"empty prompt", GenerationRequest{BasePrompt: "   "}, true},
		{"i2i with reference", GenerationRequest{BasePrompt: "p", Mode: ModeImageToImage, ReferenceImagePath: "/tmp/ref.png"}, false},
		{"i2i without reference", GenerationRequest{BasePrompt: "p", Mode: ModeImageToImage}, true},
		{"unsupported mode", GenerationRequest{BasePrompt: "p", Mode: Mode("video")}, true},
	}
	for _, tc := range cases {
		err := tc.req.Validate()
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%s: expected validation error, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestNormalizeMode(t *testing.T) {
	cases := map[string]Mode{
		"":               ModeTextToImage,
		"text_to_image":  ModeTextToImage,
		"image_to_image": ModeImageToImage,
		"i2i":            ModeImageToImage,
		"I2I":            ModeImageToImage,
		"garbage":        ModeTextToImage,
	}
	for in, want := range cases {
		if got := NormalizeMode(in); got != want {
			t.Fatalf("NormalizeMode(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestResolveSeedAssignsOnce(t *testing.T) {
	req := GenerationRequest{BasePrompt: "p"}
	first := ResolveSeed(&req)
	second := ResolveSeed(&req)
	if first != second {
		t.Fatalf("seed changed between calls: %d vs %d", first, second)
	}
	explicit := uint32(42)
	req2 := GenerationRequest{BasePrompt: "p", Seed: &explicit}
	if got := ResolveSeed(&req2); got != 42 {
		t.Fatalf("explicit seed overridden: %d", got)
	}
}
