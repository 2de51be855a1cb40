package prompt

import (
	"strings"
	"testing"

	"imageforge/internal/style"
)

func TestEnhanceAppendsStyleDescription(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	got := e.Enhance("一只猫", "水彩", "", "zh-CN")
	want := "一只猫，水彩画风格，柔和的色彩过渡，轻盈通透的效果"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEnhanceAppendsExtraDetail(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	got := e.Enhance("一只猫", "水彩", "柔和的晨光", "zh")
	if !strings.HasSuffix(got, "，柔和的晨光") {
		t.Fatalf("extra detail not appended: %q", got)
	}
}

func TestEnhanceEmptyBase(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	got := e.Enhance("   ", "", "", "zh")
	if got != "空白图像" {
		t.Fatalf("got %q", got)
	}
}

func TestEnhanceUnknownStyleContributesNothing(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	if got := e.Enhance("一只猫", "no-such-style", "", "zh"); got != "一只猫" {
		t.Fatalf("got %q", got)
	}
}

func TestEnhanceSeparatorFollowsLocale(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	zh := e.Enhance("一只猫", "水彩", "", "zh-Hans")
	if !strings.Contains(zh, "，") {
		t.Fatalf("expected fullwidth separator: %q", zh)
	}
	// The style description itself contains fullwidth commas, so only the
	// joining separator right after the base prompt is asserted.
	en := e.Enhance("a cat", "水彩", "", "en-US")
	if !strings.HasPrefix(en, "a cat, ") {
		t.Fatalf("expected ascii separator: %q", en)
	}
}

func TestEnhanceIsPure(t *testing.T) {
	e := NewEnhancer(style.NewRegistry())
	first := e.Enhance("一只猫", "油画", "金色的光", "zh")
	second := e.Enhance("一只猫", "油画", "金色的光", "zh")
	if first != second {
		t.Fatalf("repeated calls differ: %q vs %q", first, second)
	}
}
