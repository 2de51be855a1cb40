package style

import (
	"sort"
	"strings"
)

// RGB is a single palette color.
type RGB [3]uint8

// Family groups named visual styles that share a local-synthesis algorithm.
type Family int

const (
	// FamilyGradient is the default arm: accumulated two-point gradients.
	FamilyGradient Family = iota
	// FamilyBlocks tiles the canvas into uniformly colored squares.
	FamilyBlocks
	// FamilyPainterly stamps soft discs onto the canvas.
	FamilyPainterly
)

// Descriptor describes a named visual style. Descriptors are immutable and
// loaded once into a Registry at startup.
type Descriptor struct {
	Key          string
	DisplayName  string
	Palette      []RGB
	RemotePreset string
	Family       Family
}

var neutralPalette = []RGB{{100, 100, 100}, {200, 200, 200}, {150, 150, 150}}

// Neutral returns the descriptor used when a style key does not resolve:
// grey palette, no remote preset, default synthesis family.
func Neutral() Descriptor {
	return Descriptor{Palette: neutralPalette, Family: FamilyGradient}
}

// Registry is a process-wide immutable lookup table of style descriptors.
type Registry struct {
	styles map[string]Descriptor
}

// NewRegistry builds the default style registry.
func NewRegistry() *Registry {
	r := &Registry{styles: make(map[string]Descriptor, len(defaultStyles))}
	for _, d := range defaultStyles {
		r.styles[d.Key] = d
	}
	return r
}

// Lookup resolves a style key. The second result is false for unknown keys;
// callers fall back to Neutral().
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	if r == nil {
		return Neutral(), false
	}
	d, ok := r.styles[strings.TrimSpace(key)]
	if !ok {
		return Neutral(), false
	}
	return d, true
}

// Resolve is like Lookup but always returns a usable descriptor.
func (r *Registry) Resolve(key string) Descriptor {
	d, _ := r.Lookup(key)
	return d
}

// Keys returns all registered style keys in stable order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, 0, len(r.styles))
	for k := range r.styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type colorKeyword struct {
	keyword string
	color   RGB
}

// colorKeywords maps color-word substrings found in prompts to palette
// colors. Ordered so palette derivation stays deterministic.
var colorKeywords = []colorKeyword{
	{"红", RGB{200, 50, 50}},
	{"绿", RGB{50, 180, 50}},
	{"蓝", RGB{50, 100, 200}},
	{"黄", RGB{230, 200, 50}},
	{"紫", RGB{150, 50, 200}},
	{"青", RGB{50, 200, 200}},
	{"橙", RGB{230, 140, 30}},
	{"粉", RGB{230, 150, 180}},
	{"棕", RGB{140, 80, 20}},
	{"灰", RGB{130, 130, 130}},
	{"黑", RGB{30, 30, 30}},
	{"白", RGB{240, 240, 240}},
}

// PaletteFor derives the synthesis palette for a prompt: the style palette,
// extended with colors whose keywords appear in the raw prompt text. The
// keyword scan only biases color choice; it never alters the algorithm.
func PaletteFor(prompt string, d Descriptor) []RGB {
	base := d.Palette
	if len(base) == 0 {
		base = neutralPalette
	}
	palette := make([]RGB, len(base), len(base)+4)
	copy(palette, base)
	for _, ck := range colorKeywords {
		if strings.Contains(prompt, ck.keyword) {
			palette = append(palette, ck.color)
		}
	}
	return palette
}

var defaultStyles = []Descriptor{
	{Key: "写实", DisplayName: "写实风格，高清细节，自然光效", RemotePreset: "photographic", Family: FamilyGradient,
		Palette: []RGB{{100, 100, 100}, {150, 150, 150}, {200, 200, 200}}},
	{Key: "油画", DisplayName: "油画风格，明显的笔触，丰富的色彩和质感", RemotePreset: "digital-art", Family: FamilyPainterly,
		Palette: []RGB{{120, 80, 40}, {40, 100, 160}, {160, 160, 80}}},
	{Key: "水彩", DisplayName: "水彩画风格，柔和的色彩过渡，轻盈通透的效果", RemotePreset: "analog-film", Family: FamilyPainterly,
		Palette: []RGB{{200, 220, 255}, {255, 200, 200}, {200, 250, 200}}},
	{Key: "插画", DisplayName: "插画风格，简洁线条，鲜明色彩，平面化设计", RemotePreset: "comic-book", Family: FamilyGradient,
		Palette: []RGB{{255, 200, 100}, {100, 200, 255}, {200, 100, 255}}},
	{Key: "二次元", DisplayName: "日本动漫风格，大眼睛，精致的线条，鲜艳的色彩", RemotePreset: "anime", Family: FamilyBlocks,
		Palette: []RGB{{255, 170, 200}, {170, 200, 255}, {170, 255, 200}}},
	{Key: "像素艺术", DisplayName: "复古像素游戏风格，方块化的图像元素", RemotePreset: "pixel-art", Family: FamilyBlocks,
		Palette: []RGB{{100, 120, 200}, {200, 100, 100}, {100, 200, 100}}},
	{Key: "赛博朋克", DisplayName: "赛博朋克风格，未来感，霓虹灯效果，高科技与低生活的对比", RemotePreset: "neon-punk", Family: FamilyGradient,
		Palette: []RGB{{0, 200, 255}, {255, 0, 150}, {150, 255, 0}}},
	{Key: "奇幻", DisplayName: "奇幻风格，魔法元素，超自然景观和生物", RemotePreset: "fantasy-art", Family: FamilyGradient,
		Palette: []RGB{{100, 50, 200}, {50, 200, 100}, {200, 100, 50}}},
	{Key: "哥特", DisplayName: "哥特风格，黑暗氛围，尖顶建筑，华丽装饰", RemotePreset: "digital-art", Family: FamilyGradient,
		Palette: []RGB{{50, 0, 100}, {100, 0, 50}, {30, 30, 50}}},
	{Key: "印象派", DisplayName: "印象派风格，强调光和色彩的表现，笔触明显且色彩鲜艳", RemotePreset: "analog-film", Family: FamilyPainterly,
		Palette: []RGB{{200, 220, 100}, {100, 200, 220}, {220, 100, 200}}},
	{Key: "极简主义", DisplayName: "极简主义风格，简洁的线条和形状，有限的色彩", RemotePreset: "line-art", Family: FamilyBlocks,
		Palette: []RGB{{240, 240, 240}, {30, 30, 30}, {200, 200, 200}}},
	{Key: "复古", DisplayName: "复古风格，怀旧色调，老式摄影效果", RemotePreset: "analog-film", Family: FamilyGradient,
		Palette: []RGB{{200, 180, 140}, {140, 120, 100}, {180, 160, 120}}},
	{Key: "蒸汽朋克", DisplayName: "蒸汽朋克风格，维多利亚时代美学与蒸汽动力科技的结合", RemotePreset: "digital-art", Family: FamilyGradient,
		Palette: []RGB{{180, 140, 100}, {100, 80, 60}, {140, 100, 60}}},
	{Key: "波普艺术", DisplayName: "波普艺术风格，明亮饱和的色彩，大众流行文化元素", RemotePreset: "digital-art", Family: FamilyGradient,
		Palette: []RGB{{255, 50, 50}, {50, 50, 255}, {255, 255, 50}}},
	{Key: "超现实主义", DisplayName: "超现实主义风格，梦幻与现实的混合，不符合常理的场景", RemotePreset: "fantasy-art", Family: FamilyGradient,
		Palette: []RGB{{100, 200, 255}, {255, 100, 200}, {200, 255, 100}}},
	{Key: "动漫", DisplayName: "动漫风格，清新可爱的动画效果", RemotePreset: "anime", Family: FamilyGradient},
	{Key: "3D", DisplayName: "3D渲染风格，逼真的立体效果", RemotePreset: "3d-render", Family: FamilyGradient},
	{Key: "素描", DisplayName: "素描风格，黑白线条勾勒", RemotePreset: "sketch", Family: FamilyGradient},
	{Key: "水墨", DisplayName: "中国水墨画风格，意境优美", RemotePreset: "ink", Family: FamilyGradient},
	{Key: "霓虹", DisplayName: "霓虹风格，明亮的发光效果", RemotePreset: "neon", Family: FamilyGradient},
}
