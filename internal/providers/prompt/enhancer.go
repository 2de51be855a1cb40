package prompt

import (
	"strings"

	"golang.org/x/text/language"

	"imageforge/internal/style"
)

// blankPrompt substitutes for an empty base description so enhancement never
// fails.
const blankPrompt = "空白图像"

// Enhancer merges a base description with a style descriptor and optional
// extra detail into a single enhanced description string. It is pure: no
// network, no side effects.
type Enhancer struct {
	styles  *style.Registry
	matcher language.Matcher
}

// NewEnhancer wires an enhancer against the style registry.
func NewEnhancer(styles *style.Registry) *Enhancer {
	return &Enhancer{
		styles:  styles,
		matcher: language.NewMatcher([]language.Tag{language.Chinese, language.English}),
	}
}

// Enhance builds the final description for a generation request. A resolvable
// style key appends its display description; non-empty extra detail is
// appended the same way. Unknown style keys contribute nothing.
func (e *Enhancer) Enhance(base, styleKey, extraDetail, locale string) string {
	sep := e.separator(locale)
	enhanced := strings.TrimSpace(base)
	if enhanced == "" {
		enhanced = blankPrompt
	}
	if d, ok := e.styles.Lookup(styleKey); ok {
		enhanced += sep + d.DisplayName
	}
	if detail := strings.TrimSpace(extraDetail); detail != "" {
		enhanced += sep + detail
	}
	return enhanced
}

// separator picks the list separator matching the caller's locale. The
// matcher falls back to Chinese, the language of the default style data.
func (e *Enhancer) separator(locale string) string {
	tag, _ := language.MatchStrings(e.matcher, locale)
	if base, _ := tag.Base(); base.String() == "zh" {
		return "，"
	}
	return ", "
}
