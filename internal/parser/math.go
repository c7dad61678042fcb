package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MediaWiki renders every formula as a MathML node plus a fallback image.
// Both carry the TeX source in an attribute.
const (
	mathMLSelector   = "math[alttext]"
	mathImgSelector  = "img.mwe-math-fallback-image-inline[alt], img.mwe-math-fallback-image-display[alt]"
	mathTeXAttrMath  = "alttext"
	mathTeXAttrImage = "alt"
)

// styleWrappers are the outer commands MediaWiki wraps around every formula.
var styleWrappers = []string{`\displaystyle`, `\textstyle`, `\scriptstyle`}

// MathFinder extracts TeX snippets from MediaWiki-rendered HTML.
type MathFinder struct {
	logger *slog.Logger
}

// NewMathFinder creates a new MathFinder.
func NewMathFinder(logger *slog.Logger) *MathFinder {
	return &MathFinder{
		logger: logger.With("component", "math_finder"),
	}
}

// Find returns the distinct, cleaned TeX snippets in doc.
func (m *MathFinder) Find(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(raw string) {
		tex := CleanTeX(raw)
		if tex == "" {
			return
		}
		if _, ok := seen[tex]; ok {
			return
		}
		seen[tex] = struct{}{}
		out = append(out, tex)
	}

	doc.Find(mathMLSelector).Each(func(_ int, sel *goquery.Selection) {
		v, _ := sel.Attr(mathTeXAttrMath)
		add(v)
	})
	doc.Find(mathImgSelector).Each(func(_ int, sel *goquery.Selection) {
		v, _ := sel.Attr(mathTeXAttrImage)
		add(v)
	})

	m.logger.Debug("math found", "count", len(out))
	return out
}

// CleanTeX strips the `{\displaystyle ...}` wrapper MediaWiki adds around
// formulas and trims whitespace. Unbalanced input is returned trimmed.
func CleanTeX(raw string) string {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' || !wrapsWhole(s) {
		return s
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	for _, w := range styleWrappers {
		if rest, ok := strings.CutPrefix(inner, w); ok {
			// \displaystyle must end at a command boundary.
			if rest == "" || !isLetter(rest[0]) {
				return strings.TrimSpace(rest)
			}
		}
	}
	return s
}

// wrapsWhole reports whether the first '{' closes at the final byte.
func wrapsWhole(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped char such as \{ or \}
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i == len(s)-1
			}
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
