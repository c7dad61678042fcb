package pipeline

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// --- Built-in Middleware ---

// WhitespaceMiddleware trims a snippet and collapses every whitespace run,
// newlines included, into one space. Output files hold one snippet per
// line, so multi-line environments must be flattened.
type WhitespaceMiddleware struct{}

func (m *WhitespaceMiddleware) Name() string { return "whitespace" }

func (m *WhitespaceMiddleware) Process(snippet string) (string, error) {
	return strings.Join(strings.Fields(snippet), " "), nil
}

// LengthMiddleware drops snippets shorter than Min or longer than Max runes.
// A zero bound is not checked.
type LengthMiddleware struct {
	Min int
	Max int
}

func (m *LengthMiddleware) Name() string { return "length" }

func (m *LengthMiddleware) Process(snippet string) (string, error) {
	n := utf8.RuneCountInString(snippet)
	if m.Min > 0 && n < m.Min {
		return "", nil
	}
	if m.Max > 0 && n > m.Max {
		return "", nil
	}
	return snippet, nil
}

// RejectMiddleware drops snippets matching any of its patterns.
type RejectMiddleware struct {
	patterns []*regexp.Regexp
}

// NewRejectMiddleware compiles patterns into a RejectMiddleware.
func NewRejectMiddleware(patterns []string) (*RejectMiddleware, error) {
	compiled, err := compilePatterns(patterns)
	if err != nil {
		return nil, err
	}
	return &RejectMiddleware{patterns: compiled}, nil
}

func (m *RejectMiddleware) Name() string { return "reject" }

func (m *RejectMiddleware) Process(snippet string) (string, error) {
	for _, re := range m.patterns {
		if re.MatchString(snippet) {
			return "", nil
		}
	}
	return snippet, nil
}
