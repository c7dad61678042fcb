package parser

import (
	"net/url"
	"strings"
)

// NormalizeID returns the canonical form of a page identifier: every path
// segment percent-encoded the way url.PathEscape does it. "Euler's_identity"
// and "Euler%27s_identity" both become "Euler%27s_identity". Segments that
// are not valid escapes are encoded as written.
func NormalizeID(id string) string {
	segments := strings.Split(id, "/")
	for i, seg := range segments {
		if unescaped, err := url.PathUnescape(seg); err == nil {
			seg = unescaped
		}
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}

// xpathLiteral quotes s as an XPath 1.0 string literal. XPath has no escape
// sequences, so a string holding both quote kinds is built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
