package parser

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// DefaultLinkPrefix is the href prefix of article links on a MediaWiki site.
const DefaultLinkPrefix = "/wiki/"

// LinkFinder extracts article identifiers from internal links using XPath.
type LinkFinder struct {
	prefix string
	expr   string
	logger *slog.Logger
}

// NewLinkFinder creates a LinkFinder for hrefs starting with prefix.
func NewLinkFinder(prefix string, logger *slog.Logger) *LinkFinder {
	if prefix == "" {
		prefix = DefaultLinkPrefix
	}
	return &LinkFinder{
		prefix: prefix,
		expr:   "//a[starts-with(@href, " + xpathLiteral(prefix) + ")]",
		logger: logger.With("component", "link_finder"),
	}
}

// Find returns the distinct page identifiers linked from root.
// Identifiers containing ':' (File:, Help:, Special: ...) are namespace
// pages and are excluded.
func (l *LinkFinder) Find(root *html.Node) ([]string, error) {
	nodes, err := htmlquery.QueryAll(root, l.expr)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(nodes))
	var ids []string
	for _, node := range nodes {
		id, ok := l.pageID(htmlquery.SelectAttr(node, "href"))
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	l.logger.Debug("links found", "anchors", len(nodes), "ids", len(ids))
	return ids, nil
}

// pageID turns an href into a normalized page identifier.
func (l *LinkFinder) pageID(href string) (string, bool) {
	id, ok := strings.CutPrefix(href, l.prefix)
	if !ok {
		return "", false
	}
	if i := strings.IndexAny(id, "#?"); i >= 0 {
		id = id[:i]
	}
	if id == "" || strings.Contains(id, ":") {
		return "", false
	}
	// Percent-encoded colons are namespaces too.
	if unescaped, err := url.PathUnescape(id); err == nil && strings.Contains(unescaped, ":") {
		return "", false
	}
	return NormalizeID(id), true
}
