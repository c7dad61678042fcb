package parser

import (
	"errors"
	"log/slog"

	"github.com/IshaanNene/mathcrawl/internal/types"
)

// strippedTags are removed before extraction; their contents are never math or links.
const strippedTags = "script, noscript"

// WikiParser extracts math and article links from a MediaWiki page.
type WikiParser struct {
	math   *MathFinder
	links  *LinkFinder
	logger *slog.Logger
}

// NewWikiParser creates a parser for links starting with linkPrefix
// (DefaultLinkPrefix when empty).
func NewWikiParser(linkPrefix string, logger *slog.Logger) *WikiParser {
	return &WikiParser{
		math:   NewMathFinder(logger),
		links:  NewLinkFinder(linkPrefix, logger),
		logger: logger.With("component", "wiki_parser"),
	}
}

// Parse implements Parser.
func (p *WikiParser) Parse(resp *types.Response) (*Page, error) {
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: resp.Request.URLString(), Err: err}
	}
	if len(doc.Nodes) == 0 {
		return nil, &types.ParseError{URL: resp.Request.URLString(), Err: errors.New("empty document")}
	}

	doc.Find(strippedTags).Remove()

	links, err := p.links.Find(doc.Nodes[0])
	if err != nil {
		return nil, &types.ParseError{URL: resp.Request.URLString(), Selector: p.links.expr, Err: err}
	}

	page := &Page{
		Math:  p.math.Find(doc),
		Links: links,
	}

	p.logger.Debug("page parsed",
		"url", resp.Request.URLString(),
		"math", len(page.Math),
		"links", len(page.Links),
	)
	return page, nil
}
