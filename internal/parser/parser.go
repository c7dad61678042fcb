package parser

import (
	"github.com/IshaanNene/mathcrawl/internal/types"
)

// Page is what a parser extracts from one fetched page.
type Page struct {
	// Math holds the distinct math snippets found on the page, in document order.
	Math []string

	// Links holds the distinct page identifiers linked from the page, in document order.
	Links []string
}

// Parser extracts math snippets and outgoing page links from a response.
type Parser interface {
	Parse(resp *types.Response) (*Page, error)
}
