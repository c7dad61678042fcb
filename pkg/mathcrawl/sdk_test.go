package mathcrawl_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"

	"github.com/IshaanNene/mathcrawl/pkg/mathcrawl"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func serveWiki(t *testing.T, pages map[string]string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[strings.TrimPrefix(r.URL.Path, "/wiki/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/wiki/"
}

func mathPage(tex string, links ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<html><body><img class="mwe-math-fallback-image-display" alt="{\displaystyle %s}">`, tex)
	for _, l := range links {
		fmt.Fprintf(&b, `<a href="/wiki/%s">%s</a>`, l, l)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestCrawlAndSave(t *testing.T) {
	base := serveWiki(t, map[string]string{
		"Algebra": mathPage("a+b", "Ring"),
		"Ring":    mathPage(`R\times R`),
	})
	dir := t.TempDir()

	crawler, err := mathcrawl.NewCrawler(
		mathcrawl.WithBaseURL(base),
		mathcrawl.WithDepth(2),
		mathcrawl.WithOutputDir(dir),
		mathcrawl.WithLogger(testLogger),
	)
	if err != nil {
		t.Fatalf("new crawler: %v", err)
	}

	res, err := crawler.Crawl(context.Background(), []string{base + "Algebra"})
	if err != nil {
		t.Fatalf("crawl: %v", err)
	}
	if res.State != mathcrawl.StateCompleted {
		t.Errorf("expected completed, got %s", res.State)
	}
	if want := []string{"a+b", `R\times R`}; !slices.Equal(res.Math, want) {
		t.Errorf("math = %v, want %v", res.Math, want)
	}

	if err := crawler.Save(res); err != nil {
		t.Fatalf("save: %v", err)
	}
	visited, err := crawler.PreviouslyVisited()
	if err != nil {
		t.Fatalf("previously visited: %v", err)
	}
	if want := []string{"Algebra", "Ring"}; !slices.Equal(visited, want) {
		t.Errorf("saved visited = %v, want %v", visited, want)
	}

	// A second run that skips saved pages fetches nothing new.
	again, err := crawler.Crawl(context.Background(), []string{base + "Algebra"}, visited...)
	if err != nil {
		t.Fatalf("second crawl: %v", err)
	}
	if len(again.NewlyVisited) != 0 || len(again.Math) != 0 {
		t.Errorf("expected nothing new, got %+v", again)
	}
}

func TestCrawlFailure(t *testing.T) {
	base := serveWiki(t, map[string]string{
		"Algebra": mathPage("a+b", "Missing"),
	})

	crawler, err := mathcrawl.NewCrawler(
		mathcrawl.WithBaseURL(base),
		mathcrawl.WithDepth(3),
		mathcrawl.WithLogger(testLogger),
	)
	if err != nil {
		t.Fatalf("new crawler: %v", err)
	}

	res, err := crawler.Crawl(context.Background(), []string{"Algebra"})
	var te *mathcrawl.TraversalError
	if !errors.As(err, &te) || te.PageID != "Missing" {
		t.Fatalf("expected TraversalError for Missing, got %v", err)
	}
	if res.State != mathcrawl.StateFailed || !slices.Equal(res.Math, []string{"a+b"}) {
		t.Errorf("unexpected partial result %+v", res)
	}
}

func TestNewCrawlerRejectsBadOptions(t *testing.T) {
	if _, err := mathcrawl.NewCrawler(mathcrawl.WithDepth(-1)); err == nil {
		t.Error("expected negative depth to be rejected")
	}
	if _, err := mathcrawl.NewCrawler(mathcrawl.WithBaseURL("https://en.wikipedia.org/wiki")); err == nil {
		t.Error("expected base URL without trailing slash to be rejected")
	}
}
