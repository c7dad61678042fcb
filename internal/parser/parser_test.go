package parser

import (
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/IshaanNene/mathcrawl/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const wikiHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Quadratic equation - Wikipedia</title>
    <script>var s = '<a href="/wiki/FromScript">x</a>';</script>
</head>
<body>
<noscript><a href="/wiki/FromNoscript">no js</a><img class="mwe-math-fallback-image-inline" alt="{\displaystyle hidden}"></noscript>
<div id="mw-content-text">
  <p>A <a href="/wiki/Polynomial">polynomial</a> of the form
    <span class="mwe-math-element">
      <span class="mwe-math-mathml-inline">
        <math alttext="{\displaystyle ax^{2}+bx+c=0}"><semantics></semantics></math>
      </span>
      <img class="mwe-math-fallback-image-inline" alt="{\displaystyle ax^{2}+bx+c=0}" src="x.svg">
    </span>
  has roots
    <span class="mwe-math-element">
      <img class="mwe-math-fallback-image-display" alt="{\displaystyle x={\frac {-b\pm {\sqrt {b^{2}-4ac}}}{2a}}}" src="y.svg">
    </span>
  </p>
  <p>See <a href="/wiki/Polynomial#Roots">roots</a>, <a href="/wiki/Discriminant">discriminant</a>,
     <a href="/wiki/File:Quadratic.svg">file</a>, <a href="/wiki/Help%3AContents">help</a>,
     <a href="/wiki/Category:Equations">category</a>, <a href="https://example.com/wiki/Outside">outside</a>,
     <a href="/w/index.php?title=Quadratic">edit</a> and <a href="/wiki/Vieta%27s_formulas">Vieta</a>.
     Caf&eacute; &amp; co.</p>
</div>
</body>
</html>`

func makeResp(url, body string) *types.Response {
	req, _ := types.NewRequest(url)
	return &types.Response{
		Request:     req,
		StatusCode:  200,
		Body:        []byte(body),
		ContentType: "text/html",
	}
}

func TestWikiParserMath(t *testing.T) {
	p := NewWikiParser("", testLogger)
	page, err := p.Parse(makeResp("https://en.wikipedia.org/wiki/Quadratic_equation", wikiHTML))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := []string{
		`ax^{2}+bx+c=0`,
		`x={\frac {-b\pm {\sqrt {b^{2}-4ac}}}{2a}}`,
	}
	if !reflect.DeepEqual(page.Math, want) {
		t.Errorf("math = %q, want %q", page.Math, want)
	}
}

func TestWikiParserLinks(t *testing.T) {
	p := NewWikiParser("", testLogger)
	page, err := p.Parse(makeResp("https://en.wikipedia.org/wiki/Quadratic_equation", wikiHTML))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	want := []string{"Polynomial", "Discriminant", "Vieta%27s_formulas"}
	if !reflect.DeepEqual(page.Links, want) {
		t.Errorf("links = %q, want %q", page.Links, want)
	}
	for _, l := range page.Links {
		if strings.HasPrefix(l, "From") {
			t.Errorf("link %q came from a stripped script/noscript block", l)
		}
	}
}

func TestWikiParserNoMath(t *testing.T) {
	p := NewWikiParser("", testLogger)
	body := `<html><body><p>Just prose with a <a href="/wiki/Prose">link</a> and $5 price.</p></body></html>`
	page, err := p.Parse(makeResp("https://en.wikipedia.org/wiki/Prose_page", body))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(page.Math) != 0 {
		t.Errorf("expected no math, got %q", page.Math)
	}
	if len(page.Links) != 1 || page.Links[0] != "Prose" {
		t.Errorf("expected [Prose], got %q", page.Links)
	}
}

func TestWikiParserMalformedHTML(t *testing.T) {
	p := NewWikiParser("", testLogger)
	body := `<div><p><a href="/wiki/Unclosed">x<math alttext="{\displaystyle y=1}">`
	page, err := p.Parse(makeResp("https://en.wikipedia.org/wiki/Broken", body))
	if err != nil {
		t.Fatalf("malformed HTML should still parse: %v", err)
	}
	if len(page.Math) != 1 || page.Math[0] != "y=1" {
		t.Errorf("expected [y=1], got %q", page.Math)
	}
	if len(page.Links) != 1 || page.Links[0] != "Unclosed" {
		t.Errorf("expected [Unclosed], got %q", page.Links)
	}
}

func TestCleanTeX(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{\displaystyle x^{2}}`, `x^{2}`},
		{`  {\displaystyle  E=mc^{2} }  `, `E=mc^{2}`},
		{`{\textstyle \sum _{i}a_{i}}`, `\sum _{i}a_{i}`},
		{`{\displaystyle\mathbb {R} }`, `\mathbb {R}`},
		{`{\displaystyle \{x\}}`, `\{x\}`},
		{`{a}{b}`, `{a}{b}`},
		{`{\displaystylex}`, `{\displaystylex}`},
		{`y=1`, `y=1`},
		{`   `, ``},
	}

	for _, tt := range tests {
		if got := CleanTeX(tt.in); got != tt.want {
			t.Errorf("CleanTeX(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLinkFinderCustomPrefix(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<a href="/article/One">1</a><a href="/wiki/Two">2</a><a href="/article/Talk:One">t</a>`))
	if err != nil {
		t.Fatalf("html parse: %v", err)
	}

	ids, err := NewLinkFinder("/article/", testLogger).Find(root)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(ids) != 1 || ids[0] != "One" {
		t.Errorf("expected [One], got %q", ids)
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Mathematics", "Mathematics"},
		{"Euler's_identity", "Euler%27s_identity"},
		{"Euler%27s_identity", "Euler%27s_identity"},
		{"Function_(mathematics)", "Function_%28mathematics%29"},
		{"Schr%C3%B6dinger_equation", "Schr%C3%B6dinger_equation"},
		{"Schrödinger_equation", "Schr%C3%B6dinger_equation"},
		{"AC/DC", "AC/DC"},
		{"100%_bad", "100%25_bad"},
	}
	for _, tt := range tests {
		if got := NormalizeID(tt.in); got != tt.want {
			t.Errorf("NormalizeID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLinkFinderMergesEscapedForms(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<a href="/wiki/Euler's_identity">a</a><a href="/wiki/Euler%27s_identity">b</a>`))
	if err != nil {
		t.Fatalf("html parse: %v", err)
	}
	ids, err := NewLinkFinder("", testLogger).Find(root)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !reflect.DeepEqual(ids, []string{"Euler%27s_identity"}) {
		t.Errorf("expected one normalized id, got %q", ids)
	}
}

func TestLinkFinderQuotedPrefix(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<a href="/it's/One">1</a><a href="/say&quot;it's&quot;/Two">2</a><a href="/wiki/Three">3</a>`))
	if err != nil {
		t.Fatalf("html parse: %v", err)
	}
	for prefix, want := range map[string]string{
		"/it's/":      "One",
		`/say"it's"/`: "Two",
		`/wiki/`:      "Three",
	} {
		ids, err := NewLinkFinder(prefix, testLogger).Find(root)
		if err != nil {
			t.Fatalf("prefix %q: %v", prefix, err)
		}
		if len(ids) != 1 || ids[0] != want {
			t.Errorf("prefix %q: expected [%s], got %q", prefix, want, ids)
		}
	}
}

func BenchmarkWikiParser(b *testing.B) {
	p := NewWikiParser("", testLogger)
	for i := 0; i < b.N; i++ {
		_, _ = p.Parse(makeResp("https://en.wikipedia.org/wiki/Quadratic_equation", wikiHTML))
	}
}
