package pipeline

import (
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/IshaanNene/mathcrawl/internal/config"
	"github.com/IshaanNene/mathcrawl/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func TestPipelineBasic(t *testing.T) {
	p := New(testLogger)
	p.Use(&WhitespaceMiddleware{})

	result, err := p.Process("  \\begin{aligned}a&=b\\\\\n  c&=d\\end{aligned} ")
	if err != nil {
		t.Fatalf("pipeline error: %v", err)
	}
	if want := `\begin{aligned}a&=b\\ c&=d\end{aligned}`; result != want {
		t.Errorf("got %q, want %q", result, want)
	}
}

func TestLengthMiddleware(t *testing.T) {
	m := &LengthMiddleware{Min: 2, Max: 5}

	tests := map[string]bool{
		"x":      false,
		"x^2":    true,
		"αβγδε":  true,
		"αβγδεζ": false,
	}
	for in, keep := range tests {
		out, err := m.Process(in)
		if err != nil {
			t.Fatalf("process %q: %v", in, err)
		}
		if (out != "") != keep {
			t.Errorf("Process(%q) = %q, keep=%v", in, out, keep)
		}
	}

	unbounded := &LengthMiddleware{}
	if out, _ := unbounded.Process(strings.Repeat("x", 10000)); out == "" {
		t.Error("zero bounds must not drop anything")
	}
}

func TestRejectMiddleware(t *testing.T) {
	m, err := NewRejectMiddleware([]string{`^\d+$`, `^[a-z]$`})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	for _, dropped := range []string{"42", "x"} {
		if out, _ := m.Process(dropped); out != "" {
			t.Errorf("expected %q to be rejected", dropped)
		}
	}
	if out, _ := m.Process("x^{2}"); out != "x^{2}" {
		t.Errorf("expected x^{2} to pass, got %q", out)
	}

	if _, err := NewRejectMiddleware([]string{"(unclosed"}); err == nil {
		t.Error("expected compile error")
	}
}

type failingMiddleware struct{}

func (failingMiddleware) Name() string { return "failing" }

func (failingMiddleware) Process(string) (string, error) {
	return "", errors.New("boom")
}

func TestPipelineError(t *testing.T) {
	p := New(testLogger)
	p.Use(&WhitespaceMiddleware{})
	p.Use(failingMiddleware{})

	_, err := p.Process("a + b")
	var pe *types.PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PipelineError, got %v", err)
	}
	if pe.Stage != "failing" || pe.Snippet != "a + b" {
		t.Errorf("unexpected error details: %+v", pe)
	}
}

func TestPipelineApply(t *testing.T) {
	p, err := FromConfig(&config.FilterConfig{MinLength: 2, Reject: []string{`^\d+$`}}, testLogger)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if p.Len() != 3 {
		t.Errorf("expected 3 stages, got %d", p.Len())
	}

	got, err := p.Apply([]string{"a  +  b", "a + b", "x", "12", "", "e^{i\\pi}"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := []string{"a + b", "e^{i\\pi}"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("apply = %q, want %q", got, want)
	}
}

func TestFromConfigDefaults(t *testing.T) {
	p, err := FromConfig(&config.DefaultConfig().Filter, testLogger)
	if err != nil {
		t.Fatalf("from config: %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("default pipeline should only normalise whitespace, got %d stages", p.Len())
	}
}

func BenchmarkPipeline(b *testing.B) {
	p, _ := FromConfig(&config.FilterConfig{MinLength: 2, MaxLength: 400, Reject: []string{`^\d+$`}}, testLogger)
	snippets := []string{
		`x={\frac {-b\pm {\sqrt {b^{2}-4ac}}}{2a}}`,
		"  a^{2}+b^{2}=c^{2}\n",
		"42",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Apply(snippets)
	}
}
