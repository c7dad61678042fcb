package observability

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Progress renders a one-line spinner with the page being searched. It
// implements engine.Observer. The spinner stays silent when f is not a
// terminal.
type Progress struct {
	spin    *spinner.Spinner
	round   int
	depth   int
	pages   int
	done    int
	visited int
}

// NewProgress creates a Progress writing to f.
func NewProgress(f *os.File) *Progress {
	return &Progress{
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f)),
	}
}

func (p *Progress) RoundStarted(round, depth, pages int) {
	p.round, p.depth, p.pages, p.done = round, depth, pages, 0
	p.spin.Start()
}

func (p *Progress) PageStarted(id string, round int) {
	p.done++
	p.setSuffix(fmt.Sprintf(" round %d/%d [%d/%d] %d visited, searching %s",
		p.round, p.depth, p.done, p.pages, p.visited, id))
}

func (p *Progress) PageVisited(id string, round int, math, links int) {
	p.visited++
}

func (p *Progress) PageFailed(id string, round int, err error) {}

// Suffix returns the current status line.
func (p *Progress) Suffix() string {
	p.spin.Lock()
	defer p.spin.Unlock()
	return p.spin.Suffix
}

// Stop clears the spinner line.
func (p *Progress) Stop() {
	p.spin.Stop()
}

func (p *Progress) setSuffix(s string) {
	p.spin.Lock()
	p.spin.Suffix = s
	p.spin.Unlock()
}
