package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// State represents the traversal's lifecycle state.
type State int32

const (
	StateRunning   State = 1
	StateCompleted State = 2
	StateCancelled State = 3
	StateFailed    State = 4
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Extractor fetches the page at address and returns the math snippets found
// on it and the page identifiers it links to. Either list may be empty or
// contain duplicates.
type Extractor interface {
	Extract(ctx context.Context, address string) (math []string, links []string, err error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, address string) ([]string, []string, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, address string) ([]string, []string, error) {
	return f(ctx, address)
}

// Observer receives progress callbacks from the traversal. Calls happen on
// the traversal goroutine, in order.
type Observer interface {
	RoundStarted(round, depth, pages int)
	PageStarted(id string, round int)
	PageVisited(id string, round int, math, links int)
	PageFailed(id string, round int, err error)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) RoundStarted(int, int, int)        {}
func (NopObserver) PageStarted(string, int)           {}
func (NopObserver) PageVisited(string, int, int, int) {}
func (NopObserver) PageFailed(string, int, error)     {}

// Observers fans callbacks out to several observers.
type Observers []Observer

func (o Observers) RoundStarted(round, depth, pages int) {
	for _, obs := range o {
		obs.RoundStarted(round, depth, pages)
	}
}

func (o Observers) PageStarted(id string, round int) {
	for _, obs := range o {
		obs.PageStarted(id, round)
	}
}

func (o Observers) PageVisited(id string, round int, math, links int) {
	for _, obs := range o {
		obs.PageVisited(id, round, math, links)
	}
}

func (o Observers) PageFailed(id string, round int, err error) {
	for _, obs := range o {
		obs.PageFailed(id, round, err)
	}
}

// Options configures a traversal.
type Options struct {
	// Depth is the number of rounds. Zero returns immediately.
	Depth int

	// AlreadyVisited ids are never extracted, even when reachable.
	AlreadyVisited []string

	// Address maps a page id to what the extractor fetches. Nil means identity.
	Address func(id string) string

	// Shuffle randomises the order of each round.
	Shuffle bool

	// PolitenessDelay is waited between two extractions.
	PolitenessDelay time.Duration

	Observer Observer
	Logger   *slog.Logger
}

// Result is the state accumulated by a traversal.
type Result struct {
	// Visited holds AlreadyVisited plus every page processed in this run.
	Visited []string

	// NewlyVisited holds only the pages processed in this run.
	NewlyVisited []string

	// Math holds the distinct snippets found.
	Math []string

	// Rounds is the number of rounds that started.
	Rounds int

	// Pruned counts visited pages that yielded no math.
	Pruned int

	// Pending is the number of ids left queued when the traversal stopped.
	Pending int

	State State
}

// TraversalError reports the extraction failure that stopped a traversal.
type TraversalError struct {
	PageID  string
	Address string
	Round   int
	Err     error
}

func (e *TraversalError) Error() string {
	return fmt.Sprintf("traversal failed at %q (round %d): %v", e.PageID, e.Round, e.Err)
}

func (e *TraversalError) Unwrap() error { return e.Err }
