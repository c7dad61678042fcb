package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Traverse explores the page graph breadth-first from seeds for opts.Depth
// rounds, using ex to extract math and links from each page.
//
// A page that yields no math is marked visited but its links are dropped.
// Cancelling ctx stops the traversal and returns what was accumulated with
// State Cancelled and a nil error. Any other extraction error stops it with
// State Failed; the partial result is returned alongside a *TraversalError.
// The page being extracted when the traversal stopped is not marked visited.
func Traverse(ctx context.Context, ex Extractor, seeds []string, opts Options) (*Result, error) {
	t := &traversal{
		ex:       ex,
		opts:     opts,
		observer: opts.Observer,
		logger:   opts.Logger,
		address:  opts.Address,
		visited:  NewSet(opts.AlreadyVisited...),
		fresh:    NewSet(),
		math:     NewSet(),
	}
	if t.observer == nil {
		t.observer = NopObserver{}
	}
	if t.logger == nil {
		t.logger = slog.New(slog.DiscardHandler)
	}
	t.logger = t.logger.With("component", "traversal")
	if t.address == nil {
		t.address = func(id string) string { return id }
	}
	t.frontier = NewFrontier(t.visited)

	return t.run(ctx, seeds)
}

type traversal struct {
	ex       Extractor
	opts     Options
	observer Observer
	logger   *slog.Logger
	address  func(string) string

	visited  *Set
	fresh    *Set
	math     *Set
	frontier *Frontier

	rounds int
	pruned int
}

func (t *traversal) run(ctx context.Context, seeds []string) (*Result, error) {
	if t.opts.Depth <= 0 {
		return t.result(StateCompleted), nil
	}

	t.frontier.Push(seeds...)
	t.logger.Info("traversal starting",
		"seeds", len(seeds),
		"depth", t.opts.Depth,
		"already_visited", t.visited.Len(),
	)

	for round := 1; round <= t.opts.Depth; round++ {
		batch := t.frontier.Advance()
		if len(batch) == 0 {
			t.logger.Info("frontier exhausted", "round", round)
			break
		}
		if t.opts.Shuffle {
			rand.Shuffle(len(batch), func(i, j int) { batch[i], batch[j] = batch[j], batch[i] })
		}

		t.rounds = round
		t.observer.RoundStarted(round, t.opts.Depth, len(batch))
		t.logger.Info("round started", "round", round, "depth", t.opts.Depth, "pages", len(batch))

		for i, id := range batch {
			if t.visited.Has(id) {
				continue
			}
			if i > 0 && t.opts.PolitenessDelay > 0 {
				if err := wait(ctx, t.opts.PolitenessDelay); err != nil {
					return t.cancelled(batch[i:]), nil
				}
			}
			if ctx.Err() != nil {
				return t.cancelled(batch[i:]), nil
			}

			if err := t.visit(ctx, id, round); err != nil {
				if isCancellation(ctx, err) {
					return t.cancelled(batch[i:]), nil
				}
				t.observer.PageFailed(id, round, err)
				t.logger.Error("extraction failed", "id", id, "round", round, "error", err)
				res := t.result(StateFailed)
				res.Pending = t.pending(batch[i:])
				return res, &TraversalError{PageID: id, Address: t.address(id), Round: round, Err: err}
			}
		}
	}

	res := t.result(StateCompleted)
	t.logger.Info("traversal finished",
		"state", res.State,
		"rounds", res.Rounds,
		"visited", len(res.NewlyVisited),
		"math", len(res.Math),
		"pruned", res.Pruned,
		"pending", res.Pending,
	)
	return res, nil
}

// visit extracts one page and records its outcome.
func (t *traversal) visit(ctx context.Context, id string, round int) error {
	t.observer.PageStarted(id, round)

	math, links, err := t.ex.Extract(ctx, t.address(id))
	if err != nil {
		return err
	}

	if len(math) > 0 {
		t.math.Add(math...)
		t.frontier.Push(links...)
	} else {
		t.pruned++
	}
	t.visited.Add(id)
	t.fresh.Add(id)

	t.observer.PageVisited(id, round, len(math), len(links))
	t.logger.Debug("page visited", "id", id, "round", round, "math", len(math), "links", len(links))
	return nil
}

func (t *traversal) cancelled(remaining []string) *Result {
	res := t.result(StateCancelled)
	res.Pending = t.pending(remaining)
	t.logger.Warn("traversal cancelled",
		"rounds", res.Rounds,
		"visited", len(res.NewlyVisited),
		"math", len(res.Math),
	)
	return res
}

func (t *traversal) result(state State) *Result {
	return &Result{
		Visited:      t.visited.Items(),
		NewlyVisited: t.fresh.Items(),
		Math:         t.math.Items(),
		Rounds:       t.rounds,
		Pruned:       t.pruned,
		Pending:      t.frontier.Len(),
		State:        state,
	}
}

// pending counts the distinct ids still outstanding: those queued for the
// next round plus the unvisited rest of the current batch.
func (t *traversal) pending(remaining []string) int {
	n := t.frontier.Len()
	for _, id := range remaining {
		if !t.visited.Has(id) && !t.frontier.Queued(id) {
			n++
		}
	}
	return n
}

// isCancellation reports whether err stems from the traversal being
// interrupted rather than from the page itself.
func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
