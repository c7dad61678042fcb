package engine

// Frontier holds the page identifiers queued for the next round.
//
// Work for the current round is handed out once by Advance; anything pushed
// afterwards lands in the next round, so a page discovered mid-round is never
// visited in that same round.
type Frontier struct {
	visited *Set
	queued  map[string]struct{}
	next    []string
}

// NewFrontier creates a Frontier that never queues ids already in visited.
func NewFrontier(visited *Set) *Frontier {
	return &Frontier{
		visited: visited,
		queued:  make(map[string]struct{}),
	}
}

// Push queues ids for the next round, skipping visited and already queued
// ids. It returns how many were queued.
func (f *Frontier) Push(ids ...string) int {
	n := 0
	for _, id := range ids {
		if f.visited.Has(id) {
			continue
		}
		if _, ok := f.queued[id]; ok {
			continue
		}
		f.queued[id] = struct{}{}
		f.next = append(f.next, id)
		n++
	}
	return n
}

// Advance returns the next round's work and starts a fresh queue. Ids that
// were visited after being queued are dropped.
func (f *Frontier) Advance() []string {
	batch := make([]string, 0, len(f.next))
	for _, id := range f.next {
		if !f.visited.Has(id) {
			batch = append(batch, id)
		}
	}
	f.next = nil
	f.queued = make(map[string]struct{})
	return batch
}

// Queued reports whether id is waiting for the next round.
func (f *Frontier) Queued(id string) bool {
	_, ok := f.queued[id]
	return ok
}

// Len returns the number of ids queued for the next round.
func (f *Frontier) Len() int {
	return len(f.next)
}
