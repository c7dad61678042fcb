package engine

// Set is an insertion-ordered set of strings. It backs the visited set,
// the math corpus and the frontier's duplicate check.
type Set struct {
	seen  map[string]struct{}
	items []string
}

// NewSet creates a Set holding items (duplicates collapse).
func NewSet(items ...string) *Set {
	s := &Set{seen: make(map[string]struct{}, len(items))}
	s.Add(items...)
	return s
}

// Add inserts items and returns how many were new.
func (s *Set) Add(items ...string) int {
	added := 0
	for _, it := range items {
		if _, ok := s.seen[it]; ok {
			continue
		}
		s.seen[it] = struct{}{}
		s.items = append(s.items, it)
		added++
	}
	return added
}

// Has reports whether item is in the set.
func (s *Set) Has(item string) bool {
	_, ok := s.seen[item]
	return ok
}

// Len returns the number of distinct items.
func (s *Set) Len() int {
	return len(s.items)
}

// Items returns a copy of the items in insertion order.
func (s *Set) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}
