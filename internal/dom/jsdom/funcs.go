package jsdom

// funcSet holds the release funcs of listeners registered on nodes. A
// node's entries must be released when its markup is replaced, or the
// callbacks and everything they reference stay pinned.
type funcSet[N any] struct {
	entries []funcEntry[N]
}

type funcEntry[N any] struct {
	node    N
	release func()
}

func (s *funcSet[N]) add(node N, release func()) {
	s.entries = append(s.entries, funcEntry[N]{node: node, release: release})
}

// releaseWhere releases and forgets every entry whose node matches, and
// reports how many went.
func (s *funcSet[N]) releaseWhere(match func(N) bool) int {
	kept := s.entries[:0]
	n := 0
	for _, e := range s.entries {
		if match(e.node) {
			e.release()
			n++
			continue
		}
		kept = append(kept, e)
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	return n
}

func (s *funcSet[N]) len() int { return len(s.entries) }
