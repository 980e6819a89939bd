package observable

import "weak"

type entry struct {
	id      any // weak.Pointer of the listener
	resolve func() any
	removed bool
}

func newEntry[L any](listener *L) *entry {
	ref := weak.Make(listener)
	return &entry{
		id: ref,
		resolve: func() any {
			if l := ref.Value(); l != nil {
				return l
			}
			return nil
		},
	}
}

func (e *entry) alive() bool {
	return e.resolve() != nil
}

// listenerSet keeps entries in insertion order. Callers synchronize access.
type listenerSet struct {
	entries []*entry
}

func (s *listenerSet) attach(e *entry) bool {
	for _, existing := range s.entries {
		if existing.id == e.id {
			return false
		}
	}
	s.entries = append(s.entries, e)
	return true
}

func (s *listenerSet) detach(id any) {
	for i, e := range s.entries {
		if e.id == id {
			e.removed = true
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// snapshot lets a fan-out survive attach and detach from inside callbacks.
func (s *listenerSet) snapshot() []*entry {
	result := make([]*entry, len(s.entries))
	copy(result, s.entries)
	return result
}

func (s *listenerSet) prune() int {
	kept := s.entries[:0]
	dropped := 0
	for _, e := range s.entries {
		if e.alive() {
			kept = append(kept, e)
			continue
		}
		e.removed = true
		dropped++
	}
	clear(s.entries[len(kept):])
	s.entries = kept
	return dropped
}

func (s *listenerSet) len() int {
	return len(s.entries)
}
