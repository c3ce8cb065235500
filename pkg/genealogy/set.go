package genealogy

import (
	"iter"
	"slices"
)

// orderedSet is an insertion-ordered set. The zero value is empty and ready to use.
type orderedSet[T comparable] struct {
	items []T
	index map[T]struct{}
}

func (s *orderedSet[T]) add(v T) bool {
	if s.contains(v) {
		return false
	}
	if s.index == nil {
		s.index = make(map[T]struct{})
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

func (s *orderedSet[T]) remove(v T) bool {
	if !s.contains(v) {
		return false
	}
	delete(s.index, v)
	s.items = slices.DeleteFunc(s.items, func(x T) bool { return x == v })
	return true
}

func (s *orderedSet[T]) contains(v T) bool {
	_, ok := s.index[v]
	return ok
}

func (s *orderedSet[T]) len() int { return len(s.items) }

// values returns a copy of the members in insertion order.
func (s *orderedSet[T]) values() []T { return slices.Clone(s.items) }

func (s *orderedSet[T]) all() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items {
			if !yield(v) {
				return
			}
		}
	}
}

func (s *orderedSet[T]) clear() {
	s.items = nil
	s.index = nil
}
