package ecs

// SparseSet stores one component kind keyed by entity id. Values are kept
// as `any` so a single world map can hold every kind. index holds dense
// position+1 per id, so the zero value means absent.
type SparseSet struct {
	ids    []int
	values []any
	index  []int
}

func (s *SparseSet) slot(id int) (int, bool) {
	if s == nil || id <= 0 || id > len(s.index) {
		return 0, false
	}
	pos := s.index[id-1] - 1
	return pos, pos >= 0
}

func (s *SparseSet) Has(id int) bool {
	_, ok := s.slot(id)
	return ok
}

// Get returns the component for id, or nil.
func (s *SparseSet) Get(id int) any {
	pos, ok := s.slot(id)
	if !ok {
		return nil
	}
	return s.values[pos]
}

// Set inserts or replaces the component for id.
func (s *SparseSet) Set(id int, v any) {
	if s == nil || id <= 0 {
		return
	}
	if pos, ok := s.slot(id); ok {
		s.values[pos] = v
		return
	}
	if id > len(s.index) {
		s.index = append(s.index, make([]int, id-len(s.index))...)
	}
	s.ids = append(s.ids, id)
	s.values = append(s.values, v)
	s.index[id-1] = len(s.ids)
}

// Remove deletes the component for id, swapping the last entry into its
// place.
func (s *SparseSet) Remove(id int) {
	pos, ok := s.slot(id)
	if !ok {
		return
	}
	last := len(s.ids) - 1
	moved := s.ids[last]
	s.ids[pos], s.values[pos] = moved, s.values[last]
	s.index[moved-1] = pos + 1

	s.values[last] = nil
	s.ids, s.values = s.ids[:last], s.values[:last]
	s.index[id-1] = 0
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.ids)
}

// Entities returns the dense id list. Callers must not modify it.
func (s *SparseSet) Entities() []int {
	if s == nil {
		return nil
	}
	return s.ids
}
