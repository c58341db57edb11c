package internal

import (
	"slices"
)

// AdminSet is the fixed list of administrator ids. It is built once from
// configuration and only ever read.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids []int64) AdminSet {
	set := AdminSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		set.ids[id] = struct{}{}
	}
	return set
}

func (s AdminSet) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the members in ascending order.
func (s AdminSet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s AdminSet) Len() int {
	return len(s.ids)
}
