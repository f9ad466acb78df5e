package session

import (
	"sort"

	"github.com/2beens/gymtrainer/internal/gymstats/prescription"
)

// Layout maps the ragged group/set shape of a prescription onto one flat index space.
// offsets[g] is the flat index of the first set of group g, offsets[len] is the total.
// Empty groups own no flat cells.
type Layout struct {
	offsets []int
}

func NewLayout(p prescription.Prescription) Layout {
	offsets := make([]int, len(p.Groups)+1)
	for i, g := range p.Groups {
		offsets[i+1] = offsets[i] + len(g.Sets)
	}
	return Layout{offsets: offsets}
}

func (l Layout) Total() int {
	if len(l.offsets) == 0 {
		return 0
	}
	return l.offsets[len(l.offsets)-1]
}

func (l Layout) Groups() int {
	if len(l.offsets) == 0 {
		return 0
	}
	return len(l.offsets) - 1
}

func (l Layout) GroupLen(group int) int {
	return l.offsets[group+1] - l.offsets[group]
}

func (l Layout) Flat(group, set int) int {
	return l.offsets[group] + set
}

// Position resolves a flat index back to its (group, set) pair.
func (l Layout) Position(flat int) (group, set int, ok bool) {
	if flat < 0 || flat >= l.Total() {
		return 0, 0, false
	}
	group = sort.Search(l.Groups(), func(i int) bool {
		return l.offsets[i+1] > flat
	})
	return group, flat - l.offsets[group], true
}

// Matrix re-shapes a flat completion slice into one row per group.
func (l Layout) Matrix(done []bool) [][]bool {
	matrix := make([][]bool, l.Groups())
	for g := range matrix {
		row := make([]bool, l.GroupLen(g))
		copy(row, done[l.offsets[g]:l.offsets[g+1]])
		matrix[g] = row
	}
	return matrix
}
