package movegen

import (
	"sort"

	"chessmoves/internal/core"
)

// MoveSet is an unordered set of destination positions
type MoveSet map[core.Position]struct{}

func NewMoveSet(positions ...core.Position) MoveSet {
	s := make(MoveSet, len(positions))
	for _, p := range positions {
		s.Add(p)
	}
	return s
}

func (s MoveSet) Add(p core.Position) {
	s[p] = struct{}{}
}

func (s MoveSet) Contains(p core.Position) bool {
	_, ok := s[p]
	return ok
}

func (s MoveSet) Len() int {
	return len(s)
}

// Union returns a new set holding the members of both sets
func (s MoveSet) Union(other MoveSet) MoveSet {
	out := make(MoveSet, len(s)+len(other))
	for p := range s {
		out.Add(p)
	}
	for p := range other {
		out.Add(p)
	}
	return out
}

// Equal reports set equality, ignoring order
func (s MoveSet) Equal(other MoveSet) bool {
	if len(s) != len(other) {
		return false
	}
	for p := range s {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}

// Positions returns the members in row-major order
func (s MoveSet) Positions() []core.Position {
	out := make([]core.Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Squares returns the members as algebraic square names in row-major order
func (s MoveSet) Squares() []string {
	positions := s.Positions()
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = p.String()
	}
	return out
}
