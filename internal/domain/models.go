package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Boundary identifies an edge of a scrollable region
type Boundary int

const (
	Bottom Boundary = iota
	Top
)

// numBoundaries is the number of Boundary values; per-kind state is sized by it
const numBoundaries = 2

// Boundaries lists every kind in evaluation order. Bottom is checked first.
var Boundaries = [numBoundaries]Boundary{Bottom, Top}

// ErrUnknownBoundary is returned when a boundary name cannot be parsed
var ErrUnknownBoundary = errors.New("unknown boundary")

func (b Boundary) String() string {
	switch b {
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	default:
		return fmt.Sprintf("boundary(%d)", int(b))
	}
}

// Valid reports whether b is one of the declared kinds
func (b Boundary) Valid() bool {
	return b >= 0 && b < numBoundaries
}

// ParseBoundary converts a name such as "top" into a Boundary
func ParseBoundary(s string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom":
		return Bottom, nil
	case "top":
		return Top, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBoundary, s)
}

// BoundarySet is a fixed-size set of boundary kinds. The zero value is empty.
type BoundarySet uint8

// AllBoundaries contains both Bottom and Top
const AllBoundaries = BoundarySet(1<<Bottom | 1<<Top)

// NewBoundarySet builds a set from the given kinds
func NewBoundarySet(kinds ...Boundary) BoundarySet {
	var s BoundarySet
	for _, k := range kinds {
		s = s.With(k)
	}
	return s
}

// Has reports whether kind is a member of the set
func (s BoundarySet) Has(kind Boundary) bool {
	return kind.Valid() && s&(1<<kind) != 0
}

// With returns the set with kind added
func (s BoundarySet) With(kind Boundary) BoundarySet {
	if !kind.Valid() {
		return s
	}
	return s | 1<<kind
}

// Without returns the set with kind removed
func (s BoundarySet) Without(kind Boundary) BoundarySet {
	if !kind.Valid() {
		return s
	}
	return s &^ (1 << kind)
}

// All returns the members in evaluation order
func (s BoundarySet) All() []Boundary {
	var out []Boundary
	for _, k := range Boundaries {
		if s.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Strings returns member names in evaluation order
func (s BoundarySet) Strings() []string {
	names := make([]string, 0, numBoundaries)
	for _, k := range s.All() {
		names = append(names, k.String())
	}
	return names
}

func (s BoundarySet) String() string {
	return "{" + strings.Join(s.Strings(), ",") + "}"
}

// ParseBoundarySet converts a list of names into a set. Duplicates are allowed.
func ParseBoundarySet(names []string) (BoundarySet, error) {
	var s BoundarySet
	for _, name := range names {
		k, err := ParseBoundary(name)
		if err != nil {
			return 0, err
		}
		s = s.With(k)
	}
	return s, nil
}

// Entry is a single item of the scrolling feed
type Entry struct {
	Seq  int // position in the feed, negative for older history
	Text string
}
