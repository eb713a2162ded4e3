// Package nestedset implements the bounds arithmetic of the nested set
// hierarchy encoding: each node owns a (left, right) range and descendants
// are exactly the nodes whose ranges nest strictly inside it.
package nestedset

import (
	"errors"
	"fmt"
	"sort"
)

// MaxBound is the largest bound value the stores can represent. Bound
// columns are 32-bit INTEGERs, so the counter domain is int32.
const MaxBound = int64(1<<31 - 1)

// LeafWidth is the number of bound values a single leaf consumes: one for
// its left bound and one for its right bound.
const LeafWidth = int64(2)

// ErrBoundsExhausted is returned when reserving a gap would push a bound
// past MaxBound.
var ErrBoundsExhausted = errors.New("nestedset: bound counter exhausted")

// Bounds is the (left, right) pair identifying a node's position and its
// subtree extent.
type Bounds struct {
	Left  int64
	Right int64
}

// Valid reports whether the pair is well formed (left strictly below right).
func (b Bounds) Valid() bool {
	return b.Left < b.Right
}

// Contains reports whether o nests strictly inside b, i.e. whether the node
// owning b is an ancestor of the node owning o.
func (b Bounds) Contains(o Bounds) bool {
	return b.Left < o.Left && o.Right < b.Right
}

// Disjoint reports whether the two ranges do not intersect at all.
func (b Bounds) Disjoint(o Bounds) bool {
	return b.Right < o.Left || o.Right < b.Left
}

// DescendantCount is the number of nodes nested inside b at any depth.
// Bounds are dense (every integer between left and right belongs to some
// descendant), so the count falls out of the range width directly.
func (b Bounds) DescendantCount() int64 {
	return (b.Right - b.Left - 1) / 2
}

// ReserveGap computes the bounds for a new leaf appended as the last child
// of a parent whose current right bound is parentRight. The caller must,
// in the same transaction, shift every existing bound >= parentRight up by
// LeafWidth; the leaf then occupies the freed range.
//
// treeMaxBound is the largest bound currently in the tree (the root's
// right). It caps the post-shift domain: if the shifted maximum would not
// fit, the counter is exhausted and ErrBoundsExhausted is returned.
func ReserveGap(parentRight, treeMaxBound int64) (Bounds, error) {
	if parentRight <= 0 || parentRight > treeMaxBound {
		return Bounds{}, fmt.Errorf("nestedset: parent right %d outside tree maximum %d", parentRight, treeMaxBound)
	}
	if treeMaxBound > MaxBound-LeafWidth {
		return Bounds{}, ErrBoundsExhausted
	}
	return Bounds{Left: parentRight, Right: parentRight + 1}, nil
}

// Validate checks the whole-tree invariants over a set of bounds:
//
//  1. every pair is well formed (left < right)
//  2. all 2n bound values are distinct
//  3. any two ranges either nest or are disjoint, never partially overlap
//
// It returns nil when the encoding is consistent and a descriptive error
// naming the first violation otherwise.
func Validate(all []Bounds) error {
	seen := make(map[int64]int, 2*len(all))
	for i, b := range all {
		if !b.Valid() {
			return fmt.Errorf("nestedset: bounds %d: left %d not below right %d", i, b.Left, b.Right)
		}
		if j, dup := seen[b.Left]; dup {
			return fmt.Errorf("nestedset: bound value %d used by entries %d and %d", b.Left, j, i)
		}
		seen[b.Left] = i
		if j, dup := seen[b.Right]; dup {
			return fmt.Errorf("nestedset: bound value %d used by entries %d and %d", b.Right, j, i)
		}
		seen[b.Right] = i
	}

	ordered := append([]Bounds(nil), all...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Left < ordered[j].Left })

	// After sorting by left, each range must either contain or be disjoint
	// from its successor; a successor that starts inside but ends outside
	// is a partial overlap.
	for i := 0; i+1 < len(ordered); i++ {
		a, b := ordered[i], ordered[i+1]
		if b.Left < a.Right && b.Right > a.Right {
			return fmt.Errorf("nestedset: ranges [%d,%d] and [%d,%d] partially overlap", a.Left, a.Right, b.Left, b.Right)
		}
	}
	return nil
}
