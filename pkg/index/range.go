// Package index provides the half-open window used to bound traversals.
//
// A [Range] covers logical record indices [lo, hi). Traversers over the same
// source with disjoint ranges never yield the same record, which is what makes
// partitioned, parallel ingestion safe without locking.
package index

import "fmt"

// Range is an immutable half-open interval [lo, hi) over record indices.
// The zero value is the empty range [0, 0).
type Range struct {
	lo, hi uint64
}

// Of returns the range [lo, hi). It panics if lo > hi.
func Of(lo, hi uint64) Range {
	if lo > hi {
		panic(fmt.Sprintf("index: invalid range [%d, %d)", lo, hi))
	}
	return Range{lo: lo, hi: hi}
}

// All returns the range covering every representable index.
func All() Range { return Range{hi: ^uint64(0)} }

// Lo returns the inclusive lower bound.
func (r Range) Lo() uint64 { return r.lo }

// Hi returns the exclusive upper bound.
func (r Range) Hi() uint64 { return r.hi }

// Len returns hi - lo.
func (r Range) Len() uint64 { return r.hi - r.lo }

// IsEmpty reports whether the range contains no index.
func (r Range) IsEmpty() bool { return r.lo == r.hi }

// Contains reports whether lo <= i < hi.
func (r Range) Contains(i uint64) bool { return i >= r.lo && i < r.hi }

// Clamp lowers the upper bound to limit. The lower bound follows when the
// limit falls below it, so the result is empty rather than inverted.
func (r Range) Clamp(limit uint64) Range {
	if limit >= r.hi {
		return r
	}
	if limit < r.lo {
		return Range{lo: limit, hi: limit}
	}
	return Range{lo: r.lo, hi: limit}
}

// Split divides the range into n contiguous sub-ranges whose union is r.
// Earlier parts absorb the remainder, so part sizes differ by at most one.
// Fewer than n parts are returned when the range is shorter than n.
func (r Range) Split(n int) []Range {
	if n <= 0 || r.IsEmpty() {
		return nil
	}
	total := r.Len()
	if uint64(n) > total {
		n = int(total)
	}
	size, rem := total/uint64(n), total%uint64(n)
	parts := make([]Range, 0, n)
	lo := r.lo
	for i := 0; i < n; i++ {
		hi := lo + size
		if uint64(i) < rem {
			hi++
		}
		parts = append(parts, Range{lo: lo, hi: hi})
		lo = hi
	}
	return parts
}

// String renders the range as "[lo, hi)".
func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.lo, r.hi) }
