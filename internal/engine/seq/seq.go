package seq

import (
	"iter"
	"reflect"
)

// EqualFunc reports whether two elements are equal.
type EqualFunc[T any] func(a, b T) bool

// Comparable returns an EqualFunc using the == operator.
func Comparable[T comparable]() EqualFunc[T] {
	return func(a, b T) bool { return a == b }
}

// Default returns == as an EqualFunc when T is comparable, and nil
// otherwise.
func Default[T any]() EqualFunc[T] {
	if !reflect.TypeFor[T]().Comparable() {
		return nil
	}
	return func(a, b T) bool { return any(a) == any(b) }
}

// backing is the shared storage of a Seq. It is never written after
// construction.
type backing[T any] struct {
	items []T
	eq    EqualFunc[T]
}

// Seq is an immutable sequence. The zero value is an empty sequence without
// an element equality; Set on such a sequence never reports a no-op.
type Seq[T any] struct {
	b *backing[T]
}

// New creates a sequence holding a copy of items, compared with ==.
func New[T comparable](items ...T) Seq[T] {
	return NewFunc(Comparable[T](), items...)
}

// NewFunc creates a sequence holding a copy of items, compared with eq.
func NewFunc[T any](eq EqualFunc[T], items ...T) Seq[T] {
	cp := make([]T, len(items))
	copy(cp, items)
	return Seq[T]{b: &backing[T]{items: cp, eq: eq}}
}

// WithLength creates a sequence of n zero values, compared with ==.
func WithLength[T comparable](n int) Seq[T] {
	return WithLengthFunc(n, Comparable[T]())
}

// WithLengthFunc creates a sequence of n zero values, compared with eq.
// A negative n is treated as zero.
func WithLengthFunc[T any](n int, eq EqualFunc[T]) Seq[T] {
	if n < 0 {
		n = 0
	}
	return Seq[T]{b: &backing[T]{items: make([]T, n), eq: eq}}
}

// derive wraps items in a new backing that inherits the receiver's equality.
func (s Seq[T]) derive(items []T) Seq[T] {
	return Seq[T]{b: &backing[T]{items: items, eq: s.equality()}}
}

func (s Seq[T]) items() []T {
	if s.b == nil {
		return nil
	}
	return s.b.items
}

func (s Seq[T]) equality() EqualFunc[T] {
	if s.b == nil {
		return nil
	}
	return s.b.eq
}

// Len returns the number of elements.
func (s Seq[T]) Len() int {
	return len(s.items())
}

// IsEmpty returns true if the sequence has no elements.
func (s Seq[T]) IsEmpty() bool {
	return s.Len() == 0
}

// Get returns the element at index i.
// The second result is false if i is out of range.
func (s Seq[T]) Get(i int) (T, bool) {
	items := s.items()
	if i < 0 || i >= len(items) {
		var zero T
		return zero, false
	}
	return items[i], true
}

// Set returns a sequence with the element at index i replaced by v.
// If the current element equals v, the receiver itself is returned.
// The second result is false if i is out of range.
func (s Seq[T]) Set(i int, v T) (Seq[T], bool) {
	items := s.items()
	if i < 0 || i >= len(items) {
		return s, false
	}
	if eq := s.equality(); eq != nil && eq(items[i], v) {
		return s, true
	}

	next := make([]T, len(items))
	copy(next, items)
	next[i] = v
	return s.derive(next), true
}

// PushFront returns a sequence with v prepended.
func (s Seq[T]) PushFront(v T) Seq[T] {
	items := s.items()
	next := make([]T, 0, len(items)+1)
	next = append(next, v)
	next = append(next, items...)
	return s.derive(next)
}

// PushBack returns a sequence with v appended.
func (s Seq[T]) PushBack(v T) Seq[T] {
	items := s.items()
	next := make([]T, 0, len(items)+1)
	next = append(next, items...)
	next = append(next, v)
	return s.derive(next)
}

// Map returns a new sequence with fn applied to every element.
// The result always has a new backing allocation.
func (s Seq[T]) Map(fn func(i int, v T) T) Seq[T] {
	items := s.items()
	next := make([]T, len(items))
	for i, v := range items {
		next[i] = fn(i, v)
	}
	return s.derive(next)
}

// All returns an iterator over index/element pairs in order.
func (s Seq[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range s.items() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Values returns an iterator over the elements in order.
func (s Seq[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range s.items() {
			if !yield(v) {
				return
			}
		}
	}
}

// Same reports whether s and other share the same backing storage.
// This is an O(1) identity check, not a content comparison.
func (s Seq[T]) Same(other Seq[T]) bool {
	return s.b == other.b
}

// Equal reports whether a and b have the same length and pairwise equal
// elements under a's equality. Unlike Same, it visits every element.
func Equal[T any](a, b Seq[T]) bool {
	if a.Same(b) {
		return true
	}
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	eq := a.equality()
	if eq == nil {
		return false
	}
	bi := b.items()
	for i, v := range a.items() {
		if !eq(v, bi[i]) {
			return false
		}
	}
	return true
}
