// Package seq provides an immutable, structurally shared sequence.
//
// A Seq is a fixed-length ordered collection whose "mutating" operations
// return new Seq values; the receiver is never modified. Unchanged sequences
// share their backing storage, so keeping many versions of a sequence alive
// (for example in an undo stack) costs one allocation per distinct version.
//
// # Identity Equality
//
// Two Seq values are Same when they share the same backing allocation. This
// is NOT value equality: two sequences with pairwise equal elements built by
// separate operations are not Same. Use Equal when content comparison is
// needed.
//
// Set is equality-aware. When the element already stored at the index is
// equal to the new value, Set returns the receiver itself, so callers can
// detect a no-op with a single pointer comparison:
//
//	s := seq.WithLength[int](4)
//	t, _ := s.Set(2, 0) // element is already 0
//	s.Same(t)           // true
//
//	u, _ := s.Set(2, 7)
//	s.Same(u)           // false
//
// # Element Equality
//
// The equality used by Set is a policy fixed when a sequence is created and
// inherited by every sequence derived from it. New and WithLength use Go's ==
// operator; NewFunc and WithLengthFunc accept an EqualFunc, which allows
// deep comparison of non-comparable types or handle identity of pointers.
package seq
