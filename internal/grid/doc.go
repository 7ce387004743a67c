// Package grid models the parameter space of a hyperparameter grid search.
//
// The package defines the primitives the search engine is built from:
//
//   - [Space]: ordered list of named attributes and their candidate values
//   - [Choice]: one value per attribute, in space order
//   - [Key]: canonical string identity of a choice, see [Encode]
//   - [History]: set of keys already handed out
//   - [Sampler]: produces the next untried choice, sequentially or at random
//
// # Ordering
//
// Attribute order is the declaration order. It is significant: sequential
// sampling treats each attribute's value count as a mixed-radix digit with
// the first attribute varying fastest, and [Encode] joins pairs in the same
// order.
//
// # Keys
//
// A key is "name-value" pairs joined by a single space. Attribute names may
// not contain a space, a dash or a backslash; [NewSpace] rejects them. Spaces
// and backslashes inside a value's string form are escaped with a backslash.
// Within one attribute the string forms of the values must be distinct, so
// two different choices from the same space never share a key.
//
// # Thread Safety
//
// A Space is immutable once built. History and the samplers are NOT
// thread-safe.
package grid
