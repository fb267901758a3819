package coordset

import "strings"

// Characteristics are the guarantees a Spliterator makes to the engine that
// drives it.
type Characteristics uint8

const (
	// Ordered means elements have a defined encounter order, and splitting
	// keeps the prefix before the suffix.
	Ordered Characteristics = 1 << iota

	// Sized means EstimateSize is exact.
	Sized

	// Subsized means both halves of a split are Sized.
	Subsized

	// NonNull means no element is nil.
	NonNull

	// Immutable means elements cannot be modified through this traversal.
	Immutable
)

var characteristicNames = []string{"ORDERED", "SIZED", "SUBSIZED", "NONNULL", "IMMUTABLE"}

// Has reports whether all flags in f are set.
func (c Characteristics) Has(f Characteristics) bool { return c&f == f }

func (c Characteristics) String() string {
	var names []string
	for i, name := range characteristicNames {
		if c&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "NONE"
	}
	return strings.Join(names, "|")
}

// Spliterator traverses positions and can bisect its remaining range into two
// independent traversals for parallel consumption.
//
// A Spliterator is driven by a single goroutine at a time. After a successful
// TrySplit the returned prefix and the receiver cover disjoint ranges and may
// be driven by different goroutines.
type Spliterator interface {
	// Characteristics returns the guarantees of this traversal.
	Characteristics() Characteristics

	// EstimateSize returns the number of positions left.
	EstimateSize() int

	// TrySplit carves off roughly the first half of the remaining positions
	// into a new Spliterator and keeps the rest. It returns false when the
	// remaining range is too small to split.
	TrySplit() (Spliterator, bool)

	// TryAdvance calls action with the next position, if any, and reports
	// whether it did.
	TryAdvance(action func(Position)) bool

	// ForEachRemaining calls action for every remaining position in order.
	// Traversal stops early when action returns false.
	ForEachRemaining(action func(Position) bool)
}
