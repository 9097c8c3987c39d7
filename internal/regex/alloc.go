package regex

import "fmt"

// DefaultStatePrefix is the prefix used by the zero value of StateAllocator.
const DefaultStatePrefix = "q"

// StateAllocator gives out state names that are unique for its lifetime. One
// StateAllocator is used for all of the states of a single compilation, which
// guarantees that no two fragments built during it share a state name.
//
// The zero value is ready to use and gives out "q0", "q1", "q2", and so on. A
// StateAllocator must not be used from more than one goroutine at a time.
type StateAllocator struct {
	prefix    string
	prefixSet bool
	next      int
}

// NewStateAllocator returns a StateAllocator whose names are made of prefix
// followed by an increasing number starting at 0. An empty prefix gives names
// that are only the number.
func NewStateAllocator(prefix string) *StateAllocator {
	return &StateAllocator{prefix: prefix, prefixSet: true}
}

// Next returns a state name that the StateAllocator has never returned before.
func (sa *StateAllocator) Next() string {
	prefix := sa.prefix
	if !sa.prefixSet {
		prefix = DefaultStatePrefix
	}

	name := fmt.Sprintf("%s%d", prefix, sa.next)
	sa.next++
	return name
}

// Issued returns the number of names given out so far.
func (sa *StateAllocator) Issued() int {
	return sa.next
}
