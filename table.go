package alu

import (
	"sort"

	"github.com/benbjohnson/immutable"
)

// Transition records that running a subprogram with Digit as input, starting
// from z equal to Prev, is one way to reach a state.
type Transition struct {
	Digit int64
	Prev  int64
}

// Table is the frozen set of z values reachable after one stage of the staged
// search. Each z maps to every transition that produces it.
//
// Tables are immutable and safe for concurrent readers.
type Table struct {
	m           *immutable.SortedMap
	transitions int
}

// NewTable returns a table built from a mapping of resulting z to transitions.
// Transitions are sorted by digit and then by predecessor.
func NewTable(m map[int64][]Transition) *Table {
	keys := make([]int64, 0, len(m))
	for z := range m {
		keys = append(keys, z)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	t := &Table{m: immutable.NewSortedMap(&int64Comparer{})}
	for _, z := range keys {
		a := m[z]
		sort.Slice(a, func(i, j int) bool {
			if a[i].Digit != a[j].Digit {
				return a[i].Digit < a[j].Digit
			}
			return a[i].Prev < a[j].Prev
		})
		t.m = t.m.Set(z, a)
		t.transitions += len(a)
	}
	return t
}

// Len returns the number of distinct z values in the table.
func (t *Table) Len() int { return t.m.Len() }

// TransitionN returns the total number of transitions recorded.
func (t *Table) TransitionN() int { return t.transitions }

// Get returns the transitions leading to z. Returns nil if z is unreachable.
func (t *Table) Get(z int64) []Transition {
	if v, ok := t.m.Get(z); ok {
		return v.([]Transition)
	}
	return nil
}

// Keys returns all reachable z values in ascending order.
func (t *Table) Keys() []int64 {
	a := make([]int64, 0, t.m.Len())
	itr := t.m.Iterator()
	for !itr.Done() {
		k, _ := itr.Next()
		a = append(a, k.(int64))
	}
	return a
}

// ForEach calls fn for every z value in ascending order until fn returns false.
func (t *Table) ForEach(fn func(z int64, transitions []Transition) bool) {
	itr := t.m.Iterator()
	for !itr.Done() {
		k, v := itr.Next()
		if !fn(k.(int64), v.([]Transition)) {
			return
		}
	}
}

// int64Comparer compares two 64-bit signed integers. Implements immutable.Comparer.
type int64Comparer struct{}

// Compare returns -1 if a is less than b, returns 1 if a is greater than b, and
// returns 0 if a is equal to b. Panic if a or b is not an int64.
func (c *int64Comparer) Compare(a, b interface{}) int {
	if i, j := a.(int64), b.(int64); i < j {
		return -1
	} else if i > j {
		return 1
	}
	return 0
}
