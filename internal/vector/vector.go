package vector

import (
	"cmp"
	"fmt"
	"slices"

	pkgerrors "kvvec/pkg/errors"
)

// Entry is a key/value pair stored in a Vector. Keys are not unique.
type Entry struct {
	Key   int32 `json:"key"`
	Value int32 `json:"value"`
}

// Vector is a densely packed, doubling array of entries.
// It is not safe for concurrent use.
type Vector struct {
	data      []Entry
	grows     int
	destroyed bool
}

// New allocates a vector with exactly initCapacity slots.
// A non-positive capacity is a programming error and panics.
func New(initCapacity int) *Vector {
	if initCapacity <= 0 {
		panic(fmt.Errorf("vector: initial capacity %d: %w", initCapacity, pkgerrors.ErrInvalidCapacity))
	}
	return &Vector{
		data: make([]Entry, 0, initCapacity),
	}
}

// Len returns the number of live entries.
func (v *Vector) Len() int {
	v.mustAlive()
	return len(v.data)
}

// Cap returns the number of allocated slots.
func (v *Vector) Cap() int {
	v.mustAlive()
	return cap(v.data)
}

// Grows returns how many times the backing store has been reallocated.
func (v *Vector) Grows() int {
	v.mustAlive()
	return v.grows
}

// At returns the entry at idx. idx must be in [0, Len()).
func (v *Vector) At(idx int) Entry {
	v.mustAlive()
	return v.data[idx]
}

// Entries returns a copy of the live entries in order.
func (v *Vector) Entries() []Entry {
	v.mustAlive()
	return slices.Clone(v.data)
}

// PushBack appends e, doubling the capacity when the store is full.
// Indices stay valid, but any slice obtained from the store before the
// push may no longer alias it.
func (v *Vector) PushBack(e Entry) {
	v.mustAlive()
	if len(v.data) == cap(v.data) {
		grown := make([]Entry, len(v.data), 2*cap(v.data))
		copy(grown, v.data)
		v.data = grown
		v.grows++
	}
	v.data = append(v.data, e)
}

// PopBack removes and returns the last entry. ok is false when empty.
func (v *Vector) PopBack() (e Entry, ok bool) {
	v.mustAlive()
	n := len(v.data)
	if n == 0 {
		return Entry{}, false
	}
	e = v.data[n-1]
	v.data = v.data[:n-1]
	return e, true
}

// Find returns the index of the first entry whose key equals key.
func (v *Vector) Find(key int32) (int, bool) {
	v.mustAlive()
	for idx := range v.data {
		if v.data[idx].Key == key {
			return idx, true
		}
	}
	return -1, false
}

// DeleteByKey removes the first entry with the given key, keeping the
// order of the remaining entries. Later duplicates are left in place.
func (v *Vector) DeleteByKey(key int32) bool {
	idx, ok := v.Find(key)
	if !ok {
		return false
	}
	copy(v.data[idx:], v.data[idx+1:])
	v.data = v.data[:len(v.data)-1]
	return true
}

// SortByKeyThenValue orders entries ascending by key, then by value.
// The sort is not stable and invalidates indices returned by Find.
func (v *Vector) SortByKeyThenValue() {
	v.mustAlive()
	slices.SortFunc(v.data, CompareKeyValue)
}

// Destroy releases the backing store. Every later call on v panics.
func (v *Vector) Destroy() {
	v.mustAlive()
	v.data = nil
	v.destroyed = true
}

// CompareKeyValue orders a before b by key, then by value.
func CompareKeyValue(a, b Entry) int {
	if c := cmp.Compare(a.Key, b.Key); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, b.Value)
}

func (v *Vector) mustAlive() {
	if v.destroyed {
		panic(pkgerrors.ErrVectorDestroyed)
	}
}
