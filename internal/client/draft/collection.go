package draft

import "slices"

// keyer is implemented by entries of keyed collections.
type keyer interface {
	comparable
	key() int64
}

// Keyed is an ordered list holding at most one entry per key.
// Every method returns a fresh list; the receiver is never written to.
type Keyed[T keyer] []T

// Upsert removes any entry with item's key and appends item.
func (k Keyed[T]) Upsert(item T) Keyed[T] {
	out := make(Keyed[T], 0, len(k)+1)
	for _, e := range k {
		if e.key() != item.key() {
			out = append(out, e)
		}
	}
	return append(out, item)
}

// Remove drops the entry for key. An absent key returns k unchanged.
func (k Keyed[T]) Remove(key int64) Keyed[T] {
	if !k.Has(key) {
		return k
	}
	out := make(Keyed[T], 0, len(k)-1)
	for _, e := range k {
		if e.key() != key {
			out = append(out, e)
		}
	}
	return out
}

func (k Keyed[T]) Has(key int64) bool {
	return slices.ContainsFunc(k, func(e T) bool { return e.key() == key })
}

// Get returns the entry for key.
func (k Keyed[T]) Get(key int64) (T, bool) {
	for _, e := range k {
		if e.key() == key {
			return e, true
		}
	}
	var zero T
	return zero, false
}

func (k Keyed[T]) Keys() []int64 {
	keys := make([]int64, len(k))
	for i, e := range k {
		keys[i] = e.key()
	}
	return keys
}

// Positional is an ordered list whose entries are identified by index only.
type Positional[T any] []T

// Append returns a copy of p with item added at the end.
func (p Positional[T]) Append(item T) Positional[T] {
	out := make(Positional[T], len(p), len(p)+1)
	copy(out, p)
	return append(out, item)
}

// RemoveAt drops the entry at index i. Out-of-range indexes return p unchanged.
func (p Positional[T]) RemoveAt(i int) Positional[T] {
	if i < 0 || i >= len(p) {
		return p
	}
	out := make(Positional[T], 0, len(p)-1)
	out = append(out, p[:i]...)
	return append(out, p[i+1:]...)
}
