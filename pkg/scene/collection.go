package scene

// Collection is an ordered, index-addressable list of scene entries.
// Out-of-range reads return the collection's neutral default and
// out-of-range writes are ignored.
type Collection[T any] struct {
	items    []T
	fallback T
}

// NewCollection creates an empty collection with the given neutral default
func NewCollection[T any](fallback T) Collection[T] {
	return Collection[T]{fallback: fallback}
}

// Add appends an entry and returns its index
func (c *Collection[T]) Add(item T) int {
	c.items = append(c.items, item)
	return len(c.items) - 1
}

// Get returns the entry at index, or the neutral default when out of range
func (c *Collection[T]) Get(index int) T {
	if index < 0 || index >= len(c.items) {
		return c.fallback
	}
	return c.items[index]
}

// Default returns the neutral default entry
func (c *Collection[T]) Default() T {
	return c.fallback
}

// Set replaces the entry at index. Returns false when out of range.
func (c *Collection[T]) Set(index int, item T) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	c.items[index] = item
	return true
}

// Update applies fn to the entry at index in place. Returns false when out of range.
func (c *Collection[T]) Update(index int, fn func(*T)) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	fn(&c.items[index])
	return true
}

// Remove deletes the entry at index, shifting later entries down.
// Returns false when out of range.
func (c *Collection[T]) Remove(index int) bool {
	if index < 0 || index >= len(c.items) {
		return false
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
	return true
}

// Clear removes all entries
func (c *Collection[T]) Clear() {
	c.items = nil
}

// Len returns the number of stored entries
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// All returns a copy of every stored entry
func (c *Collection[T]) All() []T {
	return c.First(len(c.items))
}

// First returns a copy of at most n leading entries. Negative n means all.
func (c *Collection[T]) First(n int) []T {
	if n < 0 || n > len(c.items) {
		n = len(c.items)
	}
	out := make([]T, n)
	copy(out, c.items[:n])
	return out
}

// clone returns an independent copy
func (c *Collection[T]) clone() Collection[T] {
	return Collection[T]{items: c.All(), fallback: c.fallback}
}
