// Package buffer provides an append-only list that keeps its storage between
// frames so per-frame mesh data can be rebuilt without reallocating.
package buffer

import "fmt"

// minGrowth is the smallest capacity a list grows to.
const minGrowth = 4

// List is a growable buffer of T. Only the first Len() elements are valid;
// anything past that is left over from earlier use and must not be read.
type List[T any] struct {
	items  []T
	length int
	grows  int
}

// New creates a list with room for capacity elements.
func New[T any](capacity int) *List[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &List[T]{items: make([]T, capacity)}
}

// Len returns the number of valid elements.
func (l *List[T]) Len() int {
	return l.length
}

// Cap returns the number of elements the list can hold before growing.
func (l *List[T]) Cap() int {
	return len(l.items)
}

// Grows returns how many times the storage has been reallocated.
func (l *List[T]) Grows() int {
	return l.grows
}

// Add appends item, growing the storage first if it is full.
func (l *List[T]) Add(item T) {
	if l.length == len(l.items) {
		l.grow(l.length + 1)
	}
	l.items[l.length] = item
	l.length++
}

// Reset empties the list without releasing or zeroing its storage.
func (l *List[T]) Reset() {
	l.length = 0
}

// Reserve makes sure the list can hold n elements without growing again.
// Storage may move, so any slice obtained from Items before the call is stale.
func (l *List[T]) Reserve(n int) {
	if n > len(l.items) {
		l.grow(n)
	}
}

// WriteAt stores item at index i, which must lie inside the reserved capacity.
// Writing past the current length extends the list to i+1.
func (l *List[T]) WriteAt(i int, item T) {
	if i < 0 || i >= len(l.items) {
		panic(fmt.Sprintf("buffer: WriteAt index %d outside capacity %d", i, len(l.items)))
	}
	l.items[i] = item
	if i >= l.length {
		l.length = i + 1
	}
}

// At returns the element at index i.
func (l *List[T]) At(i int) T {
	if i < 0 || i >= l.length {
		panic(fmt.Sprintf("buffer: At index %d outside length %d", i, l.length))
	}
	return l.items[i]
}

// Items returns the valid elements. The slice aliases the list storage and is
// only good until the next Add or Reserve that grows the list.
func (l *List[T]) Items() []T {
	return l.items[:l.length]
}

// grow doubles the capacity until it can hold need elements.
func (l *List[T]) grow(need int) {
	newCap := len(l.items) * 2
	if newCap < minGrowth {
		newCap = minGrowth
	}
	for newCap < need {
		newCap *= 2
	}
	items := make([]T, newCap)
	copy(items, l.items[:l.length])
	l.items = items
	l.grows++
}
