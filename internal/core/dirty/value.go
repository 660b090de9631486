// Package dirty holds a lazily recomputed value guarded by a dirty flag.
package dirty

// Value caches the result of a compute function until it is invalidated.
// A new Value starts dirty, so the first Get always computes.
type Value[T any] struct {
	compute    func() T
	value      T
	dirty      bool
	recomputes int
}

// New returns a dirty Value backed by compute.
func New[T any](compute func() T) *Value[T] {
	return &Value[T]{compute: compute, dirty: true}
}

// Invalidate marks the cached value stale.
func (v *Value[T]) Invalidate() {
	v.dirty = true
}

// Dirty reports whether the next Get will recompute.
func (v *Value[T]) Dirty() bool {
	return v.dirty
}

// Get returns the cached value, recomputing it first if it is stale.
func (v *Value[T]) Get() T {
	if v.dirty {
		v.value = v.compute()
		v.dirty = false
		v.recomputes++
	}
	return v.value
}

// Recomputes returns how many times compute has run.
func (v *Value[T]) Recomputes() int {
	return v.recomputes
}
