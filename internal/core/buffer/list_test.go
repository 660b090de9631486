package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAddPreservesOrder(t *testing.T) {
	for _, initial := range []int{0, 1, 3, 50} {
		l := New[int](initial)
		for i := 0; i < 200; i++ {
			l.Add(i)
		}

		require.Equal(t, 200, l.Len(), "initial capacity %d", initial)
		for i, v := range l.Items() {
			if v != i {
				t.Fatalf("initial capacity %d: item %d = %d, want %d", initial, i, v, i)
			}
		}
	}
}

func TestListGrowthIsAmortized(t *testing.T) {
	l := New[int](0)
	for i := 0; i < 1024; i++ {
		l.Add(i)
	}

	// 4, 8, 16, ..., 1024
	assert.Equal(t, 9, l.Grows())
	assert.Equal(t, 1024, l.Cap())
}

func TestListResetKeepsCapacity(t *testing.T) {
	l := New[int](2)
	for i := 0; i < 10; i++ {
		l.Add(i)
	}
	highWater := l.Cap()
	grows := l.Grows()

	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, highWater, l.Cap())

	for i := 0; i < 10; i++ {
		l.Add(i * 2)
	}
	assert.Equal(t, grows, l.Grows(), "refilling to the high-water mark must not reallocate")
	assert.Equal(t, 18, l.At(9))
}

func TestListResetDoesNotZero(t *testing.T) {
	l := New[int](4)
	l.Add(7)
	l.Reset()

	// stale contents are still in storage but outside the valid window
	assert.Empty(t, l.Items())
	assert.Equal(t, 7, l.items[0])
}

func TestListReserveAndWriteAt(t *testing.T) {
	l := New[string](1)
	l.Add("a")
	before := l.Items()

	l.Reserve(5)
	require.GreaterOrEqual(t, l.Cap(), 5)
	assert.Equal(t, 1, l.Len(), "Reserve must not change length")
	assert.Equal(t, []string{"a"}, l.Items())

	l.WriteAt(3, "d")
	assert.Equal(t, 4, l.Len())
	assert.Equal(t, "d", l.At(3))

	// the slice taken before growth points at the old storage
	before[0] = "stale"
	assert.Equal(t, "a", l.At(0))
}

func TestListWriteAtOutsideCapacityPanics(t *testing.T) {
	l := New[int](2)
	assert.Panics(t, func() { l.WriteAt(2, 1) })
	assert.Panics(t, func() { l.WriteAt(-1, 1) })
}

func TestListAtOutsideLengthPanics(t *testing.T) {
	l := New[int](4)
	l.Add(1)
	assert.Panics(t, func() { l.At(1) })
}

func BenchmarkListAddReset(b *testing.B) {
	l := New[float32](0)
	for i := 0; i < b.N; i++ {
		l.Reset()
		for j := 0; j < 256; j++ {
			l.Add(float32(j))
		}
	}
}
