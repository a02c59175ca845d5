package simdops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForReturnsSharedInstance(t *testing.T) {
	assert.Same(t, For[float32](), For[float32]())
	assert.Same(t, For[float64](), For[float64]())
}

func TestSizeOf(t *testing.T) {
	assert.Equal(t, 4, SizeOf[float32]())
	assert.Equal(t, 8, SizeOf[float64]())
}

func TestDotProductUnsafe(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}

	var want float64
	for i := range a {
		want += a[i] * b[i]
	}

	assert.InDelta(t, want, For[float64]().DotProductUnsafe(a, b), 1e-12)

	a32 := make([]float32, len(a))
	b32 := make([]float32, len(b))
	for i := range a {
		a32[i] = float32(a[i])
		b32[i] = float32(b[i])
	}
	assert.InDelta(t, want, float64(For[float32]().DotProductUnsafe(a32, b32)), 1e-4)
}

// BenchmarkIndirectF64DotProduct measures indirect call through Ops struct.
func BenchmarkIndirectF64DotProduct(b *testing.B) {
	ops := For[float64]()
	a := make([]float64, 128)
	c := make([]float64, 128)
	for i := range a {
		a[i] = float64(i) * 0.01
		c[i] = float64(i) * 0.02
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.DotProductUnsafe(a, c)
	}
}

// BenchmarkIndirectF32DotProduct measures indirect call through Ops struct.
func BenchmarkIndirectF32DotProduct(b *testing.B) {
	ops := For[float32]()
	a := make([]float32, 128)
	c := make([]float32, 128)
	for i := range a {
		a[i] = float32(i) * 0.01
		c[i] = float32(i) * 0.02
	}

	b.ReportAllocs()
	for b.Loop() {
		_ = ops.DotProductUnsafe(a, c)
	}
}
