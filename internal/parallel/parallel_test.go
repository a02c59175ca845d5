package parallel

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkers(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		n         int
		want      int
	}{
		{"explicit", 4, 100, 4},
		{"clamped_to_n", 8, 3, 3},
		{"zero_items", 4, 0, 1},
		{"default", 0, 1 << 20, runtime.GOMAXPROCS(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Workers(tt.requested, tt.n))
		})
	}
}

func TestFor_CoversEveryIndexOnce(t *testing.T) {
	for _, workers := range []int{1, 2, 3, 7, 64} {
		const n = 1000
		hits := make([]int, n)
		For(n, workers, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			if !assert.Equal(t, 1, h, "workers=%d index=%d", workers, i) {
				break
			}
		}
	}
}

func TestFor_WorkerIDsDistinct(t *testing.T) {
	const workers = 4
	var mu sync.Mutex
	seen := map[int]int{}
	For(10, workers, func(worker, lo, hi int) {
		mu.Lock()
		seen[worker] += hi - lo
		mu.Unlock()
	})

	assert.Len(t, seen, workers)
	total := 0
	for w, c := range seen {
		assert.GreaterOrEqual(t, w, 0)
		assert.Less(t, w, workers)
		total += c
	}
	assert.Equal(t, 10, total)
}

func TestFor_Empty(t *testing.T) {
	called := false
	For(0, 4, func(_, _, _ int) { called = true })
	assert.False(t, called)
}
