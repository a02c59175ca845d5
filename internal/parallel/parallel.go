// Package parallel provides the fork-join loop used by the neighbor list
// builder and the force backends.
package parallel

import (
	"runtime"
	"sync"
)

// Workers resolves a requested worker count. Non-positive values select
// GOMAXPROCS. The result never exceeds n (and is at least 1).
func Workers(requested, n int) int {
	w := requested
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// For splits [0, n) into contiguous ranges and runs fn on each range
// concurrently, returning when all ranges are done. worker is the range
// index in [0, Workers(workers, n)) and is stable for the call, so callers
// can keep per-worker scratch space.
//
// With a single worker fn runs on the calling goroutine.
func For(n, workers int, fn func(worker, lo, hi int)) {
	if n <= 0 {
		return
	}
	w := Workers(workers, n)
	if w == 1 {
		fn(0, 0, n)
		return
	}

	chunk := n / w
	rem := n % w

	var wg sync.WaitGroup
	lo := 0
	for worker := range w {
		hi := lo + chunk
		if worker < rem {
			hi++
		}
		wg.Add(1)
		go func(worker, lo, hi int) {
			defer wg.Done()
			fn(worker, lo, hi)
		}(worker, lo, hi)
		lo = hi
	}
	wg.Wait()
}
