// Package neighbor builds the fixed-length nearest-neighbor lists consumed by
// the force kernel.
//
// For every particle the builder keeps the K closest other particles in
// ascending order of squared distance and packs them into one flat,
// row-major array of N*K indices. Rows of particles with fewer than K
// possible neighbors are padded with [Sentinel].
package neighbor

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-md-bench/internal/parallel"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// Sentinel marks a neighbor slot that holds no particle.
const Sentinel int32 = -1

// ErrInvalidInput is returned when no neighbor list can be built for the
// given particle count or list length.
var ErrInvalidInput = errors.New("invalid neighbor list input")

// List is a packed neighbor list of N rows with MaxNeighbors entries each.
// It is read-only once built.
type List struct {
	N            int
	MaxNeighbors int

	// Indices holds row i at [i*MaxNeighbors, (i+1)*MaxNeighbors).
	Indices []int32
}

// Row returns the neighbor indices of particle i.
func (l *List) Row(i int) []int32 {
	k := l.MaxNeighbors
	return l.Indices[i*k : (i+1)*k : (i+1)*k]
}

// Len returns the total number of slots, N*MaxNeighbors.
func (l *List) Len() int {
	return len(l.Indices)
}

// Build computes the neighbor list for positions and counts how many listed
// pairs lie strictly within cutsq. Rows are built independently across
// workers goroutines (non-positive selects GOMAXPROCS).
//
// Build fails with [ErrInvalidInput] if there are fewer than two particles,
// more particles than an int32 index can address, or maxNeighbors is not
// positive. maxNeighbors larger than N-1 is allowed; the surplus slots hold
// [Sentinel].
func Build[F simdops.Float](positions []particle.Vec3[F], cutsq F, maxNeighbors, workers int) (*List, int, error) {
	n := len(positions)
	if err := validateSize(n, maxNeighbors); err != nil {
		return nil, 0, err
	}

	list := &List{
		N:            n,
		MaxNeighbors: maxNeighbors,
		Indices:      make([]int32, n*maxNeighbors),
	}

	w := parallel.Workers(workers, n)
	pairs := make([]int, w)

	parallel.For(n, w, func(worker, lo, hi int) {
		best := newTopK[F](maxNeighbors)
		count := 0
		for i := lo; i < hi; i++ {
			count += buildRow(positions, i, best, cutsq, list.Row(i))
		}
		pairs[worker] = count
	})

	total := 0
	for _, c := range pairs {
		total += c
	}
	return list, total, nil
}

func validateSize(n, maxNeighbors int) error {
	if n <= 1 {
		return fmt.Errorf("%w: need at least 2 particles, got %d", ErrInvalidInput, n)
	}
	if n > math.MaxInt32 {
		return fmt.Errorf("%w: %d particles exceed the int32 index range", ErrInvalidInput, n)
	}
	if maxNeighbors <= 0 {
		return fmt.Errorf("%w: max neighbors must be positive, got %d", ErrInvalidInput, maxNeighbors)
	}
	if n > math.MaxInt/maxNeighbors {
		return fmt.Errorf("%w: %d x %d neighbor slots overflow", ErrInvalidInput, n, maxNeighbors)
	}
	return nil
}

// buildRow fills row with the neighbors of particle i and returns how many
// of them are within cutsq. best is scratch space owned by the caller.
func buildRow[F simdops.Float](positions []particle.Vec3[F], i int, best *topK[F], cutsq F, row []int32) int {
	best.reset()
	pi := positions[i]
	for j := range positions {
		if j == i {
			continue
		}
		best.insert(int32(j), pi.Sub(positions[j]).Norm2())
	}
	best.finish(row)
	return best.within(cutsq)
}

// Distances returns the squared distances from particle i to each entry of
// its row. Sentinel slots report -1.
func Distances[F simdops.Float](positions []particle.Vec3[F], list *List, i int) []F {
	row := list.Row(i)
	out := make([]F, len(row))
	for k, j := range row {
		if j == Sentinel {
			out[k] = -1
			continue
		}
		out[k] = particle.DistSq(positions, i, int(j))
	}
	return out
}

// CountWithin recounts the listed pairs closer than cutsq.
func CountWithin[F simdops.Float](positions []particle.Vec3[F], list *List, cutsq F) int {
	total := 0
	for i := range list.N {
		for _, d := range Distances(positions, list, i) {
			if d >= 0 && d < cutsq {
				total++
			}
		}
	}
	return total
}
