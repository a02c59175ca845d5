package force

import (
	"fmt"
	"math"

	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/parallel"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// cpuBackend runs the scalar loop directly on the caller's arrays.
// Load keeps references only, so its transfer cost is zero.
type cpuBackend[F simdops.Float] struct {
	workers   int
	positions []particle.Vec3[F]
	list      *neighbor.List
}

func newCPUBackend[F simdops.Float](workers int) *cpuBackend[F] {
	return &cpuBackend[F]{workers: workers}
}

func (b *cpuBackend[F]) Name() string    { return BackendCPU }
func (b *cpuBackend[F]) Available() bool { return true }

func (b *cpuBackend[F]) Info() string {
	n := math.MaxInt32
	if b.list != nil {
		n = b.list.N
	}
	return fmt.Sprintf("scalar, %d workers", parallel.Workers(b.workers, n))
}

func (b *cpuBackend[F]) Load(positions []particle.Vec3[F], list *neighbor.List) error {
	if err := validateProblem(positions, list); err != nil {
		return err
	}
	b.positions = positions
	b.list = list
	return nil
}

func (b *cpuBackend[F]) Compute(forces []particle.Vec3[F], p Params[F], repetitions int) error {
	if b.list == nil {
		return ErrNotLoaded
	}
	if err := validateRun(forces, b.list.N, p, repetitions); err != nil {
		return err
	}

	positions, list := b.positions, b.list
	for range repetitions {
		parallel.For(list.N, b.workers, func(_, lo, hi int) {
			for i := lo; i < hi; i++ {
				forces[i] = accumulate(positions[i], positions, list.Row(i), p)
			}
		})
	}
	return nil
}

func (b *cpuBackend[F]) Release() {
	b.positions = nil
	b.list = nil
}
