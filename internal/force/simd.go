package force

import (
	"fmt"
	"math"

	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/parallel"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
	"github.com/tphakala/simd/cpu"
)

// simdBackend stages positions as separate x, y, z arrays and evaluates
// each row in two passes: a gather pass that writes the displacement
// components and a masked force scalar per slot (zero outside the cutoff
// and for sentinel slots), then three SIMD dot products that reduce the
// slots to fx, fy, fz.
type simdBackend[F simdops.Float] struct {
	workers int
	ops     *simdops.Ops[F]

	xs, ys, zs []F
	indices    []int32
	n, k       int

	scratch []gatherBuf[F]
}

// gatherBuf is per-worker scratch for one row.
type gatherBuf[F simdops.Float] struct {
	dx, dy, dz, s []F
}

func newSIMDBackend[F simdops.Float](workers int) *simdBackend[F] {
	return &simdBackend[F]{
		workers: workers,
		ops:     simdops.For[F](),
	}
}

func (b *simdBackend[F]) Name() string    { return BackendSIMD }
func (b *simdBackend[F]) Available() bool { return true }

func (b *simdBackend[F]) Info() string {
	n := b.n
	if n == 0 {
		n = math.MaxInt32
	}
	return fmt.Sprintf("%s, %d workers", cpu.Info(), parallel.Workers(b.workers, n))
}

// Load copies the problem into backend-owned storage.
func (b *simdBackend[F]) Load(positions []particle.Vec3[F], list *neighbor.List) error {
	if err := validateProblem(positions, list); err != nil {
		return err
	}

	n, k := list.N, list.MaxNeighbors
	b.n, b.k = n, k
	b.xs = make([]F, n)
	b.ys = make([]F, n)
	b.zs = make([]F, n)
	for i, p := range positions {
		b.xs[i] = p.X
		b.ys[i] = p.Y
		b.zs[i] = p.Z
	}
	b.indices = make([]int32, len(list.Indices))
	copy(b.indices, list.Indices)

	b.scratch = make([]gatherBuf[F], parallel.Workers(b.workers, n))
	for w := range b.scratch {
		b.scratch[w] = gatherBuf[F]{
			dx: make([]F, k),
			dy: make([]F, k),
			dz: make([]F, k),
			s:  make([]F, k),
		}
	}
	return nil
}

func (b *simdBackend[F]) Compute(forces []particle.Vec3[F], p Params[F], repetitions int) error {
	if b.indices == nil {
		return ErrNotLoaded
	}
	if err := validateRun(forces, b.n, p, repetitions); err != nil {
		return err
	}

	for range repetitions {
		parallel.For(b.n, len(b.scratch), func(worker, lo, hi int) {
			buf := &b.scratch[worker]
			for i := lo; i < hi; i++ {
				forces[i] = b.row(i, buf, p)
			}
		})
	}
	return nil
}

func (b *simdBackend[F]) row(i int, buf *gatherBuf[F], p Params[F]) particle.Vec3[F] {
	xi, yi, zi := b.xs[i], b.ys[i], b.zs[i]
	row := b.indices[i*b.k : (i+1)*b.k]
	dx, dy, dz, s := buf.dx, buf.dy, buf.dz, buf.s

	for slot, j := range row {
		if j < 0 {
			dx[slot], dy[slot], dz[slot], s[slot] = 0, 0, 0, 0
			continue
		}
		ddx := xi - b.xs[j]
		ddy := yi - b.ys[j]
		ddz := zi - b.zs[j]
		dx[slot], dy[slot], dz[slot] = ddx, ddy, ddz

		r2 := ddx*ddx + ddy*ddy + ddz*ddz
		if r2 < p.Cutsq {
			s[slot] = ljScalar(r2, p.LJ1, p.LJ2)
		} else {
			s[slot] = 0
		}
	}

	return particle.Vec3[F]{
		X: b.ops.DotProductUnsafe(dx, s),
		Y: b.ops.DotProductUnsafe(dy, s),
		Z: b.ops.DotProductUnsafe(dz, s),
	}
}

func (b *simdBackend[F]) Release() {
	b.xs, b.ys, b.zs = nil, nil, nil
	b.indices = nil
	b.scratch = nil
	b.n, b.k = 0, 0
}
