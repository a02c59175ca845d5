package force

import (
	"fmt"
	"math"

	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// toleranceFactor scales eps into the per-particle error bound. The error
// sums three axes, so each axis gets roughly eps.
const toleranceFactor = 3.0

// MismatchError reports the first particle whose force disagrees with the
// serial reference.
type MismatchError struct {
	Particle  int
	RelErr    float64
	Tolerance float64
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("force mismatch at particle %d: error %g exceeds %g", e.Particle, e.RelErr, e.Tolerance)
}

func (e *MismatchError) Unwrap() error {
	return ErrCorrectnessMismatch
}

// Reference recomputes forces with a single goroutine, one particle and one
// neighbor at a time.
func Reference[F simdops.Float](positions []particle.Vec3[F], list *neighbor.List, p Params[F]) []particle.Vec3[F] {
	forces := make([]particle.Vec3[F], list.N)
	k := list.MaxNeighbors

	for i := 0; i < list.N; i++ {
		ipos := positions[i]
		var f particle.Vec3[F]

		for slot := 0; slot < k; slot++ {
			jidx := list.Indices[slot+k*i]
			if jidx == neighbor.Sentinel {
				continue
			}
			d := ipos.Sub(positions[jidx])
			r2 := d.Norm2()
			if r2 < p.Cutsq {
				s := PairScalar(r2, p)
				f.X += d.X * s
				f.Y += d.Y * s
				f.Z += d.Z * s
			}
		}
		forces[i] = f
	}
	return forces
}

// Check compares forces against [Reference]. For each particle the error is
// the sum over axes of |ref - got| / max(|ref|, |got|), with an axis
// contributing zero when both values are exactly zero. Check returns a
// [*MismatchError] for the first particle whose error exceeds 3*eps or is
// NaN.
func Check[F simdops.Float](forces, positions []particle.Vec3[F], list *neighbor.List, p Params[F], eps float64) error {
	if err := validateProblem(positions, list); err != nil {
		return err
	}
	if len(forces) != list.N {
		return fmt.Errorf("%w: force buffer has %d entries, want %d", ErrShapeMismatch, len(forces), list.N)
	}

	ref := Reference(positions, list, p)
	tol := toleranceFactor * eps
	for i := range forces {
		e := axisError(ref[i].X, forces[i].X) +
			axisError(ref[i].Y, forces[i].Y) +
			axisError(ref[i].Z, forces[i].Z)
		if !(e <= tol) {
			return &MismatchError{Particle: i, RelErr: e, Tolerance: tol}
		}
	}
	return nil
}

func axisError[F simdops.Float](ref, got F) float64 {
	r, g := float64(ref), float64(got)
	scale := math.Max(math.Abs(r), math.Abs(g))
	if scale == 0 {
		return 0
	}
	return math.Abs(r-g) / scale
}
