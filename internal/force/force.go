// Package force evaluates Lennard-Jones forces over a packed neighbor list.
//
// Every particle's force is the sum of pairwise contributions from the
// neighbors listed in its row that lie strictly inside the cutoff:
//
//	r2    = |pi - pj|^2
//	s     = r2^-1 * r2^-3 * (lj1 * r2^-3 - lj2)   (r2 < cutsq)
//	f_i  += (pi - pj) * s
//
// The work is data-parallel across particles and runs on a pluggable
// [Backend]. [Reference] and [Check] provide a serial recomputation used to
// validate a backend before it is timed.
package force

import (
	"errors"
	"fmt"
	"math"

	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

var (
	// ErrInvalidParams indicates non-physical force-law parameters or a
	// non-positive repetition count.
	ErrInvalidParams = errors.New("invalid force parameters")

	// ErrShapeMismatch indicates inputs whose sizes do not agree with the
	// neighbor list.
	ErrShapeMismatch = errors.New("input shape mismatch")

	// ErrNotLoaded indicates Compute was called before Load.
	ErrNotLoaded = errors.New("backend has no problem loaded")

	// ErrUnknownBackend indicates a backend name that is not registered.
	ErrUnknownBackend = errors.New("unknown force backend")

	// ErrCorrectnessMismatch indicates that a computed force disagrees with
	// the serial reference beyond tolerance.
	ErrCorrectnessMismatch = errors.New("force correctness check failed")
)

// Params are the scalar force-law parameters, fixed for a run.
type Params[F simdops.Float] struct {
	// Cutsq is the squared cutoff distance. Pairs at or beyond it
	// contribute nothing.
	Cutsq F

	// LJ1 and LJ2 are the folded Lennard-Jones coefficients
	// (48*eps*sigma^12 and 24*eps*sigma^6 in the usual notation).
	LJ1, LJ2 F
}

// Validate checks that the cutoff is a positive finite number.
func (p Params[F]) Validate() error {
	c := float64(p.Cutsq)
	if !(c > 0) || math.IsInf(c, 0) {
		return fmt.Errorf("%w: cutoff squared must be positive and finite, got %v", ErrInvalidParams, p.Cutsq)
	}
	return nil
}

// PairScalar returns the force scalar for a pair at squared distance r2,
// or zero if r2 is not strictly below the cutoff.
func PairScalar[F simdops.Float](r2 F, p Params[F]) F {
	if !(r2 < p.Cutsq) {
		return 0
	}
	return ljScalar(r2, p.LJ1, p.LJ2)
}

// ljScalar evaluates the force law without the cutoff test.
func ljScalar[F simdops.Float](r2, lj1, lj2 F) F {
	r2inv := 1 / r2
	r6inv := r2inv * r2inv * r2inv
	return r2inv * r6inv * (lj1*r6inv - lj2)
}

// accumulate sums the contributions of row onto particle pi.
// Sentinel entries are skipped.
func accumulate[F simdops.Float](pi particle.Vec3[F], positions []particle.Vec3[F], row []int32, p Params[F]) particle.Vec3[F] {
	var fx, fy, fz F
	for _, j := range row {
		if j < 0 {
			continue
		}
		pj := positions[j]
		dx := pi.X - pj.X
		dy := pi.Y - pj.Y
		dz := pi.Z - pj.Z
		r2 := dx*dx + dy*dy + dz*dz
		if r2 < p.Cutsq {
			s := ljScalar(r2, p.LJ1, p.LJ2)
			fx += dx * s
			fy += dy * s
			fz += dz * s
		}
	}
	return particle.Vec3[F]{X: fx, Y: fy, Z: fz}
}

// Compute runs repetitions full force evaluations of positions over list on
// the default backend and returns the forces of the last one. workers
// bounds the goroutines used (non-positive selects GOMAXPROCS).
func Compute[F simdops.Float](positions []particle.Vec3[F], list *neighbor.List, p Params[F], repetitions, workers int) ([]particle.Vec3[F], error) {
	b, err := NewBackend[F](DefaultBackend, workers)
	if err != nil {
		return nil, err
	}
	defer b.Release()

	if err := b.Load(positions, list); err != nil {
		return nil, err
	}

	forces := make([]particle.Vec3[F], len(positions))
	if err := b.Compute(forces, p, repetitions); err != nil {
		return nil, err
	}
	return forces, nil
}

// validateProblem checks that positions and list describe the same system
// and that every non-sentinel index is in range.
func validateProblem[F simdops.Float](positions []particle.Vec3[F], list *neighbor.List) error {
	if list == nil {
		return fmt.Errorf("%w: neighbor list is nil", ErrShapeMismatch)
	}
	n := len(positions)
	if list.N != n {
		return fmt.Errorf("%w: neighbor list built for %d particles, have %d", ErrShapeMismatch, list.N, n)
	}
	if list.MaxNeighbors <= 0 || len(list.Indices) != n*list.MaxNeighbors {
		return fmt.Errorf("%w: neighbor list has %d entries, want %d*%d",
			ErrShapeMismatch, len(list.Indices), n, list.MaxNeighbors)
	}
	for k, j := range list.Indices {
		if j != neighbor.Sentinel && (j < 0 || int(j) >= n) {
			return fmt.Errorf("%w: neighbor slot %d holds index %d outside [0, %d)", ErrShapeMismatch, k, j, n)
		}
	}
	return nil
}

// validateRun checks the per-call arguments shared by all backends.
func validateRun[F simdops.Float](forces []particle.Vec3[F], n int, p Params[F], repetitions int) error {
	if len(forces) != n {
		return fmt.Errorf("%w: force buffer has %d entries, want %d", ErrShapeMismatch, len(forces), n)
	}
	if repetitions < 1 {
		return fmt.Errorf("%w: repetitions must be at least 1, got %d", ErrInvalidParams, repetitions)
	}
	return p.Validate()
}
