package mdbench

import (
	"github.com/tphakala/go-md-bench/internal/force"
	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// Float is the set of supported element types.
type Float = simdops.Float

// Vec3 is a particle position or force.
type Vec3[F Float] = particle.Vec3[F]

// NeighborList is a packed [N x K] neighbor table.
type NeighborList = neighbor.List

// ForceParams are the cutoff and Lennard-Jones coefficients.
type ForceParams[F Float] = force.Params[F]

// NoNeighbor marks an unused neighbor slot.
const NoNeighbor = neighbor.Sentinel

// RandomPositions places n particles uniformly in [0, edge)^3 using seed.
func RandomPositions[F Float](n int, edge float64, seed uint64) []Vec3[F] {
	return particle.Random[F](n, edge, seed)
}

// BuildNeighborList finds the maxNeighbors nearest particles of every
// particle and returns the packed list with the number of listed pairs
// closer than cutsq. It uses all available CPUs.
func BuildNeighborList[F Float](positions []Vec3[F], cutsq F, maxNeighbors int) (*NeighborList, int, error) {
	return neighbor.Build(positions, cutsq, maxNeighbors, 0)
}

// ComputeForces evaluates Lennard-Jones forces repetitions times on the
// default backend and returns the final forces.
func ComputeForces[F Float](positions []Vec3[F], list *NeighborList, cutsq, lj1, lj2 F, repetitions int) ([]Vec3[F], error) {
	return force.Compute(positions, list, ForceParams[F]{Cutsq: cutsq, LJ1: lj1, LJ2: lj2}, repetitions, 0)
}

// CheckForces compares forces against a serial recomputation and returns an
// error wrapping ErrCorrectnessMismatch if any particle's relative error
// exceeds 3*eps.
func CheckForces[F Float](forces, positions []Vec3[F], list *NeighborList, cutsq, lj1, lj2 F, eps float64) error {
	return force.Check(forces, positions, list, ForceParams[F]{Cutsq: cutsq, LJ1: lj1, LJ2: lj2}, eps)
}
