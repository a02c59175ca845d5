// Package particle holds the position and force records shared by the
// neighbor list builder and the force kernel.
package particle

import (
	"math/rand/v2"

	"github.com/tphakala/go-md-bench/internal/simdops"
	"gonum.org/v1/gonum/stat/distuv"
)

// Vec3 is a 3-D vector. It stores both particle positions and per-particle
// forces.
type Vec3[F simdops.Float] struct {
	X, Y, Z F
}

// Sub returns v - o.
func (v Vec3[F]) Sub(o Vec3[F]) Vec3[F] {
	return Vec3[F]{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Norm2 returns the squared Euclidean length of v.
func (v Vec3[F]) Norm2() F {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// DistSq returns the squared distance between positions i and j.
func DistSq[F simdops.Float](positions []Vec3[F], i, j int) F {
	return positions[i].Sub(positions[j]).Norm2()
}

// Random places n particles uniformly inside the cube [0, edge)^3.
// Coordinates are drawn x, y, z per particle in index order from a PCG
// stream seeded with seed, so the same seed always yields the same set.
func Random[F simdops.Float](n int, edge float64, seed uint64) []Vec3[F] {
	dist := distuv.Uniform{
		Min: 0,
		Max: edge,
		Src: rand.NewPCG(seed, 0),
	}

	positions := make([]Vec3[F], n)
	for i := range positions {
		positions[i].X = F(dist.Rand())
		positions[i].Y = F(dist.Rand())
		positions[i].Z = F(dist.Rand())
	}
	return positions
}
