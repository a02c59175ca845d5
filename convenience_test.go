package mdbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourParticles is a small hand-checkable configuration: particle 3 is far
// from 0, closer to 1 and closest to 2.
func fourParticles() []Vec3[float64] {
	return []Vec3[float64]{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 2, Z: 0},
		{X: 5, Y: 5, Z: 5},
	}
}

func TestBuildNeighborList_FourParticles(t *testing.T) {
	list, pairs, err := BuildNeighborList(fourParticles(), 10, 2)
	require.NoError(t, err)

	assert.Equal(t, []int32{1, 2}, list.Row(0))
	assert.Equal(t, []int32{0, 2}, list.Row(1))
	assert.Equal(t, []int32{0, 1}, list.Row(2))
	assert.Equal(t, []int32{2, 1}, list.Row(3))

	// Rows 0-2 are fully inside the cutoff; both of row 3 are outside.
	assert.Equal(t, 6, pairs)
}

func TestBuildNeighborList_PadsWithNoNeighbor(t *testing.T) {
	list, _, err := BuildNeighborList(fourParticles(), 10, 4)
	require.NoError(t, err)

	for i := range list.N {
		row := list.Row(i)
		assert.Equal(t, NoNeighbor, row[3], "row %d", i)
	}
}

func TestComputeForces_FourParticles(t *testing.T) {
	positions := fourParticles()
	list, _, err := BuildNeighborList(positions, 10, 2)
	require.NoError(t, err)

	forces, err := ComputeForces(positions, list, 10, 1.5, 2.0, 3)
	require.NoError(t, err)
	require.Len(t, forces, 4)

	// Particle 3 has no neighbor inside the cutoff.
	assert.Equal(t, Vec3[float64]{}, forces[3])

	// At r=1 the pair scalar is lj1-lj2 = -0.5, pulling 0 and 1 together.
	// Particle 2 sits on the y axis and adds nothing to 0 along x.
	assert.InDelta(t, 0.5, forces[0].X, 1e-12)

	r2 := 5.0
	s12 := 1 / (r2 * r2 * r2 * r2) * (1.5/(r2*r2*r2) - 2)
	assert.InDelta(t, -0.5+1*s12, forces[1].X, 1e-12)
	assert.InDelta(t, -2*s12, forces[1].Y, 1e-12)

	require.NoError(t, CheckForces(forces, positions, list, 10, 1.5, 2.0, 0.1))
}

func TestCheckForces_DetectsCorruption(t *testing.T) {
	positions := fourParticles()
	list, _, err := BuildNeighborList(positions, 10, 2)
	require.NoError(t, err)

	forces, err := ComputeForces(positions, list, 10, 1.5, 2.0, 1)
	require.NoError(t, err)

	forces[1].Y = -forces[1].Y + 1
	err = CheckForces(forces, positions, list, 10, 1.5, 2.0, 0.1)
	assert.ErrorIs(t, err, ErrCorrectnessMismatch)
}

func TestRandomPositions_Reproducible(t *testing.T) {
	a := RandomPositions[float32](100, 20, 8650341)
	b := RandomPositions[float32](100, 20, 8650341)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, RandomPositions[float32](100, 20, 1))
}
