package mdbench

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-md-bench/internal/force"
)

// smallConfig returns a configuration that runs in milliseconds.
func smallConfig() Config {
	c := DefaultConfig()
	c.NumAtoms = 256
	c.MaxNeighbors = 16
	c.Domain = 8
	c.Iterations = 2
	c.Passes = 3
	return c
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_InvalidConfig(t *testing.T) {
	c := smallConfig()
	c.Passes = 0
	_, err := New(&c, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_CopiesConfig(t *testing.T) {
	c := smallConfig()
	b, err := New(&c, nil)
	require.NoError(t, err)

	c.Passes = 99
	c.Precisions[0] = Double

	got := b.Config()
	assert.Equal(t, 3, got.Passes)
	assert.Equal(t, Single, got.Precisions[0])
}

func TestRun_RecordsAllResults(t *testing.T) {
	for _, backend := range force.Backends() {
		t.Run(backend, func(t *testing.T) {
			c := smallConfig()
			c.Backend = backend

			b, err := New(&c, nil)
			require.NoError(t, err)

			db := NewResultDatabase()
			outcomes, err := b.Run(db)
			require.NoError(t, err)
			require.Len(t, outcomes, 2)

			for _, o := range outcomes {
				assert.NoError(t, o.Err)
				assert.Equal(t, c.Passes, o.PassesRun)
				assert.Equal(t, 256, o.Atoms)
				assert.Equal(t, 16, o.MaxNeighbors)
				assert.Equal(t, backend, o.Backend)
				assert.NotEmpty(t, o.BackendInfo)
				assert.Positive(t, o.PairsWithinCutoff)
				assert.LessOrEqual(t, o.PairsWithinCutoff, o.Slots())
				assert.Positive(t, o.Work.Flops)
			}
			assert.Equal(t, "MD-LJ-SP", outcomes[0].TestName)
			assert.Equal(t, "MD-LJ-DP", outcomes[1].TestName)

			// Five values per pass per precision.
			assert.Equal(t, 2*5*c.Passes, db.Len())

			names := make(map[string]int)
			for _, r := range db.Results() {
				names[r.Test]++
				assert.Equal(t, "256_atoms", r.Attributes)
				assert.GreaterOrEqual(t, r.Value, 0.0)
			}
			for _, prefix := range []string{"MD-LJ-SP", "MD-LJ-DP"} {
				for _, suffix := range []string{"", "-Transfer", "-Bandwidth", "-Bandwidth_Transfer", "_Parity"} {
					assert.Equal(t, c.Passes, names[prefix+suffix], prefix+suffix)
				}
			}
		})
	}
}

func TestRun_SamePairCountAcrossPrecisions(t *testing.T) {
	c := smallConfig()
	c.Passes = 1
	b, err := New(&c, nil)
	require.NoError(t, err)

	outcomes, err := b.Run(NewResultDatabase())
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	// Both precisions draw the same positions; only rounding near the
	// cutoff can move a pair.
	assert.InDelta(t, outcomes[0].PairsWithinCutoff, outcomes[1].PairsWithinCutoff, float64(outcomes[0].Slots())/100)
}

func TestRun_DoublePrecisionOnly(t *testing.T) {
	c := smallConfig()
	c.Precisions = []Precision{Double}

	b, err := New(&c, nil)
	require.NoError(t, err)

	db := NewResultDatabase()
	outcomes, err := b.Run(db)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, Double, outcomes[0].Precision)
	assert.Equal(t, 5*c.Passes, db.Len())
}

func TestRun_MismatchSkipsOnlyThatPrecision(t *testing.T) {
	// Particles packed this tightly overflow the float32 force terms, so
	// the single-precision check sees Inf and NaN. Double precision stays
	// finite.
	c := smallConfig()
	c.NumAtoms = 64
	c.MaxNeighbors = 8
	c.Domain = 1e-10
	c.Backend = force.BackendCPU

	var logs bytes.Buffer
	b, err := New(&c, log.New(&logs, "", 0))
	require.NoError(t, err)

	db := NewResultDatabase()
	outcomes, err := b.Run(db)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorrectnessMismatch)
	require.Len(t, outcomes, 2)

	sp, dp := outcomes[0], outcomes[1]
	assert.ErrorIs(t, sp.Err, ErrCorrectnessMismatch)
	assert.Equal(t, 0, sp.PassesRun)

	var mismatch *force.MismatchError
	assert.True(t, errors.As(sp.Err, &mismatch))

	assert.NoError(t, dp.Err)
	assert.Equal(t, c.Passes, dp.PassesRun)

	for _, r := range db.Results() {
		assert.True(t, strings.HasPrefix(r.Test, "MD-LJ-DP"), r.Test)
	}
	assert.Equal(t, 5*c.Passes, db.Len())
	assert.Contains(t, logs.String(), "correctness check failed")
}

func TestRun_NilDatabase(t *testing.T) {
	c := smallConfig()
	c.Passes = 2
	b, err := New(&c, nil)
	require.NoError(t, err)

	outcomes, err := b.Run(nil)
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.Equal(t, c.Passes, o.PassesRun)
	}
}

func TestRunPrecision_Unknown(t *testing.T) {
	c := smallConfig()
	b, err := New(&c, nil)
	require.NoError(t, err)

	o := b.RunPrecision(Precision(5), NewResultDatabase())
	assert.ErrorIs(t, o.Err, ErrInvalidConfig)
}

func TestRun_LogsPairPercentage(t *testing.T) {
	c := smallConfig()
	c.Precisions = []Precision{Single}
	c.Passes = 1

	var logs bytes.Buffer
	b, err := New(&c, log.New(&logs, "", 0))
	require.NoError(t, err)

	_, err = b.Run(NewResultDatabase())
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "pairs within cutoff distance")
	assert.Contains(t, out, "correctness check passed")
	assert.Contains(t, out, "pass 1/1")
}

func TestOutcome_PairFraction(t *testing.T) {
	o := Outcome{Atoms: 10, MaxNeighbors: 4, PairsWithinCutoff: 10}
	assert.Equal(t, 40, o.Slots())
	assert.InDelta(t, 0.25, o.PairFraction(), 1e-12)

	var empty Outcome
	assert.InDelta(t, 0.0, empty.PairFraction(), 0)
}
