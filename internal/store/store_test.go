package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mdbench "github.com/tphakala/go-md-bench"
)

func testRun(t *testing.T) *Run {
	t.Helper()

	db := mdbench.NewResultDatabase()
	db.AddResult("MD-LJ-SP", "12288_atoms", "GFLOPS", 10)
	db.AddResult("MD-LJ-SP", "12288_atoms", "GFLOPS", 11)
	db.AddResult("MD-LJ-SP-Bandwidth", "12288_atoms", "GB/s", 40)

	return &Run{
		ID:      uuid.NewString(),
		Started: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Config:  mdbench.DefaultConfig(),
		Outcomes: []mdbench.Outcome{
			{TestName: "MD-LJ-SP", PairsWithinCutoff: 100, PassesRun: 2, BuildTime: time.Millisecond},
			{TestName: "MD-LJ-DP", Err: errors.New("boom")},
		},
		Results: db.Results(),
	}
}

func TestSaveRun_RoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	run := testRun(t)
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.Results(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Results, got)

	ids, err := s.RunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{run.ID}, ids)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	run := testRun(t)
	require.NoError(t, s.SaveRun(ctx, run))

	err = s.SaveRun(ctx, run)
	assert.ErrorIs(t, err, ErrDatabase)

	// The failed transaction left nothing behind.
	got, err := s.Results(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, got, len(run.Results))
}

func TestRunIDs_Ordered(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	later := testRun(t)
	later.Started = later.Started.Add(time.Hour)
	earlier := testRun(t)

	require.NoError(t, s.SaveRun(ctx, later))
	require.NoError(t, s.SaveRun(ctx, earlier))

	ids, err := s.RunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{earlier.ID, later.ID}, ids)
}

func TestRunIDs_SubsecondOrder(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	half := testRun(t)
	half.Started = half.Started.Add(500 * time.Millisecond)
	whole := testRun(t)

	require.NoError(t, s.SaveRun(ctx, half))
	require.NoError(t, s.SaveRun(ctx, whole))

	ids, err := s.RunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{whole.ID, half.ID}, ids)
}

func TestResults_UnknownRun(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Results(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	ctx := context.Background()
	run := testRun(t)

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(ctx, run))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	ids, err := s.RunIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{run.ID}, ids)
}
