package mdbench

import (
	"testing"

	"github.com/tphakala/go-md-bench/internal/neighbor"
)

// BenchmarkBuildSequential benchmarks neighbor list construction on one worker.
func BenchmarkBuildSequential(b *testing.B) {
	benchmarkBuild(b, 1)
}

// BenchmarkBuildParallel benchmarks neighbor list construction on all CPUs.
func BenchmarkBuildParallel(b *testing.B) {
	benchmarkBuild(b, 0)
}

func benchmarkBuild(b *testing.B, workers int) {
	b.Helper()

	c := DefaultConfig()
	c.NumAtoms = 4096

	positions := RandomPositions[float32](c.NumAtoms, c.Domain, c.Seed)

	b.ReportAllocs()
	for b.Loop() {
		if _, _, err := neighbor.Build(positions, float32(c.Cutsq), c.MaxNeighbors, workers); err != nil {
			b.Fatalf("Build failed: %v", err)
		}
	}
}

// BenchmarkRunSequential runs the full single-precision benchmark on one worker.
func BenchmarkRunSequential(b *testing.B) {
	benchmarkRun(b, 1)
}

// BenchmarkRunParallel runs the full single-precision benchmark on all CPUs.
func BenchmarkRunParallel(b *testing.B) {
	benchmarkRun(b, 0)
}

func benchmarkRun(b *testing.B, workers int) {
	b.Helper()

	c := DefaultConfig()
	c.NumAtoms = 2048
	c.Precisions = []Precision{Single}
	c.Iterations = 5
	c.Passes = 1
	c.Workers = workers

	bench, err := New(&c, nil)
	if err != nil {
		b.Fatalf("Failed to create benchmark: %v", err)
	}

	b.ReportAllocs()
	for b.Loop() {
		if _, err := bench.Run(NewResultDatabase()); err != nil {
			b.Fatalf("Run failed: %v", err)
		}
	}
}
