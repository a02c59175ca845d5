// Package mdbench measures sustained floating-point throughput and memory
// bandwidth of a short-range Lennard-Jones force evaluation, the inner kernel
// of molecular-dynamics codes such as LAMMPS.
//
// The benchmark is a Go rendition of the SHOC MD test. It places particles
// at random inside a cube, builds a fixed-length nearest-neighbor list for
// each of them, and then repeatedly evaluates the net force on every
// particle from the listed neighbors inside a cutoff. Positions are never
// advanced: the same inputs are fed to the kernel over and over to
// amortize timing noise.
//
// # Quick Start
//
// The two core operations can be used directly:
//
//	positions := mdbench.RandomPositions[float32](4096, 20, 8650341)
//	list, pairs, err := mdbench.BuildNeighborList(positions, 16, 128)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	forces, err := mdbench.ComputeForces(positions, list, 16, 1.5, 2.0, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The full benchmark, with correctness check and timed passes for both
// precisions:
//
//	config := mdbench.DefaultConfig()
//	b, err := mdbench.New(&config, log.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	db := mdbench.NewResultDatabase()
//	outcomes, err := b.Run(db)
//
// # Neighbor Lists
//
// For each particle the builder scans all others and keeps the K closest in
// a fixed-capacity sorted buffer, rejecting candidates farther than the
// current K-th best without a scan. Rows are written to one flat N*K array
// in ascending distance order. When fewer than K neighbors exist the tail of
// the row holds [NoNeighbor]. Particles are processed in parallel.
//
// # Backends
//
// The force kernel runs on a pluggable backend:
//
//   - "cpu": scalar loop over the caller's arrays, parallel across particles.
//   - "simd": positions staged as separate x, y, z arrays; each row is
//     gathered into scratch buffers and reduced with SIMD dot products via
//     github.com/tphakala/simd.
//
// Loading a problem onto a backend is timed separately and reported as the
// transfer overhead.
//
// # Results
//
// Each timed pass records, for test names MD-LJ-SP and MD-LJ-DP:
//
//   - GFLOPS over kernel time, and -Transfer including load time
//   - -Bandwidth and -Bandwidth_Transfer in GB/s
//   - _Parity, the ratio of load time to kernel time
//
// The flop count is 8 per neighbor slot plus 13 per pair inside the
// cutoff.
//
// # Correctness
//
// Before timing, one repetition is compared against a serial reference. A
// variant whose relative error exceeds 3*eps on any particle is not timed
// and reports [ErrCorrectnessMismatch]; the other precision still runs.
// Coincident particles produce Inf or NaN forces, which the check reports
// as a mismatch.
package mdbench
