package mdbench

// Canonical problem sizes, selected by Config.SizeClass 1..4.
var problemSizes = [...]int{12288, 24576, 36864, 73728}

// Default problem constants.
const (
	defaultSizeClass    = 1
	defaultCutsq        = 16.0 // cutoff distance squared
	defaultMaxNeighbors = 128  // neighbor list length
	defaultDomain       = 20.0 // edge length of the cubic domain
	defaultEps          = 0.1  // relative error tolerance
	defaultIterations   = 100  // kernel repetitions per pass
	defaultPasses       = 10   // timed passes
	defaultSeed         = 8650341
)

// Lennard-Jones coefficients.
const (
	defaultLJ1 = 1.5
	defaultLJ2 = 2.0
)

// Result naming.
const (
	testNamePrefix = "MD-LJ-"
	suffixTransfer = "-Transfer"
	suffixBW       = "-Bandwidth"
	suffixBWXfer   = "-Bandwidth_Transfer"
	suffixParity   = "_Parity"

	unitGFLOPS = "GFLOPS"
	unitGBs    = "GB/s"
	unitRatio  = "N"

	percentScale = 100
)
