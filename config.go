package mdbench

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/tphakala/go-md-bench/internal/force"
)

// Common errors returned by the benchmark.
var (
	// ErrInvalidConfig indicates malformed or out-of-range parameters.
	ErrInvalidConfig = errors.New("invalid benchmark configuration")

	// ErrCorrectnessMismatch indicates that a backend's forces disagree with
	// the serial reference. Timed passes are skipped for that precision.
	ErrCorrectnessMismatch = force.ErrCorrectnessMismatch
)

// Precision selects the floating-point width of a benchmark variant.
type Precision int

const (
	// Single runs the kernel in float32.
	Single Precision = iota
	// Double runs the kernel in float64.
	Double
)

// String returns the short tag used in result names.
func (p Precision) String() string {
	switch p {
	case Single:
		return "SP"
	case Double:
		return "DP"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision parses sp/single/float32 or dp/double/float64.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sp", "single", "float32", "f32":
		return Single, nil
	case "dp", "double", "float64", "f64":
		return Double, nil
	default:
		return 0, fmt.Errorf("%w: unknown precision %q", ErrInvalidConfig, s)
	}
}

// ParsePrecisions parses a comma-separated precision list. "both" and
// "all" select single then double.
func ParsePrecisions(s string) ([]Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "both", "all", "":
		return []Precision{Single, Double}, nil
	}

	var out []Precision
	for _, part := range strings.Split(s, ",") {
		p, err := ParsePrecision(part)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Config holds the benchmark configuration.
type Config struct {
	// SizeClass selects one of the canonical particle counts (1..4).
	SizeClass int

	// NumAtoms overrides SizeClass when positive.
	NumAtoms int

	// Cutsq is the squared cutoff distance.
	Cutsq float64

	// MaxNeighbors is the neighbor list length K. Must be below the
	// particle count.
	MaxNeighbors int

	// Domain is the edge length of the cube particles are placed in.
	Domain float64

	// Eps is the relative error tolerance of the correctness check.
	Eps float64

	// Iterations is the number of kernel repetitions per timed pass.
	Iterations int

	// Passes is the number of timed passes.
	Passes int

	// Seed seeds the particle placement.
	Seed uint64

	// LJ1 and LJ2 are the Lennard-Jones force coefficients.
	LJ1, LJ2 float64

	// Precisions lists the variants to run, in order.
	Precisions []Precision

	// Backend names the force backend (see force.Backends).
	Backend string

	// Workers bounds the goroutines used by the builder and the kernel.
	// Zero selects GOMAXPROCS.
	Workers int
}

// DefaultConfig returns the standard benchmark configuration.
func DefaultConfig() Config {
	return Config{
		SizeClass:    defaultSizeClass,
		Cutsq:        defaultCutsq,
		MaxNeighbors: defaultMaxNeighbors,
		Domain:       defaultDomain,
		Eps:          defaultEps,
		Iterations:   defaultIterations,
		Passes:       defaultPasses,
		Seed:         defaultSeed,
		LJ1:          defaultLJ1,
		LJ2:          defaultLJ2,
		Precisions:   []Precision{Single, Double},
		Backend:      force.DefaultBackend,
	}
}

// Atoms returns the particle count selected by the configuration, or 0 if
// the size class is out of range and no override is set.
func (c *Config) Atoms() int {
	if c.NumAtoms > 0 {
		return c.NumAtoms
	}
	if c.SizeClass < 1 || c.SizeClass > len(problemSizes) {
		return 0
	}
	return problemSizes[c.SizeClass-1]
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.NumAtoms < 0 {
		return fmt.Errorf("%w: atom count must not be negative", ErrInvalidConfig)
	}
	if c.NumAtoms == 0 && (c.SizeClass < 1 || c.SizeClass > len(problemSizes)) {
		return fmt.Errorf("%w: size class must be 1-%d", ErrInvalidConfig, len(problemSizes))
	}

	atoms := c.Atoms()
	if atoms < 2 {
		return fmt.Errorf("%w: need at least 2 atoms, got %d", ErrInvalidConfig, atoms)
	}

	if !positiveFinite(c.Cutsq) {
		return fmt.Errorf("%w: cutoff squared must be positive", ErrInvalidConfig)
	}

	if c.MaxNeighbors < 1 || c.MaxNeighbors >= atoms {
		return fmt.Errorf("%w: max neighbors must be in [1, %d), got %d", ErrInvalidConfig, atoms, c.MaxNeighbors)
	}

	if !positiveFinite(c.LJ1) || !positiveFinite(c.LJ2) {
		return fmt.Errorf("%w: Lennard-Jones coefficients must be positive", ErrInvalidConfig)
	}

	if !positiveFinite(c.Domain) {
		return fmt.Errorf("%w: domain edge must be positive", ErrInvalidConfig)
	}

	if !positiveFinite(c.Eps) {
		return fmt.Errorf("%w: error tolerance must be positive", ErrInvalidConfig)
	}

	if c.Iterations < 1 {
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidConfig)
	}

	if c.Passes < 1 {
		return fmt.Errorf("%w: passes must be at least 1", ErrInvalidConfig)
	}

	if len(c.Precisions) == 0 {
		return fmt.Errorf("%w: no precision selected", ErrInvalidConfig)
	}
	for _, p := range c.Precisions {
		if p != Single && p != Double {
			return fmt.Errorf("%w: unknown precision %v", ErrInvalidConfig, p)
		}
	}

	if !slices.Contains(force.Backends(), c.Backend) {
		return fmt.Errorf("%w: unknown backend %q (have %v)", ErrInvalidConfig, c.Backend, force.Backends())
	}

	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
