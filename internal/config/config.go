// Package config reads benchmark configuration files.
//
// Two formats are accepted, chosen by file extension: TOML (.toml) with a
// [benchmark] table, and git-config style INI (.ini, .gcfg, .cfg) with a
// [benchmark] section. TOML keys are snake_case (max_neighbors); INI
// variable names match case-insensitively (maxNeighbors). Keys left out of
// the file keep the value they had in the configuration passed to [Apply].
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/gcfg.v1"

	mdbench "github.com/tphakala/go-md-bench"
)

var (
	// ErrUnsupportedFormat is returned for file extensions other than the
	// ones listed in the package documentation.
	ErrUnsupportedFormat = errors.New("unsupported config file format")

	// ErrUnknownKey is returned when a TOML file sets a key that is not a
	// benchmark option.
	ErrUnknownKey = errors.New("unknown config key")
)

// Example is a commented INI configuration listing every option at its
// default value.
const Example = `[benchmark]

# Problem size class 1-4 selects 12288, 24576, 36864 or 73728 atoms.
sizeClass = 1
# A positive atom count overrides sizeClass.
# atoms = 4096

# Squared cutoff distance and neighbor list length.
cutsq = 16
maxNeighbors = 128

# Edge length of the cube particles are placed in.
domain = 20

# Relative error tolerance of the correctness check.
eps = 0.1

# Kernel repetitions per timed pass, and the number of passes.
iterations = 100
passes = 10

seed = 8650341

# Lennard-Jones coefficients.
lj1 = 1.5
lj2 = 2.0

# sp, dp, or both.
precision = both

# Force backend: cpu or simd.
backend = simd

# Goroutines used by the builder and the kernel. 0 uses every CPU.
workers = 0
`

// Section holds the options of the [benchmark] section.
type Section struct {
	SizeClass    int     `toml:"size_class"`
	Atoms        int     `toml:"atoms"`
	Cutsq        float64 `toml:"cutsq"`
	MaxNeighbors int     `toml:"max_neighbors"`
	Domain       float64 `toml:"domain"`
	Eps          float64 `toml:"eps"`
	Iterations   int     `toml:"iterations"`
	Passes       int     `toml:"passes"`
	Seed         int64   `toml:"seed"`
	LJ1          float64 `toml:"lj1"`
	LJ2          float64 `toml:"lj2"`
	Precision    string  `toml:"precision"`
	Backend      string  `toml:"backend"`
	Workers      int     `toml:"workers"`
}

// File is the top level of a configuration file.
type File struct {
	Benchmark Section `toml:"benchmark"`
}

// FromConfig returns the file representation of cfg.
func FromConfig(cfg *mdbench.Config) File {
	return File{Benchmark: Section{
		SizeClass:    cfg.SizeClass,
		Atoms:        cfg.NumAtoms,
		Cutsq:        cfg.Cutsq,
		MaxNeighbors: cfg.MaxNeighbors,
		Domain:       cfg.Domain,
		Eps:          cfg.Eps,
		Iterations:   cfg.Iterations,
		Passes:       cfg.Passes,
		Seed:         int64(cfg.Seed),
		LJ1:          cfg.LJ1,
		LJ2:          cfg.LJ2,
		Precision:    precisionString(cfg.Precisions),
		Backend:      cfg.Backend,
		Workers:      cfg.Workers,
	}}
}

// Apply reads path and overwrites the options it sets in cfg. The result is
// not validated. Every error Apply returns wraps [mdbench.ErrInvalidConfig].
func Apply(cfg *mdbench.Config, path string) error {
	f := FromConfig(cfg)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.DecodeFile(path, &f)
		if err != nil {
			return fmt.Errorf("%w: failed to decode TOML file: %w", mdbench.ErrInvalidConfig, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("%w: %w: %s in %s", mdbench.ErrInvalidConfig, ErrUnknownKey, undecoded[0], path)
		}
	case ".ini", ".gcfg", ".cfg":
		if err := gcfg.ReadFileInto(&f, path); err != nil {
			return fmt.Errorf("%w: failed to read config file: %w", mdbench.ErrInvalidConfig, err)
		}
	default:
		return fmt.Errorf("%w: %w: %q", mdbench.ErrInvalidConfig, ErrUnsupportedFormat, filepath.Ext(path))
	}

	return f.apply(cfg)
}

func (f *File) apply(cfg *mdbench.Config) error {
	s := &f.Benchmark
	if s.Seed < 0 {
		return fmt.Errorf("%w: seed must not be negative", mdbench.ErrInvalidConfig)
	}
	precisions, err := mdbench.ParsePrecisions(s.Precision)
	if err != nil {
		return err
	}

	cfg.SizeClass = s.SizeClass
	cfg.NumAtoms = s.Atoms
	cfg.Cutsq = s.Cutsq
	cfg.MaxNeighbors = s.MaxNeighbors
	cfg.Domain = s.Domain
	cfg.Eps = s.Eps
	cfg.Iterations = s.Iterations
	cfg.Passes = s.Passes
	cfg.Seed = uint64(s.Seed)
	cfg.LJ1 = s.LJ1
	cfg.LJ2 = s.LJ2
	cfg.Precisions = precisions
	cfg.Backend = s.Backend
	cfg.Workers = s.Workers
	return nil
}

// WriteTOML encodes cfg as a TOML configuration file.
func WriteTOML(w io.Writer, cfg *mdbench.Config) error {
	f := FromConfig(cfg)
	if err := toml.NewEncoder(w).Encode(f); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

func precisionString(ps []mdbench.Precision) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = strings.ToLower(p.String())
	}
	return strings.Join(parts, ",")
}
