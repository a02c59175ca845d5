package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"time"

	"github.com/google/uuid"

	mdbench "github.com/tphakala/go-md-bench"
	"github.com/tphakala/go-md-bench/internal/config"
	"github.com/tphakala/go-md-bench/internal/force"
	"github.com/tphakala/go-md-bench/internal/store"
)

// options holds the parsed command line.
type options struct {
	size         int
	nAtom        int
	cutsq        float64
	maxNeighbors int
	domain       float64
	eps          float64
	iterations   int
	passes       int
	seed         uint64
	precision    string
	backend      string
	workers      int

	configPath    string
	dbPath        string
	cpuprofile    string
	dumpConfig    bool
	exampleConfig bool
	listBackends  bool
	verbose       bool

	// set records the flags given explicitly.
	set map[string]bool
}

// parseFlags parses args (without the program name).
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	def := mdbench.DefaultConfig()
	o := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("mdbench", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.IntVar(&o.size, "size", def.SizeClass, "Problem size class 1-4 (12288, 24576, 36864, 73728 atoms)")
	fs.IntVar(&o.nAtom, "nAtom", 0, "Number of atoms, overrides -size when positive")
	fs.Float64Var(&o.cutsq, "cutsq", def.Cutsq, "Squared cutoff distance")
	fs.IntVar(&o.maxNeighbors, "maxNeighbors", def.MaxNeighbors, "Neighbor list length")
	fs.Float64Var(&o.domain, "domain", def.Domain, "Edge length of the particle domain")
	fs.Float64Var(&o.eps, "eps", def.Eps, "Relative error tolerance of the correctness check")
	fs.IntVar(&o.iterations, "iterations", def.Iterations, "Kernel repetitions per timed pass")
	fs.IntVar(&o.passes, "passes", def.Passes, "Number of timed passes")
	fs.Uint64Var(&o.seed, "seed", def.Seed, "Random seed for particle placement")
	fs.StringVar(&o.precision, "precision", "both", "Precisions to run: sp, dp, both")
	fs.StringVar(&o.backend, "backend", def.Backend, "Force backend (see -list-backends)")
	fs.IntVar(&o.workers, "workers", 0, "Goroutines for the builder and kernel (0 = all CPUs)")

	fs.StringVar(&o.configPath, "config", "", "Read options from a .toml or .ini file; flags take precedence")
	fs.StringVar(&o.dbPath, "db", "", "Append results to this SQLite database")
	fs.StringVar(&o.cpuprofile, "cpuprofile", "", "Write CPU profile to file")
	fs.BoolVar(&o.dumpConfig, "dump-config", false, "Print the effective configuration as TOML and exit")
	fs.BoolVar(&o.exampleConfig, "example-config", false, "Print a commented example configuration and exit")
	fs.BoolVar(&o.listBackends, "list-backends", false, "List force backends and exit")
	fs.BoolVar(&o.verbose, "v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: mdbench [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mdbench -size 2                      # 24576 atoms, both precisions\n")
		fmt.Fprintf(stderr, "  mdbench -precision sp -backend cpu   # scalar single precision only\n")
		fmt.Fprintf(stderr, "  mdbench -config bench.toml -db runs.db\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// buildConfig layers the config file and explicit flags over the defaults
// and validates the result.
func buildConfig(o *options) (mdbench.Config, error) {
	cfg := mdbench.DefaultConfig()
	if o.configPath != "" {
		if err := config.Apply(&cfg, o.configPath); err != nil {
			return cfg, err
		}
	}

	if o.set["size"] {
		cfg.SizeClass = o.size
		cfg.NumAtoms = 0
	}
	if o.set["nAtom"] {
		cfg.NumAtoms = o.nAtom
	}
	if o.set["cutsq"] {
		cfg.Cutsq = o.cutsq
	}
	if o.set["maxNeighbors"] {
		cfg.MaxNeighbors = o.maxNeighbors
	}
	if o.set["domain"] {
		cfg.Domain = o.domain
	}
	if o.set["eps"] {
		cfg.Eps = o.eps
	}
	if o.set["iterations"] {
		cfg.Iterations = o.iterations
	}
	if o.set["passes"] {
		cfg.Passes = o.passes
	}
	if o.set["seed"] {
		cfg.Seed = o.seed
	}
	if o.set["precision"] {
		ps, err := mdbench.ParsePrecisions(o.precision)
		if err != nil {
			return cfg, err
		}
		cfg.Precisions = ps
	}
	if o.set["backend"] {
		cfg.Backend = o.backend
	}
	if o.set["workers"] {
		cfg.Workers = o.workers
	}

	return cfg, cfg.Validate()
}

// writeBackends lists the registered backends with their description on
// this host.
func writeBackends(w io.Writer, workers int) error {
	for _, name := range force.Backends() {
		b, err := force.NewBackend[float32](name, workers)
		if err != nil {
			return err
		}
		status := "available"
		if !b.Available() {
			status = "unavailable"
		}
		fmt.Fprintf(w, "%-6s %-11s %s\n", name, status, b.Info())
	}
	return nil
}

// startProfile starts CPU profiling into path and returns the function
// that stops it.
func startProfile(path string) (func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, profileFileMode)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// saveRun stores one run in the database at path and returns its id.
func saveRun(ctx context.Context, path string, cfg *mdbench.Config, started time.Time,
	outcomes []mdbench.Outcome, db *mdbench.ResultDatabase) (string, error) {
	s, err := store.Open(path)
	if err != nil {
		return "", err
	}
	defer s.Close()

	run := &store.Run{
		ID:       uuid.NewString(),
		Started:  started,
		Config:   *cfg,
		Outcomes: outcomes,
		Results:  db.Results(),
	}
	if err := s.SaveRun(ctx, run); err != nil {
		return "", err
	}
	return run.ID, nil
}
