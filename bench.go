package mdbench

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/tphakala/go-md-bench/internal/force"
	"github.com/tphakala/go-md-bench/internal/metrics"
	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// Outcome describes one precision variant of a run.
type Outcome struct {
	// TestName is the base result name, e.g. "MD-LJ-SP".
	TestName  string
	Precision Precision

	Atoms        int
	MaxNeighbors int

	// PairsWithinCutoff counts listed pairs closer than the cutoff.
	PairsWithinCutoff int

	// Work is the operation and traffic count of one kernel repetition.
	Work metrics.Work

	Backend     string
	BackendInfo string

	BuildTime    time.Duration
	TransferTime time.Duration

	// PassesRun is zero when the correctness check failed.
	PassesRun int

	// Err is the failure that stopped this variant, if any.
	Err error
}

// Slots returns Atoms*MaxNeighbors.
func (o *Outcome) Slots() int {
	return o.Atoms * o.MaxNeighbors
}

// PairFraction returns the share of neighbor slots inside the cutoff.
func (o *Outcome) PairFraction() float64 {
	if o.Slots() == 0 {
		return 0
	}
	return float64(o.PairsWithinCutoff) / float64(o.Slots())
}

// Benchmark runs the Lennard-Jones force benchmark for a fixed
// configuration.
type Benchmark struct {
	config Config
	logger *log.Logger
}

// New validates config and returns a benchmark. A nil logger discards
// progress output.
func New(config *Config, logger *log.Logger) (*Benchmark, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	cfg := *config
	cfg.Precisions = append([]Precision(nil), config.Precisions...)
	return &Benchmark{config: cfg, logger: logger}, nil
}

// Config returns a copy of the validated configuration.
func (b *Benchmark) Config() Config {
	return b.config
}

// Run executes every configured precision in order, recording pass results
// in db. A nil db runs the passes without recording them. A variant that
// fails does not stop the others; the returned error joins all variant
// failures.
func (b *Benchmark) Run(db *ResultDatabase) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(b.config.Precisions))
	var errs []error

	for _, p := range b.config.Precisions {
		o := b.RunPrecision(p, db)
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.TestName, o.Err))
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, errors.Join(errs...)
}

// RunPrecision executes one precision variant. db may be nil, as for
// [Benchmark.Run].
func (b *Benchmark) RunPrecision(p Precision, db *ResultDatabase) Outcome {
	switch p {
	case Single:
		return runVariant[float32](b, p, db)
	case Double:
		return runVariant[float64](b, p, db)
	default:
		return Outcome{
			TestName:  testNamePrefix + p.String(),
			Precision: p,
			Err:       fmt.Errorf("%w: unknown precision %v", ErrInvalidConfig, p),
		}
	}
}

func runVariant[F simdops.Float](b *Benchmark, prec Precision, db *ResultDatabase) Outcome {
	cfg := &b.config
	logger := b.logger

	out := Outcome{
		TestName:     testNamePrefix + prec.String(),
		Precision:    prec,
		Atoms:        cfg.Atoms(),
		MaxNeighbors: cfg.MaxNeighbors,
		Backend:      cfg.Backend,
	}

	logger.Printf("%s: initializing %d atoms, %d neighbors each", out.TestName, out.Atoms, out.MaxNeighbors)
	positions := particle.Random[F](out.Atoms, cfg.Domain, cfg.Seed)
	params := force.Params[F]{Cutsq: F(cfg.Cutsq), LJ1: F(cfg.LJ1), LJ2: F(cfg.LJ2)}

	start := time.Now()
	list, pairs, err := neighbor.Build(positions, params.Cutsq, cfg.MaxNeighbors, cfg.Workers)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		return out
	}
	out.BuildTime = time.Since(start)
	out.PairsWithinCutoff = pairs
	logger.Printf("%s: %d of %d pairs within cutoff distance = %.2f %%",
		out.TestName, pairs, out.Slots(), percentScale*out.PairFraction())

	backend, err := force.NewBackend[F](cfg.Backend, cfg.Workers)
	if err != nil {
		out.Err = fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		return out
	}
	defer backend.Release()

	// Warm up and check correctness before anything is timed.
	forces := make([]particle.Vec3[F], out.Atoms)
	if err := backend.Load(positions, list); err != nil {
		out.Err = err
		return out
	}
	out.BackendInfo = backend.Info()
	if err := backend.Compute(forces, params, 1); err != nil {
		out.Err = err
		return out
	}

	logger.Printf("%s: performing correctness check", out.TestName)
	if err := force.Check(forces, positions, list, params, cfg.Eps); err != nil {
		logger.Printf("%s: correctness check failed, skipping performance tests: %v", out.TestName, err)
		out.Err = err
		return out
	}
	logger.Printf("%s: correctness check passed", out.TestName)

	start = time.Now()
	if err := backend.Load(positions, list); err != nil {
		out.Err = err
		return out
	}
	out.TransferTime = time.Since(start)

	out.Work = metrics.NewWork(out.Atoms, out.MaxNeighbors, pairs, simdops.SizeOf[F]())
	atts := fmt.Sprintf("%d_atoms", out.Atoms)

	for pass := range cfg.Passes {
		start := time.Now()
		if err := backend.Compute(forces, params, cfg.Iterations); err != nil {
			out.Err = err
			return out
		}
		kernel := time.Since(start) / time.Duration(cfg.Iterations)

		r := metrics.NewRates(out.Work, kernel, out.TransferTime)
		if db != nil {
			db.AddResult(out.TestName, atts, unitGFLOPS, r.GFLOPS)
			db.AddResult(out.TestName+suffixTransfer, atts, unitGFLOPS, r.GFLOPSTransfer)
			db.AddResult(out.TestName+suffixBW, atts, unitGBs, r.Bandwidth)
			db.AddResult(out.TestName+suffixBWXfer, atts, unitGBs, r.BandwidthTransfer)
			db.AddResult(out.TestName+suffixParity, atts, unitRatio, r.Parity)
		}

		out.PassesRun++
		logger.Printf("%s: pass %d/%d %.3f GFLOPS, %.3f GB/s", out.TestName, pass+1, cfg.Passes, r.GFLOPS, r.Bandwidth)
	}

	return out
}
