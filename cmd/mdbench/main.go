// Command mdbench runs the Lennard-Jones molecular-dynamics force benchmark.
//
// Usage:
//
//	mdbench                                # size class 1, single and double precision
//	mdbench -size 4 -precision dp          # 73728 atoms, double precision only
//	mdbench -nAtom 4096 -backend cpu -v    # custom size on the scalar backend
//	mdbench -config bench.toml -db runs.db # options from file, results archived
//
// The process exits with status 1 if any precision fails its correctness
// check; the other precision is still run and reported.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/tebeka/atexit"

	mdbench "github.com/tphakala/go-md-bench"
	"github.com/tphakala/go-md-bench/internal/config"
	"github.com/tphakala/go-md-bench/internal/report"
)

func main() {
	err := run(os.Args[1:])
	switch {
	case err == nil:
		atexit.Exit(exitOK)
	case errors.Is(err, flag.ErrHelp):
		atexit.Exit(exitOK)
	case errors.Is(err, mdbench.ErrInvalidConfig):
		log.Print(err)
		atexit.Exit(exitUsage)
	default:
		log.Print(err)
		atexit.Exit(exitFailure)
	}
}

func run(args []string) error {
	o, err := parseFlags(args, os.Stderr)
	if err != nil {
		return err
	}

	if o.exampleConfig {
		fmt.Print(config.Example)
		return nil
	}
	if o.listBackends {
		return writeBackends(os.Stdout, o.workers)
	}

	cfg, err := buildConfig(o)
	if err != nil {
		return err
	}
	if o.dumpConfig {
		return config.WriteTOML(os.Stdout, &cfg)
	}

	logger := log.New(io.Discard, "", 0)
	if o.verbose {
		logger = log.Default()
	}

	if o.cpuprofile != "" {
		stop, err := startProfile(o.cpuprofile)
		if err != nil {
			return err
		}
		atexit.Register(stop)
	}

	bench, err := mdbench.New(&cfg, logger)
	if err != nil {
		return err
	}

	p := report.New(os.Stdout)
	p.Config(&cfg)

	db := mdbench.NewResultDatabase()
	started := time.Now()
	outcomes, runErr := bench.Run(db)
	if o.verbose {
		log.Printf("Benchmark finished in %v", time.Since(started).Round(time.Millisecond))
	}

	p.Outcomes(outcomes)
	p.Summary(db.Summary())

	if o.dbPath != "" {
		id, err := saveRun(context.Background(), o.dbPath, &cfg, started, outcomes, db)
		if err != nil {
			return errors.Join(runErr, err)
		}
		fmt.Printf("Saved run %s to %s\n", id, o.dbPath)
	}

	return runErr
}
