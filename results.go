package mdbench

import (
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result is one measured value.
type Result struct {
	// Test names the measurement, e.g. "MD-LJ-SP-Bandwidth".
	Test string

	// Attributes qualifies the problem, e.g. "12288_atoms".
	Attributes string

	// Unit is the unit of Value.
	Unit string

	// Trial is the zero-based index of this value among results sharing
	// Test, Attributes and Unit.
	Trial int

	Value float64
}

// Summary aggregates all trials of one measurement.
type Summary struct {
	Test       string
	Attributes string
	Unit       string

	Trials int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

type resultKey struct {
	test, atts, unit string
}

// ResultDatabase collects benchmark results. It is safe for concurrent use.
type ResultDatabase struct {
	mu      sync.Mutex
	results []Result
	trials  map[resultKey]int
}

// NewResultDatabase returns an empty database.
func NewResultDatabase() *ResultDatabase {
	return &ResultDatabase{trials: make(map[resultKey]int)}
}

// AddResult records one value.
func (db *ResultDatabase) AddResult(test, atts, unit string, value float64) {
	db.mu.Lock()
	defer db.mu.Unlock()

	key := resultKey{test, atts, unit}
	db.results = append(db.results, Result{
		Test:       test,
		Attributes: atts,
		Unit:       unit,
		Trial:      db.trials[key],
		Value:      value,
	})
	db.trials[key]++
}

// Results returns a copy of all results in insertion order.
func (db *ResultDatabase) Results() []Result {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]Result, len(db.results))
	copy(out, db.results)
	return out
}

// Len returns the number of recorded values.
func (db *ResultDatabase) Len() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.results)
}

// Summary aggregates trials per measurement, in order of first appearance.
func (db *ResultDatabase) Summary() []Summary {
	results := db.Results()

	var order []resultKey
	values := make(map[resultKey][]float64)
	for _, r := range results {
		key := resultKey{r.Test, r.Attributes, r.Unit}
		if _, ok := values[key]; !ok {
			order = append(order, key)
		}
		values[key] = append(values[key], r.Value)
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		out = append(out, summarize(key, values[key]))
	}
	return out
}

func summarize(key resultKey, xs []float64) Summary {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	s := Summary{
		Test:       key.test,
		Attributes: key.atts,
		Unit:       key.unit,
		Trials:     len(xs),
		Min:        floats.Min(sorted),
		Max:        floats.Max(sorted),
		Mean:       stat.Mean(sorted, nil),
		Median:     stat.Quantile(0.5, stat.Empirical, sorted, nil),
	}
	if len(xs) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}
