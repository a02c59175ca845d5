// Package metrics converts a problem shape and measured times into the
// throughput figures reported by the benchmark.
package metrics

import (
	"time"
)

// Operation counts per neighbor slot.
const (
	// flopsPerSlot covers the distance computation done for every listed
	// neighbor: three subtractions, three multiplies, two adds.
	flopsPerSlot = 8

	// flopsPerPair covers the force evaluation for a pair inside the cutoff.
	flopsPerPair = 13

	// coordsPerVec is the number of components in a position or force.
	coordsPerVec = 3

	// bytesPerIndex is the width of one neighbor list entry.
	bytesPerIndex = 4
)

// bytesPerGB converts bytes to the binary gigabytes used in reports.
const bytesPerGB = 1024.0 * 1024.0 * 1024.0

// Work is the operation and memory-traffic count of one kernel repetition.
type Work struct {
	Flops float64
	Bytes int64
}

// NewWork counts one repetition over n particles with k neighbor slots each,
// pairs of which lie within the cutoff, for elements elemSize bytes wide.
func NewWork(n, k, pairs, elemSize int) Work {
	slots := int64(n) * int64(k)
	flops := float64(flopsPerSlot)*float64(slots) + float64(flopsPerPair)*float64(pairs)

	vec := int64(coordsPerVec * elemSize)
	bytes := vec*(1+slots) + // neighbor positions plus the particle's own
		vec*int64(n) + // one force per particle
		bytesPerIndex*slots // neighbor list

	return Work{Flops: flops, Bytes: bytes}
}

// GFlop returns the operation count in units of 1e9.
func (w Work) GFlop() float64 {
	return w.Flops * 1e-9
}

// GB returns the memory traffic in binary gigabytes.
func (w Work) GB() float64 {
	return float64(w.Bytes) / bytesPerGB
}

// Rates are the figures reported for one timed pass.
type Rates struct {
	// GFLOPS counts kernel time only.
	GFLOPS float64
	// GFLOPSTransfer includes the one-off load time.
	GFLOPSTransfer float64
	// Bandwidth in GB/s over kernel time.
	Bandwidth float64
	// BandwidthTransfer in GB/s including load time.
	BandwidthTransfer float64
	// Parity is transfer time divided by kernel time.
	Parity float64
}

// NewRates derives pass rates from the per-repetition kernel time and the
// time it took to load the problem onto the backend.
func NewRates(w Work, kernel, transfer time.Duration) Rates {
	k := kernel.Seconds()
	total := k + transfer.Seconds()

	var r Rates
	if k > 0 {
		r.GFLOPS = w.GFlop() / k
		r.Bandwidth = w.GB() / k
		r.Parity = transfer.Seconds() / k
	}
	if total > 0 {
		r.GFLOPSTransfer = w.GFlop() / total
		r.BandwidthTransfer = w.GB() / total
	}
	return r
}
