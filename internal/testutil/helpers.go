// Package testutil provides reusable test helpers for the neighbor list and
// force kernel tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-4
)

// AssertRelativeError verifies that the relative error between actual and expected is within tolerance.
func AssertRelativeError(t *testing.T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	relError := math.Abs(actual-expected) / math.Abs(expected)
	return assert.LessOrEqual(t, relError, tolerance,
		"relative error %e exceeds tolerance %e (expected=%g, actual=%g)",
		relError, tolerance, expected, actual)
}

// AssertFinite verifies that no component of any vector is NaN or Inf.
func AssertFinite[F simdops.Float](t *testing.T, vs []particle.Vec3[F]) bool {
	t.Helper()
	for i, v := range vs {
		for _, c := range []float64{float64(v.X), float64(v.Y), float64(v.Z)} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return assert.Fail(t, "non-finite vector", "v[%d]=%v", i, v)
			}
		}
	}
	return true
}

// AssertVecsClose verifies that two vector slices agree component-wise to
// within a relative tolerance.
func AssertVecsClose[F simdops.Float](t *testing.T, expected, actual []particle.Vec3[F], tolerance float64) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected)) {
		return false
	}
	for i := range expected {
		e, a := expected[i], actual[i]
		if !AssertRelativeError(t, float64(e.X), float64(a.X), tolerance, "x of %d", i) ||
			!AssertRelativeError(t, float64(e.Y), float64(a.Y), tolerance, "y of %d", i) ||
			!AssertRelativeError(t, float64(e.Z), float64(a.Z), tolerance, "z of %d", i) {
			return false
		}
	}
	return true
}

// AnyNonZero reports whether at least one vector has a non-zero component.
func AnyNonZero[F simdops.Float](vs []particle.Vec3[F]) bool {
	for _, v := range vs {
		if v.X != 0 || v.Y != 0 || v.Z != 0 {
			return true
		}
	}
	return false
}
