package force

import (
	"fmt"
	"sort"

	"github.com/tphakala/go-md-bench/internal/neighbor"
	"github.com/tphakala/go-md-bench/internal/particle"
	"github.com/tphakala/go-md-bench/internal/simdops"
)

// Backend names.
const (
	BackendCPU  = "cpu"
	BackendSIMD = "simd"

	// DefaultBackend is used by Compute.
	DefaultBackend = BackendSIMD
)

// Backend executes the force kernel on one compute target.
//
// Load makes a problem resident on the target (for an accelerator this is
// the host-to-device transfer) and may be timed separately from Compute.
// Compute may be called any number of times after Load; each call
// overwrites every entry of forces. A Backend is not safe for concurrent
// Compute calls.
type Backend[F simdops.Float] interface {
	// Name returns the registry name.
	Name() string

	// Available reports whether the target can run on this host.
	Available() bool

	// Info describes the target for reports.
	Info() string

	// Load stages positions and the neighbor list.
	Load(positions []particle.Vec3[F], list *neighbor.List) error

	// Compute runs repetitions full evaluations into forces.
	Compute(forces []particle.Vec3[F], p Params[F], repetitions int) error

	// Release drops staged data.
	Release()
}

type factory[F simdops.Float] func(workers int) Backend[F]

func registry[F simdops.Float]() map[string]factory[F] {
	return map[string]factory[F]{
		BackendCPU:  func(w int) Backend[F] { return newCPUBackend[F](w) },
		BackendSIMD: func(w int) Backend[F] { return newSIMDBackend[F](w) },
	}
}

// Backends lists the registered backend names in sorted order.
func Backends() []string {
	names := make([]string, 0, len(registry[float64]()))
	for name := range registry[float64]() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBackend returns the backend registered under name. workers bounds the
// goroutines it uses (non-positive selects GOMAXPROCS).
func NewBackend[F simdops.Float](name string, workers int) (Backend[F], error) {
	f, ok := registry[F]()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	b := f(workers)
	if !b.Available() {
		return nil, fmt.Errorf("%w: %q is not available on this host", ErrUnknownBackend, name)
	}
	return b, nil
}
