package neighbor

import (
	"fmt"
	"testing"

	"github.com/tphakala/go-md-bench/internal/particle"
)

func BenchmarkBuild(b *testing.B) {
	for _, n := range []int{1024, 4096} {
		b.Run(fmt.Sprintf("atoms_%d", n), func(b *testing.B) {
			positions := particle.Random[float32](n, testDomain, testSeed)

			b.ReportAllocs()
			for b.Loop() {
				if _, _, err := Build(positions, float32(testCutsq), 128, 0); err != nil {
					b.Fatalf("Build failed: %v", err)
				}
			}
		})
	}
}
