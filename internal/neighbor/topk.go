package neighbor

import (
	"math"
	"sort"

	"github.com/tphakala/go-md-bench/internal/simdops"
)

// topK keeps the k smallest distances seen so far together with their
// particle indices, both ascending by distance. Storage is fixed at k
// entries and reused across particles by reset.
type topK[F simdops.Float] struct {
	dist []F
	idx  []int32
}

func newTopK[F simdops.Float](k int) *topK[F] {
	t := &topK[F]{
		dist: make([]F, k),
		idx:  make([]int32, k),
	}
	t.reset()
	return t
}

// reset fills the list with +Inf distances and Sentinel indices.
func (t *topK[F]) reset() {
	inf := F(math.Inf(1))
	for i := range t.dist {
		t.dist[i] = inf
		t.idx[i] = Sentinel
	}
}

// worst returns the current largest retained distance.
func (t *topK[F]) worst() F {
	return t.dist[len(t.dist)-1]
}

// insert offers candidate j at squared distance d. Candidates farther than
// the current worst are rejected without scanning. Otherwise d goes in
// front of the first entry strictly greater than it and the last entry is
// dropped; on ties the earlier candidate keeps its place.
func (t *topK[F]) insert(j int32, d F) {
	if d > t.worst() {
		return
	}

	pos := -1
	for p, cur := range t.dist {
		if d < cur {
			pos = p
			break
		}
	}
	if pos < 0 {
		return
	}

	copy(t.dist[pos+1:], t.dist[pos:len(t.dist)-1])
	copy(t.idx[pos+1:], t.idx[pos:len(t.idx)-1])
	t.dist[pos] = d
	t.idx[pos] = j
}

// Len, Less and Swap order both slices together by distance.
func (t *topK[F]) Len() int           { return len(t.dist) }
func (t *topK[F]) Less(a, b int) bool { return t.dist[a] < t.dist[b] }
func (t *topK[F]) Swap(a, b int) {
	t.dist[a], t.dist[b] = t.dist[b], t.dist[a]
	t.idx[a], t.idx[b] = t.idx[b], t.idx[a]
}

// within counts retained entries strictly closer than cutsq.
func (t *topK[F]) within(cutsq F) int {
	n := 0
	for _, d := range t.dist {
		if d < cutsq {
			n++
		}
	}
	return n
}

// finish re-sorts by distance (a no-op for lists built through insert)
// and copies the indices into row.
func (t *topK[F]) finish(row []int32) {
	sort.Stable(t)
	copy(row, t.idx)
}
