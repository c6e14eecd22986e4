package weather

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

type neighbor struct {
	i int
	d float64
}

// bucketIndex is a uniform grid of buckets over sample locations, holding
// about one location per bucket
type bucketIndex struct {
	points  []orb.Point
	bound   orb.Bound
	size    float64
	nx, ny  int
	buckets [][]int
}

func newBucketIndex(points []orb.Point) *bucketIndex {
	bound := orb.MultiPoint(points).Bound()
	w := bound.Max.X() - bound.Min.X()
	h := bound.Max.Y() - bound.Min.Y()

	size := math.Sqrt(w * h / float64(len(points)))
	if size <= 0 || math.IsNaN(size) {
		size = math.Max(w, h) / float64(len(points))
	}
	if size <= 0 || math.IsNaN(size) {
		size = 1
	}

	b := &bucketIndex{
		points: points,
		bound:  bound,
		size:   size,
		nx:     int(w/size) + 1,
		ny:     int(h/size) + 1,
	}
	b.buckets = make([][]int, b.nx*b.ny)
	for i, p := range points {
		x, y := b.cell(p)
		b.buckets[y*b.nx+x] = append(b.buckets[y*b.nx+x], i)
	}
	return b
}

func clamp(v int, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func (b *bucketIndex) cell(p orb.Point) (int, int) {
	x := int(math.Floor((p.X() - b.bound.Min.X()) / b.size))
	y := int(math.Floor((p.Y() - b.bound.Min.Y()) / b.size))
	return clamp(x, b.nx), clamp(y, b.ny)
}

func less(a, b neighbor) bool {
	if a.d != b.d {
		return a.d < b.d
	}
	return a.i < b.i
}

func (b *bucketIndex) visit(p orb.Point, x int, y int, k int, best []neighbor) []neighbor {
	if x < 0 || x >= b.nx || y < 0 || y >= b.ny {
		return best
	}
	for _, i := range b.buckets[y*b.nx+x] {
		n := neighbor{i: i, d: planar.Distance(p, b.points[i])}
		if len(best) == k && !less(n, best[k-1]) {
			continue
		}
		at := sort.Search(len(best), func(j int) bool { return less(n, best[j]) })
		if len(best) < k {
			best = append(best, neighbor{})
		}
		copy(best[at+1:], best[at:len(best)-1])
		best[at] = n
	}
	return best
}

// nearest returns the k closest locations by planar degree distance, ties
// broken by location order
func (b *bucketIndex) nearest(p orb.Point, k int) []neighbor {
	if k > len(b.points) {
		k = len(b.points)
	}
	best := make([]neighbor, 0, k)

	cx, cy := b.cell(p)
	maxRing := b.nx
	if b.ny > maxRing {
		maxRing = b.ny
	}

	for r := 0; r <= maxRing; r++ {
		if r == 0 {
			best = b.visit(p, cx, cy, k, best)
		} else {
			for x := cx - r; x <= cx+r; x++ {
				best = b.visit(p, x, cy-r, k, best)
				best = b.visit(p, x, cy+r, k, best)
			}
			for y := cy - r + 1; y <= cy+r-1; y++ {
				best = b.visit(p, cx-r, y, k, best)
				best = b.visit(p, cx+r, y, k, best)
			}
		}
		// nothing beyond the next ring is closer than r buckets
		if len(best) == k && best[k-1].d <= float64(r)*b.size {
			break
		}
	}
	return best
}
