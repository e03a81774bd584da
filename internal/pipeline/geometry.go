package pipeline

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/planar"
)

// paths flattens a geometry into vertex chains. A point becomes a chain of one vertex.
func paths(g orb.Geometry) [][]orb.Point {
	switch t := g.(type) {
	case nil:
		return nil
	case orb.Point:
		return [][]orb.Point{{t}}
	case orb.MultiPoint:
		out := make([][]orb.Point, 0, len(t))
		for _, p := range t {
			out = append(out, []orb.Point{p})
		}
		return out
	case orb.LineString:
		return [][]orb.Point{t}
	case orb.MultiLineString:
		out := make([][]orb.Point, 0, len(t))
		for _, ls := range t {
			out = append(out, ls)
		}
		return out
	case orb.Ring:
		return [][]orb.Point{t}
	case orb.Polygon:
		out := make([][]orb.Point, 0, len(t))
		for _, r := range t {
			out = append(out, r)
		}
		return out
	case orb.MultiPolygon:
		var out [][]orb.Point
		for _, p := range t {
			out = append(out, paths(p)...)
		}
		return out
	case orb.Collection:
		var out [][]orb.Point
		for _, c := range t {
			out = append(out, paths(c)...)
		}
		return out
	case orb.Bound:
		return paths(t.ToRing())
	}
	return nil
}

// geometryDistance returns the planar distance between two geometries, 0 when they touch.
// Polygons are treated by their boundaries.
func geometryDistance(a, b orb.Geometry) float64 {
	pa, pb := paths(a), paths(b)
	if len(pa) == 0 || len(pb) == 0 {
		return math.Inf(1)
	}

	for _, x := range pa {
		for _, y := range pb {
			if chainsIntersect(x, y) {
				return 0
			}
		}
	}

	best := math.Inf(1)
	for _, x := range pa {
		for _, y := range pb {
			if d := chainDistance(x, y); d < best {
				best = d
			}
			if d := chainDistance(y, x); d < best {
				best = d
			}
		}
	}
	return best
}

// chainDistance is the minimum distance from the vertices of a to the chain b.
func chainDistance(a, b []orb.Point) float64 {
	best := math.Inf(1)
	for _, p := range a {
		if len(b) == 1 {
			if d := planar.Distance(p, b[0]); d < best {
				best = d
			}
			continue
		}
		for i := 0; i+1 < len(b); i++ {
			if d := planar.DistanceFromSegment(b[i], b[i+1], p); d < best {
				best = d
			}
		}
	}
	return best
}

func chainsIntersect(a, b []orb.Point) bool {
	if len(a) < 2 || len(b) < 2 {
		return false
	}
	for i := 0; i+1 < len(a); i++ {
		for j := 0; j+1 < len(b); j++ {
			if segmentsIntersect(a[i], a[i+1], b[j], b[j+1]) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 orb.Point) bool {
	d1 := orientation(q1, q2, p1)
	d2 := orientation(q1, q2, p2)
	d3 := orientation(p1, p2, q1)
	d4 := orientation(p1, p2, q2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	switch {
	case d1 == 0 && onSegment(q1, q2, p1):
		return true
	case d2 == 0 && onSegment(q1, q2, p2):
		return true
	case d3 == 0 && onSegment(p1, p2, q1):
		return true
	case d4 == 0 && onSegment(p1, p2, q2):
		return true
	}
	return false
}

func orientation(a, b, c orb.Point) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p orb.Point) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}

// geometryKey returns the WKB encoding of a geometry, used as an exact identity key.
func geometryKey(g orb.Geometry) (string, error) {
	if g == nil {
		return "", nil
	}
	b, err := wkb.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

const maxGridCells = 64

// segmentIndex is a uniform grid over geometry bounds for candidate lookups.
type segmentIndex struct {
	bound  orb.Bound
	nx, ny int
	cellW  float64
	cellH  float64
	cells  map[int][]int
	bounds []orb.Bound
}

func newSegmentIndex(geoms []orb.Geometry) *segmentIndex {
	idx := &segmentIndex{cells: make(map[int][]int), bounds: make([]orb.Bound, len(geoms))}
	first := true
	for i, g := range geoms {
		if g == nil {
			continue
		}
		b := g.Bound()
		idx.bounds[i] = b
		if first {
			idx.bound = b
			first = false
			continue
		}
		idx.bound = idx.bound.Union(b)
	}

	n := int(math.Ceil(math.Sqrt(float64(len(geoms)))))
	if n > maxGridCells {
		n = maxGridCells
	}
	if n < 1 {
		n = 1
	}
	idx.nx, idx.ny = n, n
	idx.cellW = (idx.bound.Max[0] - idx.bound.Min[0]) / float64(n)
	idx.cellH = (idx.bound.Max[1] - idx.bound.Min[1]) / float64(n)
	if idx.cellW <= 0 {
		idx.nx = 1
	}
	if idx.cellH <= 0 {
		idx.ny = 1
	}

	for i, g := range geoms {
		if g == nil {
			continue
		}
		x0, y0, x1, y1 := idx.cellRange(idx.bounds[i])
		for x := x0; x <= x1; x++ {
			for y := y0; y <= y1; y++ {
				key := y*idx.nx + x
				idx.cells[key] = append(idx.cells[key], i)
			}
		}
	}
	return idx
}

func (s *segmentIndex) cell(v, min, size float64, n int) int {
	if n == 1 || size <= 0 {
		return 0
	}
	c := int((v - min) / size)
	if c < 0 {
		return 0
	}
	if c >= n {
		return n - 1
	}
	return c
}

func (s *segmentIndex) cellRange(b orb.Bound) (int, int, int, int) {
	return s.cell(b.Min[0], s.bound.Min[0], s.cellW, s.nx),
		s.cell(b.Min[1], s.bound.Min[1], s.cellH, s.ny),
		s.cell(b.Max[0], s.bound.Min[0], s.cellW, s.nx),
		s.cell(b.Max[1], s.bound.Min[1], s.cellH, s.ny)
}

// candidates returns, in ascending order, the indexes whose bounds lie within pad of b.
func (s *segmentIndex) candidates(b orb.Bound, pad float64) []int {
	query := b.Pad(pad)
	if !query.Intersects(s.bound) {
		return nil
	}

	seen := make(map[int]struct{})
	x0, y0, x1, y1 := s.cellRange(query)
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			for _, i := range s.cells[y*s.nx+x] {
				if _, ok := seen[i]; ok {
					continue
				}
				if query.Intersects(s.bounds[i]) {
					seen[i] = struct{}{}
				}
			}
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
