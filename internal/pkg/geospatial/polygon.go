package geospatial

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// PointInPolygon reports whether (x, y) lies inside ring using even-odd ray
// casting. Points exactly on an edge may land on either side. Rings with
// fewer than three points contain nothing.
func PointInPolygon(x, y float64, ring orb.Ring) bool {
	n := len(ring)
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// ConvexHull returns the convex hull of points as a closed ring in
// counter-clockwise order, using Andrew's monotone chain. Collinear boundary
// points are dropped. Fewer than three points are returned unchanged.
func ConvexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return append(orb.Ring(nil), points...)
	}

	sorted := append([]orb.Point(nil), points...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	lower := make([]orb.Point, 0, len(sorted))
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	upper := make([]orb.Point, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	// Each chain ends where the other starts.
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	return closeRing(orb.Ring(hull))
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// BufferPolygon offsets each vertex of a planar ring (grid metres) by meters
// along the average of its two adjacent edge normals, choosing the outward
// side from the ring's winding. Results are rounded to whole metres and the
// ring is closed.
//
// This is a vertex offset rather than a true buffer: concave or sharply
// curved input can self-intersect. It is meant for convex hulls.
func BufferPolygon(ring orb.Ring, meters float64) orb.Ring {
	pts := openPoints(ring)
	n := len(pts)
	if n == 0 {
		return orb.Ring{}
	}

	// Right-hand normals point outward on a counter-clockwise ring.
	side := 1.0
	if signedArea(pts) < 0 {
		side = -1
	}

	out := make(orb.Ring, 0, n+1)
	for i, cur := range pts {
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]

		t1 := unit(cur[0]-prev[0], cur[1]-prev[1])
		t2 := unit(next[0]-cur[0], next[1]-cur[1])
		tx, ty := (t1[0]+t2[0])/2, (t1[1]+t2[1])/2
		normal := unit(side*ty, -side*tx)

		out = append(out, orb.Point{
			math.Round(cur[0] + normal[0]*meters),
			math.Round(cur[1] + normal[1]*meters),
		})
	}
	return closeRing(out)
}

// unit normalizes (x, y); a zero vector stays zero.
func unit(x, y float64) [2]float64 {
	l := math.Hypot(x, y)
	if l == 0 {
		return [2]float64{}
	}
	return [2]float64{x / l, y / l}
}

// signedArea is twice the shoelace area of an open ring; positive means
// counter-clockwise.
func signedArea(pts []orb.Point) float64 {
	var a float64
	for i := range pts {
		j := (i + 1) % len(pts)
		a += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return a
}

// DedupeConsecutive drops points equal to their predecessor.
func DedupeConsecutive(points []orb.Point) []orb.Point {
	out := make([]orb.Point, 0, len(points))
	for i, p := range points {
		if i > 0 && p.Equal(points[i-1]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// openPoints returns ring without its closing point, if it has one.
func openPoints(ring orb.Ring) []orb.Point {
	if len(ring) > 1 && ring[0].Equal(ring[len(ring)-1]) {
		return ring[:len(ring)-1]
	}
	return ring
}

func closeRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && !r[0].Equal(r[len(r)-1]) {
		r = append(r, r[0])
	}
	return r
}
