package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

// WayJoinTolerance is how close, in degrees per axis, two way ends must be to
// count as joined.
const WayJoinTolerance = 0.0001

// OrderWays stitches the outer ways of a multipolygon into one continuous
// chain. Starting from the first way it repeatedly appends the unused way
// whose start (or, reversed, whose end) meets the current tail. When nothing
// connects, the first unused way is appended as-is and counted as a gap.
//
// Empty ways are skipped. The returned slice holds copies; input ways are not
// modified.
func OrderWays(ways []orb.LineString) ([]orb.LineString, int) {
	remaining := make([]orb.LineString, 0, len(ways))
	for _, w := range ways {
		if len(w) > 0 {
			remaining = append(remaining, w)
		}
	}
	if len(remaining) == 0 {
		return nil, 0
	}

	ordered := []orb.LineString{cloneLine(remaining[0])}
	remaining = remaining[1:]
	gaps := 0

	for len(remaining) > 0 {
		tail := ordered[len(ordered)-1]
		end := tail[len(tail)-1]

		idx, reverse := -1, false
		for i, w := range remaining {
			if near(w[0], end) {
				idx = i
				break
			}
			if near(w[len(w)-1], end) {
				idx, reverse = i, true
				break
			}
		}

		if idx < 0 {
			gaps++
			idx = 0
		}

		next := cloneLine(remaining[idx])
		if reverse {
			next.Reverse()
		}
		ordered = append(ordered, next)
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	return ordered, gaps
}

// FlattenWays concatenates ordered ways into one ring, dropping repeated
// junction points and closing the result.
func FlattenWays(ways []orb.LineString) orb.Ring {
	var pts []orb.Point
	for _, w := range ways {
		pts = append(pts, w...)
	}
	pts = DedupeConsecutive(pts)
	return closeRing(orb.Ring(pts))
}

func near(a, b orb.Point) bool {
	return math.Abs(a[0]-b[0]) < WayJoinTolerance && math.Abs(a[1]-b[1]) < WayJoinTolerance
}

func cloneLine(ls orb.LineString) orb.LineString {
	return append(orb.LineString(nil), ls...)
}
