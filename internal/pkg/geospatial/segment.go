package geospatial

import "math"

// LatLon is a WGS84 position in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Corners are the four corners of a grid square in WGS84. Grid squares are
// slightly rotated against the lat/lon graticule, so all four are kept.
type Corners struct {
	SW, NE, NW, SE LatLon
}

// DistanceToSegment returns the distance in kilometres from a point to the
// segment (lat1, lon1)–(lat2, lon2).
//
// The nearest point is found by treating lat/lon differences as planar
// coordinates and clamping the projection to the segment; only the final
// distance is great-circle. That is a deliberate simplification, good for
// extents well under 100 km, and not a geodesic computation.
func DistanceToSegment(lat, lon, lat1, lon1, lat2, lon2 float64) float64 {
	a := lon - lon1
	b := lat - lat1
	c := lon2 - lon1
	d := lat2 - lat1

	dot := a*c + b*d
	lenSq := c*c + d*d

	// A zero-length segment degrades to point-to-point distance.
	param := -1.0
	if lenSq != 0 {
		param = dot / lenSq
	}

	var x, y float64
	switch {
	case param < 0:
		x, y = lon1, lat1
	case param > 1:
		x, y = lon2, lat2
	default:
		x, y = lon1+param*c, lat1+param*d
	}

	return Haversine(lat, lon, y, x)
}

// DistanceToSquareEdge returns the distance in kilometres from a point to the
// nearest edge of a grid square, or exactly 0 when the point lies within the
// lat/lon box spanned by the SW and NE corners.
func DistanceToSquareEdge(lat, lon float64, c Corners) float64 {
	if lat >= math.Min(c.SW.Lat, c.NE.Lat) && lat <= math.Max(c.SW.Lat, c.NE.Lat) &&
		lon >= math.Min(c.SW.Lon, c.NE.Lon) && lon <= math.Max(c.SW.Lon, c.NE.Lon) {
		return 0
	}

	return min(
		DistanceToSegment(lat, lon, c.SW.Lat, c.SW.Lon, c.SE.Lat, c.SE.Lon),
		DistanceToSegment(lat, lon, c.NW.Lat, c.NW.Lon, c.NE.Lat, c.NE.Lon),
		DistanceToSegment(lat, lon, c.SW.Lat, c.SW.Lon, c.NW.Lat, c.NW.Lon),
		DistanceToSegment(lat, lon, c.SE.Lat, c.SE.Lon, c.NE.Lat, c.NE.Lon),
	)
}
