package osgrid

import "math"

// Helmert holds 7-parameter similarity transform values: translations in metres,
// scale in parts per million and rotations in arcseconds.
type Helmert struct {
	Tx, Ty, Tz float64
	S          float64
	Rx, Ry, Rz float64
}

// OSGB36ToWGS84 is the published OSGB36 → WGS84 parameter set.
var OSGB36ToWGS84 = Helmert{
	Tx: 446.448, Ty: -125.157, Tz: 542.060,
	S:  -20.4894,
	Rx: 0.1502, Ry: 0.2470, Rz: 0.8421,
}

// Inverse returns the parameter set with every value negated. This is the
// usual first-order approximation of the inverse transform, not an exact
// matrix inverse; both directions in this package use it so they stay
// mutually consistent.
func (h Helmert) Inverse() Helmert {
	return Helmert{
		Tx: -h.Tx, Ty: -h.Ty, Tz: -h.Tz,
		S:  -h.S,
		Rx: -h.Rx, Ry: -h.Ry, Rz: -h.Rz,
	}
}

// Apply moves a geodetic position (radians) from the source ellipsoid to the
// target ellipsoid through geocentric Cartesian coordinates. Height is taken as zero.
func (h Helmert) Apply(lat, lon float64, from, to Ellipsoid) (float64, float64) {
	x1, y1, z1 := toCartesian(lat, lon, from)

	sc := h.S*1e-6 + 1
	rx := h.Rx * math.Pi / 648000
	ry := h.Ry * math.Pi / 648000
	rz := h.Rz * math.Pi / 648000

	x2 := h.Tx + sc*x1 - rz*y1 + ry*z1
	y2 := h.Ty + rz*x1 + sc*y1 - rx*z1
	z2 := h.Tz - ry*x1 + rx*y1 + sc*z1

	return toGeodetic(x2, y2, z2, to)
}

// ToWGS84 converts an OSGB36 position (radians) to WGS84 (radians).
func ToWGS84(lat, lon float64) (float64, float64) {
	return OSGB36ToWGS84.Apply(lat, lon, Airy1830, WGS84)
}

// ToOSGB36 converts a WGS84 position (radians) to OSGB36 (radians).
func ToOSGB36(lat, lon float64) (float64, float64) {
	return OSGB36ToWGS84.Inverse().Apply(lat, lon, WGS84, Airy1830)
}

func toCartesian(lat, lon float64, el Ellipsoid) (x, y, z float64) {
	e2 := el.E2()
	sinLat, cosLat := math.Sin(lat), math.Cos(lat)
	nu := el.A / math.Sqrt(1-e2*sinLat*sinLat)

	x = nu * cosLat * math.Cos(lon)
	y = nu * cosLat * math.Sin(lon)
	z = nu * (1 - e2) * sinLat
	return x, y, z
}

// toGeodetic runs a fixed number of Bowring-style refinements so output is
// deterministic for a given input.
func toGeodetic(x, y, z float64, el Ellipsoid) (lat, lon float64) {
	e2 := el.E2()
	p := math.Sqrt(x*x + y*y)
	lat = math.Atan2(z, p*(1-e2))

	for i := 0; i < bowringIterations; i++ {
		sinLat := math.Sin(lat)
		nu := el.A / math.Sqrt(1-e2*sinLat*sinLat)
		lat = math.Atan2(z+e2*nu*sinLat, p)
	}

	return lat, math.Atan2(y, x)
}
