// Package osgrid converts between the Ordnance Survey National Grid (OSGB36,
// Transverse Mercator on the Airy 1830 ellipsoid) and WGS84 latitude/longitude,
// and encodes/decodes alphanumeric grid references such as "TQ3080".
//
// Every function in this package is pure: no shared state, no I/O. They are
// safe to call from any number of goroutines.
package osgrid

import "math"

// Ellipsoid is a reference ellipsoid given by its semi-major and semi-minor axes in metres.
type Ellipsoid struct {
	A float64
	B float64
}

var (
	// Airy1830 underlies OSGB36 and the National Grid.
	Airy1830 = Ellipsoid{A: 6377563.396, B: 6356256.909}
	// WGS84 is the GPS datum.
	WGS84 = Ellipsoid{A: 6378137.000, B: 6356752.3142}
)

// E2 returns the first eccentricity squared.
func (e Ellipsoid) E2() float64 {
	return 1 - (e.B*e.B)/(e.A*e.A)
}

// N returns the third flattening (a-b)/(a+b).
func (e Ellipsoid) N() float64 {
	return (e.A - e.B) / (e.A + e.B)
}

// National Grid Transverse Mercator parameters.
const (
	F0       = 0.9996012717 // scale factor on the central meridian
	trueLat0 = 49.0         // true origin latitude, degrees N
	trueLon0 = -2.0         // true origin longitude, degrees (2°W)
	N0       = -100000.0    // northing of true origin
	E0       = 400000.0     // easting of true origin
)

var (
	lat0 = toRad(trueLat0)
	lon0 = toRad(trueLon0)
)

// Footpoint iteration limits. The natural domain converges in a handful of steps.
const (
	footpointTolerance = 0.001 // metres
	footpointMaxIter   = 64
	bowringIterations  = 10
)

// meridionalArc returns the developed meridional arc M from the true origin to lat (radians).
func meridionalArc(lat float64) float64 {
	n := Airy1830.N()
	n2 := n * n
	n3 := n2 * n

	ma := (1 + n + (5.0/4)*n2 + (5.0/4)*n3) * (lat - lat0)
	mb := (3*n + 3*n2 + (21.0/8)*n3) * math.Sin(lat-lat0) * math.Cos(lat+lat0)
	mc := ((15.0/8)*n2 + (15.0/8)*n3) * math.Sin(2*(lat-lat0)) * math.Cos(2*(lat+lat0))
	md := (35.0 / 24) * n3 * math.Sin(3*(lat-lat0)) * math.Cos(3*(lat+lat0))

	return Airy1830.B * F0 * (ma - mb + mc - md)
}

// radii returns the transverse (nu) and meridional (rho) radii of curvature,
// both scaled by F0, and eta² = nu/rho - 1.
func radii(lat float64) (nu, rho, eta2 float64) {
	e2 := Airy1830.E2()
	sin := math.Sin(lat)
	w := 1 - e2*sin*sin
	nu = Airy1830.A * F0 / math.Sqrt(w)
	rho = Airy1830.A * F0 * (1 - e2) / math.Pow(w, 1.5)
	return nu, rho, nu/rho - 1
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func toDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
