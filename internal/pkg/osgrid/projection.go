package osgrid

import "math"

// LatLon is a geographic position in degrees. Values returned by this package are WGS84.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GridCoord is a National Grid position in metres from the false origin.
type GridCoord struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// GridToLatLon converts a National Grid easting/northing to WGS84 degrees.
//
// No range validation is done: any finite input yields a deterministic result,
// although positions far outside Great Britain are numerically meaningless.
func GridToLatLon(easting, northing float64) LatLon {
	lat := footpointLatitude(northing)

	nu, rho, eta2 := radii(lat)
	cosLat := math.Cos(lat)
	tanLat := math.Tan(lat)
	tan2 := tanLat * tanLat
	tan4 := tan2 * tan2
	tan6 := tan4 * tan2
	secLat := 1 / cosLat
	nu3 := nu * nu * nu
	nu5 := nu3 * nu * nu
	nu7 := nu5 * nu * nu

	vii := tanLat / (2 * rho * nu)
	viii := tanLat / (24 * rho * nu3) * (5 + 3*tan2 + eta2 - 9*tan2*eta2)
	ix := tanLat / (720 * rho * nu5) * (61 + 90*tan2 + 45*tan4)
	x := secLat / nu
	xi := secLat / (6 * nu3) * (nu/rho + 2*tan2)
	xii := secLat / (120 * nu5) * (5 + 28*tan2 + 24*tan4)
	xiia := secLat / (5040 * nu7) * (61 + 662*tan2 + 1320*tan4 + 720*tan6)

	dE := easting - E0
	dE2 := dE * dE
	dE3 := dE2 * dE
	dE4 := dE2 * dE2
	dE5 := dE3 * dE2
	dE6 := dE4 * dE2
	dE7 := dE5 * dE2

	osLat := lat - vii*dE2 + viii*dE4 - ix*dE6
	osLon := lon0 + x*dE - xi*dE3 + xii*dE5 - xiia*dE7

	wLat, wLon := ToWGS84(osLat, osLon)
	return LatLon{Lat: toDeg(wLat), Lon: toDeg(wLon)}
}

// footpointLatitude iterates the OSGB36 latitude whose meridional arc matches
// the northing. The residual is compared by magnitude: north of roughly 55°N
// the first step overshoots and a signed comparison would stop tens of metres short.
func footpointLatitude(northing float64) float64 {
	lat := lat0
	m := 0.0
	for i := 0; i < footpointMaxIter; i++ {
		lat += (northing - N0 - m) / (Airy1830.A * F0)
		m = meridionalArc(lat)
		if math.Abs(northing-N0-m) < footpointTolerance {
			break
		}
	}
	return lat
}

// LatLonToGrid converts WGS84 degrees to a National Grid easting/northing,
// rounded to the nearest metre.
func LatLonToGrid(lat, lon float64) GridCoord {
	osLat, osLon := ToOSGB36(toRad(lat), toRad(lon))

	nu, rho, eta2 := radii(osLat)
	sinLat, cosLat := math.Sin(osLat), math.Cos(osLat)
	cos3 := cosLat * cosLat * cosLat
	cos5 := cos3 * cosLat * cosLat
	tanLat := math.Tan(osLat)
	tan2 := tanLat * tanLat
	tan4 := tan2 * tan2

	m := meridionalArc(osLat)

	i := m + N0
	ii := (nu / 2) * sinLat * cosLat
	iii := (nu / 24) * sinLat * cos3 * (5 - tan2 + 9*eta2)
	iiia := (nu / 720) * sinLat * cos5 * (61 - 58*tan2 + tan4)
	iv := nu * cosLat
	v := (nu / 6) * cos3 * (nu/rho - tan2)
	vi := (nu / 120) * cos5 * (5 - 18*tan2 + tan4 + 14*eta2 - 58*tan2*eta2)

	dL := osLon - lon0
	dL2 := dL * dL
	dL3 := dL2 * dL
	dL4 := dL2 * dL2
	dL5 := dL3 * dL2
	dL6 := dL4 * dL2

	northing := i + ii*dL2 + iii*dL4 + iiia*dL6
	easting := E0 + iv*dL + v*dL3 + vi*dL5

	return GridCoord{Easting: math.Round(easting), Northing: math.Round(northing)}
}

// SnapToGrid returns the south-west corner of the size-metre square containing (easting, northing).
func SnapToGrid(easting, northing, size float64) GridCoord {
	if size <= 0 {
		size = 1000
	}
	return GridCoord{
		Easting:  math.Floor(easting/size) * size,
		Northing: math.Floor(northing/size) * size,
	}
}
