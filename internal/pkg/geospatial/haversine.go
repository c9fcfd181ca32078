// Package geospatial holds the small-scale geometry used to reason about grid
// squares and OSM-derived regions: great-circle distances, point-to-edge
// distances, point-in-polygon, convex hulls, polygon offsetting and
// multipolygon way stitching.
//
// All functions are pure and safe for concurrent use.
package geospatial

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// kmPerDegreeLat is the equirectangular length of one degree of latitude.
const kmPerDegreeLat = 111.32

// Haversine calculates the great-circle distance in kilometres between two points
// on a sphere of radius 6371 km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// BoundingBox returns a box around a point with the given radius in kilometres.
// The box is an orb.Bound of [lon, lat] points.
func BoundingBox(lat, lon, radiusKm float64) orb.Bound {
	return ExpandBounds(orb.Bound{Min: orb.Point{lon, lat}, Max: orb.Point{lon, lat}}, radiusKm)
}

// ExpandBounds grows a [lon, lat] bound by km on every side. The longitude
// margin is scaled by the cosine of the bound's centre latitude.
func ExpandBounds(b orb.Bound, km float64) orb.Bound {
	centerLat := (b.Min.Lat() + b.Max.Lat()) / 2
	latDelta := km / kmPerDegreeLat
	lonDelta := km / (kmPerDegreeLat * math.Cos(toRad(centerLat)))

	return orb.Bound{
		Min: orb.Point{b.Min.Lon() - lonDelta, b.Min.Lat() - latDelta},
		Max: orb.Point{b.Max.Lon() + lonDelta, b.Max.Lat() + latDelta},
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
