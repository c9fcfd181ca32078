package domain

import "github.com/paulmach/orb"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Orb returns the point in orb's [lon, lat] order.
func (p GeoPoint) Orb() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// GeoLineString represents an ordered sequence of geographic coordinates.
type GeoLineString struct {
	Coordinates []GeoPoint `json:"coordinates"`
}

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsFromOrb converts an orb bound of [lon, lat] points.
func BoundsFromOrb(b orb.Bound) Bounds {
	return Bounds{MinLat: b.Min.Lat(), MinLon: b.Min.Lon(), MaxLat: b.Max.Lat(), MaxLon: b.Max.Lon()}
}

// Orb converts the box back into an orb bound.
func (b Bounds) Orb() orb.Bound {
	return orb.Bound{Min: orb.Point{b.MinLon, b.MinLat}, Max: orb.Point{b.MaxLon, b.MaxLat}}
}
