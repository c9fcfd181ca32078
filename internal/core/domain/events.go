package domain

import "time"

// SquareViewed is published whenever a square is resolved for a client.
type SquareViewed struct {
	Ref      string    `json:"ref"`
	Easting  float64   `json:"easting"`
	Northing float64   `json:"northing"`
	Center   GeoPoint  `json:"center"`
	Origin   string    `json:"origin"` // lookup, locate, random
	Region   string    `json:"region,omitempty"`
	ViewedAt time.Time `json:"viewed_at"`
}

// SquareViewCount aggregates SquareViewed events for one reference.
type SquareViewCount struct {
	Ref        string    `json:"ref"`
	Easting    float64   `json:"easting"`
	Northing   float64   `json:"northing"`
	Views      int64     `json:"views"`
	LastViewed time.Time `json:"last_viewed"`
}
