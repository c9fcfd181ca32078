package domain

// OSMElement is one element of an Overpass JSON response ("out geom"
// or "out body"). Nodes carry Lat/Lon; ways carry Geometry; relations carry
// Members.
type OSMElement struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Lat      *float64          `json:"lat,omitempty"`
	Lon      *float64          `json:"lon,omitempty"`
	Geometry []GeoPoint        `json:"geometry,omitempty"`
	Members  []OSMMember       `json:"members,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`
}

// OSMMember is a relation member with its resolved geometry.
type OSMMember struct {
	Type     string     `json:"type"`
	Ref      int64      `json:"ref"`
	Role     string     `json:"role"`
	Geometry []GeoPoint `json:"geometry,omitempty"`
}

// OSMDocument is the top level of an Overpass JSON response.
type OSMDocument struct {
	Elements []OSMElement `json:"elements"`
}
