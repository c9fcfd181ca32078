package domain

// GridCoordinate is a position on the British National Grid in metres.
type GridCoordinate struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

// GridReference is a lettered grid reference together with the square it
// denotes. PrecisionMeters is always 10^(5 - digits per axis).
type GridReference struct {
	Text            string  `json:"text"`
	Hectad          string  `json:"hectad"`
	Easting         float64 `json:"easting"`
	Northing        float64 `json:"northing"`
	PrecisionMeters float64 `json:"precision_meters"`
}

// SquareCorners are the WGS84 corners of a grid square.
type SquareCorners struct {
	SW GeoPoint `json:"sw"`
	NE GeoPoint `json:"ne"`
	NW GeoPoint `json:"nw"`
	SE GeoPoint `json:"se"`
}

// Square is a grid square resolved for display and search.
type Square struct {
	Ref          GridReference  `json:"ref"`
	Origin       GridCoordinate `json:"origin"`
	Size         float64        `json:"size_meters"`
	Corners      SquareCorners  `json:"corners"`
	Center       GeoPoint       `json:"center"`
	SearchBounds Bounds         `json:"search_bounds"`
}
