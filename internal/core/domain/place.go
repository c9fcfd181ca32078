package domain

// PlaceKind groups places the way they are listed next to a square.
type PlaceKind string

const (
	PlaceStation PlaceKind = "station"
	PlacePOI     PlaceKind = "poi"
	PlaceAmenity PlaceKind = "amenity"
)

// Place is an OSM feature classified against a grid square.
type Place struct {
	Name     string            `json:"name"`
	Kind     PlaceKind         `json:"kind"`
	Category string            `json:"category,omitempty"` // station type, e.g. "Underground"
	Metadata string            `json:"metadata,omitempty"`
	Distance float64           `json:"distance_km"`
	Inside   bool              `json:"inside"`
	Location GeoPoint          `json:"location"`
	Geometry []GeoPoint        `json:"geometry,omitempty"`
	OSMType  string            `json:"osm_type"`
	OSMID    int64             `json:"osm_id"`
	Tags     map[string]string `json:"tags,omitempty"`
}
