package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// RegionKind tells how a region's boundary is to be read.
type RegionKind string

const (
	// RegionPolygon boundaries are rings of grid coordinates.
	RegionPolygon RegionKind = "polygon"
	// RegionBBox boundaries hold exactly two points: the min and max corners.
	RegionBBox RegionKind = "bbox"
)

// RegionSource records where a boundary came from.
type RegionSource string

const (
	SourcePreset RegionSource = "preset"
	SourceOSM    RegionSource = "osm"
	SourceHull   RegionSource = "hull"
)

// Region is a named area random squares can be drawn from. Boundary points
// are [easting, northing] in metres.
type Region struct {
	ID            string       `json:"id,omitempty"`
	Slug          string       `json:"slug"`
	Name          string       `json:"name"`
	OSMRelationID int64        `json:"osm_relation_id,omitempty"`
	Kind          RegionKind   `json:"kind"`
	Source        RegionSource `json:"source"`
	Boundary      orb.Ring     `json:"boundary"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// Extent returns the grid-coordinate bounding box of the boundary.
func (r *Region) Extent() orb.Bound {
	return r.Boundary.Bound()
}
