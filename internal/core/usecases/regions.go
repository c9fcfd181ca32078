package usecases

import (
	"github.com/paulmach/orb"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/pkg/osgrid"
)

// OSM relation IDs of the preset regions.
const (
	RelationGreaterLondon = 175342
	RelationCentralLondon = 3045928
	RelationCityOfLondon  = 51800
	RelationUnitedKingdom = 62149
)

// Simplified boundaries used until an OSM boundary has been assembled.
var (
	greaterLondonFallback = orb.Ring{
		{505000, 200000}, {510000, 199000}, {515000, 198000}, {520000, 197000},
		{525000, 196000}, {530000, 196000}, {535000, 196000}, {540000, 196000},
		{545000, 195000}, {550000, 194000}, {555000, 192000}, {558000, 189000},
		{560000, 185000}, {561000, 180000}, {560000, 175000}, {558000, 170000},
		{555000, 166000}, {552000, 163000}, {548000, 160000}, {544000, 158000},
		{540000, 157000}, {535000, 156000}, {530000, 156000}, {525000, 155000},
		{520000, 155000}, {515000, 156000}, {510000, 157000}, {507000, 160000},
		{505000, 164000}, {504000, 168000}, {503000, 172000}, {503000, 176000},
		{503000, 180000}, {503000, 184000}, {504000, 188000}, {504000, 192000},
		{505000, 196000}, {505000, 200000},
	}

	centralLondonFallback = orb.Ring{
		{525000, 185000}, {528000, 184500}, {531000, 184000}, {533000, 183000},
		{535000, 181000}, {535000, 179000}, {535000, 177000}, {534000, 175000},
		{532000, 175000}, {530000, 175000}, {528000, 175000}, {526000, 176000},
		{525000, 177000}, {525000, 179000}, {525000, 181000}, {525000, 183000},
		{525000, 185000},
	}

	cityOfLondonFallback = orb.Ring{
		{532000, 181500}, {533000, 181500}, {533500, 181000}, {533500, 180500},
		{533500, 180000}, {533000, 180000}, {532500, 180000}, {532000, 180500},
		{532000, 181000}, {532000, 181500},
	}

	// Whole grid extent; too large to be worth a polygon.
	unitedKingdomBBox = orb.Ring{{0, 0}, {700000, 1300000}}
)

// PresetRegions returns the built-in regions in display order. Each call
// returns fresh copies.
func PresetRegions() []domain.Region {
	return []domain.Region{
		{
			Slug:     "zone-1-2",
			Name:     "Central London (Zones 1-2)",
			Kind:     domain.RegionPolygon,
			Source:   domain.SourcePreset,
			Boundary: cloneRing(centralLondonFallback),
		},
		{
			Slug:          "central-london",
			Name:          "Central London (Congestion Zone)",
			OSMRelationID: RelationCentralLondon,
			Kind:          domain.RegionPolygon,
			Source:        domain.SourcePreset,
			Boundary:      cloneRing(centralLondonFallback),
		},
		{
			Slug:          "city-of-london",
			Name:          "City of London",
			OSMRelationID: RelationCityOfLondon,
			Kind:          domain.RegionPolygon,
			Source:        domain.SourcePreset,
			Boundary:      cloneRing(cityOfLondonFallback),
		},
		{
			Slug:          "greater-london",
			Name:          "Greater London",
			OSMRelationID: RelationGreaterLondon,
			Kind:          domain.RegionPolygon,
			Source:        domain.SourcePreset,
			Boundary:      cloneRing(greaterLondonFallback),
		},
		{
			Slug:          "united-kingdom",
			Name:          "United Kingdom",
			OSMRelationID: RelationUnitedKingdom,
			Kind:          domain.RegionBBox,
			Source:        domain.SourcePreset,
			Boundary:      cloneRing(unitedKingdomBBox),
		},
	}
}

func cloneRing(r orb.Ring) orb.Ring {
	return append(orb.Ring(nil), r...)
}

// BoundaryWGS84 converts a region's grid boundary into a WGS84 polygon of
// [lon, lat] points. A bbox becomes its four-corner rectangle.
func BoundaryWGS84(r *domain.Region) orb.Polygon {
	ring := r.Boundary
	if r.Kind == domain.RegionBBox && len(ring) == 2 {
		lo, hi := ring[0], ring[1]
		ring = orb.Ring{lo, {hi[0], lo[1]}, hi, {lo[0], hi[1]}, lo}
	}

	out := make(orb.Ring, 0, len(ring))
	for _, p := range ring {
		ll := osgrid.GridToLatLon(p[0], p[1])
		out = append(out, orb.Point{ll.Lon, ll.Lat})
	}
	return orb.Polygon{out}
}
