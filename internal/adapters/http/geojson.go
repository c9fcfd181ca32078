package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// regionFeature renders a region as a GeoJSON feature in WGS84.
func regionFeature(region *domain.Region) *geojson.Feature {
	f := geojson.NewFeature(usecases.BoundaryWGS84(region))
	f.Properties["slug"] = region.Slug
	f.Properties["name"] = region.Name
	f.Properties["kind"] = string(region.Kind)
	f.Properties["source"] = string(region.Source)
	f.Properties["grid_points"] = len(region.Boundary)
	if region.OSMRelationID != 0 {
		f.Properties["osm_relation_id"] = region.OSMRelationID
	}
	return f
}

func sendFeature(c *fiber.Ctx, status int, region *domain.Region) error {
	data, err := regionFeature(region).MarshalJSON()
	if err != nil {
		return errInternal(c, "encode geojson")
	}
	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Status(status).Send(data)
}
