package http

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/gridsquare/internal/core/domain"
	"github.com/samirrijal/gridsquare/internal/core/usecases"
)

// queryFloat reads a required float query parameter.
func queryFloat(c *fiber.Ctx, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// GridRefHandler resolves a lettered grid reference to the square it names.
func GridRefHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref, err := deps.Grid.Parse(c.UserContext(), c.Params("ref"))
		if err != nil {
			return errFrom(c, err)
		}

		sq, err := deps.Grid.Square(c.UserContext(), ref.Easting, ref.Northing, math.Max(ref.PrecisionMeters, 1))
		if err != nil {
			return errFrom(c, err)
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(fiber.Map{"reference": ref, "square": sq})
	}
}

// SquareHandler returns the square containing an easting/northing.
func SquareHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		e, okE := queryFloat(c, "easting")
		n, okN := queryFloat(c, "northing")
		if !okE || !okN {
			return errBadRequest(c, "easting and northing are required numbers")
		}
		size := c.QueryFloat("size", 0)
		if size < 0 || size > 100000 {
			return errBadRequest(c, "size must be between 1 and 100000 metres")
		}

		sq, err := deps.Grid.Square(c.UserContext(), e, n, size)
		if err != nil {
			return errFrom(c, err)
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(sq)
	}
}

// LocateHandler returns the square under a WGS84 position.
func LocateHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat, okLat := queryFloat(c, "lat")
		lon, okLon := queryFloat(c, "lon")
		if !okLat || !okLon {
			return errBadRequest(c, "lat and lon are required numbers")
		}

		sq, err := deps.Grid.Locate(c.UserContext(), lat, lon)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(sq)
	}
}

// PopularSquaresHandler returns the most viewed squares.
func PopularSquaresHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Views == nil {
			return errUnavailable(c, "view statistics not available")
		}
		counts, err := deps.Views.Popular(c.UserContext(), c.QueryInt("limit", 10))
		if err != nil {
			return errFrom(c, err)
		}
		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(counts)
	}
}

// regionSummary is a region without its boundary, for listings.
type regionSummary struct {
	Slug          string              `json:"slug"`
	Name          string              `json:"name"`
	OSMRelationID int64               `json:"osm_relation_id,omitempty"`
	Kind          domain.RegionKind   `json:"kind"`
	Source        domain.RegionSource `json:"source"`
	Points        int                 `json:"points"`
}

// ListRegionsHandler returns regions, paginated.
func ListRegionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		regions, err := deps.Regions.List(c.UserContext())
		if err != nil {
			return errFrom(c, err)
		}

		pg := pageFromQuery(c, len(regions))
		start, end := pg.Bounds()
		page := make([]regionSummary, 0, end-start)
		for _, r := range regions[start:end] {
			page = append(page, regionSummary{
				Slug:          r.Slug,
				Name:          r.Name,
				OSMRelationID: r.OSMRelationID,
				Kind:          r.Kind,
				Source:        r.Source,
				Points:        len(r.Boundary),
			})
		}

		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// GetRegionHandler returns one region with its grid boundary.
func GetRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		region, err := deps.Regions.Get(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(region)
	}
}

// RegionGeoJSONHandler returns a region's boundary as a WGS84 GeoJSON feature.
func RegionGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		region, err := deps.Regions.Get(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFrom(c, err)
		}
		return sendFeature(c, fiber.StatusOK, region)
	}
}

// PutRegionHandler stores a region under the slug in the path.
func PutRegionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var region domain.Region
		if err := c.BodyParser(&region); err != nil {
			return errBadRequest(c, "invalid region body")
		}
		region.Slug = c.Params("slug")
		if region.Source == "" {
			region.Source = domain.SourceOSM
		}

		if err := deps.Regions.Save(c.UserContext(), &region); err != nil {
			return errFrom(c, err)
		}
		return c.JSON(region)
	}
}

// RandomSquareHandler picks a random square inside a region.
func RandomSquareHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		region, err := deps.Regions.Get(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFrom(c, err)
		}

		sq, err := deps.Grid.RandomSquare(c.UserContext(), region)
		if err != nil {
			return errFrom(c, err)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(sq)
	}
}

// boundaryParams are the query parameters shared by the boundary endpoints.
type boundaryParams struct {
	slug string
	name string
	save bool
}

func readBoundaryParams(c *fiber.Ctx) boundaryParams {
	return boundaryParams{
		slug: strings.TrimSpace(c.Query("slug")),
		name: strings.TrimSpace(c.Query("name")),
		save: c.QueryBool("save", false),
	}
}

// AssembleBoundaryHandler turns an Overpass "out geom" relation document into
// a region boundary, optionally saving it.
func AssembleBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := readBoundaryParams(c)
		if params.save && params.slug == "" {
			return errBadRequest(c, "slug is required when save=true")
		}

		var doc domain.OSMDocument
		if err := c.BodyParser(&doc); err != nil {
			return errBadRequest(c, "body must be an Overpass JSON document")
		}

		var rel *domain.OSMElement
		for i := range doc.Elements {
			if doc.Elements[i].Type == "relation" {
				rel = &doc.Elements[i]
				break
			}
		}
		if rel == nil {
			return errUnprocessable(c, "document contains no relation")
		}

		region, err := deps.Boundaries.AssembleRegion(c.UserContext(), params.slug, params.name, rel)
		if err != nil {
			return errFrom(c, err)
		}
		return finishBoundary(c, deps, params, region)
	}
}

// HullBoundaryHandler builds a buffered convex hull around the nodes of an
// Overpass document, optionally saving it.
func HullBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		params := readBoundaryParams(c)
		if params.save && params.slug == "" {
			return errBadRequest(c, "slug is required when save=true")
		}
		buffer := c.QueryFloat("buffer_m", 0)
		if buffer < 0 || buffer > 50000 {
			return errBadRequest(c, "buffer_m must be between 0 and 50000")
		}

		var doc domain.OSMDocument
		if err := c.BodyParser(&doc); err != nil {
			return errBadRequest(c, "body must be an Overpass JSON document")
		}

		region, err := deps.Boundaries.HullRegion(c.UserContext(), params.slug, params.name, doc.Elements, buffer)
		if err != nil {
			return errFrom(c, err)
		}
		return finishBoundary(c, deps, params, region)
	}
}

func finishBoundary(c *fiber.Ctx, deps *Dependencies, params boundaryParams, region *domain.Region) error {
	status := fiber.StatusOK
	if params.save {
		if err := deps.Regions.Save(c.UserContext(), region); err != nil {
			return errFrom(c, err)
		}
		status = fiber.StatusCreated
	}
	return sendFeature(c, status, region)
}

// classifyRequest is the body of POST /v1/places/classify.
type classifyRequest struct {
	Ref      string              `json:"ref"`
	Kind     domain.PlaceKind    `json:"kind"`
	Elements []domain.OSMElement `json:"elements"`
}

// placeView adds a display distance to a place.
type placeView struct {
	domain.Place
	DistanceText string `json:"distance_text"`
}

// ClassifyPlacesHandler measures OSM features against the square named by ref.
func ClassifyPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req classifyRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid classify body")
		}
		switch req.Kind {
		case "":
			req.Kind = domain.PlacePOI
		case domain.PlaceStation, domain.PlacePOI, domain.PlaceAmenity:
		default:
			return errBadRequest(c, "kind must be station, poi or amenity")
		}

		ref, err := deps.Grid.Parse(c.UserContext(), req.Ref)
		if err != nil {
			return errFrom(c, err)
		}
		sq, err := deps.Grid.Square(c.UserContext(), ref.Easting, ref.Northing, math.Max(ref.PrecisionMeters, 1))
		if err != nil {
			return errFrom(c, err)
		}

		places := deps.Places.Classify(c.UserContext(), sq, req.Elements, req.Kind)
		views := make([]placeView, 0, len(places))
		for _, p := range places {
			views = append(views, placeView{Place: p, DistanceText: usecases.FormatDistance(p.Distance)})
		}

		return c.JSON(fiber.Map{"square": sq, "places": views})
	}
}
