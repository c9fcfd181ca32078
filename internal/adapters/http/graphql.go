package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/gridsquare/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Struct
// results resolve through their json tags.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	gridRefType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GridReference",
		Fields: graphql.Fields{
			"text":             &graphql.Field{Type: graphql.String},
			"hectad":           &graphql.Field{Type: graphql.String},
			"easting":          &graphql.Field{Type: graphql.Float},
			"northing":         &graphql.Field{Type: graphql.Float},
			"precision_meters": &graphql.Field{Type: graphql.Float},
		},
	})

	gridCoordType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GridCoordinate",
		Fields: graphql.Fields{
			"easting":  &graphql.Field{Type: graphql.Float},
			"northing": &graphql.Field{Type: graphql.Float},
		},
	})

	cornersType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SquareCorners",
		Fields: graphql.Fields{
			"sw": &graphql.Field{Type: geoPointType},
			"ne": &graphql.Field{Type: geoPointType},
			"nw": &graphql.Field{Type: geoPointType},
			"se": &graphql.Field{Type: geoPointType},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	squareType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Square",
		Fields: graphql.Fields{
			"ref":           &graphql.Field{Type: gridRefType},
			"origin":        &graphql.Field{Type: gridCoordType},
			"size_meters":   &graphql.Field{Type: graphql.Float},
			"corners":       &graphql.Field{Type: cornersType},
			"center":        &graphql.Field{Type: geoPointType},
			"search_bounds": &graphql.Field{Type: boundsType},
		},
	})

	regionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Region",
		Fields: graphql.Fields{
			"slug":            &graphql.Field{Type: graphql.String},
			"name":            &graphql.Field{Type: graphql.String},
			"kind":            &graphql.Field{Type: graphql.String},
			"source":          &graphql.Field{Type: graphql.String},
			"osm_relation_id": &graphql.Field{Type: graphql.Float},
			"points":          &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"square": &graphql.Field{
				Type:        squareType,
				Description: "The square containing an easting/northing",
				Args: graphql.FieldConfigArgument{
					"easting":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"northing": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"size":     &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Grid.Square(p.Context,
						p.Args["easting"].(float64), p.Args["northing"].(float64), p.Args["size"].(float64))
				},
			},
			"gridRef": &graphql.Field{
				Type:        gridRefType,
				Description: "Parse a lettered grid reference",
				Args: graphql.FieldConfigArgument{
					"ref": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Grid.Parse(p.Context, p.Args["ref"].(string))
				},
			},
			"locate": &graphql.Field{
				Type:        squareType,
				Description: "The square under a WGS84 position",
				Args: graphql.FieldConfigArgument{
					"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Grid.Locate(p.Context, p.Args["lat"].(float64), p.Args["lon"].(float64))
				},
			},
			"randomSquare": &graphql.Field{
				Type:        squareType,
				Description: "A random square inside a region",
				Args: graphql.FieldConfigArgument{
					"region": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					region, err := deps.Regions.Get(p.Context, p.Args["region"].(string))
					if err != nil {
						return nil, err
					}
					return deps.Grid.RandomSquare(p.Context, region)
				},
			},
			"regions": &graphql.Field{
				Type:        graphql.NewList(regionType),
				Description: "All regions random squares can be drawn from",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					regions, err := deps.Regions.List(p.Context)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(regions))
					for _, r := range regions {
						out = append(out, regionMap(r))
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// regionMap flattens a region for GraphQL; the boundary is left out.
func regionMap(r domain.Region) map[string]interface{} {
	return map[string]interface{}{
		"slug":            r.Slug,
		"name":            r.Name,
		"kind":            string(r.Kind),
		"source":          string(r.Source),
		"osm_relation_id": float64(r.OSMRelationID),
		"points":          len(r.Boundary),
	}
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
