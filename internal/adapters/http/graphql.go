package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/geoflex/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Field
// names follow the JSON tags of the domain types so the default resolver
// can read them.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat":       &graphql.Field{Type: graphql.Float},
			"lon":       &graphql.Field{Type: graphql.Float},
			"elevation": &graphql.Field{Type: graphql.Float},
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

	decodedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DecodedPolyline",
		Fields: graphql.Fields{
			"precision":                 &graphql.Field{Type: graphql.Int},
			"third_dimension":           &graphql.Field{Type: graphql.String},
			"third_dimension_precision": &graphql.Field{Type: graphql.Int},
			"points":                    &graphql.Field{Type: graphql.NewList(geoPointType)},
			"bounds":                    &graphql.Field{Type: boundsType},
			"length_meters":             &graphql.Field{Type: graphql.Float},
		},
	})

	headerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PolylineHeader",
		Fields: graphql.Fields{
			"version":                   &graphql.Field{Type: graphql.Int},
			"precision":                 &graphql.Field{Type: graphql.Int},
			"third_dimension":           &graphql.Field{Type: graphql.String},
			"third_dimension_precision": &graphql.Field{Type: graphql.Int},
		},
	})

	encodedType := graphql.NewObject(graphql.ObjectConfig{
		Name: "EncodedGeometry",
		Fields: graphql.Fields{
			"polyline":        &graphql.Field{Type: graphql.String},
			"precision":       &graphql.Field{Type: graphql.Int},
			"third_dimension": &graphql.Field{Type: graphql.String},
			"decode_error":    &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{
				Type: graphql.NewList(geoPointType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					g, ok := p.Source.(domain.EncodedGeometry)
					if !ok || g.Geometry == nil {
						return nil, nil
					}
					return g.Geometry.Coordinates, nil
				},
			},
		},
	})

	sectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteSection",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.String},
			"type": &graphql.Field{Type: graphql.String},
			"mode": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.RouteSection).Transport.Mode, nil
				},
			},
			"duration": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.RouteSection).Summary.Duration, nil
				},
			},
			"length": &graphql.Field{
				Type: graphql.Int,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.RouteSection).Summary.Length, nil
				},
			},
			"geometry": &graphql.Field{Type: encodedType},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.String},
			"sections": &graphql.Field{Type: graphql.NewList(sectionType)},
		},
	})

	geometryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "StoredGeometry",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.String},
			"kind":            &graphql.Field{Type: graphql.String},
			"source":          &graphql.Field{Type: graphql.String},
			"polyline":        &graphql.Field{Type: graphql.String},
			"precision":       &graphql.Field{Type: graphql.Int},
			"third_dimension": &graphql.Field{Type: graphql.String},
			"point_count":     &graphql.Field{Type: graphql.Int},
			"length_meters":   &graphql.Field{Type: graphql.Float},
			"bounds":          &graphql.Field{Type: boundsType},
			"created_at":      &graphql.Field{Type: graphql.DateTime},
			"coordinates": &graphql.Field{
				Type: graphql.NewList(geoPointType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					g, ok := p.Source.(*domain.StoredGeometry)
					if !ok || g.Geometry == nil {
						return nil, nil
					}
					return g.Geometry.Coordinates, nil
				},
			},
		},
	})

	pointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lon":       &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"elevation": &graphql.InputObjectFieldConfig{Type: graphql.Float},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"decode": &graphql.Field{
				Type:        decodedType,
				Description: "Decode a Flexible Polyline",
				Args: graphql.FieldConfigArgument{
					"polyline": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Polylines.Decode(p.Context, p.Args["polyline"].(string))
				},
			},
			"header": &graphql.Field{
				Type:        headerType,
				Description: "Read the header of a Flexible Polyline",
				Args: graphql.FieldConfigArgument{
					"polyline": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					h, err := deps.Polylines.Header(p.Args["polyline"].(string))
					if err != nil {
						return nil, err
					}
					return map[string]interface{}{
						"version":                   int(h.Version),
						"precision":                 int(h.Precision),
						"third_dimension":           h.ThirdDimension.String(),
						"third_dimension_precision": int(h.ThirdDimensionPrecision),
					}, nil
				},
			},
			"encode": &graphql.Field{
				Type:        graphql.String,
				Description: "Encode points as a Flexible Polyline",
				Args: graphql.FieldConfigArgument{
					"points":                    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(pointInput)))},
					"precision":                 &graphql.ArgumentConfig{Type: graphql.Int},
					"third_dimension":           &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"third_dimension_precision": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := domain.EncodeRequest{
						ThirdDimension:          p.Args["third_dimension"].(string),
						ThirdDimensionPrecision: p.Args["third_dimension_precision"].(int),
					}
					if v, ok := p.Args["precision"].(int); ok {
						req.Precision = &v
					}
					for _, raw := range p.Args["points"].([]interface{}) {
						m := raw.(map[string]interface{})
						pt := domain.GeoPoint{Lat: m["lat"].(float64), Lon: m["lon"].(float64)}
						if z, ok := m["elevation"].(float64); ok {
							pt.Elevation = &z
						}
						req.Points = append(req.Points, pt)
					}
					return deps.Polylines.Encode(p.Context, req)
				},
			},
			"routes": &graphql.Field{
				Type:        graphql.NewList(routeType),
				Description: "Route alternatives from HERE with decoded geometry",
				Args: graphql.FieldConfigArgument{
					"origin":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(pointInput)},
					"destination":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(pointInput)},
					"transport_mode": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "car"},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Routing.Routes(p.Context, domain.RouteRequest{
						Origin:        inputPoint(p.Args["origin"]),
						Destination:   inputPoint(p.Args["destination"]),
						TransportMode: p.Args["transport_mode"].(string),
					})
				},
			},
			"geometry": &graphql.Field{
				Type:        geometryType,
				Description: "Get an archived geometry by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geometries.GetByID(p.Context, p.Args["id"].(string))
				},
			},
			"geometries": &graphql.Field{
				Type:        graphql.NewList(geometryType),
				Description: "List archived geometries, newest first",
				Args: graphql.FieldConfigArgument{
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					items, _, err := deps.Geometries.List(p.Context, p.Args["offset"].(int), p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					out := make([]*domain.StoredGeometry, len(items))
					for i := range items {
						out[i] = &items[i]
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

func inputPoint(v interface{}) domain.GeoPoint {
	m, _ := v.(map[string]interface{})
	lat, _ := m["lat"].(float64)
	lon, _ := m["lon"].(float64)
	return domain.GeoPoint{Lat: lat, Lon: lon}
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
