package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	readingType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reading",
		Fields: graphql.Fields{
			"time":          &graphql.Field{Type: graphql.DateTime},
			"host":          &graphql.Field{Type: graphql.String},
			"location":      &graphql.Field{Type: geoPointType},
			"alt":           &graphql.Field{Type: graphql.Float},
			"co2":           &graphql.Field{Type: graphql.Float},
			"temperature":   &graphql.Field{Type: graphql.Float},
			"baro_pressure": &graphql.Field{Type: graphql.Float},
			"humidity":      &graphql.Field{Type: graphql.Float},
		},
	})

	viewportType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Viewport",
		Fields: graphql.Fields{
			"zoom":   &graphql.Field{Type: graphql.Float},
			"center": &graphql.Field{Type: geoPointType},
		},
	})

	seriesType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Series",
		Fields: graphql.Fields{
			"metric": &graphql.Field{Type: graphql.String},
			"label":  &graphql.Field{Type: graphql.String},
			"unit":   &graphql.Field{Type: graphql.String},
			"points": &graphql.Field{Type: graphql.NewList(graphql.NewObject(graphql.ObjectConfig{
				Name: "SeriesPoint",
				Fields: graphql.Fields{
					"time":  &graphql.Field{Type: graphql.DateTime},
					"value": &graphql.Field{Type: graphql.Float},
				},
			}))},
		},
	})

	selectionArgs := graphql.FieldConfigArgument{
		"host":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		"duration": &graphql.ArgumentConfig{Type: graphql.String},
		"tz":       &graphql.ArgumentConfig{Type: graphql.String},
	}
	selectionOf := func(p graphql.ResolveParams) domain.Selection {
		sel := domain.Selection{Duration: deps.Dashboard.DefaultDuration}
		sel.Host, _ = p.Args["host"].(string)
		sel.Timezone, _ = p.Args["tz"].(string)
		if d, _ := p.Args["duration"].(string); d != "" {
			sel.Duration = domain.Duration(d)
		}
		if sel.Duration == "" {
			sel.Duration = domain.DefaultDuration
		}
		return sel
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"sensors": &graphql.Field{
				Type:        graphql.NewList(readingType),
				Description: "Latest reading of every sensor",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Maps.Latest(p.Context)
				},
			},
			"viewport": &graphql.Field{
				Type:        viewportType,
				Description: "Zoom and center framing every sensor",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Maps.Viewport(p.Context)
				},
			},
			"history": &graphql.Field{
				Type:        graphql.NewList(readingType),
				Description: "Readings of one sensor over a duration window",
				Args:        selectionArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sensors.History(p.Context, selectionOf(p))
				},
			},
			"charts": &graphql.Field{
				Type:        graphql.NewList(seriesType),
				Description: "CO₂, temperature, pressure and humidity series of one sensor",
				Args:        selectionArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Sensors.Charts(p.Context, selectionOf(p))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
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
