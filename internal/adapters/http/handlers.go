package http

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ribbitnetwork/frogmap/internal/core/domain"
	"github.com/ribbitnetwork/frogmap/internal/core/usecases"
	"github.com/ribbitnetwork/frogmap/internal/pkg/metrics"
	"github.com/ribbitnetwork/frogmap/internal/pkg/telemetry"
)

// MapResponse is everything the map widget needs for its first render.
type MapResponse struct {
	Features *geojson.FeatureCollection `json:"features"`
	Style    domain.MapStyle            `json:"style"`
	Viewport domain.Viewport            `json:"viewport"`
}

// DashboardResponse describes the dashboard controls.
type DashboardResponse struct {
	DashboardInfo
	Durations []domain.Duration `json:"durations"`
	Style     domain.MapStyle   `json:"style"`
}

// HistoryResponse is a sensor history in the viewer's time zone.
type HistoryResponse struct {
	Selection domain.Selection `json:"selection"`
	Readings  []domain.Reading `json:"readings"`
}

// ChartsResponse carries the four chart series of a sensor.
type ChartsResponse struct {
	Selection domain.Selection `json:"selection"`
	Series    []domain.Series  `json:"series"`
}

// selection builds the Selection for a /sensors/:host request.
func selection(c *fiber.Ctx, deps *Dependencies) domain.Selection {
	def := deps.Dashboard.DefaultDuration
	if def == "" {
		def = domain.DefaultDuration
	}
	sel := domain.Selection{
		Host:     c.Params("host"),
		Duration: domain.Duration(c.Query("duration", string(def))),
		Timezone: c.Query("tz"),
	}
	trace.SpanFromContext(c.UserContext()).SetAttributes(
		attribute.String(telemetry.AttrSensorHost, sel.Host),
		attribute.String(telemetry.AttrDuration, string(sel.Duration)),
	)
	return sel
}

// DashboardHandler returns the dashboard title, refresh period, duration
// choices and map style.
func DashboardHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(DashboardResponse{
			DashboardInfo: deps.Dashboard,
			Durations:     domain.Durations(),
			Style:         deps.Maps.Style(),
		})
	}
}

// ListSensorsHandler returns the latest reading of every sensor, paginated.
func ListSensorsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		readings, err := deps.Maps.Latest(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}

		offset, limit := pageParams(c, 100, 500)
		page, pg := paginate(readings, offset, limit)

		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: page, Pagination: pg})
	}
}

// MapHandler returns sensor features, marker style and the initial viewport.
func MapHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		readings, err := deps.Maps.Latest(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(MapResponse{
			Features: usecases.FeatureCollection(readings),
			Style:    deps.Maps.Style(),
			Viewport: usecases.ViewportOf(readings),
		})
	}
}

// ViewportHandler returns only the zoom and center framing all sensors.
func ViewportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vp, err := deps.Maps.Viewport(c.UserContext())
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(vp)
	}
}

// SensorHistoryHandler returns the readings of one sensor.
func SensorHistoryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel := selection(c, deps)
		readings, err := deps.Sensors.History(c.UserContext(), sel)
		if err != nil {
			return errFromService(c, err)
		}
		if readings == nil {
			readings = []domain.Reading{}
		}
		return c.JSON(HistoryResponse{Selection: sel, Readings: readings})
	}
}

// SensorChartsHandler returns co2, temperature, pressure and humidity series.
func SensorChartsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel := selection(c, deps)
		series, err := deps.Sensors.Charts(c.UserContext(), sel)
		if err != nil {
			return errFromService(c, err)
		}
		return c.JSON(ChartsResponse{Selection: sel, Series: series})
	}
}

// SensorExportHandler downloads a sensor history as CSV. An empty history
// yields 204 with no attachment.
func SensorExportHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sel := selection(c, deps)
		readings, err := deps.Sensors.History(c.UserContext(), sel)
		if err != nil {
			return errFromService(c, err)
		}
		if len(readings) == 0 {
			return c.SendStatus(fiber.StatusNoContent)
		}

		var buf bytes.Buffer
		if err := usecases.WriteCSV(&buf, readings); err != nil {
			return errInternal(c, fmt.Sprintf("export: %v", err))
		}

		metrics.ExportsServed.Inc()
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Attachment(usecases.ExportFileName(sel.Host))
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(buf.Bytes())
	}
}
