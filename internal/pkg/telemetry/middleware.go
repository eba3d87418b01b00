package telemetry

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/ribbitnetwork/frogmap"

// Span attribute keys.
const (
	AttrSensorHost = "sensor.host"
	AttrDuration   = "dashboard.duration"
)

// Tracer returns the service tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// Middleware opens a server span per request and stores it in the user
// context, so downstream calls made with c.UserContext() are children of it.
// The span is named after the matched route template once routing is done.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, span := Tracer().Start(c.UserContext(), c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		span.SetName(fmt.Sprintf("%s %s", c.Method(), c.Route().Path))
		status := c.Response().StatusCode()
		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", c.Route().Path),
			attribute.Int("http.status_code", status),
		)
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= 500 {
			span.SetStatus(codes.Error, "request failed")
		}
		return err
	}
}
