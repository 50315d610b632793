package middleware

import (
	"guildapply/internal/models"
	"guildapply/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// LocalTraceID holds the hex trace id of the request span.
const LocalTraceID = "traceID"

// TraceHeader echoes the trace id back to the caller.
const TraceHeader = "X-Trace-ID"

// TracingMiddleware opens a server span per request, continuing any incoming
// W3C trace context.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("client.address", c.IP()),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals(LocalTraceID, traceID)
		c.Set(TraceHeader, traceID)
		if rid, ok := c.Locals("requestid").(string); ok {
			span.SetAttributes(attribute.String("request.id", rid))
		}
		c.SetUserContext(ctx)

		err := c.Next()

		// Route is only known once the router has matched.
		route := c.Route().Path
		span.SetName(c.Method() + " " + route)
		status := c.Response().StatusCode()
		if err != nil {
			status = models.StatusFor(err)
		}
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if uid, ok := c.Locals(LocalUserID).(string); ok {
			span.SetAttributes(attribute.String("guildapply.actor_id", uid))
		}
		if roles, ok := c.Locals(LocalRoles).(models.Roles); ok {
			span.SetAttributes(attribute.String("guildapply.actor_tier", roles.Tier().String()))
		}
		if err != nil {
			observability.RecordError(span, err)
		} else if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fiber.ErrInternalServerError.Message)
		}

		return err
	}
}
