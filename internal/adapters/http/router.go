package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geoflex/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())
	app.Use(DeprecationMiddleware(deprecatedRoutes))

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")

	// Codec
	v1.Post("/polylines/encode", timeout.NewWithContext(EncodePolylineHandler(deps), requestTimeout))
	v1.Get("/polylines/decode", timeout.NewWithContext(DecodePolylineHandler(deps), requestTimeout))
	v1.Post("/polylines/decode", timeout.NewWithContext(DecodePolylineHandler(deps), requestTimeout))
	v1.Get("/polylines/header", timeout.NewWithContext(PolylineHeaderHandler(deps), requestTimeout))
	v1.Get("/decode", timeout.NewWithContext(DecodePolylineHandler(deps), requestTimeout))

	// HERE
	v1.Get("/routes", timeout.NewWithContext(RoutesHandler(deps), requestTimeout))
	v1.Get("/intermodal-routes", timeout.NewWithContext(IntermodalRoutesHandler(deps), requestTimeout))
	v1.Get("/isolines", timeout.NewWithContext(IsolinesHandler(deps), requestTimeout))

	// Archive
	v1.Get("/geometries", timeout.NewWithContext(ListGeometriesHandler(deps), requestTimeout))
	v1.Post("/geometries", timeout.NewWithContext(CreateGeometryHandler(deps), requestTimeout))
	v1.Get("/geometries/:id", timeout.NewWithContext(GetGeometryHandler(deps), requestTimeout))
	v1.Delete("/geometries/:id", timeout.NewWithContext(DeleteGeometryHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	if deps.NATS != nil {
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
