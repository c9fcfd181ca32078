package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/gridsquare/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
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
	app.Use(DeprecationMiddleware(legacyRoutes))

	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/grid/:ref", timeout.NewWithContext(GridRefHandler(deps), requestTimeout))
	v1.Get("/gridref/:ref", timeout.NewWithContext(GridRefHandler(deps), requestTimeout))
	v1.Get("/squares", timeout.NewWithContext(SquareHandler(deps), requestTimeout))
	v1.Get("/squares/popular", timeout.NewWithContext(PopularSquaresHandler(deps), requestTimeout))
	v1.Get("/locate", timeout.NewWithContext(LocateHandler(deps), requestTimeout))

	v1.Get("/regions", timeout.NewWithContext(ListRegionsHandler(deps), requestTimeout))
	v1.Get("/regions/:slug", timeout.NewWithContext(GetRegionHandler(deps), requestTimeout))
	v1.Put("/regions/:slug", timeout.NewWithContext(PutRegionHandler(deps), requestTimeout))
	v1.Get("/regions/:slug/geojson", timeout.NewWithContext(RegionGeoJSONHandler(deps), requestTimeout))
	v1.Get("/regions/:slug/random", timeout.NewWithContext(RandomSquareHandler(deps), requestTimeout))

	v1.Post("/boundaries/assemble", timeout.NewWithContext(AssembleBoundaryHandler(deps), requestTimeout))
	v1.Post("/boundaries/hull", timeout.NewWithContext(HullBoundaryHandler(deps), requestTimeout))
	v1.Post("/places/classify", timeout.NewWithContext(ClassifyPlacesHandler(deps), requestTimeout))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
