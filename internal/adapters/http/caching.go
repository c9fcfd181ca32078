package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets a default Cache-Control header on GET responses
// that did not set one themselves.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet || c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		if ttl := cacheControlFor(c.Path()); ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}
		return err
	}
}

// cacheControlFor picks a default by path. Grid geometry never changes, so
// square and reference lookups cache for a day; regions can be re-assembled.
func cacheControlFor(path string) string {
	switch {
	case path == "/v1/health" || path == "/v1/ready":
		return "public, max-age=10"
	case path == "/metrics":
		return "no-cache"
	case path == "/graphql":
		return "private, max-age=0"
	case strings.HasSuffix(path, "/random"):
		return "no-store"
	case strings.HasPrefix(path, "/v1/grid/"), path == "/v1/squares", path == "/v1/locate":
		return "public, max-age=86400"
	case strings.HasPrefix(path, "/v1/regions"):
		return "public, max-age=300"
	case strings.HasPrefix(path, "/v1/"):
		return "public, max-age=60"
	}
	return ""
}
