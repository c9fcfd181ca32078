package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute marks an endpoint as deprecated with sunset date.
type DeprecatedRoute struct {
	Path        string    // Route pattern, e.g. "/v1/gridref/:ref"
	SunsetDate  time.Time // Date when endpoint will be removed
	Alternative string    // Successor endpoint (optional)
}

// legacyRoutes are kept for older clients of the grid reference lookup.
var legacyRoutes = []DeprecatedRoute{
	{
		Path:        "/v1/gridref/:ref",
		SunsetDate:  time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
		Alternative: "/v1/grid/{ref}",
	},
}

// DeprecationMiddleware adds Deprecation, Sunset, and Link headers to deprecated endpoints.
func DeprecationMiddleware(deprecated []DeprecatedRoute) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, d := range deprecated {
			if !matchPattern(c.Path(), d.Path) {
				continue
			}
			// RFC 8594
			c.Set("Deprecation", "true")
			c.Set("Sunset", d.SunsetDate.UTC().Format(time.RFC1123))
			if d.Alternative != "" {
				c.Set("Link", fmt.Sprintf(`<%s>; rel="successor-version"`, d.Alternative))
			}
			days := time.Until(d.SunsetDate).Hours() / 24
			c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))
			break
		}

		return c.Next()
	}
}

// matchPattern reports whether path matches a route pattern where segments
// starting with ':' match any single non-empty segment.
func matchPattern(path, pattern string) bool {
	ps := strings.Split(strings.Trim(path, "/"), "/")
	qs := strings.Split(strings.Trim(pattern, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i := range qs {
		if strings.HasPrefix(qs[i], ":") {
			if ps[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != qs[i] {
			return false
		}
	}
	return true
}
