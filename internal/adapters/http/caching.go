package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control headers on GET responses. Live data
// is cached for at most one refresh period; handlers that set their own
// header win.
func CachingMiddleware(refreshSeconds int) fiber.Handler {
	if refreshSeconds <= 0 {
		refreshSeconds = 60
	}
	live := fmt.Sprintf("public, max-age=%d", refreshSeconds)

	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		if existing := string(c.Response().Header.Peek(fiber.HeaderCacheControl)); existing != "" {
			return err
		}

		path := c.Path()
		var ttl string

		switch {
		case path == "/v1/health" || path == "/v1/ready":
			ttl = "public, max-age=10"

		case path == "/metrics":
			ttl = "no-cache"

		case path == "/v1/dashboard":
			ttl = "public, max-age=3600"

		case strings.HasPrefix(path, "/v1/map"), path == "/v1/sensors":
			ttl = live

		case strings.HasPrefix(path, "/v1/sensors/"):
			ttl = live

		case strings.HasPrefix(path, "/v1/"):
			ttl = "public, max-age=60"
		}

		if ttl != "" {
			c.Set(fiber.HeaderCacheControl, ttl)
		}

		return err
	}
}
