package middleware

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hospitalshuttle/shuttle-booking/redis"
)

// RateLimit is a fixed-window limiter keyed on client IP, backed by Redis so
// the count survives restarts and is shared across replicas. When Redis is
// unavailable requests pass through.
func RateLimit(name string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if redis.Client == nil {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s:%s", name, c.IP())
		count, err := redis.Client.Incr(redis.Ctx, key).Result()
		if err != nil {
			log.Printf("rate limit: redis incr failed: %v", err)
			return c.Next()
		}
		if count == 1 {
			redis.Client.Expire(redis.Ctx, key, window)
		}
		if count > int64(max) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests from this IP, please try again later.",
			})
		}
		return c.Next()
	}
}
