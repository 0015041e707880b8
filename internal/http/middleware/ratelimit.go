package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Flofactionllc/flofaction-website-sub000/internal/metrics"
	"github.com/Flofactionllc/flofaction-website-sub000/internal/ratelimit"
)

// RateLimit keys requests by route and client IP. A limiter error lets the
// request through.
func RateLimit(limiter ratelimit.Limiter, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		d, err := limiter.Allow(c.Request.Context(), route+"|"+c.ClientIP())
		if err != nil {
			logger.Warn().Err(err).Str("route", route).Msg("rate limiter unavailable")
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			metrics.RateLimited.WithLabelValues(route).Inc()
			retry := int(math.Ceil(d.RetryAfter.Seconds()))
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			abort(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", gin.H{"retryAfterSeconds": retry})
			return
		}
		c.Next()
	}
}
