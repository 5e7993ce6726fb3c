package web

import (
	"net/http"
	"strconv"
	"time"

	"credit-risk-workers/internal/common/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorCookie = "crw_visitor"
	visitorKey    = "visitorID"
	// one year, matching the preference TTL default
	visitorMaxAge = 365 * 24 * 60 * 60
)

func (s *Server) requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		elapsed := time.Since(start)

		metrics.ConsoleRequests.WithLabelValues(route, c.Request.Method, status).Inc()
		metrics.ConsoleRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())

		if route == "/metrics" || route == "/health" {
			return
		}
		s.logger.Debug("request served", map[string]interface{}{
			"method":     c.Request.Method,
			"route":      route,
			"status":     c.Writer.Status(),
			"durationMs": elapsed.Milliseconds(),
		})
	}
}

// visitor assigns each browser a random id used to key its preferences.
func (s *Server) visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(visitorCookie)
		if _, perr := uuid.Parse(id); err != nil || perr != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", s.cookieSecure, true)
		}
		c.Set(visitorKey, id)
		c.Next()
	}
}

func visitorID(c *gin.Context) string {
	return c.GetString(visitorKey)
}
