package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/agency-functions/internal/models"
	"github.com/sirupsen/logrus"
)

// Limiter cuenta intentos por clave dentro de una ventana fija
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimitMiddleware limita los intentos por IP. Si el limitador falla la
// petición pasa.
func RateLimitMiddleware(limiter Limiter, scope string, limit int, window time.Duration, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || limit <= 0 {
			c.Next()
			return
		}

		key := "ratelimit:" + scope + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			logger.WithError(err).WithField("scope", scope).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if !allowed {
			logger.WithFields(logrus.Fields{
				"scope":     scope,
				"client_ip": c.ClientIP(),
			}).Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				models.NewErrorResponse(models.ErrorCodeRateLimited, "Too many attempts, please try again later"))
			return
		}

		c.Next()
	}
}

// RequestLogger registra cada petición con logrus
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}).Info("Request handled")
	}
}
