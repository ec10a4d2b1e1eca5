// internal/middleware/logging.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/craftchain/artisan-marketplace/internal/services"
)

// RequestLogger emits one structured line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		entry := logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": duration.Milliseconds(),
			"ip":       c.ClientIP(),
		})
		if wallet, exists := c.Get("wallet_address"); exists {
			entry = entry.WithField("wallet", wallet)
		}

		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request processed")
		}
	}
}

// StartMutationAudit drains the event bus into the audit log. The returned
// stop function cancels the subscription.
func StartMutationAudit(bus *services.EventBus) func() {
	events, cancel := bus.Subscribe(64)
	go func() {
		for event := range events {
			logrus.WithFields(logrus.Fields{
				"event":      event.Type,
				"product_id": event.ProductID,
				"artisan_id": event.ArtisanID,
				"actor":      event.Actor,
			}).Info("State mutation")
		}
	}()
	return cancel
}
