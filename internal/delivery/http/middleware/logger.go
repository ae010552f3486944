package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/place-microservice/internal/pkg/metrics"
)

const (
	HeaderRequestID = "X-Request-ID"
	localRequestID  = "request_id"
)

// RequestID возвращает идентификатор запроса, выставленный Logger
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(localRequestID).(string)
	return id
}

// Logger пишет access-лог и HTTP-метрики. Идентификатор запроса берется из
// X-Request-ID или генерируется
func Logger(logger *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Locals(localRequestID, requestID)
		c.Set(HeaderRequestID, requestID)

		err := c.Next()
		if err != nil {
			// ErrorHandler еще не отработал, статус берем из ошибки
			if fe, ok := err.(*fiber.Error); ok {
				c.Status(fe.Code)
			} else {
				c.Status(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		latency := time.Since(start)

		route := c.Route().Path
		m.ObserveHTTP(route, c.Method(), strconv.Itoa(status), latency)

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
		}
		if v := ViewerFrom(c); v.IsAuthenticated() {
			fields = append(fields, zap.Int64("viewer_id", v.ID))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("HTTP request", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}

		return err
	}
}
