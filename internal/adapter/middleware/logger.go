package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger writes one access log line per request through logrus.
func RequestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
			}
			if a, ok := ActorFrom(c); ok {
				fields["actor_id"] = a.ID
			}
			if id := c.Request().Header.Get(headerRequestID); id != "" {
				fields["request_id"] = id
			}
			entry := log.WithFields(fields)
			switch {
			case v.Error != nil:
				entry.WithError(v.Error).Error("request")
			case v.Status >= 500:
				entry.Error("request")
			default:
				entry.Info("request")
			}
			return nil
		},
	})
}
