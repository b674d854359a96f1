package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	applogger "MarketSnap/pkg/logger"
)

// RequestLogging logs every request at debug level. Failures and slow
// requests are reported at higher levels by Metrics.
func RequestLogging(l *applogger.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			l.Debug("http request",
				applogger.String("method", v.Method),
				applogger.String("uri", v.URI),
				applogger.String("route", v.RoutePath),
				applogger.String("remote", v.RemoteIP),
				applogger.Int("status", v.Status),
				applogger.Duration("latency_ms", v.Latency),
			)
			return nil
		},
	})
}
