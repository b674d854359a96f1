package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	applogger "MarketSnap/pkg/logger"
)

// Recover turns handler panics into 500 responses and logs the stack.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		StackSize: 8 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l.Error("panic recovered",
				applogger.String("route", c.Path()),
				applogger.Error(err),
				applogger.String("stack", string(stack)),
			)
			return nil
		},
	})
}
