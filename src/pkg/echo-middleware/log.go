package echomw

import (
	"time"

	"github.com/labstack/echo/v4"

	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
)

// RouteAccessLoggerMiddleware logs every request before and after the handler.
func RouteAccessLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		startedAt := time.Now()
		LogRouteAccess(c, tl.Info, "Accessing route", palette.Blue)

		err := next(c)

		tl.Log(
			levelFor(c, tl.Info1), palette.Green, "%s: Method='%s', Path='%s', Status='%s', Took='%s'",
			"Route accessed", c.Request().Method, c.Path(), c.Response().Status, time.Since(startedAt).Round(time.Millisecond),
		)
		return err
	}
}

// LogRouteAccess logs one line about the current request.
func LogRouteAccess(c echo.Context, logLevel tl.LogLevel, actionName string, colorizer palette.Colorizer) {
	if c.Path() == "/healthz" {
		colorizer = palette.CyanDim
	}
	tl.Log(levelFor(c, logLevel), colorizer, "%s: Method='%s', Path='%s', ClientIP='%s'", actionName, c.Request().Method, c.Path(), c.RealIP())
}

// Health probes are noisy, push them down to verbose.
func levelFor(c echo.Context, logLevel tl.LogLevel) tl.LogLevel {
	if c.Path() == "/healthz" {
		return tl.Verbose
	}
	return logLevel
}
