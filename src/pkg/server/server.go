/*
Package server exposes the capture pipeline over HTTP with echo.

Every /api route sits behind the bearer token, the per-IP rate limiter and
the access logger from echomw. /healthz is open.
*/
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	tl "github.com/tuumbleweed/tintlog/logger"
	"github.com/tuumbleweed/tintlog/palette"
	"github.com/tuumbleweed/xerr"

	echomw "digit-capture/src/pkg/echo-middleware"
	"digit-capture/src/pkg/email"
	"digit-capture/src/pkg/manualentry"
	"digit-capture/src/pkg/scan"
)

// Server wires the HTTP routes to one scan.State.
type Server struct {
	Echo  *echo.Echo
	cfg   Config
	state scan.State
	store manualentry.Store
	share email.Config
}

// New builds the echo instance and registers every route.
func New(cfg Config, state scan.State, store manualentry.Store, share email.Config, token string, limiter *echomw.RateLimiter) *Server {
	s := &Server{
		Echo:  echo.New(),
		cfg:   cfg,
		state: state,
		store: store,
		share: share,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.GET("/healthz", s.health, echomw.RouteAccessLoggerMiddleware)

	api := s.Echo.Group("/api", echomw.RouteAccessLoggerMiddleware, limiter.Middleware, echomw.RequireBearerToken(token))
	if cfg.MaxUploadBytes > 0 {
		// Rejects oversized bodies before the multipart form is parsed.
		api.Use(middleware.BodyLimit(strconv.FormatInt(cfg.MaxUploadBytes, 10)))
	}
	api.POST("/captures", s.postCapture)
	api.GET("/log", s.getLog)
	api.DELETE("/log", s.deleteLog)
	api.POST("/log/share", s.shareLog)
	api.GET("/manual-entries", s.getManualEntries)
	api.PUT("/manual-entries", s.putManualEntries)

	return s
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) (e *xerr.Error) {
	address := s.cfg.ListenAddress()
	errs := make(chan error, 1)
	go func() {
		tl.Log(tl.Notice, palette.BlueBold, "%s on '%s'", "Listening", address)
		errs <- s.Echo.Start(address)
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return xerr.NewError(err, "start http server", address)
	case <-ctx.Done():
	}

	tl.Log(tl.Notice, palette.Yellow, "%s http server on '%s'", "Shutting down", address)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeoutMs)*time.Millisecond)
	defer cancel()

	err := s.Echo.Shutdown(shutdownCtx)
	if err != nil {
		return xerr.NewError(err, "shut down http server", address)
	}
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
