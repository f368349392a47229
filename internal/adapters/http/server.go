package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type ServerOptions struct {
	CORSAllowOrigin string
	BodyLimit       string
}

// NewServer wires the middleware chain and routes onto a fresh echo instance.
func NewServer(h *Handler, logger *slog.Logger, opts ServerOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(RequestIDMiddleware())
	e.Use(LoggingMiddleware(logger))
	e.Use(middleware.Recover())
	e.Use(CORSMiddleware(opts.CORSAllowOrigin))
	if opts.BodyLimit != "" {
		e.Use(middleware.BodyLimit(opts.BodyLimit))
	}

	h.Register(e)
	return e
}
