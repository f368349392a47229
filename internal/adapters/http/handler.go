package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marataitester-blip/psy-color-deep/internal/app"
	"github.com/marataitester-blip/psy-color-deep/internal/domain"
)

type Handler struct {
	svc    *app.AnalyzeService
	logger *slog.Logger
}

func NewHandler(svc *app.AnalyzeService, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.Any("/api/analyze", h.Analyze)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Analyze(c echo.Context) error {
	switch c.Request().Method {
	case http.MethodOptions:
		return c.NoContent(http.StatusOK)
	case http.MethodPost:
	default:
		return c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: "Method Not Allowed"})
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		// The body limit surfaces mid-read on bodies without Content-Length.
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	resp, err := h.svc.Analyze(c.Request().Context(), app.AnalyzeRequest{UserText: req.Text()})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, AnalyzeResponse{
		CardName:       resp.Reading.CardName,
		Interpretation: resp.Reading.Text,
		ImageURL:       resp.ImageURL(),
		Warning:        resp.Warning,
	})
}

func (h *Handler) mapError(c echo.Context, err error) error {
	ctx := c.Request().Context()

	switch {
	case errors.Is(err, domain.ErrBadRequest):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrConfiguration):
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Server configuration error"})
	case errors.Is(err, domain.ErrUpstreamLLM):
		h.logger.ErrorContext(ctx, "upstream LLM failure", "error", err)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "upstream LLM failure"})
	default:
		h.logger.ErrorContext(ctx, "internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
