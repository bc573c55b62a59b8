package detector

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/snapsightai/snapsight/internal/predictions"
)

// Handler exposes the detection service over HTTP.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a Handler.
func NewHandler(log *slog.Logger, service *Service) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  log.With(slog.String("handler", "detector")),
	}
}

// Register registers all detection routes.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/predict", h.Predict)
	e.GET("/predictions/:id", h.GetPrediction)
	e.GET("/ping", h.Ping)
}

// Predict runs detection over the storage object named by the imgName query
// parameter. No detections is a 404, matching the documented contract.
func (h *Handler) Predict(c echo.Context) error {
	imgName := strings.TrimSpace(c.QueryParam("imgName"))
	if imgName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "imgName query parameter is required")
	}
	resp, err := h.service.Predict(c.Request().Context(), imgName)
	if err != nil {
		if errors.Is(err, ErrNoDetections) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		h.logger.Error("predict failed", slog.String("img", imgName), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "prediction failed")
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPrediction returns a stored prediction summary by id.
func (h *Handler) GetPrediction(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "prediction id is required")
	}
	summary, err := h.service.Summary(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, predictions.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		h.logger.Error("get prediction failed", slog.String("id", id), slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}
	return c.JSON(http.StatusOK, summary)
}

// Ping reports liveness.
func (h *Handler) Ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
