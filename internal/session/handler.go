package session

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/eleven-am/maskwatch/internal/shared"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	store  *Store
	logger *slog.Logger
}

func NewHandler(store *Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{store: store, logger: logger}
}

type MetricsListResponse struct {
	Hours   int        `json:"hours"`
	Metrics []*Metrics `json:"metrics"`
}

type SummaryResponse struct {
	Period        string  `json:"period"`
	TotalSessions int64   `json:"total_sessions"`
	Connected     int64   `json:"connected"`
	Failed        int64   `json:"failed"`
	Frames        int64   `json:"frames"`
	Faces         int64   `json:"faces"`
	DropRate      float64 `json:"drop_rate"`
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/sessions/history", h.ListHistory)
	e.GET("/sessions/metrics", h.GetMetrics)
	e.GET("/sessions/metrics/summary", h.GetSummary)
	e.GET("/sessions/:id/record", h.GetRecord)
}

// @Summary      Recent session records
// @Tags         sessions
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of records"
// @Success      200    {array}   Record
// @Router       /sessions/history [get]
func (h *Handler) ListHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	records, err := h.store.ListRecent(c.Request().Context(), limit)
	if err != nil {
		h.logger.Error("failed to list session records", "error", err)
		return shared.InternalError("list_failed", "failed to list sessions")
	}
	return c.JSON(http.StatusOK, records)
}

// @Summary      Session lifecycle record
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  Record
// @Failure      404  {object}  shared.APIError
// @Router       /sessions/{id}/record [get]
func (h *Handler) GetRecord(c echo.Context) error {
	id := c.Param("id")

	rec, err := h.store.GetRecord(c.Request().Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("session_not_found", "session record not found")
	}
	if err != nil {
		h.logger.Error("failed to get session record", "error", err, "session_id", id)
		return shared.InternalError("get_failed", "failed to get session record")
	}
	return c.JSON(http.StatusOK, rec)
}

// @Summary      Hourly session metrics
// @Tags         sessions
// @Produce      json
// @Param        hours  query     int  false  "Hours to look back (max 168)"
// @Success      200    {object}  MetricsListResponse
// @Router       /sessions/metrics [get]
func (h *Handler) GetMetrics(c echo.Context) error {
	hours := 24
	if hr, err := strconv.Atoi(c.QueryParam("hours")); err == nil && hr > 0 && hr <= 168 {
		hours = hr
	}

	metrics, err := h.store.GetMetrics(c.Request().Context(), hours)
	if err != nil {
		h.logger.Error("failed to get metrics", "error", err)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}
	if metrics == nil {
		metrics = []*Metrics{}
	}

	return c.JSON(http.StatusOK, MetricsListResponse{Hours: hours, Metrics: metrics})
}

// @Summary      Seven day session summary
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  SummaryResponse
// @Router       /sessions/metrics/summary [get]
func (h *Handler) GetSummary(c echo.Context) error {
	metrics, err := h.store.GetMetrics(c.Request().Context(), 7*24)
	if err != nil {
		h.logger.Error("failed to get metrics summary", "error", err)
		return shared.InternalError("get_metrics_failed", "failed to get metrics")
	}

	summary := SummaryResponse{Period: "7d"}
	var dropped int64
	for _, m := range metrics {
		summary.TotalSessions += m.Sessions
		summary.Connected += m.Connected
		summary.Failed += m.Failed
		summary.Frames += m.Frames
		summary.Faces += m.Faces
		dropped += m.Dropped
	}

	if summary.Frames > 0 {
		summary.DropRate = float64(dropped) / float64(summary.Frames) * 100
	}

	return c.JSON(http.StatusOK, summary)
}
