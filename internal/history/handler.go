package history

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

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/uploads", h.List)
	e.GET("/uploads/summary", h.Summary)
	e.GET("/uploads/:id", h.Get)
}

// @Summary      List recent uploads
// @Tags         uploads
// @Produce      json
// @Param        limit   query     int     false  "Maximum number of jobs"
// @Param        status  query     string  false  "succeeded, failed or rejected"
// @Success      200     {array}   Job
// @Failure      400     {object}  shared.APIError
// @Router       /uploads [get]
func (h *Handler) List(c echo.Context) error {
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return shared.BadRequest("invalid_limit", "limit must be a positive integer")
		}
		limit = n
	}

	status := JobStatus(c.QueryParam("status"))
	switch status {
	case "", JobSucceeded, JobFailed, JobRejected:
	default:
		return shared.BadRequest("invalid_status", "unknown job status")
	}

	jobs, err := h.store.List(c.Request().Context(), status, limit)
	if err != nil {
		h.logger.Error("failed to list jobs", "error", err)
		return shared.InternalError("list_failed", "failed to list uploads")
	}
	if jobs == nil {
		jobs = []*Job{}
	}
	return c.JSON(http.StatusOK, jobs)
}

// @Summary      Get an upload
// @Tags         uploads
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  Job
// @Failure      404  {object}  shared.APIError
// @Router       /uploads/{id} [get]
func (h *Handler) Get(c echo.Context) error {
	job, err := h.store.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NotFound("job_not_found", "upload not found")
	}
	if err != nil {
		h.logger.Error("failed to get job", "error", err)
		return shared.InternalError("get_failed", "failed to get upload")
	}
	return c.JSON(http.StatusOK, job)
}

// @Summary      Upload totals by status
// @Tags         uploads
// @Produce      json
// @Success      200  {object}  Summary
// @Router       /uploads/summary [get]
func (h *Handler) Summary(c echo.Context) error {
	sum, err := h.store.Summary(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to summarise jobs", "error", err)
		return shared.InternalError("summary_failed", "failed to summarise uploads")
	}
	return c.JSON(http.StatusOK, sum)
}
