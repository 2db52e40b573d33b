package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/eleven-am/maskwatch/internal/history"
	"github.com/eleven-am/maskwatch/internal/shared"
	"github.com/labstack/echo/v4"
)

const DefaultMaxUploadSize int64 = 200 << 20

type processor interface {
	Process(ctx context.Context, filename string, data []byte) (*Result, Stats, error)
}

// JobRecorder persists one record per upload.
type JobRecorder interface {
	Create(ctx context.Context, job *history.Job) error
}

type Handler struct {
	processor processor
	jobs      JobRecorder
	maxSize   int64
	logger    *slog.Logger
}

func NewHandler(p *Processor, jobs JobRecorder, maxSize int64, logger *slog.Logger) *Handler {
	return newHandler(p, jobs, maxSize, logger)
}

func newHandler(p processor, jobs JobRecorder, maxSize int64, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxUploadSize
	}
	return &Handler{
		processor: p,
		jobs:      jobs,
		maxSize:   maxSize,
		logger:    logger.With("component", "batch-handler"),
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, mw ...echo.MiddlewareFunc) {
	e.POST("/photovideo", h.HandleUpload, mw...)
}

// @Summary      Process a photo or video
// @Description  Draws mask overlays on every detected face. Images are returned as PNG, videos as mp4; both base64 encoded.
// @Tags         batch
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "jpg, png or mp4 upload"
// @Success      200   {object}  Result
// @Failure      400   {object}  shared.APIError
// @Failure      413   {object}  shared.APIError
// @Failure      422   {object}  shared.APIError
// @Failure      500   {object}  shared.APIError
// @Router       /photovideo [post]
func (h *Handler) HandleUpload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxSize+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return shared.RequestTooLarge("upload_too_large", "upload exceeds maximum size")
		}
		return shared.BadRequest("missing_file", "multipart field \"file\" is required")
	}
	if fh.Size > h.maxSize {
		return shared.RequestTooLarge("upload_too_large", "upload exceeds maximum size")
	}

	f, err := fh.Open()
	if err != nil {
		return shared.BadRequest("invalid_file", "failed to open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return shared.BadRequest("invalid_file", "failed to read upload")
	}

	ctx := req.Context()
	result, stats, err := h.processor.Process(ctx, fh.Filename, data)
	h.record(ctx, fh.Filename, stats, err)

	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr) && errors.Is(err, ErrUnsupportedExtension):
			return shared.UnprocessableEntity("unsupported_extension", "only jpg, png and mp4 uploads are supported")
		case errors.As(err, &verr):
			return shared.BadRequest("empty_upload", "upload is empty")
		case errors.Is(err, ErrUndecodable):
			return shared.UnprocessableEntity("undecodable_media", "upload could not be decoded")
		case errors.Is(err, context.Canceled):
			return shared.BadRequest("cancelled", "request cancelled")
		default:
			h.logger.Error("upload processing failed", "filename", fh.Filename, "error", err)
			return shared.InternalError("processing_failed", "failed to process upload")
		}
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) record(ctx context.Context, filename string, stats Stats, procErr error) {
	if h.jobs == nil {
		return
	}

	_, ext := SplitFilename(filename)
	job := &history.Job{
		OriginalFilename: filename,
		Extension:        ext,
		Kind:             string(stats.Kind),
		Status:           history.JobSucceeded,
		Frames:           stats.Frames,
		Faces:            stats.Faces,
		BytesIn:          stats.BytesIn,
		BytesOut:         stats.BytesOut,
		DurationMs:       stats.Duration.Milliseconds(),
	}

	var verr *ValidationError
	switch {
	case errors.As(procErr, &verr):
		job.Status = history.JobRejected
		job.Error = procErr.Error()
	case procErr != nil:
		job.Status = history.JobFailed
		job.Error = procErr.Error()
	}

	// the request context may already be cancelled
	if err := h.jobs.Create(context.WithoutCancel(ctx), job); err != nil {
		h.logger.Warn("failed to record upload", "filename", filename, "error", err)
	}
}
