package bootstrap

import (
	"log/slog"

	"github.com/eleven-am/maskwatch/internal/batch"
	"github.com/eleven-am/maskwatch/internal/history"
	"github.com/eleven-am/maskwatch/internal/ratelimit"
	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func ProvideBatchProcessor(cfg *Config, transformer *vision.Transformer, pool *vision.Pool, logger *slog.Logger) *batch.Processor {
	return batch.NewProcessor(batch.Config{
		TempDir:    cfg.TempDir,
		VideoCodec: cfg.VideoCodec,
	}, transformer, pool, logger)
}

func ProvideBatchHandler(cfg *Config, p *batch.Processor, jobs *history.Store, logger *slog.Logger) *batch.Handler {
	return batch.NewHandler(p, jobs, cfg.MaxUploadSize, logger)
}

func RegisterBatchRoutes(e *echo.Echo, h *batch.Handler, limiter *ratelimit.Store) {
	h.RegisterRoutes(e, limiter.Middleware())
}

var BatchModule = fx.Options(
	fx.Provide(
		ProvideBatchProcessor,
		ProvideBatchHandler,
	),
	fx.Invoke(RegisterBatchRoutes),
)
