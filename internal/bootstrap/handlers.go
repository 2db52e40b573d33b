package bootstrap

import (
	"log/slog"
	"os"
	"path/filepath"

	_ "github.com/eleven-am/maskwatch/docs"
	"github.com/eleven-am/maskwatch/internal/history"
	"github.com/eleven-am/maskwatch/internal/session"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/fx"
)

type HandlerParams struct {
	fx.In

	JobHandler     *history.Handler
	SessionHandler *session.Handler
	Config         *Config
}

func RegisterRoutes(e *echo.Echo, params HandlerParams) {
	params.JobHandler.RegisterRoutes(e)
	params.SessionHandler.RegisterRoutes(e)

	e.GET("/swagger/*", echoSwagger.EchoWrapHandler())

	e.Static("/static", params.Config.StaticDir)
	e.File("/favicon.ico", filepath.Join(params.Config.StaticDir, "favicon.ico"))
	e.File("/", filepath.Join(params.Config.TemplateDir, "index.html"))
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ProvideLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)
	return logger
}

func ProvideJobHandler(store *history.Store, logger *slog.Logger) *history.Handler {
	return history.NewHandler(store, logger.With("handler", "uploads"))
}

func ProvideSessionHandler(store *session.Store, logger *slog.Logger) *session.Handler {
	return session.NewHandler(store, logger.With("handler", "session"))
}

var HandlersModule = fx.Options(
	fx.Provide(
		ProvideJobHandler,
		ProvideSessionHandler,
	),
	fx.Invoke(RegisterRoutes),
)
