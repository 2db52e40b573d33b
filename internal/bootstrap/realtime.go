package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/maskwatch/internal/ratelimit"
	"github.com/eleven-am/maskwatch/internal/realtime"
	"github.com/eleven-am/maskwatch/internal/session"
	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

func ProvideRTCConfig(cfg *Config) realtime.Config {
	iceServers := make([]realtime.ICEServerConfig, 0, len(cfg.RTCICEServers))
	for _, s := range cfg.RTCICEServers {
		iceServers = append(iceServers, realtime.ICEServerConfig{
			URLs:       s.URLs,
			Username:   s.Username,
			Credential: s.Credential,
		})
	}

	return realtime.Config{
		ICEServers: iceServers,
		PortRange: realtime.PortRange{
			Min: cfg.RTCPortMin,
			Max: cfg.RTCPortMax,
		},
		GatherTimeout:       cfg.RTCGatherTimeout,
		LegacyOfferEncoding: cfg.OfferLegacyEncoding,
		EncoderFPS:          cfg.EncoderFPS,
		EncoderBitrate:      cfg.EncoderBitrate,
	}
}

func ProvideRTCManager(
	lc fx.Lifecycle,
	rtcCfg realtime.Config,
	cfg *Config,
	pool *vision.Pool,
	transformer *vision.Transformer,
	recorder *session.Store,
	logger *slog.Logger,
) (*realtime.Manager, error) {
	mgr, err := realtime.NewManager(rtcCfg, pool, transformer, recorder, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return mgr.Shutdown(ctx)
		},
	})
	return mgr, nil
}

func ProvideRTCHandler(mgr *realtime.Manager, logger *slog.Logger) *realtime.Handler {
	return realtime.NewHandler(mgr, logger)
}

func RegisterRealtimeRoutes(e *echo.Echo, h *realtime.Handler, limiter *ratelimit.Store) {
	h.RegisterRoutes(e, limiter.Middleware())
}

var RealtimeModule = fx.Options(
	fx.Provide(
		ProvideRTCConfig,
		ProvideRTCManager,
		ProvideRTCHandler,
	),
	fx.Invoke(RegisterRealtimeRoutes),
)
