package bootstrap

import (
	"context"
	"log/slog"

	"github.com/eleven-am/maskwatch/internal/vision"
	"go.uber.org/fx"
)

func ProvideDetector(lc fx.Lifecycle, cfg *Config) (vision.Detector, error) {
	detector, err := vision.NewCascadeDetector(vision.DetectorConfig{
		CascadePath:  cfg.CascadePath,
		ScaleFactor:  cfg.DetectScaleFactor,
		MinNeighbors: cfg.DetectMinNeighbors,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return detector.Close()
		},
	})
	return detector, nil
}

func ProvideClassifier(lc fx.Lifecycle, cfg *Config) (vision.Classifier, error) {
	classifierCfg := vision.DefaultClassifierConfig()
	classifierCfg.ModelPath = cfg.ModelPath
	if cfg.ModelInputSize > 0 {
		classifierCfg.InputSize = cfg.ModelInputSize
	}

	classifier, err := vision.NewNetClassifier(classifierCfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return classifier.Close()
		},
	})
	return classifier, nil
}

func ProvideTransformer(detector vision.Detector, classifier vision.Classifier, logger *slog.Logger) *vision.Transformer {
	return vision.NewTransformer(detector, classifier, vision.NewRenderer(), logger)
}

// ProvidePool is closed after the realtime manager, which depends on it, has
// shut down.
func ProvidePool(lc fx.Lifecycle, cfg *Config, logger *slog.Logger) *vision.Pool {
	pool := vision.NewPool(cfg.WorkerCount, cfg.WorkerQueue, logger)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			pool.Close()
			return nil
		},
	})
	return pool
}

var VisionModule = fx.Options(
	fx.Provide(
		ProvideDetector,
		ProvideClassifier,
		ProvideTransformer,
		ProvidePool,
	),
)
