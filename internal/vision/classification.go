package vision

import (
	"fmt"
	"image"
	"math"
	"sync"

	"gocv.io/x/gocv"
)

// Classifier scores a square face crop. Implementations must be deterministic
// for fixed weights and return a value in [0,1].
type Classifier interface {
	Classify(crop gocv.Mat) (Score, error)
	InputSize() image.Point
	Close() error
}

type ClassifierConfig struct {
	// ModelPath is an OpenCV-readable network (ONNX, TensorFlow .pb, ...)
	// exported with NCHW input and a single sigmoid output.
	ModelPath  string
	ConfigPath string
	InputSize  int
	// Scale is applied to raw 0-255 pixel values before inference.
	Scale float64
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ModelPath: "saved_model.onnx",
		InputSize: 140,
		Scale:     1.0,
	}
}

// NetClassifier runs the mask model through the OpenCV DNN module.
type NetClassifier struct {
	cfg ClassifierConfig

	mu  sync.Mutex
	net gocv.Net
}

func NewNetClassifier(cfg ClassifierConfig) (*NetClassifier, error) {
	def := DefaultClassifierConfig()
	if cfg.ModelPath == "" {
		cfg.ModelPath = def.ModelPath
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = def.InputSize
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}

	net := gocv.ReadNet(cfg.ModelPath, cfg.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &NetClassifier{
		cfg: cfg,
		net: net,
	}, nil
}

func (c *NetClassifier) InputSize() image.Point {
	return image.Pt(c.cfg.InputSize, c.cfg.InputSize)
}

func (c *NetClassifier) Classify(crop gocv.Mat) (Score, error) {
	if crop.Empty() {
		return 0, fmt.Errorf("%w: empty crop", ErrInvalidScore)
	}

	blob := gocv.BlobFromImage(crop, c.cfg.Scale, c.InputSize(), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	c.mu.Lock()
	c.net.SetInput(blob, "")
	out := c.net.Forward("")
	c.mu.Unlock()
	defer out.Close()

	if out.Empty() || out.Total() == 0 {
		return 0, ErrInvalidScore
	}

	return NormalizeScore(float64(out.GetFloatAt(0, 0)))
}

func (c *NetClassifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.net.Close()
}

// NormalizeScore clamps a raw model output into [0,1].
func NormalizeScore(v float64) (Score, error) {
	if math.IsNaN(v) {
		return 0, ErrInvalidScore
	}
	if v < 0 {
		return 0, nil
	}
	if v > 1 {
		return 1, nil
	}
	return Score(v), nil
}
