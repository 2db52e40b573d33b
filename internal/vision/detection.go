package vision

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Detector locates candidate face boxes in a BGR frame. Overlapping boxes for
// the same face are returned as-is.
type Detector interface {
	Detect(img gocv.Mat) []image.Rectangle
	Close() error
}

type DetectorConfig struct {
	CascadePath  string
	ScaleFactor  float64
	MinNeighbors int
	MinSize      image.Point
}

func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		CascadePath:  "haarcascade_frontalface_default.xml",
		ScaleFactor:  1.1,
		MinNeighbors: 4,
	}
}

// CascadeDetector runs a Haar cascade on the grayscale frame.
type CascadeDetector struct {
	cfg        DetectorConfig
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
}

func NewCascadeDetector(cfg DetectorConfig) (*CascadeDetector, error) {
	def := DefaultDetectorConfig()
	if cfg.CascadePath == "" {
		cfg.CascadePath = def.CascadePath
	}
	if cfg.ScaleFactor <= 1 {
		cfg.ScaleFactor = def.ScaleFactor
	}
	if cfg.MinNeighbors <= 0 {
		cfg.MinNeighbors = def.MinNeighbors
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", ErrCascadeNotFound, cfg.CascadePath)
	}

	return &CascadeDetector{
		cfg:        cfg,
		classifier: classifier,
	}, nil
}

func (d *CascadeDetector) Detect(img gocv.Mat) []image.Rectangle {
	if img.Empty() {
		return nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.classifier.DetectMultiScaleWithParams(
		gray,
		d.cfg.ScaleFactor,
		d.cfg.MinNeighbors,
		0,
		d.cfg.MinSize,
		image.Pt(0, 0),
	)
}

func (d *CascadeDetector) Config() DetectorConfig {
	return d.cfg
}

func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.classifier.Close()
}
