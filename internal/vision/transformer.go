package vision

import (
	"fmt"
	"log/slog"

	"gocv.io/x/gocv"
)

type drawer interface {
	Draw(img *gocv.Mat, region Region, score Score)
}

// Transformer runs detection, classification and overlay rendering on a frame.
// It is safe for concurrent use when its detector and classifier are.
type Transformer struct {
	detector   Detector
	classifier Classifier
	renderer   drawer
	logger     *slog.Logger
}

func NewTransformer(detector Detector, classifier Classifier, renderer *Renderer, logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = NewRenderer()
	}
	return &Transformer{
		detector:   detector,
		classifier: classifier,
		renderer:   renderer,
		logger:     logger.With("component", "transformer"),
	}
}

// TransformMat draws an overlay for every detected face onto img. With no
// detections img is left untouched. On a classification error img may already
// carry overlays for earlier regions and must not be published.
func (t *Transformer) TransformMat(img *gocv.Mat) ([]Detection, error) {
	if img == nil || img.Empty() {
		return nil, ErrInvalidFrame
	}

	boxes := t.detector.Detect(*img)
	if len(boxes) == 0 {
		return nil, nil
	}

	width, height := img.Cols(), img.Rows()
	detections := make([]Detection, 0, len(boxes))

	for _, raw := range boxes {
		region, ok := ExpandRegion(raw, width, height)
		if !ok {
			t.logger.Debug("skipping region outside frame", "box", raw.String())
			continue
		}

		score, err := t.classify(*img, region)
		if err != nil {
			return detections, fmt.Errorf("classify region %s: %w", region.String(), err)
		}

		t.renderer.Draw(img, region, score)
		detections = append(detections, Detection{Raw: raw, Region: region, Score: score})
	}

	return detections, nil
}

func (t *Transformer) classify(img gocv.Mat, region Region) (Score, error) {
	crop := img.Region(region.Rectangle)
	defer crop.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(crop, &resized, t.classifier.InputSize(), 0, 0, gocv.InterpolationLinear)

	return t.classifier.Classify(resized)
}

// Transform is TransformMat over a packed BGR frame. frame.Data is rewritten
// with the rendered overlays.
func (t *Transformer) Transform(frame *Frame) ([]Detection, error) {
	if err := frame.Validate(); err != nil {
		return nil, err
	}

	img, err := gocv.NewMatFromBytes(frame.Height, frame.Width, gocv.MatTypeCV8UC3, frame.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}
	defer img.Close()

	detections, err := t.TransformMat(&img)
	if err != nil {
		return detections, err
	}
	if len(detections) > 0 {
		copy(frame.Data, img.ToBytes())
	}
	return detections, nil
}
