package vision

import (
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"
)

type fakeDetector struct {
	boxes []image.Rectangle
	calls int
}

func (d *fakeDetector) Detect(gocv.Mat) []image.Rectangle {
	d.calls++
	return d.boxes
}

func (d *fakeDetector) Close() error { return nil }

type fakeClassifier struct {
	score Score
	err   error
	sizes []image.Point
}

func (c *fakeClassifier) Classify(crop gocv.Mat) (Score, error) {
	c.sizes = append(c.sizes, image.Pt(crop.Cols(), crop.Rows()))
	return c.score, c.err
}

func (c *fakeClassifier) InputSize() image.Point { return image.Pt(140, 140) }

func (c *fakeClassifier) Close() error { return nil }

type paintCall struct {
	kind      string
	rect      image.Rectangle
	text      string
	org       image.Point
	color     color.RGBA
	thickness int
}

type recordingPainter struct {
	mu    sync.Mutex
	calls []paintCall
	next  painter
}

func (p *recordingPainter) Rectangle(img *gocv.Mat, r image.Rectangle, c color.RGBA, thickness int) {
	p.mu.Lock()
	p.calls = append(p.calls, paintCall{kind: "rect", rect: r, color: c, thickness: thickness})
	p.mu.Unlock()
	if p.next != nil {
		p.next.Rectangle(img, r, c, thickness)
	}
}

func (p *recordingPainter) Text(img *gocv.Mat, text string, org image.Point, c color.RGBA, thickness int) {
	p.mu.Lock()
	p.calls = append(p.calls, paintCall{kind: "text", text: text, org: org, color: c, thickness: thickness})
	p.mu.Unlock()
	if p.next != nil {
		p.next.Text(img, text, org, c, thickness)
	}
}

func (p *recordingPainter) count(kind string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, c := range p.calls {
		if c.kind == kind {
			n++
		}
	}
	return n
}

// distinctText returns caption lines in draw order, ignoring the outline pass.
func (p *recordingPainter) distinctText() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, c := range p.calls {
		if c.kind != "text" {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == c.text {
			continue
		}
		out = append(out, c.text)
	}
	return out
}

func newTestTransformer(d Detector, c Classifier, p painter) *Transformer {
	return NewTransformer(d, c, &Renderer{paint: p}, nil)
}
