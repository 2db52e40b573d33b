package vision

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var (
	ColorProtected   = color.RGBA{G: 255}
	ColorUnprotected = color.RGBA{R: 255}
	colorCaption     = color.RGBA{R: 236, G: 245, B: 66}
	colorOutline     = color.RGBA{}
)

const (
	boxThickness     = 2
	captionFill      = 2
	captionOutline   = 6
	captionScale     = 1.0
	captionFirstGap  = 10
	captionLineSpace = 30
)

// BoxColor is green for protected scores and red otherwise; exactly 0.5 is red.
func BoxColor(score Score) color.RGBA {
	if score.Protected() {
		return ColorProtected
	}
	return ColorUnprotected
}

// Caption returns the two caption lines drawn beneath a region.
func Caption(score Score) [2]string {
	return [2]string{
		fmt.Sprintf("%.2f%% with mask", score.ProtectedPercent()),
		fmt.Sprintf("%.2f%% without mask", score.UnprotectedPercent()),
	}
}

type painter interface {
	Rectangle(img *gocv.Mat, r image.Rectangle, c color.RGBA, thickness int)
	Text(img *gocv.Mat, text string, org image.Point, c color.RGBA, thickness int)
}

type gocvPainter struct{}

func (gocvPainter) Rectangle(img *gocv.Mat, r image.Rectangle, c color.RGBA, thickness int) {
	gocv.Rectangle(img, r, c, thickness)
}

func (gocvPainter) Text(img *gocv.Mat, text string, org image.Point, c color.RGBA, thickness int) {
	gocv.PutTextWithParams(img, text, org, gocv.FontHersheyComplexSmall, captionScale, c, thickness, gocv.LineAA, false)
}

// Renderer draws detection boxes and their captions onto a frame.
type Renderer struct {
	paint painter
}

func NewRenderer() *Renderer {
	return &Renderer{paint: gocvPainter{}}
}

func (r *Renderer) Draw(img *gocv.Mat, region Region, score Score) {
	r.paint.Rectangle(img, region.Rectangle, BoxColor(score), boxThickness)

	for i, line := range Caption(score) {
		org := image.Pt(region.Min.X, region.Max.Y+captionFirstGap+i*captionLineSpace)
		// outline, then fill
		r.paint.Text(img, line, org, colorOutline, captionOutline)
		r.paint.Text(img, line, org, colorCaption, captionFill)
	}
}
