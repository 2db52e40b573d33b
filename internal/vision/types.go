package vision

import (
	"fmt"
	"image"
)

type PixelFormat string

const (
	PixelFormatBGR24 PixelFormat = "bgr24"
)

func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatBGR24:
		return 3
	default:
		return 0
	}
}

// Rational is a presentation time base, e.g. 1/90000 for RTP video.
type Rational struct {
	Num int
	Den int
}

// Frame is one decoded picture. Data holds packed rows of Format pixels and is
// rewritten in place when overlays are drawn.
type Frame struct {
	Data     []byte
	Width    int
	Height   int
	Format   PixelFormat
	PTS      int64
	TimeBase Rational
}

func (f *Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	bpp := f.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: unsupported pixel format %q", ErrInvalidFrame, f.Format)
	}
	if want := f.Width * f.Height * bpp; len(f.Data) != want {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidFrame, want, len(f.Data))
	}
	return nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Data = make([]byte, len(f.Data))
	copy(c.Data, f.Data)
	return &c
}

// Score is the classifier output in [0,1]. Below Threshold the face is
// considered covered by a mask.
type Score float64

const Threshold Score = 0.5

func (s Score) Protected() bool {
	return s < Threshold
}

// ProtectedPercent is the caption value for the "with mask" line.
func (s Score) ProtectedPercent() float64 {
	return 100 * (1 - float64(s))
}

// UnprotectedPercent is the caption value for the "without mask" line.
func (s Score) UnprotectedPercent() float64 {
	return 100 * float64(s)
}

type Detection struct {
	Raw    image.Rectangle `json:"raw"`
	Region Region          `json:"region"`
	Score  Score           `json:"score"`
}
