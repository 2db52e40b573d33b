package vision

import "image"

const (
	PaddingX = 20
	PaddingY = 40
)

// Region is a padded detector box clipped to the frame. A valid region always
// satisfies 0 <= Min.X < Max.X <= width and 0 <= Min.Y < Max.Y <= height.
type Region struct {
	image.Rectangle
}

// ExpandRegion pads a raw detector box and clamps it to a width x height frame.
// ok is false when nothing of the box survives clamping.
func ExpandRegion(raw image.Rectangle, width, height int) (Region, bool) {
	r := image.Rect(
		raw.Min.X-PaddingX,
		raw.Min.Y-PaddingY,
		raw.Max.X+PaddingX,
		raw.Max.Y+PaddingY,
	)
	r = r.Intersect(image.Rect(0, 0, width, height))
	if r.Empty() {
		return Region{}, false
	}
	return Region{Rectangle: r}, true
}

func (r Region) Within(width, height int) bool {
	return r.Min.X >= 0 && r.Min.Y >= 0 &&
		r.Min.X < r.Max.X && r.Min.Y < r.Max.Y &&
		r.Max.X <= width && r.Max.Y <= height
}
