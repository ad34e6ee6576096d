package common

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
)

// BoundingBox represents a detection scaled to an image, with its label,
// confidence, and pixel coordinates.
type BoundingBox struct {
	Label          string
	Confidence     float32
	X1, Y1, X2, Y2 float32
}

// NewBoundingBox scales a normalized detection to an image of the given size.
//
// Detection rows are not clamped, so the pixel coordinates are clamped to the
// image here.
//
// Arguments:
//   - d: The detection row.
//   - label: The human-readable class name.
//   - width: The image width in pixels.
//   - height: The image height in pixels.
//
// Returns:
//   - BoundingBox: The box in pixel coordinates.
//
// @example
// d := Detection{Label: 1, Confidence: 0.9, XMin: 0.25, YMin: 0.25, XMax: 0.75, YMax: 0.75}
// box := NewBoundingBox(d, "person", 640, 480) // (160, 120), (480, 360)
func NewBoundingBox(d Detection, label string, width, height int) BoundingBox {
	w, h := float32(width), float32(height)
	return BoundingBox{
		Label:      label,
		Confidence: d.Confidence,
		X1:         clamp(d.XMin*w, 0, w),
		Y1:         clamp(d.YMin*h, 0, h),
		X2:         clamp(d.XMax*w, 0, w),
		Y2:         clamp(d.YMax*h, 0, h),
	}
}

func clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(v, hi))
}

func (b *BoundingBox) String() string {
	return fmt.Sprintf("Object %s (confidence %f): (%f, %f), (%f, %f)",
		b.Label, b.Confidence, b.X1, b.Y1, b.X2, b.Y2)
}

// ToRect converts the bounding box to an image.Rectangle.
//
// This loses the fractional pixels around the edges.
//
// @example
// box := BoundingBox{X1: 100.5, Y1: 100.5, X2: 200.5, Y2: 300.5}
// rect := box.ToRect() // (100,100)-(200,300)
func (b *BoundingBox) ToRect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2)).Canon()
}
