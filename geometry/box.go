// Package geometry - overlap arithmetic on center-size boxes.
package geometry

import "github.com/chewxy/math32"

// Box is an axis-aligned box described by its center and size. Detector output
// uses grid-normalized units, but nothing here depends on the unit.
type Box struct {
	CenterX float32 `json:"center_x" yaml:"center_x"`
	CenterY float32 `json:"center_y" yaml:"center_y"`
	Width   float32 `json:"width" yaml:"width"`
	Height  float32 `json:"height" yaml:"height"`
}

// Left returns the minimum x edge.
func (b Box) Left() float32 { return b.CenterX - b.Width/2 }

// Right returns the maximum x edge.
func (b Box) Right() float32 { return b.CenterX + b.Width/2 }

// Top returns the minimum y edge.
func (b Box) Top() float32 { return b.CenterY - b.Height/2 }

// Bottom returns the maximum y edge.
func (b Box) Bottom() float32 { return b.CenterY + b.Height/2 }

// Area returns Width * Height.
func (b Box) Area() float32 { return b.Width * b.Height }

// Overlap returns the length shared by two 1-D segments given as center and
// length. The result is negative when the segments are apart.
//
// Arguments:
//   - c1, len1: Center and length of the first segment.
//   - c2, len2: Center and length of the second segment.
//
// Returns:
//   - The signed overlap length.
func Overlap(c1, len1, c2, len2 float32) float32 {
	left := math32.Max(c1-len1/2, c2-len2/2)
	right := math32.Min(c1+len1/2, c2+len2/2)
	return right - left
}

// Intersection returns the area shared by a and b, or 0 when they do not overlap
// on either axis.
func Intersection(a, b Box) float32 {
	w := Overlap(a.CenterX, a.Width, b.CenterX, b.Width)
	h := Overlap(a.CenterY, a.Height, b.CenterY, b.Height)
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

// Union returns area(a) + area(b) - Intersection(a, b).
func Union(a, b Box) float32 {
	return a.Area() + b.Area() - Intersection(a, b)
}

// IoU calculates the Intersection over Union of two boxes.
//
// A union that is zero or negative (degenerate boxes) yields 0 so that no NaN
// or Inf leaks into suppression decisions.
//
// Arguments:
//   - a: The first box.
//   - b: The second box.
//
// Returns:
//   - float32: The IoU in [0, 1].
//
// Example Usage:
// ```go
//
//	a := Box{CenterX: 5, CenterY: 5, Width: 10, Height: 10}
//	b := Box{CenterX: 10, CenterY: 10, Width: 10, Height: 10}
//	iou := IoU(a, b) // 25 / 175 = 0.142857
//
// ```
func IoU(a, b Box) float32 {
	u := Union(a, b)
	if u <= 0 || math32.IsNaN(u) {
		return 0
	}
	return Intersection(a, b) / u
}
