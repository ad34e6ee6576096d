// Package postprocess - scored candidate boxes and their suppression.
package postprocess

import (
	"fmt"
	"sort"

	"github.com/nvr-ai/go-yolov3/geometry"
)

// Candidate is one scored box for one class, decoded from a detector output.
type Candidate struct {
	// Box is the decoded geometry in grid-normalized units.
	Box geometry.Box
	// Objectness is the probability that the anchor holds any object.
	Objectness float32
	// ClassIndex is the zero-based class the confidence refers to.
	ClassIndex int
	// Confidence is Objectness multiplied by the class score.
	Confidence float32
}

func (c Candidate) String() string {
	return fmt.Sprintf("class %d (confidence %f): x=%f y=%f w=%f h=%f",
		c.ClassIndex, c.Confidence, c.Box.CenterX, c.Box.CenterY, c.Box.Width, c.Box.Height)
}

// SortByConfidence orders candidates by descending confidence in place.
//
// The sort is stable so that candidates with equal confidence keep their
// discovery order.
//
// Arguments:
//   - candidates: The candidates to sort.
func SortByConfidence(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}
