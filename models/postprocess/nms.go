// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"github.com/nvr-ai/go-yolov3/geometry"
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"` // Overlap at or above which a box is suppressed.
	ClassAware   bool    `json:"class_aware" yaml:"class_aware"`     // If true, suppress only within same class.
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Candidates are visited in slice order; each one still standing suppresses
// every later candidate whose IoU with it reaches the threshold. With
// ClassAware unset, candidates of different classes suppress each other.
//
// Arguments:
//   - candidates: Slice of candidates sorted by descending confidence.
//   - config: NMS configuration.
//
// Returns:
//   - Indices of the surviving candidates, ascending. If no candidates are
//     provided, returns nil.
func ApplyGreedyNMS(candidates []Candidate, config *NMSConfig) []int {
	n := len(candidates)
	if n == 0 {
		return nil
	}

	suppressed := make([]bool, n)
	kept := make([]int, 0, n)

	for i := 0; i < n; i++ {
		if suppressed[i] {
			continue
		}

		anchor := candidates[i]
		kept = append(kept, i)

		for j := i + 1; j < n; j++ {
			if suppressed[j] {
				continue
			}
			if config.ClassAware && anchor.ClassIndex != candidates[j].ClassIndex {
				continue
			}

			// Boxes that share no area never suppress each other, even at a zero threshold.
			iou := geometry.IoU(anchor.Box, candidates[j].Box)
			if iou > 0 && iou >= config.IoUThreshold {
				suppressed[j] = true
			}
		}
	}

	return kept
}

// Select returns the candidates at the given indices, in index order.
func Select(candidates []Candidate, indices []int) []Candidate {
	out := make([]Candidate, 0, len(indices))
	for _, i := range indices {
		out = append(out, candidates[i])
	}
	return out
}
