package yolov3

import (
	"github.com/nvr-ai/go-yolov3/common"
	"github.com/nvr-ai/go-yolov3/models/postprocess"
)

// Assemble builds the output rows from the surviving candidates.
//
// With no survivors it returns one placeholder row per image so that the
// consumer always sees a fixed-width table. Otherwise every survivor becomes a
// row stamped with image id 0, since candidates do not track their image.
//
// Arguments:
//   - kept: Surviving candidates, confidence-descending.
//   - batch: The number of input images.
//
// Returns:
//   - common.Detections: The output rows.
func Assemble(kept []postprocess.Candidate, batch int) common.Detections {
	if len(kept) == 0 {
		rows := make(common.Detections, batch)
		for i := range rows {
			rows[i] = common.Placeholder(i)
		}
		return rows
	}

	rows := make(common.Detections, len(kept))
	for i, c := range kept {
		rows[i] = common.Detection{
			ImageID:    0,
			Label:      float32(c.ClassIndex + 1),
			Confidence: c.Confidence,
			XMin:       c.Box.Left(),
			YMin:       c.Box.Top(),
			XMax:       c.Box.Right(),
			YMax:       c.Box.Bottom(),
		}
	}
	return rows
}
