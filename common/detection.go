// Package common - detection rows shared by models and consumers.
package common

import (
	"fmt"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// RowWidth is the number of fields in one detection row.
const RowWidth = 7

// NoDetection fills every field except ImageID of a placeholder row.
const NoDetection float32 = -1

// Detection is one output row:
// [image_id, label, confidence, xmin, ymin, xmax, ymax].
//
// Label 0 is reserved for the background class, so a zero-based class index c
// is reported as label c+1. Coordinates are grid-normalized and not clamped.
type Detection struct {
	ImageID    float32 `json:"image_id" yaml:"image_id"`
	Label      float32 `json:"label" yaml:"label"`
	Confidence float32 `json:"confidence" yaml:"confidence"`
	XMin       float32 `json:"xmin" yaml:"xmin"`
	YMin       float32 `json:"ymin" yaml:"ymin"`
	XMax       float32 `json:"xmax" yaml:"xmax"`
	YMax       float32 `json:"ymax" yaml:"ymax"`
}

// Placeholder returns the row reported for an image without detections.
func Placeholder(imageID int) Detection {
	return Detection{
		ImageID:    float32(imageID),
		Label:      NoDetection,
		Confidence: NoDetection,
		XMin:       NoDetection,
		YMin:       NoDetection,
		XMax:       NoDetection,
		YMax:       NoDetection,
	}
}

// IsPlaceholder reports whether d stands for "no detections".
func (d Detection) IsPlaceholder() bool {
	return d.Label == NoDetection
}

// ClassIndex returns the zero-based class index, or -1 for a placeholder.
func (d Detection) ClassIndex() int {
	if d.IsPlaceholder() {
		return -1
	}
	return int(d.Label) - 1
}

// Row returns the fields in output column order.
func (d Detection) Row() [RowWidth]float32 {
	return [RowWidth]float32{d.ImageID, d.Label, d.Confidence, d.XMin, d.YMin, d.XMax, d.YMax}
}

func (d Detection) String() string {
	if d.IsPlaceholder() {
		return fmt.Sprintf("image %d: no detections", int(d.ImageID))
	}
	return fmt.Sprintf("image %d label %d (confidence %f): (%f, %f), (%f, %f)",
		int(d.ImageID), int(d.Label), d.Confidence, d.XMin, d.YMin, d.XMax, d.YMax)
}

// Detections is an ordered table of detection rows.
type Detections []Detection

// Flatten returns the rows as one contiguous row-major slice.
func (ds Detections) Flatten() []float32 {
	data := make([]float32, 0, len(ds)*RowWidth)
	for _, d := range ds {
		row := d.Row()
		data = append(data, row[:]...)
	}
	return data
}

// Tensor returns the rows as a [1, 1, K, 7] tensor.
//
// Returns:
//   - *tensor.Dense: The row table, or nil when ds is empty.
func (ds Detections) Tensor() *tensor.Dense {
	if len(ds) == 0 {
		return nil
	}
	return tensor.New(
		tensor.WithShape(1, 1, len(ds), RowWidth),
		tensor.WithBacking(ds.Flatten()),
	)
}

// DetectionsFromTensor reads a [1, 1, K, 7] float32 row table.
//
// Arguments:
//   - t: The row table.
//
// Returns:
//   - Detections: The rows in table order.
//   - error: An error if the tensor does not have the row table layout.
func DetectionsFromTensor(t *tensor.Dense) (Detections, error) {
	if t == nil {
		return nil, errors.New("nil detection tensor")
	}
	shape := t.Shape()
	if len(shape) != 4 || shape[0] != 1 || shape[1] != 1 || shape[3] != RowWidth {
		return nil, errors.Errorf("detection tensor has shape %v, want [1 1 K %d]", shape, RowWidth)
	}
	data, ok := t.Data().([]float32)
	if !ok {
		return nil, errors.Errorf("detection tensor has dtype %v, want float32", t.Dtype())
	}

	rows := make(Detections, shape[2])
	for i := range rows {
		r := data[i*RowWidth : (i+1)*RowWidth]
		rows[i] = Detection{
			ImageID:    r[0],
			Label:      r[1],
			Confidence: r[2],
			XMin:       r[3],
			YMin:       r[4],
			XMax:       r[5],
			YMax:       r[6],
		}
	}
	return rows, nil
}
