package common

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestPlaceholder(t *testing.T) {
	d := Placeholder(3)

	assert.True(t, d.IsPlaceholder())
	assert.Equal(t, -1, d.ClassIndex())
	assert.Equal(t, [RowWidth]float32{3, -1, -1, -1, -1, -1, -1}, d.Row())
	assert.Equal(t, "image 3: no detections", d.String())
}

func TestDetectionClassIndex(t *testing.T) {
	d := Detection{Label: 1, Confidence: 0.9}

	assert.False(t, d.IsPlaceholder())
	assert.Equal(t, 0, d.ClassIndex())
}

func TestDetectionsTensorRoundTrip(t *testing.T) {
	rows := Detections{
		{ImageID: 0, Label: 3, Confidence: 0.9, XMin: 0.1, YMin: 0.2, XMax: 0.3, YMax: 0.4},
		{ImageID: 0, Label: 1, Confidence: 0.7, XMin: -0.1, YMin: 0.5, XMax: 1.3, YMax: 0.9},
	}

	dense := rows.Tensor()
	require.NotNil(t, dense)
	assert.Equal(t, tensor.Shape{1, 1, 2, RowWidth}, dense.Shape())
	assert.Equal(t, []float32{
		0, 3, 0.9, 0.1, 0.2, 0.3, 0.4,
		0, 1, 0.7, -0.1, 0.5, 1.3, 0.9,
	}, dense.Data())

	back, err := DetectionsFromTensor(dense)
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestDetectionsTensorEmpty(t *testing.T) {
	assert.Nil(t, Detections{}.Tensor())
}

func TestDetectionsFromTensorErrors(t *testing.T) {
	_, err := DetectionsFromTensor(nil)
	assert.Error(t, err)

	wrongShape := tensor.New(tensor.WithShape(2, 7), tensor.WithBacking(make([]float32, 14)))
	_, err = DetectionsFromTensor(wrongShape)
	assert.Error(t, err)

	wrongType := tensor.New(tensor.WithShape(1, 1, 1, 7), tensor.WithBacking(make([]float64, 7)))
	_, err = DetectionsFromTensor(wrongType)
	assert.Error(t, err)
}

func TestNewBoundingBox(t *testing.T) {
	tests := []struct {
		name     string
		det      Detection
		expected image.Rectangle
	}{
		{
			name:     "inside",
			det:      Detection{Label: 1, Confidence: 0.9, XMin: 0.25, YMin: 0.25, XMax: 0.75, YMax: 0.75},
			expected: image.Rect(160, 120, 480, 360),
		},
		{
			name:     "clamped to the image",
			det:      Detection{Label: 2, Confidence: 0.8, XMin: -0.5, YMin: -0.1, XMax: 1.5, YMax: 0.5},
			expected: image.Rect(0, 0, 640, 240),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewBoundingBox(tt.det, "person", 640, 480)
			assert.Equal(t, tt.expected, box.ToRect())
			assert.Equal(t, "person", box.Label)
			assert.Equal(t, tt.det.Confidence, box.Confidence)
		})
	}
}

func TestBoundingBoxString(t *testing.T) {
	box := BoundingBox{Label: "dog", Confidence: 0.5, X1: 1, Y1: 2, X2: 3, Y2: 4}
	assert.Equal(t, "Object dog (confidence 0.500000): (1.000000, 2.000000), (3.000000, 4.000000)", box.String())
}
