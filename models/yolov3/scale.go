package yolov3

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// ScaleInput is the raw output of one detection scale: a float32 tensor of
// shape [N, C, S, S] where C = NumBox * (5 + NumClasses).
type ScaleInput struct {
	Tensor *tensor.Dense
}

// NewScaleInput wraps row-major data of shape [batch, channels, side, side].
//
// Arguments:
//   - batch: The number of images.
//   - channels: The channel count.
//   - side: The grid side length S.
//   - data: The activations; the slice is used as the tensor backing.
//
// Returns:
//   - ScaleInput: The wrapped tensor.
//   - error: An error if data does not match the shape.
func NewScaleInput(batch, channels, side int, data []float32) (ScaleInput, error) {
	if batch <= 0 || channels <= 0 || side <= 0 {
		return ScaleInput{}, errors.Wrapf(ErrShapeMismatch, "non-positive dimension in [%d %d %d %d]",
			batch, channels, side, side)
	}
	if want := batch * channels * side * side; len(data) != want {
		return ScaleInput{}, errors.Wrapf(ErrShapeMismatch, "%d values for shape [%d %d %d %d] (want %d)",
			len(data), batch, channels, side, side, want)
	}
	return ScaleInput{
		Tensor: tensor.New(tensor.WithShape(batch, channels, side, side), tensor.WithBacking(data)),
	}, nil
}

// Batch returns N.
func (s ScaleInput) Batch() int { return s.Tensor.Shape()[0] }

// Channels returns C.
func (s ScaleInput) Channels() int { return s.Tensor.Shape()[1] }

// Side returns the grid side length S.
func (s ScaleInput) Side() int { return s.Tensor.Shape()[3] }

func (s ScaleInput) data() []float32 {
	return s.Tensor.Data().([]float32)
}

// check verifies that the tensor has the layout required by p.
func (s ScaleInput) check(p Params) error {
	if s.Tensor == nil {
		return errors.Wrap(ErrShapeMismatch, "nil tensor")
	}
	if s.Tensor.Dtype() != tensor.Float32 {
		return errors.Wrapf(ErrShapeMismatch, "dtype %v, want float32", s.Tensor.Dtype())
	}
	shape := s.Tensor.Shape()
	if len(shape) != 4 {
		return errors.Wrapf(ErrShapeMismatch, "shape %v is not [N C S S]", shape)
	}
	if shape[2] != shape[3] {
		return errors.Wrapf(ErrShapeMismatch, "grid %dx%d is not square", shape[2], shape[3])
	}
	if shape[0] <= 0 || shape[3] <= 0 {
		return errors.Wrapf(ErrShapeMismatch, "shape %v has an empty dimension", shape)
	}
	if shape[1] != p.Channels() {
		return errors.Wrapf(ErrShapeMismatch, "%d channels, want %d", shape[1], p.Channels())
	}
	return nil
}
