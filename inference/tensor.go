package inference

import (
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"
)

// OutputTensor is the part of an onnxruntime float32 tensor read after a run.
type OutputTensor interface {
	GetShape() ort.Shape
	GetData() []float32
}

// DenseFromOutputs copies onnxruntime outputs into gorgonia tensors.
//
// The data is copied because onnxruntime overwrites its output buffers on the
// next run.
//
// Arguments:
//   - outputs: The network outputs, one per detection scale.
//
// Returns:
//   - []*tensor.Dense: Tensors with the same shapes.
//   - error: An error if an output's data does not fill its shape.
func DenseFromOutputs(outputs []OutputTensor) ([]*tensor.Dense, error) {
	dense := make([]*tensor.Dense, len(outputs))
	for i, o := range outputs {
		shape := o.GetShape()
		dims := make([]int, len(shape))
		for d, v := range shape {
			dims[d] = int(v)
		}

		data := o.GetData()
		if int64(len(data)) != shape.FlattenedSize() {
			return nil, errors.Errorf("output %d holds %d values for shape %v", i, len(data), shape)
		}
		backing := make([]float32, len(data))
		copy(backing, data)

		dense[i] = tensor.New(tensor.WithShape(dims...), tensor.WithBacking(backing))
	}
	return dense, nil
}
