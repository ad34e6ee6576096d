package yolov3

import (
	"github.com/nvr-ai/go-yolov3/common"
	"github.com/nvr-ai/go-yolov3/models/model"
	"github.com/nvr-ai/go-yolov3/models/postprocess"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorgonia.org/tensor"
)

// YOLOv3 decodes and suppresses the outputs of a multi-scale YOLOv3 network.
//
// A YOLOv3 holds no mutable state; Forward may be called concurrently as long
// as every call uses its own Workspace.
type YOLOv3 struct {
	params Params
	family model.Family
	nms    postprocess.NMSConfig
	logger *zap.Logger
}

// Option configures a YOLOv3.
type Option func(*YOLOv3)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(m *YOLOv3) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithFamily sets the class family the labels refer to.
func WithFamily(family model.Family) Option {
	return func(m *YOLOv3) {
		m.family = family
	}
}

// NewModel creates a new model.
//
// Arguments:
//   - params: The detection parameters.
//   - opts: Optional settings.
//
// Returns:
//   - *YOLOv3: The model.
//   - error: A configuration error from Params.Validate.
func NewModel(params Params, opts ...Option) (*YOLOv3, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	m := &YOLOv3{
		params: params,
		family: model.ModelFamilyCOCO,
		nms: postprocess.NMSConfig{
			IoUThreshold: params.NMSThreshold,
			ClassAware:   params.ClassAwareNMS,
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name returns model.ModelNameYOLOv3.
func (m *YOLOv3) Name() model.Name { return model.ModelNameYOLOv3 }

// Family returns the class family of the labels.
func (m *YOLOv3) Family() model.Family { return m.family }

// Options returns the detection parameters.
func (m *YOLOv3) Options() model.Options { return m.params }

// PostProcess wraps raw network outputs, one per scale, and runs Forward.
//
// Arguments:
//   - outputs: The [N, C, S, S] float32 output tensors, in mask group order.
//
// Returns:
//   - common.Detections: The output rows.
//   - error: An error if the outputs do not match the parameters.
func (m *YOLOv3) PostProcess(outputs []*tensor.Dense) (common.Detections, error) {
	inputs := make([]ScaleInput, len(outputs))
	for i, o := range outputs {
		inputs[i] = ScaleInput{Tensor: o}
	}
	return m.Forward(inputs)
}

// Forward decodes every scale with a fresh Workspace.
func (m *YOLOv3) Forward(inputs []ScaleInput) (common.Detections, error) {
	return m.ForwardWorkspace(NewWorkspace(), inputs)
}

// ForwardWorkspace decodes every scale, suppresses duplicates and assembles
// the output rows.
//
// Arguments:
//   - ws: Scratch memory owned by this call.
//   - inputs: One tensor per mask group, in mask group order.
//
// Returns:
//   - common.Detections: Rows in descending confidence, or one placeholder row
//     per image when nothing survives.
//   - error: ErrScaleCountMismatch or ErrShapeMismatch.
func (m *YOLOv3) ForwardWorkspace(ws *Workspace, inputs []ScaleInput) (common.Detections, error) {
	if err := m.checkInputs(inputs); err != nil {
		return nil, err
	}

	collector := NewCollector()
	for t, in := range inputs {
		DecodeScale(ws, in, m.params.Scale(t), m.params.NumClasses, m.params.ConfidenceThreshold, collector)
	}

	candidates := collector.Candidates()
	postprocess.SortByConfidence(candidates)
	kept := postprocess.Select(candidates, postprocess.ApplyGreedyNMS(candidates, &m.nms))

	batch := inputs[0].Batch()
	if len(kept) == 0 {
		m.logger.Debug("couldn't find any detections", zap.Int("batch", batch))
	}
	for _, c := range kept {
		m.logger.Debug("detection box",
			zap.Int("class", c.ClassIndex),
			zap.Float32("confidence", c.Confidence),
			zap.Float32("x", c.Box.CenterX),
			zap.Float32("y", c.Box.CenterY),
			zap.Float32("w", c.Box.Width),
			zap.Float32("h", c.Box.Height),
		)
	}

	return Assemble(kept, batch), nil
}

func (m *YOLOv3) checkInputs(inputs []ScaleInput) error {
	if len(inputs) != m.params.Groups() {
		return errors.Wrapf(ErrScaleCountMismatch, "got %d scale tensors, want %d",
			len(inputs), m.params.Groups())
	}
	for t, in := range inputs {
		if err := in.check(m.params); err != nil {
			return errors.WithMessagef(err, "scale %d", t)
		}
		if in.Batch() != inputs[0].Batch() {
			return errors.Wrapf(ErrShapeMismatch, "scale %d has batch %d, scale 0 has %d",
				t, in.Batch(), inputs[0].Batch())
		}
	}
	return nil
}
