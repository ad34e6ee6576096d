package inference

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/nvr-ai/go-yolov3/common"
	"github.com/nvr-ai/go-yolov3/config"
	"github.com/nvr-ai/go-yolov3/models"
	"github.com/nvr-ai/go-yolov3/models/model"
	"go.uber.org/zap"
)

// Result is the outcome of one prediction.
type Result struct {
	// Detections are the raw output rows, including placeholders.
	Detections common.Detections
	// Boxes are the real detections scaled to the input image.
	Boxes []common.BoundingBox
}

// Engine runs the network and decodes its outputs.
type Engine interface {
	Predict(ctx context.Context, img image.Image) (Result, error)
	Close() error
}

// EngineBuilder helps build an engine with a fluent API.
type EngineBuilder struct {
	cfg     config.Config
	logger  *zap.Logger
	runner  Runner
	model   model.Model
	classes models.OutputClassSet
	metrics *Metrics
	err     error
}

// NewEngineBuilder creates a new engine builder.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func NewEngineBuilder(cfg config.Config) *EngineBuilder {
	return &EngineBuilder{cfg: cfg, logger: zap.NewNop()}
}

// WithLogger sets the logger handed to the model.
func (b *EngineBuilder) WithLogger(logger *zap.Logger) *EngineBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithRunner sets the runner producing raw outputs.
//
// Arguments:
//   - runner: The runner to use for the engine.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithRunner(runner Runner) *EngineBuilder {
	if b.HasError() {
		return b
	}
	b.runner = runner
	return b
}

// WithSession opens an onnxruntime session for the configured network and
// uses it as the runner.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithSession() *EngineBuilder {
	if b.HasError() {
		return b
	}
	session, err := NewSession(b.cfg)
	if err != nil {
		b.err = err
		return b
	}
	b.runner = session
	return b
}

// WithModel creates the configured model and its label table.
//
// Returns:
//   - *EngineBuilder: The engine builder.
func (b *EngineBuilder) WithModel() *EngineBuilder {
	if b.HasError() {
		return b
	}
	m, err := models.NewModel(b.cfg.ModelArgs(b.logger))
	if err != nil {
		b.err = err
		return b
	}
	b.model = m

	if len(b.cfg.Model.Labels) > 0 {
		b.classes = models.NewOutputClassSet(m.Family(), b.cfg.Model.Labels)
		return b
	}
	b.classes, b.err = models.ClassSetFor(m.Family())
	return b
}

// WithMetrics records predictions in metrics.
func (b *EngineBuilder) WithMetrics(metrics *Metrics) *EngineBuilder {
	b.metrics = metrics
	return b
}

// HasError checks if the engine builder has errors.
//
// Returns:
//   - bool: True if there are errors, false otherwise.
func (b *EngineBuilder) HasError() bool {
	return b.err != nil
}

// MustBuild builds the engine and panics if there is an error.
func (b *EngineBuilder) MustBuild() Engine {
	e, err := b.Build()
	if err != nil {
		panic(err)
	}
	return e
}

// Build builds the engine.
//
// Returns:
//   - Engine: The engine.
//   - error: The error if any.
func (b *EngineBuilder) Build() (Engine, error) {
	if b.HasError() {
		return nil, b.err
	}
	if b.runner == nil {
		return nil, errors.New("runner not configured")
	}
	if b.model == nil {
		return nil, errors.New("model not configured")
	}

	return &engine{
		runner:  b.runner,
		model:   b.model,
		classes: b.classes,
		metrics: b.metrics,
	}, nil
}

// engine implements the Engine interface.
type engine struct {
	runner  Runner
	model   model.Model
	classes models.OutputClassSet
	metrics *Metrics
}

// Predict runs the network on img and decodes its outputs.
//
// Arguments:
//   - ctx: The context for the prediction.
//   - img: The image to predict.
//
// Returns:
//   - Result: The detections.
//   - error: The error if any.
func (e *engine) Predict(ctx context.Context, img image.Image) (result Result, err error) {
	if err = ctx.Err(); err != nil {
		return Result{}, err
	}
	start := time.Now()
	defer func() { e.metrics.observe(start, result, err) }()

	outputs, err := e.runner.Run(img)
	if err != nil {
		return Result{}, err
	}
	rows, err := e.model.PostProcess(outputs)
	if err != nil {
		return Result{}, err
	}

	bounds := img.Bounds()
	boxes := make([]common.BoundingBox, 0, len(rows))
	for _, d := range rows {
		if d.IsPlaceholder() {
			continue
		}
		box := common.NewBoundingBox(d, e.classes.DetectionName(d), bounds.Dx(), bounds.Dy())
		box.X1 += float32(bounds.Min.X)
		box.X2 += float32(bounds.Min.X)
		box.Y1 += float32(bounds.Min.Y)
		box.Y2 += float32(bounds.Min.Y)
		boxes = append(boxes, box)
	}

	return Result{Detections: rows, Boxes: boxes}, nil
}

// Close releases the runner.
func (e *engine) Close() error {
	return e.runner.Close()
}
