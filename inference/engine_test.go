package inference

import (
	"context"
	"image"
	"testing"

	"github.com/nvr-ai/go-yolov3/config"
	"github.com/nvr-ai/go-yolov3/models/yolov3"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

type fakeRunner struct {
	outputs []*tensor.Dense
	err     error
	closed  bool
}

func (f *fakeRunner) Run(image.Image) ([]*tensor.Dense, error) { return f.outputs, f.err }

func (f *fakeRunner) Close() error {
	f.closed = true
	return nil
}

// widgetConfig detects a single class on a one-cell grid with a 32x16 anchor.
func widgetConfig() config.Config {
	cfg := config.Default()
	cfg.Detector = yolov3.Params{
		NumClasses:          1,
		NumBox:              1,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		Biases:              []float32{32, 16},
		Mask:                []int{0},
		AnchorsScale:        []float32{64},
	}
	cfg.Model.Labels = []string{"widget"}
	cfg.Model.Outputs = []config.OutputConfig{{Name: "out", Side: 1}}
	return cfg
}

func oneCell(objectness, score float32) []*tensor.Dense {
	// tx, ty, tw, th, objectness, class 0
	data := []float32{0, 0, 0, 0, objectness, score}
	return []*tensor.Dense{tensor.New(tensor.WithShape(1, 6, 1, 1), tensor.WithBacking(data))}
}

func TestEnginePredict(t *testing.T) {
	runner := &fakeRunner{outputs: oneCell(10, 10)}
	e, err := NewEngineBuilder(widgetConfig()).WithRunner(runner).WithModel().Build()
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 100, 50))
	result, err := e.Predict(context.Background(), img)
	require.NoError(t, err)

	require.Len(t, result.Detections, 1)
	assert.Equal(t, float32(1), result.Detections[0].Label)

	require.Len(t, result.Boxes, 1)
	box := result.Boxes[0]
	assert.Equal(t, "widget", box.Label)
	assert.InDelta(t, 25, box.X1, 1e-4)
	assert.InDelta(t, 18.75, box.Y1, 1e-4)
	assert.InDelta(t, 75, box.X2, 1e-4)
	assert.InDelta(t, 31.25, box.Y2, 1e-4)

	require.NoError(t, e.Close())
	assert.True(t, runner.closed)
}

func TestEnginePredictNoDetections(t *testing.T) {
	e, err := NewEngineBuilder(widgetConfig()).
		WithRunner(&fakeRunner{outputs: oneCell(-10, -10)}).
		WithModel().
		Build()
	require.NoError(t, err)

	result, err := e.Predict(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)

	require.Len(t, result.Detections, 1)
	assert.True(t, result.Detections[0].IsPlaceholder())
	assert.Empty(t, result.Boxes)
}

func TestEnginePredictErrors(t *testing.T) {
	runErr := errors.New("boom")
	e := NewEngineBuilder(widgetConfig()).
		WithRunner(&fakeRunner{err: runErr}).
		WithModel().
		MustBuild()

	_, err := e.Predict(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	assert.Equal(t, runErr, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.Predict(ctx, image.NewRGBA(image.Rect(0, 0, 8, 8)))
	assert.ErrorIs(t, err, context.Canceled)

	wrongShape := NewEngineBuilder(widgetConfig()).
		WithRunner(&fakeRunner{outputs: []*tensor.Dense{
			tensor.New(tensor.WithShape(1, 7, 1, 1), tensor.WithBacking(make([]float32, 7))),
		}}).
		WithModel().
		MustBuild()
	_, err = wrongShape.Predict(context.Background(), image.NewRGBA(image.Rect(0, 0, 8, 8)))
	assert.True(t, errors.Is(err, yolov3.ErrShapeMismatch))
}

func TestEngineBuilderErrors(t *testing.T) {
	_, err := NewEngineBuilder(widgetConfig()).WithModel().Build()
	assert.EqualError(t, err, "runner not configured")

	_, err = NewEngineBuilder(widgetConfig()).WithRunner(&fakeRunner{}).Build()
	assert.EqualError(t, err, "model not configured")

	cfg := widgetConfig()
	cfg.Detector.NumClasses = 0
	b := NewEngineBuilder(cfg).WithModel().WithRunner(&fakeRunner{})
	assert.True(t, b.HasError())
	_, err = b.Build()
	assert.True(t, errors.Is(err, yolov3.ErrMissingNumClasses))

	cfg = widgetConfig()
	cfg.Model.Labels = nil
	cfg.Model.Family = "custom"
	_, err = NewEngineBuilder(cfg).WithRunner(&fakeRunner{}).WithModel().Build()
	assert.Error(t, err, "a family without a class set needs explicit labels")

	assert.Panics(t, func() { NewEngineBuilder(widgetConfig()).MustBuild() })
}
