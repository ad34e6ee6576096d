package inference

import (
	"image"
	"os"
	"runtime"

	"github.com/nvr-ai/go-yolov3/config"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gorgonia.org/tensor"
)

// Runner runs the network on one image and returns its raw outputs.
type Runner interface {
	Run(img image.Image) ([]*tensor.Dense, error)
	Close() error
}

// DefaultSharedLibraryPath returns the path to the onnxruntime shared library
// for the current platform.
func DefaultSharedLibraryPath() string {
	switch runtime.GOOS {
	case "windows":
		return "./third_party/onnxruntime.dll"
	case "darwin":
		return "./third_party/libonnxruntime.dylib"
	}
	if runtime.GOARCH == "arm64" {
		return "./third_party/onnxruntime_arm64.so"
	}
	return "./third_party/onnxruntime.so"
}

// Session represents a model session from the onnxruntime with one image
// input and one output per detection scale.
type Session struct {
	session   *ort.AdvancedSession
	input     *ort.Tensor[float32]
	outputs   []*ort.Tensor[float32]
	inputSize int
}

// NewSession initializes onnxruntime and loads the configured network.
//
// Arguments:
//   - cfg: The configuration; Model and Runtime are used.
//
// Returns:
//   - *Session: The session.
//   - error: An error if the library or the network cannot be loaded.
func NewSession(cfg config.Config) (*Session, error) {
	libPath := cfg.Runtime.SharedLibraryPath
	if libPath == "" {
		libPath = DefaultSharedLibraryPath()
	}
	if _, err := os.Stat(libPath); err != nil {
		return nil, errors.Wrapf(err, "onnxruntime library not found at %s", libPath)
	}

	if !ort.IsInitialized() {
		ort.SetSharedLibraryPath(libPath)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrap(err, "initializing onnxruntime environment")
		}
	}

	s := &Session{inputSize: cfg.Model.InputSize}
	size := int64(cfg.Model.InputSize)

	var err error
	s.input, err = ort.NewEmptyTensor[float32](ort.NewShape(1, 3, size, size))
	if err != nil {
		return nil, errors.Wrap(err, "creating input tensor")
	}

	outputNames := make([]string, len(cfg.Model.Outputs))
	outputValues := make([]ort.Value, len(cfg.Model.Outputs))
	channels := int64(cfg.Detector.Channels())
	for i, o := range cfg.Model.Outputs {
		side := int64(o.Side)
		out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, channels, side, side))
		if err != nil {
			s.Close()
			return nil, errors.Wrapf(err, "creating output tensor %s", o.Name)
		}
		s.outputs = append(s.outputs, out)
		outputNames[i] = o.Name
		outputValues[i] = out
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		s.Close()
		return nil, errors.Wrap(err, "creating session options")
	}
	defer options.Destroy()

	// Sets the number of threads used to parallelize execution within onnxruntime graph nodes.
	if err := options.SetIntraOpNumThreads(cfg.Runtime.IntraOpThreads); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "setting intra-op threads")
	}
	// Sets the number of threads used to parallelize execution across separate onnxruntime graph nodes.
	if err := options.SetInterOpNumThreads(cfg.Runtime.InterOpThreads); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "setting inter-op threads")
	}

	s.session, err = ort.NewAdvancedSession(
		cfg.Model.Path,
		[]string{cfg.Model.InputName},
		outputNames,
		[]ort.Value{s.input},
		outputValues,
		options,
	)
	if err != nil {
		s.Close()
		return nil, errors.Wrapf(err, "creating session for %s", cfg.Model.Path)
	}
	return s, nil
}

// Run prepares img, runs the network and returns copies of its outputs.
func (s *Session) Run(img image.Image) ([]*tensor.Dense, error) {
	if s.session == nil {
		return nil, errors.New("session closed")
	}
	if err := PrepareInput(img, s.inputSize, s.input.GetData()); err != nil {
		return nil, errors.Wrap(err, "preparing input")
	}
	if err := s.session.Run(); err != nil {
		return nil, errors.Wrap(err, "running inference")
	}

	outputs := make([]OutputTensor, len(s.outputs))
	for i, o := range s.outputs {
		outputs[i] = o
	}
	return DenseFromOutputs(outputs)
}

// Close releases the resources associated with the Session.
func (s *Session) Close() error {
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	if s.input != nil {
		s.input.Destroy()
		s.input = nil
	}
	for _, o := range s.outputs {
		o.Destroy()
	}
	s.outputs = nil
	return nil
}
