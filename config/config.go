// Package config - YAML configuration of the detector, the network and the runtime.
package config

import (
	"os"

	"github.com/nvr-ai/go-yolov3/models/model"
	"github.com/nvr-ai/go-yolov3/models/yolov3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration file.
type Config struct {
	// Detector holds the decoding and suppression parameters.
	Detector yolov3.Params `json:"detector" yaml:"detector"`
	// Model describes the network file and its tensors.
	Model ModelConfig `json:"model" yaml:"model"`
	// Runtime configures onnxruntime.
	Runtime RuntimeConfig `json:"runtime" yaml:"runtime"`
}

// ModelConfig describes the network that produces the scale tensors.
type ModelConfig struct {
	Name   model.Name   `json:"name" yaml:"name"`
	Family model.Family `json:"family" yaml:"family"`
	Path   string       `json:"path" yaml:"path"`
	// Labels overrides the family's class names, zero-based, without background.
	Labels []string `json:"labels" yaml:"labels"`
	// InputName is the name of the image input tensor.
	InputName string `json:"input_name" yaml:"input_name"`
	// InputSize is the square side of the image input, in pixels.
	InputSize int `json:"input_size" yaml:"input_size"`
	// Outputs lists the scale output tensors, in mask group order.
	Outputs []OutputConfig `json:"outputs" yaml:"outputs"`
}

// OutputConfig names one scale output and its grid side.
type OutputConfig struct {
	Name string `json:"name" yaml:"name"`
	Side int    `json:"side" yaml:"side"`
}

// RuntimeConfig configures onnxruntime.
type RuntimeConfig struct {
	// SharedLibraryPath is the onnxruntime shared library. Empty uses the
	// platform default.
	SharedLibraryPath string `json:"shared_library_path" yaml:"shared_library_path"`
	// IntraOpThreads parallelizes execution within graph nodes; 0 uses the default.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// InterOpThreads parallelizes execution across graph nodes; 0 uses the default.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`
}

// Default returns the standard YOLOv3-416 COCO configuration.
func Default() Config {
	return Config{
		Detector: yolov3.Params{
			NumClasses:          80,
			NumBox:              3,
			ConfidenceThreshold: 0.5,
			NMSThreshold:        0.45,
			Biases: []float32{
				10, 13, 16, 30, 33, 23,
				30, 61, 62, 45, 59, 119,
				116, 90, 156, 198, 373, 326,
			},
			Mask:         []int{6, 7, 8, 3, 4, 5, 0, 1, 2},
			AnchorsScale: []float32{32, 16, 8},
		},
		Model: ModelConfig{
			Name:      model.ModelNameYOLOv3,
			Family:    model.ModelFamilyCOCO,
			Path:      "yolov3.onnx",
			InputName: "input",
			InputSize: 416,
			Outputs: []OutputConfig{
				{Name: "layer82-conv", Side: 13},
				{Name: "layer94-conv", Side: 26},
				{Name: "layer106-conv", Side: 52},
			},
		},
		Runtime: RuntimeConfig{
			IntraOpThreads: 4,
			InterOpThreads: 2,
		},
	}
}

// Load reads a YAML file on top of Default.
//
// Lists in the file replace the defaults rather than merging with them.
//
// Arguments:
//   - path: The configuration file.
//
// Returns:
//   - Config: The validated configuration.
//   - error: An error if the file cannot be read, parsed or validated.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the detector parameters and their agreement with the
// network outputs.
func (c Config) Validate() error {
	if err := c.Detector.Validate(); err != nil {
		return errors.WithMessage(err, "detector")
	}
	if len(c.Model.Outputs) != c.Detector.Groups() {
		return errors.Wrapf(yolov3.ErrScaleCountMismatch, "model lists %d outputs for %d mask groups",
			len(c.Model.Outputs), c.Detector.Groups())
	}
	for i, o := range c.Model.Outputs {
		if o.Name == "" || o.Side <= 0 {
			return errors.Errorf("model output %d needs a name and a positive side", i)
		}
	}
	if c.Model.InputSize <= 0 {
		return errors.Errorf("model input_size must be positive, got %d", c.Model.InputSize)
	}
	if len(c.Model.Labels) > 0 && len(c.Model.Labels) != c.Detector.NumClasses {
		return errors.Errorf("%d labels for %d classes", len(c.Model.Labels), c.Detector.NumClasses)
	}
	return nil
}

// ModelArgs returns the registry arguments for the configured model.
func (c Config) ModelArgs(logger *zap.Logger) model.NewModelArgs {
	return model.NewModelArgs{
		Name:    c.Model.Name,
		Family:  c.Model.Family,
		Options: c.Detector,
		Logger:  logger,
	}
}
