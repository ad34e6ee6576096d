// Package models - registry for models.
package models

import (
	"fmt"

	"github.com/nvr-ai/go-yolov3/models/model"
	"github.com/nvr-ai/go-yolov3/models/yolov3"
)

// NewModel creates a new detection model instance based on the specified model type.
//
// Arguments:
//   - args: The model name, label family and model-specific options.
//
// Returns:
//   - model.Model: A configured model.
//   - error: An error if the model type is unsupported or its options are invalid.
//
// Example:
//
// ```go
//
//	args := model.NewModelArgs{
//	    Name:    model.ModelNameYOLOv3,
//	    Family:  model.ModelFamilyCOCO,
//	    Options: config.Default().Detector,
//	}
//
//	detector, err := NewModel(args)
//	if err != nil {
//	    log.Fatalf("Failed to create detection model: %v", err)
//	}
//
// ```
func NewModel(args model.NewModelArgs) (model.Model, error) {
	switch args.Name {
	case model.ModelNameYOLOv3:
		params, ok := args.Options.(yolov3.Params)
		if !ok {
			return nil, fmt.Errorf("model %s requires yolov3.Params options, got %T", args.Name, args.Options)
		}
		opts := []yolov3.Option{yolov3.WithLogger(args.Logger)}
		if args.Family != "" {
			opts = append(opts, yolov3.WithFamily(args.Family))
		}
		m, err := yolov3.NewModel(params, opts...)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported model name: %s", args.Name)
	}
}
