// Package model - Definitions for model names, families and the model contract.
package model

import (
	"github.com/nvr-ai/go-yolov3/common"
	"go.uber.org/zap"
	"gorgonia.org/tensor"
)

// Family is the family of models.
type Family string

const (
	// ModelFamilyCOCO is the COCO model family.
	ModelFamilyCOCO Family = "coco"
	// ModelFamilyVOC is the Pascal VOC model family.
	ModelFamilyVOC Family = "voc"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameYOLOv3 is the name of the YOLOv3 multi-scale detector.
	ModelNameYOLOv3 Name = "yolov3"
)

// Options is a marker interface for model-specific options.
type Options interface {
	IsOptions()
}

// Model turns the raw output tensors of a network into detection rows.
type Model interface {
	Name() Name
	Family() Family
	Options() Options
	PostProcess(outputs []*tensor.Dense) (common.Detections, error)
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name    Name        `json:"name" yaml:"name"`
	Family  Family      `json:"family" yaml:"family"`
	Options Options     `json:"-" yaml:"-"`
	Logger  *zap.Logger `json:"-" yaml:"-"`
}
