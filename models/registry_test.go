package models

import (
	"testing"

	"github.com/nvr-ai/go-yolov3/common"
	"github.com/nvr-ai/go-yolov3/models/model"
	"github.com/nvr-ai/go-yolov3/models/yolov3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() yolov3.Params {
	return yolov3.Params{
		NumClasses:          80,
		NumBox:              3,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		Biases:              []float32{10, 13, 16, 30, 33, 23, 30, 61, 62, 45, 59, 119},
		Mask:                []int{3, 4, 5, 0, 1, 2},
		AnchorsScale:        []float32{32, 16},
	}
}

func TestNewModel(t *testing.T) {
	m, err := NewModel(model.NewModelArgs{
		Name:    model.ModelNameYOLOv3,
		Options: testParams(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ModelNameYOLOv3, m.Name())
	assert.Equal(t, model.ModelFamilyCOCO, m.Family())

	m, err = NewModel(model.NewModelArgs{
		Name:    model.ModelNameYOLOv3,
		Family:  model.ModelFamilyVOC,
		Options: testParams(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ModelFamilyVOC, m.Family())
}

func TestNewModelErrors(t *testing.T) {
	tests := []struct {
		name string
		args model.NewModelArgs
	}{
		{name: "unknown model", args: model.NewModelArgs{Name: "yolov9"}},
		{name: "missing options", args: model.NewModelArgs{Name: model.ModelNameYOLOv3}},
		{
			name: "invalid options",
			args: model.NewModelArgs{Name: model.ModelNameYOLOv3, Options: yolov3.Params{NumBox: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestClassSets(t *testing.T) {
	coco, err := ClassSetFor(model.ModelFamilyCOCO)
	require.NoError(t, err)
	assert.Len(t, coco.Classes, 81)
	assert.Equal(t, "person", coco.Name(1))
	assert.Equal(t, "toothbrush", coco.Name(80))
	assert.Equal(t, "none", coco.Name(-1))
	assert.Equal(t, "label-81", coco.Name(81))
	assert.Equal(t, "dog", coco.DetectionName(common.Detection{Label: 17}))
	assert.Equal(t, "none", coco.DetectionName(common.Placeholder(0)))

	voc, err := ClassSetFor(model.ModelFamilyVOC)
	require.NoError(t, err)
	assert.Equal(t, "aeroplane", voc.Name(1))

	_, err = ClassSetFor("imagenet")
	assert.Error(t, err)
}

func TestNewOutputClassSet(t *testing.T) {
	set := NewOutputClassSet("custom", []string{"helmet", "vest"})

	assert.Equal(t, model.Family("custom"), set.Family)
	assert.Equal(t, "__background__", set.Name(0))
	assert.Equal(t, "helmet", set.Name(1))
	assert.Equal(t, "vest", set.Name(2))
	for i, c := range set.Classes {
		assert.Equal(t, i, c.Index)
	}
}
