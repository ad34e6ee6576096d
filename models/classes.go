// Package models - label tables for detection output.
package models

import (
	"fmt"

	"github.com/nvr-ai/go-yolov3/common"
	"github.com/nvr-ai/go-yolov3/models/model"
)

// OutputClass represents one detection label.
type OutputClass struct {
	// The label reported in a detection row.
	Index int
	// The human-readable label.
	Name string
}

// OutputClassSet ties a family to its full list of labels. Index 0 is the
// background class, which detection rows never report.
type OutputClassSet struct {
	// Class set identifier.
	Family model.Family
	// Classes indexed by label.
	Classes []OutputClass
}

// Name returns the class name for a detection label, "none" for the
// no-detection placeholder and "label-N" for labels outside the set.
func (s OutputClassSet) Name(label int) string {
	if label == int(common.NoDetection) {
		return "none"
	}
	if label < 0 || label >= len(s.Classes) {
		return fmt.Sprintf("label-%d", label)
	}
	return s.Classes[label].Name
}

// DetectionName resolves the label of a detection row.
func (s OutputClassSet) DetectionName(d common.Detection) string {
	return s.Name(int(d.Label))
}

// NewOutputClassSet builds a set from zero-based class names, prepending the
// background class so that labels index it directly.
func NewOutputClassSet(family model.Family, names []string) OutputClassSet {
	classes := make([]OutputClass, 0, len(names)+1)
	classes = append(classes, OutputClass{0, "__background__"})
	for i, name := range names {
		classes = append(classes, OutputClass{i + 1, name})
	}
	return OutputClassSet{Family: family, Classes: classes}
}

// COCOClasses is the full 80 COCO classes plus "__background__" at index 0.
var COCOClasses = OutputClassSet{
	Family: model.ModelFamilyCOCO,
	Classes: []OutputClass{
		{0, "__background__"},
		{1, "person"},
		{2, "bicycle"},
		{3, "car"},
		{4, "motorcycle"},
		{5, "airplane"},
		{6, "bus"},
		{7, "train"},
		{8, "truck"},
		{9, "boat"},
		{10, "traffic light"},
		{11, "fire hydrant"},
		{12, "stop sign"},
		{13, "parking meter"},
		{14, "bench"},
		{15, "bird"},
		{16, "cat"},
		{17, "dog"},
		{18, "horse"},
		{19, "sheep"},
		{20, "cow"},
		{21, "elephant"},
		{22, "bear"},
		{23, "zebra"},
		{24, "giraffe"},
		{25, "backpack"},
		{26, "umbrella"},
		{27, "handbag"},
		{28, "tie"},
		{29, "suitcase"},
		{30, "frisbee"},
		{31, "skis"},
		{32, "snowboard"},
		{33, "sports ball"},
		{34, "kite"},
		{35, "baseball bat"},
		{36, "baseball glove"},
		{37, "skateboard"},
		{38, "surfboard"},
		{39, "tennis racket"},
		{40, "bottle"},
		{41, "wine glass"},
		{42, "cup"},
		{43, "fork"},
		{44, "knife"},
		{45, "spoon"},
		{46, "bowl"},
		{47, "banana"},
		{48, "apple"},
		{49, "sandwich"},
		{50, "orange"},
		{51, "broccoli"},
		{52, "carrot"},
		{53, "hot dog"},
		{54, "pizza"},
		{55, "donut"},
		{56, "cake"},
		{57, "chair"},
		{58, "couch"},
		{59, "potted plant"},
		{60, "bed"},
		{61, "dining table"},
		{62, "toilet"},
		{63, "tv"},
		{64, "laptop"},
		{65, "mouse"},
		{66, "remote"},
		{67, "keyboard"},
		{68, "cell phone"},
		{69, "microwave"},
		{70, "oven"},
		{71, "toaster"},
		{72, "sink"},
		{73, "refrigerator"},
		{74, "book"},
		{75, "clock"},
		{76, "vase"},
		{77, "scissors"},
		{78, "teddy bear"},
		{79, "hair drier"},
		{80, "toothbrush"},
	},
}

// PascalVOCClasses is the 20 Pascal VOC classes + "__background__" at index 0.
var PascalVOCClasses = OutputClassSet{
	Family: model.ModelFamilyVOC,
	Classes: []OutputClass{
		{0, "__background__"},
		{1, "aeroplane"},
		{2, "bicycle"},
		{3, "bird"},
		{4, "boat"},
		{5, "bottle"},
		{6, "bus"},
		{7, "car"},
		{8, "cat"},
		{9, "chair"},
		{10, "cow"},
		{11, "diningtable"},
		{12, "dog"},
		{13, "horse"},
		{14, "motorbike"},
		{15, "person"},
		{16, "pottedplant"},
		{17, "sheep"},
		{18, "sofa"},
		{19, "train"},
		{20, "tvmonitor"},
	},
}

// AllClassSets collects every OutputClassSet in one place.
var AllClassSets = []OutputClassSet{
	COCOClasses,
	PascalVOCClasses,
}

// ClassSetFor returns the label table of a family.
func ClassSetFor(family model.Family) (OutputClassSet, error) {
	for _, set := range AllClassSets {
		if set.Family == family {
			return set, nil
		}
	}
	return OutputClassSet{}, fmt.Errorf("family %q has no class set", family)
}
