// Package yolov3 - decodes multi-scale YOLOv3 output tensors into detection rows.
package yolov3

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

var (
	// ErrMissingNumClasses is returned when the class count is not configured.
	ErrMissingNumClasses = errors.New("must specify num_classes")
	// ErrInvalidParams is returned for any other inconsistent parameter set.
	ErrInvalidParams = errors.New("invalid yolov3 detection parameters")
	// ErrScaleCountMismatch is returned when the number of scale tensors differs
	// from the number of mask groups.
	ErrScaleCountMismatch = errors.New("scale tensor count does not match mask group count")
	// ErrShapeMismatch is returned when a scale tensor does not have the layout
	// implied by the parameters.
	ErrShapeMismatch = errors.New("scale tensor shape mismatch")
)

// Params configures decoding and suppression. It mirrors the detection layer
// parameter block of the network description.
type Params struct {
	// NumClasses is the number of independent class scores per anchor.
	NumClasses int `json:"num_classes" yaml:"num_classes"`
	// NumBox is the number of anchors decoded per grid cell on every scale.
	NumBox int `json:"num_box" yaml:"num_box"`
	// MaskGroupNum is the number of mask groups, one per scale tensor. Zero
	// means one group per AnchorsScale entry.
	MaskGroupNum int `json:"mask_group_num" yaml:"mask_group_num"`
	// ConfidenceThreshold is the exclusive lower bound on objectness * class score.
	ConfidenceThreshold float32 `json:"confidence_threshold" yaml:"confidence_threshold"`
	// NMSThreshold is the inclusive IoU at which a candidate is suppressed.
	NMSThreshold float32 `json:"nms_threshold" yaml:"nms_threshold"`
	// ClassAwareNMS restricts suppression to candidates of the same class.
	ClassAwareNMS bool `json:"class_aware_nms" yaml:"class_aware_nms"`
	// Biases is the flat anchor list: w0, h0, w1, h1, ...
	Biases []float32 `json:"biases" yaml:"biases"`
	// Mask is the flat list of anchor ids, grouped per scale.
	Mask []int `json:"mask" yaml:"mask"`
	// AnchorsScale is the stride multiplier of every scale.
	AnchorsScale []float32 `json:"anchors_scale" yaml:"anchors_scale"`
}

// IsOptions marks Params as model options.
func (p Params) IsOptions() {}

// Anchor is a (width, height) template box.
type Anchor struct {
	Width  float32
	Height float32
}

// ScaleAnchors holds the anchors and stride multiplier of one detection scale.
type ScaleAnchors struct {
	Anchors    []Anchor
	Multiplier float32
}

// Groups returns the number of mask groups, which is also the number of
// scale tensors expected by Forward.
func (p Params) Groups() int {
	if p.MaskGroupNum > 0 {
		return p.MaskGroupNum
	}
	return len(p.AnchorsScale)
}

// GroupSize returns the number of mask entries per scale.
func (p Params) GroupSize() int {
	groups := p.Groups()
	if groups <= 0 {
		return 0
	}
	return len(p.Mask) / groups
}

// Channels returns the channel count a scale tensor must have.
func (p Params) Channels() int {
	return p.NumBox * (coords + 1 + p.NumClasses)
}

// Validate checks the parameters the decoder depends on.
//
// Returns:
//   - error: ErrMissingNumClasses or ErrInvalidParams wrapped with the reason.
func (p Params) Validate() error {
	if p.NumClasses <= 0 {
		return ErrMissingNumClasses
	}
	if p.NumBox <= 0 {
		return errors.Wrapf(ErrInvalidParams, "num_box must be positive, got %d", p.NumBox)
	}
	groups := p.Groups()
	if groups <= 0 {
		return errors.Wrap(ErrInvalidParams, "no mask groups: set mask_group_num or anchors_scale")
	}
	if len(p.Mask) == 0 || len(p.Mask)%groups != 0 {
		return errors.Wrapf(ErrInvalidParams, "mask length %d does not split into %d groups",
			len(p.Mask), groups)
	}
	if size := p.GroupSize(); p.NumBox > size {
		return errors.Wrapf(ErrInvalidParams, "num_box %d exceeds mask group size %d", p.NumBox, size)
	}
	for i, id := range p.Mask {
		if id < 0 || 2*id+1 >= len(p.Biases) {
			return errors.Wrapf(ErrInvalidParams, "mask[%d] = %d has no bias pair in %d biases",
				i, id, len(p.Biases))
		}
	}
	if len(p.AnchorsScale) < p.Groups() {
		return errors.Wrapf(ErrInvalidParams, "%d anchors_scale entries for %d mask groups",
			len(p.AnchorsScale), p.Groups())
	}
	for i, m := range p.AnchorsScale[:p.Groups()] {
		if !(m > 0) || math32.IsInf(m, 0) {
			return errors.Wrapf(ErrInvalidParams, "anchors_scale[%d] = %v must be positive and finite", i, m)
		}
	}
	if math32.IsNaN(p.ConfidenceThreshold) || math32.IsNaN(p.NMSThreshold) {
		return errors.Wrap(ErrInvalidParams, "thresholds must not be NaN")
	}
	return nil
}

// Scale returns the anchors and stride multiplier of scale t.
//
// Scale t uses the first NumBox anchor ids of mask group t.
func (p Params) Scale(t int) ScaleAnchors {
	offset := t * p.GroupSize()
	anchors := make([]Anchor, p.NumBox)
	for n := range anchors {
		id := p.Mask[offset+n]
		anchors[n] = Anchor{Width: p.Biases[2*id], Height: p.Biases[2*id+1]}
	}
	return ScaleAnchors{Anchors: anchors, Multiplier: p.AnchorsScale[t]}
}
