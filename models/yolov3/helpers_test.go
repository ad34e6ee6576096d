package yolov3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// background is a raw activation that keeps objectness and class scores far
// below any threshold used in the tests.
const background = -20

// rawScale builds the activations of one scale tensor channel by channel.
type rawScale struct {
	batch, numBox, numClasses, side int
	data                            []float32
}

func newRawScale(batch, numBox, numClasses, side int) *rawScale {
	r := &rawScale{batch: batch, numBox: numBox, numClasses: numClasses, side: side}
	r.data = make([]float32, batch*r.channels()*side*side)
	for b := 0; b < batch; b++ {
		for n := 0; n < numBox; n++ {
			for s := 0; s < side*side; s++ {
				r.set(b, n, 4, s/side, s%side, background)
				for c := 0; c < numClasses; c++ {
					r.set(b, n, 5+c, s/side, s%side, background)
				}
			}
		}
	}
	return r
}

func (r *rawScale) channels() int { return r.numBox * (5 + r.numClasses) }

// set writes channel c of anchor n at (row, col) of image b.
func (r *rawScale) set(b, n, c, row, col int, v float32) *rawScale {
	length := 5 + r.numClasses
	stride := r.side * r.side
	r.data[b*r.channels()*stride+(n*length+c)*stride+row*r.side+col] = v
	return r
}

// box writes the four box channels of anchor n at (row, col) of image b.
func (r *rawScale) box(b, n, row, col int, tx, ty, tw, th float32) *rawScale {
	r.set(b, n, 0, row, col, tx)
	r.set(b, n, 1, row, col, ty)
	r.set(b, n, 2, row, col, tw)
	return r.set(b, n, 3, row, col, th)
}

// object writes objectness and the raw score of class c.
func (r *rawScale) object(b, n, row, col int, objectness float32, class int, score float32) *rawScale {
	r.set(b, n, 4, row, col, objectness)
	return r.set(b, n, 5+class, row, col, score)
}

func (r *rawScale) input(t *testing.T) ScaleInput {
	t.Helper()
	in, err := NewScaleInput(r.batch, r.channels(), r.side, r.data)
	require.NoError(t, err)
	return in
}

// singleScaleParams configures one scale with one anchor of 10x10.
func singleScaleParams(numClasses int) Params {
	return Params{
		NumClasses:          numClasses,
		NumBox:              1,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		Biases:              []float32{10, 10},
		Mask:                []int{0},
		AnchorsScale:        []float32{32},
	}
}

// twoScaleParams configures two scales with two anchors each.
func twoScaleParams(numClasses int) Params {
	return Params{
		NumClasses:          numClasses,
		NumBox:              2,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		Biases:              []float32{10, 14, 23, 27, 37, 58, 81, 82},
		Mask:                []int{2, 3, 0, 1},
		AnchorsScale:        []float32{32, 16},
	}
}

// wideGroupParams configures two scales whose mask groups hold three anchor
// ids each, of which only the first two are decoded.
func wideGroupParams(numClasses int) Params {
	return Params{
		NumClasses:          numClasses,
		NumBox:              2,
		ConfidenceThreshold: 0.5,
		NMSThreshold:        0.45,
		Biases:              []float32{8, 8, 16, 16, 24, 24, 64, 64, 96, 48, 128, 128},
		Mask:                []int{3, 4, 5, 0, 1, 2},
		AnchorsScale:        []float32{32, 16},
	}
}
