package yolov3

import (
	"github.com/chewxy/math32"
	"github.com/nvr-ai/go-yolov3/geometry"
	"github.com/nvr-ai/go-yolov3/models/postprocess"
)

// coords is the number of box channels (tx, ty, tw, th) in an anchor block.
const coords = 4

// sigmoid squashes x into (0, 1).
func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// DecodeScale converts one scale tensor into scored candidates.
//
// Every anchor block is laid out as [tx, ty, tw, th, objectness, class_0 ...
// class_{C-1}], each channel a full S×S plane. Cells are visited in raster
// order (row = s / S, col = s % S) and for every anchor:
//
//	x = (col + sigmoid(tx)) / S
//	y = (row + sigmoid(ty)) / S
//	w = exp(tw) * anchorWidth / (S * multiplier)
//	h = exp(th) * anchorHeight / (S * multiplier)
//
// Class scores are independent sigmoids. A candidate is emitted for every
// class whose objectness * score is strictly above threshold.
//
// Arguments:
//   - ws: Scratch memory, resized to the scale tensor before use.
//   - in: The scale tensor.
//   - scale: The anchors and stride multiplier of this scale.
//   - numClasses: The number of class channels per anchor.
//   - threshold: The confidence threshold.
//   - out: Receives candidates in batch, cell, anchor, class order.
func DecodeScale(
	ws *Workspace,
	in ScaleInput,
	scale ScaleAnchors,
	numClasses int,
	threshold float32,
	out *Collector,
) {
	side := in.Side()
	stride := side * side
	length := coords + 1 + numClasses
	layerDim := length * len(scale.Anchors) * stride

	input := in.data()
	swap := ws.reshape(len(input))
	scores := ws.classScores(numClasses)

	grid := float32(side)
	norm := grid * scale.Multiplier

	for b := 0; b < in.Batch(); b++ {
		for s := 0; s < stride; s++ {
			row, col := s/side, s%side
			for n, anchor := range scale.Anchors {
				base := b*layerDim + n*length*stride + s
				for c := 0; c < length; c++ {
					idx := base + c*stride
					switch {
					case c == 2 || c == 3:
						swap[idx] = input[idx]
					case c > coords:
						scores[c-coords-1] = sigmoid(input[idx])
					default:
						swap[idx] = sigmoid(input[idx])
					}
				}

				box := geometry.Box{
					CenterX: (float32(col) + swap[base]) / grid,
					CenterY: (float32(row) + swap[base+stride]) / grid,
					Width:   math32.Exp(swap[base+2*stride]) * anchor.Width / norm,
					Height:  math32.Exp(swap[base+3*stride]) * anchor.Height / norm,
				}
				objectness := swap[base+coords*stride]

				for c, score := range scores {
					confidence := objectness * score
					if confidence > threshold {
						out.Add(postprocess.Candidate{
							Box:        box,
							Objectness: objectness,
							ClassIndex: c,
							Confidence: confidence,
						})
					}
				}
			}
		}
	}
}
