// Package inference - runs the upstream network and hands its outputs to a model.
package inference

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// PrepareInput resizes img to size x size and writes it into dst as planar
// RGB (CHW) scaled to [0, 1].
//
// Arguments:
//   - img: The image to prepare.
//   - size: The square input side of the network.
//   - dst: The destination tensor data, at least 3 * size * size floats.
//
// Returns:
//   - error: An error if dst is too small.
func PrepareInput(img image.Image, size int, dst []float32) error {
	channelSize := size * size
	if size <= 0 || len(dst) < channelSize*3 {
		return fmt.Errorf("destination tensor only holds %d floats, needs "+
			"%d (make sure it's the right shape!)", len(dst), channelSize*3)
	}
	red := dst[0:channelSize]
	green := dst[channelSize : channelSize*2]
	blue := dst[channelSize*2 : channelSize*3]

	img = resize.Resize(uint(size), uint(size), img, resize.Bilinear)
	bounds := img.Bounds()

	i := 0
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			red[i] = float32(r>>8) / 255.0
			green[i] = float32(g>>8) / 255.0
			blue[i] = float32(b>>8) / 255.0
			i++
		}
	}
	return nil
}
