package analyzer

import (
	"image"
	"sort"
)

// Block represents a detected region of visible content in an image
type Block struct {
	Rect     image.Rectangle
	Pixels   int     // number of content pixels inside Rect
	Coverage float64 // Pixels / area of Rect
}

// Detector is the interface for content detection strategies
type Detector interface {
	Detect(img image.Image) ([]Block, error)
}

// Focus returns the point a zoom should converge on: horizontally centred on
// the largest block, originY of the way down it. Without blocks it falls back
// to the same point of the whole image.
func Focus(blocks []Block, bounds image.Rectangle, originY float64) image.Point {
	target := bounds
	if len(blocks) > 0 {
		target = Largest(blocks).Rect
	}
	return image.Point{
		X: target.Min.X + target.Dx()/2,
		Y: target.Min.Y + int(float64(target.Dy())*originY),
	}
}

// Largest returns the block with the most content pixels.
func Largest(blocks []Block) Block {
	sorted := make([]Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pixels > sorted[j].Pixels
	})
	return sorted[0]
}

// Union returns the rectangle covering every block.
func Union(blocks []Block) image.Rectangle {
	var r image.Rectangle
	for _, b := range blocks {
		r = r.Union(b.Rect)
	}
	return r
}
