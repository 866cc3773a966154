package analyzer

import (
	"image"
	"image/color"
)

// AlphaDetector finds the opaque regions of a sprite. Images without an
// alpha channel are keyed against the colour of their top-left pixel.
type AlphaDetector struct {
	MinBlockArea   int    // Minimum block area in pixels²
	AlphaThreshold uint8  // Alpha above which a pixel counts as content
	KeyTolerance   uint32 // Per-channel distance from the key colour for opaque images
}

// NewAlphaDetector creates a detector with default settings
func NewAlphaDetector() *AlphaDetector {
	return &AlphaDetector{
		MinBlockArea:   64,
		AlphaThreshold: 24,
		KeyTolerance:   24,
	}
}

// Detect returns content regions, largest first
func (d *AlphaDetector) Detect(img image.Image) ([]Block, error) {
	// Step 1: Content mask
	mask := d.contentMask(img)

	// Step 2: Close small gaps such as eye highlights
	dilated := dilate(mask, 3, 1)

	// Step 3: Connected components
	blocks := []Block{}
	for _, b := range findComponents(dilated) {
		if b.Rect.Dx()*b.Rect.Dy() >= d.MinBlockArea {
			blocks = append(blocks, b)
		}
	}

	if len(blocks) > 1 {
		largest := Largest(blocks)
		rest := []Block{largest}
		for _, b := range blocks {
			if b.Rect != largest.Rect {
				rest = append(rest, b)
			}
		}
		blocks = rest
	}
	return blocks, nil
}

// contentMask marks content pixels with 255
func (d *AlphaDetector) contentMask(img image.Image) *image.Gray {
	bounds := img.Bounds()
	mask := image.NewGray(bounds)

	opaque := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		opaque = o.Opaque()
	}
	kr, kg, kb, _ := img.At(bounds.Min.X, bounds.Min.Y).RGBA()
	tol := d.KeyTolerance << 8

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			var content bool
			if opaque {
				content = diff(r, kr) > tol || diff(g, kg) > tol || diff(b, kb) > tol
			} else {
				content = a>>8 > uint32(d.AlphaThreshold)
			}
			if content {
				mask.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return mask
}

func diff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// dilate performs morphological dilation to connect nearby content
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	result := image.NewGray(bounds)
	copy(result.Pix, img.Pix)

	half := kernelSize / 2

	for iter := 0; iter < iterations; iter++ {
		temp := image.NewGray(bounds)

		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				maxVal := uint8(0)
				for ky := -half; ky <= half && maxVal == 0; ky++ {
					for kx := -half; kx <= half; kx++ {
						p := image.Point{X: x + kx, Y: y + ky}
						if !p.In(bounds) {
							continue
						}
						if val := result.GrayAt(p.X, p.Y).Y; val > maxVal {
							maxVal = val
						}
					}
				}
				temp.SetGray(x, y, color.Gray{Y: maxVal})
			}
		}

		result = temp
	}

	return result
}

// findComponents returns the bounding block of each connected white region
func findComponents(img *image.Gray) []Block {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())
	index := func(x, y int) int {
		return (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
	}

	blocks := []Block{}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y > 128 && !visited[index(x, y)] {
				blocks = append(blocks, floodFill(img, visited, index, x, y))
			}
		}
	}
	return blocks
}

// floodFill marks one component and returns its bounds
func floodFill(img *image.Gray, visited []bool, index func(x, y int) int, startX, startY int) Block {
	bounds := img.Bounds()
	minX, minY := startX, startY
	maxX, maxY := startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !p.In(bounds) || visited[index(p.X, p.Y)] || img.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[index(p.X, p.Y)] = true
		pixels++

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	rect := image.Rect(minX, minY, maxX+1, maxY+1)
	return Block{
		Rect:     rect,
		Pixels:   pixels,
		Coverage: float64(pixels) / float64(rect.Dx()*rect.Dy()),
	}
}
