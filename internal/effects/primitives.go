package effects

import (
	"image"
	"image/color"
	"math"
)

// blendPixel composites c with extra opacity a over one premultiplied pixel.
func blendPixel(dst *image.RGBA, x, y int, c color.NRGBA, a float64) {
	sa := float64(c.A) / 255 * a
	if sa <= 0 {
		return
	}
	if sa > 1 {
		sa = 1
	}
	i := dst.PixOffset(x, y)
	p := dst.Pix[i : i+4 : i+4]
	inv := 1 - sa
	p[0] = uint8(float64(c.R)*sa + float64(p[0])*inv + 0.5)
	p[1] = uint8(float64(c.G)*sa + float64(p[1])*inv + 0.5)
	p[2] = uint8(float64(c.B)*sa + float64(p[2])*inv + 0.5)
	p[3] = uint8(255*sa + float64(p[3])*inv + 0.5)
}

// clipBox returns the integer pixel box around (cx, cy) with the given
// half extents, clipped to dst.
func clipBox(dst *image.RGBA, cx, cy, rx, ry float64) image.Rectangle {
	r := image.Rect(
		int(math.Floor(cx-rx)), int(math.Floor(cy-ry)),
		int(math.Ceil(cx+rx))+1, int(math.Ceil(cy+ry))+1,
	)
	return r.Intersect(dst.Bounds())
}

// radialGlow paints a soft blob whose alpha falls off quadratically to zero
// at radius.
func radialGlow(dst *image.RGBA, cx, cy, radius float64, c color.NRGBA, opacity float64) {
	if radius <= 0 || opacity <= 0 {
		return
	}
	box := clipBox(dst, cx, cy, radius, radius)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			d := math.Sqrt(dx*dx+dy*dy) / radius
			if d >= 1 {
				continue
			}
			f := 1 - d
			blendPixel(dst, x, y, c, opacity*f*f)
		}
	}
}

// disc paints an anti-aliased filled circle.
func disc(dst *image.RGBA, cx, cy, radius float64, c color.NRGBA, opacity float64) {
	if radius <= 0 || opacity <= 0 {
		return
	}
	box := clipBox(dst, cx, cy, radius+1, radius+1)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		dy := float64(y) + 0.5 - cy
		for x := box.Min.X; x < box.Max.X; x++ {
			dx := float64(x) + 0.5 - cx
			cover := radius + 0.5 - math.Sqrt(dx*dx+dy*dy)
			if cover <= 0 {
				continue
			}
			if cover > 1 {
				cover = 1
			}
			blendPixel(dst, x, y, c, opacity*cover)
		}
	}
}

// streakBar paints a horizontal bar that fades out towards both ends.
func streakBar(dst *image.RGBA, cx, cy, width, height float64, c color.NRGBA, opacity float64) {
	if width <= 0 || opacity <= 0 {
		return
	}
	if height < 1 {
		height = 1
	}
	box := clipBox(dst, cx, cy, width/2, height/2)
	left := cx - width/2
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			u := (float64(x) + 0.5 - left) / width
			if u <= 0 || u >= 1 {
				continue
			}
			blendPixel(dst, x, y, c, opacity*(1-math.Abs(2*u-1)))
		}
	}
}

// vignetteMask precomputes edge darkness for a canvas: transparent inside
// 40% of the half-diagonal, fully dark at the corners.
func vignetteMask(bounds image.Rectangle) []float64 {
	w, h := bounds.Dx(), bounds.Dy()
	mask := make([]float64, w*h)
	cx, cy := float64(w)/2, float64(h)/2
	for y := 0; y < h; y++ {
		ny := (float64(y) + 0.5 - cy) / cy
		for x := 0; x < w; x++ {
			nx := (float64(x) + 0.5 - cx) / cx
			d := math.Sqrt(nx*nx+ny*ny) / math.Sqrt2
			mask[y*w+x] = smoothstep(0.4, 1, d)
		}
	}
	return mask
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}

// grainNoise is a stateless per-pixel hash in [0, 1).
func grainNoise(x, y int, seed uint64) float64 {
	z := uint64(x)*0x9E3779B97F4A7C15 ^ uint64(y)*0xC2B2AE3D27D4EB4F ^ seed*0x165667B19E3779F9
	z ^= z >> 30
	z *= 0xBF58476D1CE4E5B9
	z ^= z >> 27
	z *= 0x94D049BB133111EB
	z ^= z >> 31
	return float64(z>>11) / float64(1<<53)
}
