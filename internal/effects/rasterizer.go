package effects

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/ivlev/babaru/internal/analyzer"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/source"
	"github.com/ivlev/babaru/internal/system"
	"github.com/ivlev/babaru/internal/timeline"
)

// ClipSource supplies decoded frames of a reveal video, indexed by frames
// since the reveal started.
type ClipSource interface {
	Frame(local int) (image.Image, error)
}

// Option configures a Rasterizer.
type Option func(*Rasterizer)

// WithClip draws the reveal from a decoded video instead of sprites.
func WithClip(c ClipSource) Option {
	return func(r *Rasterizer) { r.clip = c }
}

// WithDetector overrides how sprite focus points are found.
func WithDetector(d analyzer.Detector) Option {
	return func(r *Rasterizer) { r.detector = d }
}

// WithInterpolator sets the sprite scaling kernel.
func WithInterpolator(i xdraw.Interpolator) Option {
	return func(r *Rasterizer) { r.scaler = i }
}

// Scaler maps a kernel name to an interpolator. Unknown names fall back to
// Catmull-Rom.
func Scaler(name string) xdraw.Interpolator {
	switch name {
	case "nearest":
		return xdraw.NearestNeighbor
	case "bilinear":
		return xdraw.BiLinear
	default:
		return xdraw.CatmullRom
	}
}

// Rasterizer paints composite frames into RGBA images of a fixed output
// size. It is safe for concurrent use.
type Rasterizer struct {
	width, height int
	sprites       source.Source
	clip          ClipSource
	detector      analyzer.Detector
	scaler        xdraw.Interpolator
	text          *typesetter
	vignette      []float64

	mu     sync.Mutex
	focus  map[string]image.Point
	shares map[string]image.Image
}

// NewRasterizer prepares a rasterizer for width x height output. A nil
// sprite source draws placeholders.
func NewRasterizer(width, height int, sprites source.Source, opts ...Option) (*Rasterizer, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("output size must be positive")
	}
	ts, err := newTypesetter()
	if err != nil {
		return nil, err
	}
	if sprites == nil {
		sprites = source.Empty{}
	}
	r := &Rasterizer{
		width:    width,
		height:   height,
		sprites:  sprites,
		detector: analyzer.NewAlphaDetector(),
		scaler:   xdraw.CatmullRom,
		text:     ts,
		vignette: vignetteMask(image.Rect(0, 0, width, height)),
		focus:    make(map[string]image.Point),
		shares:   make(map[string]image.Image),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Bounds returns the output rectangle.
func (r *Rasterizer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// Frame paints f into a pooled buffer. Return it with system.PutImage when
// done.
func (r *Rasterizer) Frame(f renderer.CompositeFrame) (*image.RGBA, error) {
	img := system.GetImage(r.Bounds())
	if err := r.Draw(img, f); err != nil {
		system.PutImage(img)
		return nil, err
	}
	return img, nil
}

// Draw paints f over the whole of dst.
func (r *Rasterizer) Draw(dst *image.RGBA, f renderer.CompositeFrame) error {
	if !dst.Rect.Eq(r.Bounds()) {
		return errors.New("destination size does not match rasterizer")
	}

	bg := timeline.Mix(color.NRGBA{A: 0xff}, f.Background, f.Opacity)
	bg.A = 0xff
	draw.Draw(dst, dst.Rect, image.NewUniform(bg), image.Point{}, draw.Src)

	p := projection{sx: 1, sy: 1}
	if f.Width > 0 && f.Height > 0 {
		p = projection{sx: float64(r.width) / float64(f.Width), sy: float64(r.height) / float64(f.Height)}
	}

	var errs []error
	for _, l := range f.Layers {
		if !l.Visible() {
			continue
		}
		var err error
		switch l.Kind {
		case renderer.LayerGlow:
			r.paintGlow(dst, p, l)
		case renderer.LayerParticles:
			r.paintParticles(dst, p, l)
		case renderer.LayerStreaks:
			r.paintStreaks(dst, p, l)
		case renderer.LayerTitle:
			err = r.paintTitle(dst, p, l)
		case renderer.LayerTagline:
			err = r.drawText(dst, spaced(l.Text), l.Size*p.sy, l.X*p.sx, l.Y*p.sy, l.Color, l.Opacity)
		case renderer.LayerReveal:
			err = r.paintReveal(dst, p, l)
		case renderer.LayerEpisode:
			err = r.paintEpisode(dst, p, l)
		case renderer.LayerVignette:
			r.paintVignette(dst, l)
		case renderer.LayerGrain:
			r.paintGrain(dst, l)
		}
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// projection maps composition canvas pixels to output pixels.
type projection struct {
	sx, sy float64
}

func withOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	return timeline.WithAlpha(c, opacity)
}

func (r *Rasterizer) paintGlow(dst *image.RGBA, p projection, l renderer.Layer) {
	for _, e := range l.Elements {
		radius := e.Width / 2 * p.sx
		radialGlow(dst, e.X*p.sx, e.Y*p.sy, radius, e.Color, e.Opacity*l.Opacity)
	}
}

func (r *Rasterizer) paintParticles(dst *image.RGBA, p projection, l renderer.Layer) {
	for _, e := range l.Elements {
		op := e.Opacity * l.Opacity
		if op <= 0 {
			continue
		}
		x, y := e.X*p.sx, e.Y*p.sy
		radius := e.Width / 2 * e.Scale * p.sx
		radialGlow(dst, x, y, e.Glow*p.sx+radius, e.Color, op*0.5)
		disc(dst, x, y, radius, e.Color, op)
	}
}

func (r *Rasterizer) paintStreaks(dst *image.RGBA, p projection, l renderer.Layer) {
	for _, e := range l.Elements {
		op := e.Opacity * l.Opacity
		x, y := e.X*p.sx, e.Y*p.sy
		streakBar(dst, x, y, e.Width*p.sx, e.Glow*p.sy, withOpacity(e.Color, 0.375), op*0.4)
		streakBar(dst, x, y, e.Width*p.sx, e.Height*p.sy, e.Color, op)
	}
}

func (r *Rasterizer) paintTitle(dst *image.RGBA, p projection, l renderer.Layer) error {
	cx, cy := l.X*p.sx, l.Y*p.sy
	for _, e := range l.Elements {
		op := e.Opacity * l.Opacity
		if op <= 0 || e.Scale <= 0 {
			continue
		}
		// Exit scale grows the whole word about its centre.
		x := cx + (e.X*p.sx-cx)*l.Scale
		y := cy + ((e.Y+e.OffsetY)*p.sy-cy)*l.Scale
		px := e.Height * p.sy * e.Scale * l.Scale

		if e.Glow > 0 {
			radialGlow(dst, x, y, px*0.7, l.Accent, e.Glow*op*0.8)
		}
		if err := r.drawText(dst, e.Glyph, px, x, y, e.Color, op); err != nil {
			return err
		}
	}
	if l.Glow > 0 {
		width := 400 * p.sx * l.Scale
		y := cy + l.Size*0.55*p.sy*l.Scale
		streakBar(dst, cx, y, width, 3*p.sy, l.Accent, l.Glow*l.Opacity)
	}
	return nil
}

func (r *Rasterizer) paintReveal(dst *image.RGBA, p projection, l renderer.Layer) error {
	if l.Scale <= 0 {
		return nil
	}
	img, err := r.revealImage(l)
	if err != nil && !errors.Is(err, source.ErrMissing) {
		return err
	}

	side := l.Size * p.sy
	cx, cy := l.X*p.sx, l.Y*p.sy
	box := image.Rect(0, 0, int(side), int(side))
	origin := r.originFor(l, img, box)

	// Screen position of a point q in the unscaled box: O + s*(q-O) + (0, s*ty).
	ox := cx - side/2 + float64(origin.X)
	oy := cy - side/2 + float64(origin.Y)
	s := l.Scale
	ty := l.OffsetY * p.sy * s
	project := func(qx, qy float64) (float64, float64) {
		return ox + s*(qx-ox), oy + s*(qy-oy) + ty
	}

	hx, hy := project(cx, cy)
	halo := (side/2 + 60*p.sy) * s
	radialGlow(dst, hx, hy, halo, l.Color, l.Glow*l.Opacity)
	radialGlow(dst, hx, hy, halo*0.75, l.Accent, l.Glow*0.3*l.Opacity)

	if img == nil {
		disc(dst, hx, hy, side*0.4*s, l.Color, l.Opacity)
		disc(dst, hx-side*0.12*s, hy-side*0.08*s, side*0.05*s, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, l.Opacity)
		disc(dst, hx+side*0.12*s, hy-side*0.08*s, side*0.05*s, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, l.Opacity)
		return nil
	}

	fit := fitRect(img.Bounds(), side)
	x0, y0 := project(cx-side/2+fit.Min.X, cy-side/2+fit.Min.Y)
	x1, y1 := project(cx-side/2+fit.Max.X, cy-side/2+fit.Max.Y)
	dr := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	if !dr.Overlaps(dst.Rect) {
		return nil
	}

	opts := &xdraw.Options{}
	if l.Opacity < 1 {
		opts.SrcMask = image.NewUniform(color.Alpha16{A: uint16(l.Opacity * 0xffff)})
	}
	r.scaler.Scale(dst, dr, img, img.Bounds(), xdraw.Over, opts)
	return nil
}

type floatRect struct {
	Min, Max struct{ X, Y float64 }
}

// fitRect returns the box an image of bounds b occupies when contained in a
// side x side square.
func fitRect(b image.Rectangle, side float64) floatRect {
	w, h := float64(b.Dx()), float64(b.Dy())
	k := side / math.Max(w, h)
	var fr floatRect
	fr.Min.X = (side - w*k) / 2
	fr.Min.Y = (side - h*k) / 2
	fr.Max.X = fr.Min.X + w*k
	fr.Max.Y = fr.Min.Y + h*k
	return fr
}

func (r *Rasterizer) revealImage(l renderer.Layer) (image.Image, error) {
	if r.clip != nil {
		return r.clip.Frame(l.ClipFrame)
	}
	if l.Sprite == "" {
		return nil, source.ErrMissing
	}
	return r.sprites.Image(l.Sprite)
}

// originFor returns the transform origin in box pixels. For sprites it is the
// detected focus of the character, cached per sprite name.
func (r *Rasterizer) originFor(l renderer.Layer, img image.Image, box image.Rectangle) image.Point {
	fallback := image.Pt(box.Dx()/2, int(float64(box.Dy())*l.OriginY))
	if img == nil || r.clip != nil || l.Sprite == "" {
		return fallback
	}

	r.mu.Lock()
	focus, ok := r.focus[l.Sprite]
	r.mu.Unlock()
	if !ok {
		blocks, err := r.detector.Detect(img)
		if err != nil {
			return fallback
		}
		focus = analyzer.Focus(blocks, img.Bounds(), l.OriginY)
		r.mu.Lock()
		r.focus[l.Sprite] = focus
		r.mu.Unlock()
	}

	b := img.Bounds()
	fit := fitRect(b, float64(box.Dx()))
	k := (fit.Max.X - fit.Min.X) / float64(b.Dx())
	return image.Pt(
		int(fit.Min.X+float64(focus.X-b.Min.X)*k),
		int(fit.Min.Y+float64(focus.Y-b.Min.Y)*k),
	)
}

func (r *Rasterizer) paintEpisode(dst *image.RGBA, p projection, l renderer.Layer) error {
	cx, cy := l.X*p.sx, l.Y*p.sy
	size := l.Size * p.sy

	// Dark band behind the text.
	band := image.Rect(0, int(cy-size*1.6), r.width, int(cy+size*1.4)).Intersect(dst.Rect)
	for y := band.Min.Y; y < band.Max.Y; y++ {
		v := 1 - math.Abs(float64(y-band.Min.Y)/float64(max(band.Dy(), 1))*2-1)
		for x := band.Min.X; x < band.Max.X; x++ {
			blendPixel(dst, x, y, color.NRGBA{A: 0xff}, 0.55*v*l.Opacity)
		}
	}

	if err := r.drawText(dst, spaced(l.Label), size*0.4, cx, cy-size*0.85, l.Accent, l.Opacity); err != nil {
		return err
	}
	if err := r.drawText(dst, l.Text, size, cx, cy, l.Color, l.Opacity); err != nil {
		return err
	}
	if l.Subtitle != "" {
		if err := r.drawText(dst, l.Subtitle, size*0.45, cx, cy+size*0.9, l.Color, l.Opacity*0.8); err != nil {
			return err
		}
	}

	if l.Link == "" {
		return nil
	}
	qr, err := r.shareCode(l.Link, int(size*2.4))
	if err != nil {
		return err
	}
	b := qr.Bounds()
	margin := int(24 * p.sx)
	at := image.Pt(r.width-b.Dx()-margin, r.height-b.Dy()-margin)
	draw.DrawMask(dst, b.Sub(b.Min).Add(at), qr, b.Min, image.NewUniform(color.Alpha{A: uint8(l.Opacity * 255)}), image.Point{}, draw.Over)
	return nil
}

func (r *Rasterizer) paintVignette(dst *image.RGBA, l renderer.Layer) {
	w := r.width
	for y := 0; y < r.height; y++ {
		row := r.vignette[y*w : (y+1)*w]
		for x, v := range row {
			if v > 0 {
				blendPixel(dst, x, y, l.Color, v*l.Opacity)
			}
		}
	}
}

func (r *Rasterizer) paintGrain(dst *image.RGBA, l renderer.Layer) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black := color.NRGBA{A: 255}
	for y := 0; y < r.height; y++ {
		for x := 0; x < r.width; x++ {
			n := grainNoise(x, y, l.Seed)*2 - 1
			if n > 0 {
				blendPixel(dst, x, y, white, n*l.Opacity)
			} else {
				blendPixel(dst, x, y, black, -n*l.Opacity)
			}
		}
	}
}
