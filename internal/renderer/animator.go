package renderer

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ivlev/babaru/internal/director"
	"github.com/ivlev/babaru/internal/timeline"
)

// Letter cell geometry in reference pixels.
const (
	letterWidth = 120
	letterGap   = 10
	streakWidth = 500
)

// Animator maps a frame index to a CompositeFrame. It is built once from a
// validated composition and never mutated afterwards, so Render may be
// called concurrently.
type Animator struct {
	comp   director.Composition
	fps    int
	total  int
	width  float64
	height float64
	sx, sy float64

	background color.NRGBA
	primary    color.NRGBA
	secondary  color.NRGBA
	accent     color.NRGBA
	gold       color.NRGBA
	text       color.NRGBA

	fadeIn  timeline.Window
	fadeOut timeline.Window

	ambient      []timeline.Particle
	envelope     timeline.Envelope
	burst        []timeline.Particle
	burstOpacity timeline.Curve
	burstScale   timeline.Curve

	streaks []streak

	letters     []rune
	titleSpring timeline.Spring
	drop        timeline.Curve
	letterGlow  timeline.Curve
	underline   timeline.Curve
	exitScale   timeline.Window
	exitFade    timeline.Window

	tagSpring timeline.Spring
	tagFade   timeline.Window

	revealSpring timeline.Spring
	sequence     timeline.SpriteSequence
	camera       []CameraKeyframe
	revealGlow   timeline.Curve

	episode timeline.Track
}

type streak struct {
	spec    director.StreakSpec
	color   color.NRGBA
	opacity timeline.Curve
}

// New validates c and prepares an animator for it.
func New(c *director.Composition) (*Animator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	a := &Animator{
		comp:   *c,
		fps:    c.FPS,
		total:  c.TotalFrames,
		width:  float64(c.Width),
		height: float64(c.Height),
		sx:     float64(c.Width) / timeline.ReferenceWidth,
		sy:     float64(c.Height) / timeline.ReferenceHeight,
	}

	a.background = timeline.MustHex(c.Palette.Background)
	a.primary = timeline.MustHex(c.Palette.Primary)
	a.secondary = timeline.MustHex(c.Palette.Secondary)
	a.accent = timeline.MustHex(c.Palette.Accent)
	a.gold = timeline.MustHex(c.Palette.Gold)
	a.text = timeline.MustHex(c.Palette.Text)

	a.fadeIn = timeline.Window{Start: c.FadeIn.Start, End: c.FadeIn.End, From: 0, To: 1}
	a.fadeOut = timeline.Window{Start: c.FadeOut.Start, End: c.FadeOut.End, From: 1, To: 0}

	colors, err := director.ParseColors(c.Particles.Colors)
	if err != nil {
		return nil, err
	}
	a.ambient = timeline.AmbientField(c.Particles.Count, colors)
	a.envelope = c.Particles.EnvelopeSpec()

	burstColors, err := director.ParseColors(c.Particles.Burst.Colors)
	if err != nil {
		return nil, err
	}
	a.burst = timeline.BurstRing(c.Particles.Burst.Count, timeline.ReferenceWidth/2, timeline.ReferenceHeight/2, burstColors)
	if a.burstOpacity, err = c.Particles.Burst.Opacity.Curve(); err != nil {
		return nil, err
	}
	if a.burstScale, err = c.Particles.Burst.Scale.Curve(); err != nil {
		return nil, err
	}

	for _, s := range c.Streaks {
		curve, err := s.Opacity.Curve()
		if err != nil {
			return nil, err
		}
		a.streaks = append(a.streaks, streak{spec: s, color: timeline.MustHex(s.Color), opacity: curve})
	}

	t := c.Title
	a.letters = []rune(t.Text)
	a.titleSpring = t.Spring.Spring()
	if a.drop, err = t.Drop.Curve(); err != nil {
		return nil, err
	}
	if a.letterGlow, err = t.Burst.Curve(); err != nil {
		return nil, err
	}
	if a.underline, err = t.Underline.Curve(); err != nil {
		return nil, err
	}
	if a.exitScale, err = t.ExitScale.Window(); err != nil {
		return nil, err
	}
	if a.exitFade, err = t.ExitFade.Window(); err != nil {
		return nil, err
	}

	a.tagSpring = c.Tagline.Spring.Spring()
	if a.tagFade, err = c.Tagline.FadeOut.Window(); err != nil {
		return nil, err
	}

	r := c.Reveal
	a.revealSpring = r.Spring.Spring()
	a.sequence = r.Sequence()
	if a.revealGlow, err = r.Glow.Curve(); err != nil {
		return nil, err
	}
	zoomEase, err := timeline.EasingByName(r.Zoom.Easing)
	if err != nil {
		return nil, err
	}
	cx, cy := a.width/2, a.height/2
	a.camera = []CameraKeyframe{
		{Frame: r.Zoom.Start, X: cx, Y: cy, Zoom: r.Zoom.From},
		{Frame: r.Zoom.End, X: cx, Y: cy + r.TranslateY*a.sy, Zoom: r.Zoom.To, Easing: zoomEase},
	}

	windows := make([]timeline.Window, 0, len(c.Episode.Opacity))
	for _, ws := range c.Episode.Opacity {
		w, err := ws.Window()
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	if a.episode, err = timeline.NewTrack("episode.opacity", 0, windows...); err != nil {
		return nil, fmt.Errorf("%w: %w", director.ErrInvalidComposition, err)
	}

	return a, nil
}

// FPS returns the frame rate.
func (a *Animator) FPS() int { return a.fps }

// TotalFrames returns the composition length in frames.
func (a *Animator) TotalFrames() int { return a.total }

// Size returns the canvas size in pixels.
func (a *Animator) Size() (width, height int) {
	return a.comp.Width, a.comp.Height
}

// Composition returns a copy of the composition the animator was built from.
func (a *Animator) Composition() director.Composition {
	return a.comp
}

// MasterOpacity is the global fade applied to every layer.
func (a *Animator) MasterOpacity(frame int) float64 {
	if frame < 0 {
		frame = 0
	}
	return a.fadeIn.Value(frame) * a.fadeOut.Value(frame)
}

// Render computes every layer's descriptor at frame. Negative frames are
// treated as frame 0. The result depends on nothing but frame.
func (a *Animator) Render(frame int) CompositeFrame {
	if frame < 0 {
		frame = 0
	}
	master := a.MasterOpacity(frame)

	out := CompositeFrame{
		Frame:      frame,
		Opacity:    master,
		Width:      a.comp.Width,
		Height:     a.comp.Height,
		Background: a.background,
		Layers:     make([]Layer, 0, len(DrawOrder)),
	}
	for depth, kind := range DrawOrder {
		var l Layer
		switch kind {
		case LayerGlow:
			l = a.glow(frame)
		case LayerParticles:
			l = a.particles(frame)
		case LayerStreaks:
			l = a.streakLayer(frame)
		case LayerTitle:
			l = a.title(frame)
		case LayerTagline:
			l = a.tagline(frame)
		case LayerReveal:
			l = a.reveal(frame)
		case LayerEpisode:
			l = a.episodeOverlay(frame)
		case LayerVignette:
			l = Layer{Opacity: a.comp.Vignette, Color: color.NRGBA{A: 0xff}, Scale: 1}
		case LayerGrain:
			l = Layer{Opacity: a.comp.Grain, Seed: uint64(frame) + 1, Scale: 1}
		}
		l.Kind = kind
		l.Depth = depth
		l.Opacity = timeline.Clamp01(l.Opacity) * master
		out.Layers = append(out.Layers, l)
	}
	return out
}

func (a *Animator) glow(frame int) Layer {
	g := a.comp.Glow
	period := float64(g.PulsePeriod)
	pulse := timeline.Interpolate(float64(frame%g.PulsePeriod), []float64{0, period / 2, period}, []float64{g.PulseMin, g.PulseMax, g.PulseMin}, nil)
	drift := timeline.Interpolate(float64(frame), []float64{0, float64(a.total)}, []float64{0, g.Drift}, nil)

	radius := g.Radius * a.sx
	return Layer{
		Opacity: 1,
		Scale:   1,
		X:       a.width / 2,
		Y:       a.height * 0.4,
		OffsetY: drift * a.sy,
		Glow:    pulse,
		Color:   a.primary,
		Elements: []Element{
			{X: a.width * 0.5, Y: a.height*0.4 + drift*a.sy, Width: radius * 2, Height: radius * 2, Scale: 1, Opacity: pulse, Color: a.primary},
			{X: a.width * 0.2, Y: a.height * 0.6, Width: radius, Height: radius, Scale: 1, Opacity: pulse * 0.8, Color: timeline.WithAlpha(a.secondary, 0.125)},
			{X: a.width * 0.85, Y: a.height * 0.3, Width: radius * 0.75, Height: radius * 0.75, Scale: 1, Opacity: pulse * 0.6, Color: timeline.WithAlpha(a.accent, 0.08)},
		},
	}
}

func (a *Animator) particles(frame int) Layer {
	l := Layer{Opacity: 1, Scale: 1}
	start := a.comp.Particles.Start
	for _, p := range a.ambient {
		local := frame - start - p.Delay
		if local < 0 {
			continue
		}
		x, y := p.Drift(local)
		l.Elements = append(l.Elements, Element{
			X:       x * a.sx,
			Y:       y * a.sy,
			Width:   p.Size * a.sx,
			Height:  p.Size * a.sx,
			Scale:   1,
			Opacity: a.envelope.At(local),
			Glow:    p.Size * 2 * a.sx,
			Color:   p.Color,
		})
	}

	b := a.comp.Particles.Burst
	if local := frame - b.Start; local >= 0 && local <= b.Life {
		for _, p := range a.burst {
			x, y := p.Burst(local)
			l.Elements = append(l.Elements, Element{
				X:       x * a.sx,
				Y:       y * a.sy,
				Width:   p.Size * a.sx,
				Height:  p.Size * a.sx,
				Scale:   a.burstScale.At(float64(local)),
				Opacity: a.burstOpacity.At(float64(local)),
				Glow:    p.Size * 3 * a.sx,
				Color:   p.Color,
			})
		}
	}
	return l
}

func (a *Animator) streakLayer(frame int) Layer {
	l := Layer{Opacity: 1, Scale: 1}
	for _, s := range a.streaks {
		local := frame - s.spec.Delay
		if local < 0 {
			local = 0
		}
		progress := timeline.Interpolate(float64(local), []float64{0, float64(s.spec.Travel)}, []float64{0, 1}, timeline.EaseOutCubic)

		from, to := -600.0, float64(timeline.ReferenceWidth)+200
		if s.spec.Direction == "left" {
			from, to = to, from
		}
		x := timeline.Lerp(from, to, progress) + streakWidth/2

		l.Elements = append(l.Elements, Element{
			Glyph:   s.spec.Direction,
			X:       x * a.sx,
			Y:       s.spec.Y * a.height,
			Width:   streakWidth * a.sx,
			Height:  2 * a.sy,
			Scale:   1,
			Opacity: s.opacity.At(float64(local)),
			Glow:    20 * a.sx,
			Color:   s.color,
		})
	}
	return l
}

func (a *Animator) title(frame int) Layer {
	t := a.comp.Title
	l := Layer{
		Opacity: a.exitFade.Value(frame),
		Scale:   a.exitScale.Value(frame),
		X:       a.width / 2,
		Y:       t.Y * a.height,
		Size:    t.Size * a.sy,
		Text:    t.Text,
		Glow:    a.underline.At(float64(frame)),
		Color:   a.text,
		Accent:  a.primary,
	}

	pulse := 1.0
	if frame >= t.Pulse.Start && frame <= t.Pulse.End {
		pulse = timeline.Wave(frame-t.Pulse.Start, t.PulseRate, t.PulseAmp)
	}

	n := len(a.letters)
	row := float64(n*letterWidth + (n-1)*letterGap)
	left := a.width/2 - row*a.sx/2
	for i, r := range a.letters {
		local := frame - (t.Start + i*t.Stagger)
		e := Element{
			Glyph:  string(r),
			X:      left + (float64(i*(letterWidth+letterGap))+letterWidth/2)*a.sx,
			Y:      l.Y,
			Width:  letterWidth * a.sx,
			Height: t.Size * a.sy,
			Color:  a.text,
		}
		if local >= 0 {
			lf := float64(local)
			e.Scale = a.titleSpring.Value(local, a.fps) * pulse
			e.OffsetY = a.drop.At(lf) * a.sy
			e.Opacity = timeline.Interpolate(lf, []float64{0, float64(t.FadeIn)}, []float64{0, 1}, nil)
			e.Glow = a.letterGlow.At(lf)
		} else {
			e.OffsetY = a.drop.At(0) * a.sy
		}
		l.Elements = append(l.Elements, e)
	}
	return l
}

func (a *Animator) tagline(frame int) Layer {
	t := a.comp.Tagline
	entrance := a.tagSpring.Value(frame-t.Start, a.fps)
	return Layer{
		Opacity: timeline.Clamp01(entrance) * a.tagFade.Value(frame),
		Scale:   1,
		X:       a.width / 2,
		Y:       t.Y * a.height,
		Size:    t.Size * a.sy,
		Text:    t.Text,
		Color:   timeline.WithAlpha(a.primary, 0.8),
	}
}

func (a *Animator) reveal(frame int) Layer {
	r := a.comp.Reveal
	local := frame - r.Start
	cam := InterpolateCamera(a.camera, frame)

	l := Layer{
		X:       cam.X,
		Y:       a.height / 2,
		OffsetY: cam.Y - a.height/2,
		OriginY: 0.4,
		Size:    r.Size * a.sy,
		Color:   a.primary,
		Accent:  a.gold,
		Sprite:  a.sequence.Select(local),
	}
	if local < 0 {
		return l
	}
	lf := float64(local)
	l.ClipFrame = local
	l.Opacity = timeline.Interpolate(lf, []float64{0, float64(r.FadeIn)}, []float64{0, 1}, nil)
	l.Scale = a.revealSpring.Value(local, a.fps) * cam.Zoom
	l.Glow = a.revealGlow.At(float64(frame))
	return l
}

func (a *Animator) episodeOverlay(frame int) Layer {
	e := a.comp.Episode
	return Layer{
		Opacity:  a.episode.Value(frame),
		Scale:    1,
		X:        a.width / 2,
		Y:        e.Y * a.height,
		Size:     56 * a.sy,
		Label:    e.Label,
		Text:     e.Title,
		Subtitle: e.Subtitle,
		Link:     e.ShareURL,
		Color:    a.text,
		Accent:   a.gold,
	}
}

// Duration returns the composition length as seconds.
func (a *Animator) Duration() float64 {
	return float64(a.total) / float64(a.fps)
}

// FrameAt converts elapsed seconds into a frame index, clamped to the
// composition.
func (a *Animator) FrameAt(seconds float64) int {
	f := int(math.Floor(seconds * float64(a.fps)))
	if f < 0 {
		return 0
	}
	if f >= a.total {
		return a.total - 1
	}
	return f
}
