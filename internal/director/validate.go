package director

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/ivlev/babaru/internal/timeline"
)

// ErrInvalidComposition is returned, wrapped, when a composition fails
// validation. The wrapped error lists every problem found.
var ErrInvalidComposition = errors.New("invalid composition")

// Validate checks the composition and reports all problems at once.
func (c *Composition) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: composition is nil", ErrInvalidComposition)
	}
	v := &validator{}

	if c.FPS <= 0 {
		v.addf("fps must be positive, got %d", c.FPS)
	}
	if c.Width <= 0 || c.Height <= 0 {
		v.addf("canvas %dx%d is not positive", c.Width, c.Height)
	}
	if c.TotalFrames <= 0 {
		v.addf("total_frames must be positive, got %d", c.TotalFrames)
	}

	v.color("palette.primary", c.Palette.Primary)
	v.color("palette.secondary", c.Palette.Secondary)
	v.color("palette.accent", c.Palette.Accent)
	v.color("palette.gold", c.Palette.Gold)
	v.color("palette.background", c.Palette.Background)
	v.color("palette.text", c.Palette.Text)

	v.phase("fade_in", c.FadeIn)
	v.phase("fade_out", c.FadeOut)
	if c.FadeIn.End > c.FadeOut.Start {
		v.addf("fade_in ends at %d, after fade_out starts at %d", c.FadeIn.End, c.FadeOut.Start)
	}
	if c.TotalFrames > 0 && c.FadeOut.End > c.TotalFrames {
		v.addf("fade_out ends at %d, past total_frames %d", c.FadeOut.End, c.TotalFrames)
	}

	if c.Glow.PulsePeriod <= 0 {
		v.addf("glow.pulse_period must be positive, got %d", c.Glow.PulsePeriod)
	}

	c.validateParticles(v)
	for i, s := range c.Streaks {
		name := fmt.Sprintf("streaks[%d]", i)
		if s.Delay < 0 {
			v.addf("%s: delay %d is negative", name, s.Delay)
		}
		if s.Travel <= 0 {
			v.addf("%s: travel must be positive, got %d", name, s.Travel)
		}
		if s.Direction != "left" && s.Direction != "right" {
			v.addf("%s: direction must be left or right, got %q", name, s.Direction)
		}
		v.color(name+".color", s.Color)
		v.curve(name+".opacity", s.Opacity)
	}
	c.validateTitle(v)

	v.spring("tagline.spring", c.Tagline.Spring)
	v.window("tagline.fade_out", c.Tagline.FadeOut)
	if c.Tagline.Start < 0 {
		v.addf("tagline.start %d is negative", c.Tagline.Start)
	}

	c.validateReveal(v)

	if _, err := timeline.NewTrack("episode.opacity", 0, windowsOf(c.Episode.Opacity)...); err != nil {
		v.add(err)
	}
	for i, w := range c.Episode.Opacity {
		v.easing(fmt.Sprintf("episode.opacity[%d]", i), w.Easing)
	}

	if c.Vignette < 0 || c.Vignette > 1 {
		v.addf("vignette %g outside [0, 1]", c.Vignette)
	}
	if c.Grain < 0 || c.Grain > 1 {
		v.addf("grain %g outside [0, 1]", c.Grain)
	}

	return v.err()
}

func (c *Composition) validateParticles(v *validator) {
	p := c.Particles
	if p.Count < 0 {
		v.addf("particles.count %d is negative", p.Count)
	}
	if p.Count > 0 && len(p.Colors) == 0 {
		v.addf("particles.colors is empty")
	}
	for i, hex := range p.Colors {
		v.color(fmt.Sprintf("particles.colors[%d]", i), hex)
	}
	if err := p.EnvelopeSpec().Validate("particles.envelope"); err != nil {
		v.add(err)
	}

	b := p.Burst
	if b.Count < 0 {
		v.addf("particles.burst.count %d is negative", b.Count)
	}
	if b.Count > 0 {
		if b.Life <= 0 {
			v.addf("particles.burst.life must be positive, got %d", b.Life)
		}
		if len(b.Colors) == 0 {
			v.addf("particles.burst.colors is empty")
		}
		v.curve("particles.burst.opacity", b.Opacity)
		v.curve("particles.burst.scale", b.Scale)
	}
	for i, hex := range b.Colors {
		v.color(fmt.Sprintf("particles.burst.colors[%d]", i), hex)
	}
}

func (c *Composition) validateTitle(v *validator) {
	t := c.Title
	if strings.TrimSpace(t.Text) == "" {
		v.addf("title.text is empty")
	}
	if t.Start < 0 {
		v.addf("title.start %d is negative", t.Start)
	}
	if t.Stagger < 0 {
		v.addf("title.stagger %d is negative", t.Stagger)
	}
	if t.FadeIn <= 0 {
		v.addf("title.fade_in must be positive, got %d", t.FadeIn)
	}
	v.spring("title.spring", t.Spring)
	v.curve("title.drop", t.Drop)
	v.curve("title.burst", t.Burst)
	v.curve("title.underline", t.Underline)
	v.phase("title.pulse", t.Pulse)
	v.window("title.exit_scale", t.ExitScale)
	v.window("title.exit_fade", t.ExitFade)

	if n := len([]rune(t.Text)); n > 0 && len(t.Drop.Frames) > 0 {
		settled := t.Start + (n-1)*t.Stagger + int(t.Drop.Frames[len(t.Drop.Frames)-1])
		if t.Land < settled {
			v.addf("title.land %d is before the last letter settles at %d", t.Land, settled)
		}
	}
	if t.Land > t.ExitFade.Start {
		v.addf("title.land %d is after title.exit_fade starts at %d", t.Land, t.ExitFade.Start)
	}
}

func (c *Composition) validateReveal(v *validator) {
	r := c.Reveal
	if r.Start < 0 {
		v.addf("reveal.start %d is negative", r.Start)
	}
	if r.FadeIn <= 0 {
		v.addf("reveal.fade_in must be positive, got %d", r.FadeIn)
	}
	v.spring("reveal.spring", r.Spring)
	v.window("reveal.zoom", r.Zoom)
	if r.Zoom.Start < r.Start {
		v.addf("reveal.zoom starts at %d, before the reveal at %d", r.Zoom.Start, r.Start)
	}
	if r.Clip == "" {
		if err := r.Sequence().Validate("reveal.sprites"); err != nil {
			v.add(err)
		}
	}
	v.curve("reveal.glow", r.Glow)
}

// Spring converts the YAML settings into the timeline model.
func (s SpringSpec) Spring() timeline.Spring {
	return timeline.Spring{Damping: s.Damping, Stiffness: s.Stiffness, Mass: s.Mass, Settle: s.Settle}
}

// Curve converts the YAML settings into the timeline model, resolving its easing.
func (s CurveSpec) Curve() (timeline.Curve, error) {
	ease, err := timeline.EasingByName(s.Easing)
	if err != nil {
		return timeline.Curve{}, err
	}
	return timeline.Curve{Input: s.Frames, Output: s.Values, Easing: ease}, nil
}

// Window converts the YAML settings into the timeline model, resolving its easing.
func (s WindowSpec) Window() (timeline.Window, error) {
	ease, err := timeline.EasingByName(s.Easing)
	if err != nil {
		return timeline.Window{}, err
	}
	return timeline.Window{Start: s.Start, End: s.End, From: s.From, To: s.To, Easing: ease}, nil
}

// Sequence builds the sprite sequence for the reveal.
func (r RevealSpec) Sequence() timeline.SpriteSequence {
	frames := make([]timeline.SpriteFrame, len(r.Sprites))
	for i, s := range r.Sprites {
		frames[i] = timeline.SpriteFrame{Image: s.Image, Hold: s.Hold}
	}
	return timeline.SpriteSequence{Frames: frames, Declared: r.Declared}
}

// EnvelopeSpec builds the per-particle opacity envelope.
func (p ParticleSpec) EnvelopeSpec() timeline.Envelope {
	return timeline.Envelope{
		FadeIn:    p.Envelope[0],
		HoldStart: p.Envelope[1],
		HoldEnd:   p.Envelope[2],
		FadeOut:   p.Envelope[3],
		Peak:      p.Peak,
	}
}

// ParseColors parses a list of hex colours.
func ParseColors(hexes []string) ([]color.NRGBA, error) {
	out := make([]color.NRGBA, 0, len(hexes))
	for _, h := range hexes {
		c, err := timeline.ParseHex(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func windowsOf(specs []WindowSpec) []timeline.Window {
	out := make([]timeline.Window, len(specs))
	for i, s := range specs {
		out[i] = timeline.Window{Start: s.Start, End: s.End, From: s.From, To: s.To}
	}
	return out
}

type validator struct {
	errs []error
}

func (v *validator) add(err error) {
	v.errs = append(v.errs, err)
}

func (v *validator) addf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) phase(name string, p Phase) {
	if err := (timeline.Window{Start: p.Start, End: p.End}).Validate(name); err != nil {
		v.add(err)
	}
}

func (v *validator) window(name string, w WindowSpec) {
	if err := (timeline.Window{Start: w.Start, End: w.End}).Validate(name); err != nil {
		v.add(err)
	}
	v.easing(name, w.Easing)
}

func (v *validator) curve(name string, c CurveSpec) {
	curve, err := c.Curve()
	if err != nil {
		v.addf("%s: %w", name, err)
		return
	}
	if err := curve.Validate(name); err != nil {
		v.add(err)
	}
}

func (v *validator) spring(name string, s SpringSpec) {
	if err := s.Spring().Validate(name); err != nil {
		v.add(err)
	}
}

func (v *validator) easing(name, easing string) {
	if _, err := timeline.EasingByName(easing); err != nil {
		v.addf("%s: %w", name, err)
	}
}

func (v *validator) color(name, hex string) {
	if _, err := timeline.ParseHex(hex); err != nil {
		v.addf("%s: %w", name, err)
	}
}

func (v *validator) err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n%w", ErrInvalidComposition, errors.Join(v.errs...))
}
