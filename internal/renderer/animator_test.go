package renderer

import (
	"math"
	"reflect"
	"testing"

	"github.com/ivlev/babaru/internal/director"
)

func newCanonical(t *testing.T) *Animator {
	t.Helper()
	a, err := New(director.Canonical())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestRenderDeterministic(t *testing.T) {
	a := newCanonical(t)
	b := newCanonical(t)

	for _, f := range []int{0, 1, 45, 79, 100, 140, 190, 239, 240} {
		first := a.Render(f)
		second := a.Render(f)
		other := b.Render(f)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("frame %d: repeated render differs", f)
		}
		if !reflect.DeepEqual(first, other) {
			t.Errorf("frame %d: render differs between animators", f)
		}
	}
}

func TestRenderFrameZeroIsTransparent(t *testing.T) {
	frame := newCanonical(t).Render(0)

	for _, l := range frame.Layers {
		if l.Kind == LayerGlow {
			continue
		}
		if l.Opacity != 0 {
			t.Errorf("layer %s: expected opacity 0 at frame 0, got %v", l.Kind, l.Opacity)
		}
	}
}

func TestRenderNegativeFrameClamps(t *testing.T) {
	a := newCanonical(t)
	neg := a.Render(-25)
	zero := a.Render(0)
	if !reflect.DeepEqual(neg, zero) {
		t.Error("Expected negative frame to render as frame 0")
	}
}

func TestTitleAtLand(t *testing.T) {
	a := newCanonical(t)
	land := a.Composition().Title.Land

	title, ok := a.Render(land).Layer(LayerTitle)
	if !ok {
		t.Fatal("title layer missing")
	}
	if title.Opacity != 1 {
		t.Errorf("Expected title opacity 1 at land, got %v", title.Opacity)
	}
	if title.OffsetY != 0 {
		t.Errorf("Expected title offset 0 at land, got %v", title.OffsetY)
	}
	if len(title.Elements) != 6 {
		t.Fatalf("Expected 6 letters, got %d", len(title.Elements))
	}
	for i, e := range title.Elements {
		if e.Opacity != 1 {
			t.Errorf("letter %d (%s): expected opacity 1, got %v", i, e.Glyph, e.Opacity)
		}
		if e.OffsetY != 0 {
			t.Errorf("letter %d (%s): expected offset 0, got %v", i, e.Glyph, e.OffsetY)
		}
	}
}

func TestLettersStagger(t *testing.T) {
	a := newCanonical(t)
	title, _ := a.Render(40).Layer(LayerTitle)
	letters := title.Elements

	// Frame 40: the first letter has landed, the second is dropping in.
	if letters[0].Opacity != 1 {
		t.Errorf("Expected first letter fully visible, got %v", letters[0].Opacity)
	}
	if letters[1].Opacity <= 0 || letters[1].Opacity >= 1 {
		t.Errorf("Expected second letter fading in, got %v", letters[1].Opacity)
	}
	if letters[1].OffsetY >= 0 {
		t.Errorf("Expected second letter above its rest position, got %v", letters[1].OffsetY)
	}
	for i := 2; i < len(letters); i++ {
		if letters[i].Opacity != 0 || letters[i].Scale != 0 {
			t.Errorf("letter %d: expected hidden, got opacity %v scale %v", i, letters[i].Opacity, letters[i].Scale)
		}
	}
}

func TestFadeEndIsTransparent(t *testing.T) {
	a := newCanonical(t)
	end := a.Composition().FadeOut.End

	frame := a.Render(end)
	if frame.Opacity != 0 {
		t.Errorf("Expected composite opacity 0 at fade end, got %v", frame.Opacity)
	}
	for _, l := range frame.Layers {
		if l.Opacity != 0 {
			t.Errorf("layer %s: expected opacity 0 at fade end, got %v", l.Kind, l.Opacity)
		}
	}
	if later := a.Render(end + 500); later.Opacity != 0 {
		t.Errorf("Expected frames past the end to stay transparent, got %v", later.Opacity)
	}
}

func TestDrawOrderStable(t *testing.T) {
	want := []LayerKind{
		LayerGlow, LayerParticles, LayerStreaks, LayerTitle, LayerTagline,
		LayerReveal, LayerEpisode, LayerVignette, LayerGrain,
	}

	shifted := director.Canonical()
	shifted.Title.Start = 10
	shifted.Title.Land = 59
	shifted.Reveal.Start = 60
	shifted.Reveal.Glow.Frames = []float64{60, 80, 110, 185, 230}
	shifted.Episode.Opacity[0].Start = 120

	for _, c := range []*director.Composition{director.Canonical(), shifted} {
		a, err := New(c)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		for _, f := range []int{0, 50, 120, 239} {
			layers := a.Render(f).Layers
			if len(layers) != len(want) {
				t.Fatalf("frame %d: expected %d layers, got %d", f, len(want), len(layers))
			}
			for i, l := range layers {
				if l.Kind != want[i] || l.Depth != i {
					t.Errorf("frame %d: position %d holds %s (depth %d), want %s", f, i, l.Kind, l.Depth, want[i])
				}
			}
		}
	}
}

func TestRevealSpriteSelection(t *testing.T) {
	a := newCanonical(t)

	tests := []struct {
		frame  int
		sprite string
	}{
		{50, "1.png"},
		{107, "1.png"},
		{108, "2.png"},
		{130, "8.png"},
		{160, "11.png"},
		{239, "12.png"},
	}
	for _, tt := range tests {
		reveal, _ := a.Render(tt.frame).Layer(LayerReveal)
		if reveal.Sprite != tt.sprite {
			t.Errorf("frame %d: expected sprite %s, got %s", tt.frame, tt.sprite, reveal.Sprite)
		}
	}

	before, _ := a.Render(99).Layer(LayerReveal)
	if before.Opacity != 0 || before.Scale != 0 {
		t.Errorf("Expected reveal hidden before start, got opacity %v scale %v", before.Opacity, before.Scale)
	}
}

func TestRevealZoom(t *testing.T) {
	a := newCanonical(t)

	settled, _ := a.Render(184).Layer(LayerReveal)
	zoomed, _ := a.Render(230).Layer(LayerReveal)

	if math.Abs(settled.Scale-1) > 0.05 {
		t.Errorf("Expected reveal settled near scale 1 before zoom, got %v", settled.Scale)
	}
	if math.Abs(zoomed.Scale-6) > 0.05 {
		t.Errorf("Expected zoom to reach 6, got %v", zoomed.Scale)
	}
	if zoomed.OffsetY != -120 {
		t.Errorf("Expected translateY -120 at zoom end, got %v", zoomed.OffsetY)
	}
	if zoomed.Glow != 0.8 {
		t.Errorf("Expected glow 0.8 at zoom end, got %v", zoomed.Glow)
	}
}

func TestEpisodeOverlayWindows(t *testing.T) {
	a := newCanonical(t)

	tests := []struct {
		frame int
		want  float64
	}{
		{139, 0},
		{146, 0.5},
		{152, 1},
		{167, 1},
		{174, 0.5},
		{180, 0},
	}
	for _, tt := range tests {
		ep, _ := a.Render(tt.frame).Layer(LayerEpisode)
		if math.Abs(ep.Opacity-tt.want) > 1e-9 {
			t.Errorf("frame %d: expected episode opacity %v, got %v", tt.frame, tt.want, ep.Opacity)
		}
	}
}

func TestParticlesAppearAfterDelay(t *testing.T) {
	a := newCanonical(t)

	early, _ := a.Render(19).Layer(LayerParticles)
	if len(early.Elements) != 0 {
		t.Errorf("Expected no particles before per-particle delays elapse, got %d", len(early.Elements))
	}

	mid, _ := a.Render(120).Layer(LayerParticles)
	// All 25 ambient particles plus the 12-particle burst.
	if len(mid.Elements) != 37 {
		t.Errorf("Expected 37 particle elements at frame 120, got %d", len(mid.Elements))
	}

	after, _ := a.Render(141).Layer(LayerParticles)
	if len(after.Elements) != 25 {
		t.Errorf("Expected burst to be gone after its life, got %d elements", len(after.Elements))
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	c := director.Canonical()
	c.FPS = 0
	if _, err := New(c); err == nil {
		t.Error("Expected error for invalid composition")
	}
}

func TestFrameAt(t *testing.T) {
	a := newCanonical(t)
	if a.FrameAt(-1) != 0 || a.FrameAt(1) != 30 || a.FrameAt(100) != 239 {
		t.Errorf("Unexpected FrameAt mapping: %d %d %d", a.FrameAt(-1), a.FrameAt(1), a.FrameAt(100))
	}
	if a.Duration() != 8 {
		t.Errorf("Expected 8 second duration, got %v", a.Duration())
	}
}
