package timeline

import (
	"image/color"
	"reflect"
	"testing"
)

var testPalette = []color.NRGBA{
	{R: 139, G: 92, B: 246, A: 153},
	{R: 245, G: 158, B: 11, A: 128},
	{R: 255, G: 255, B: 255, A: 102},
}

func TestAmbientFieldReproducible(t *testing.T) {
	a := AmbientField(25, testPalette)
	b := AmbientField(25, testPalette)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Expected identical particle layouts across runs")
	}

	first := a[0]
	if first.Seed != 4729 {
		t.Errorf("Expected seed 4729 for particle 0, got %d", first.Seed)
	}
	if first.X != float64(4729%ReferenceWidth) || first.Y != float64((4729*3)%ReferenceHeight) {
		t.Errorf("Unexpected position for particle 0: (%v, %v)", first.X, first.Y)
	}
	if first.Size != 6 || first.Delay != 29 {
		t.Errorf("Unexpected size/delay for particle 0: %v/%d", first.Size, first.Delay)
	}
	if a[4].Color != testPalette[1] {
		t.Errorf("Expected palette cycling by index, got %v", a[4].Color)
	}
}

func TestParticleDriftAndBurst(t *testing.T) {
	p := AmbientField(1, testPalette)[0]
	x, y := p.Drift(0)
	if x != p.X+10 || y != p.Y {
		t.Errorf("Expected drift at 0 to be base + (10, 0), got (%v, %v)", x-p.X, y-p.Y)
	}

	ring := BurstRing(12, 960, 540, testPalette)
	bx, by := ring[0].Burst(0)
	if bx != ring[0].X || by != ring[0].Y {
		t.Error("Expected burst to start at ring position")
	}
	bx, _ = ring[0].Burst(10)
	if bx <= ring[0].X {
		t.Error("Expected particle 0 to move right as the ring expands")
	}
}

func TestEnvelope(t *testing.T) {
	e := Envelope{FadeIn: 0, HoldStart: 15, HoldEnd: 180, FadeOut: 210, Peak: 0.7}
	if e.At(-1) != 0 || e.At(0) != 0 {
		t.Error("Expected transparent before fade in")
	}
	if e.At(15) != 0.7 || e.At(100) != 0.7 {
		t.Error("Expected peak during hold")
	}
	if e.At(210) != 0 || e.At(999) != 0 {
		t.Error("Expected transparent after fade out")
	}
	if err := (Envelope{FadeIn: 10, HoldStart: 5, HoldEnd: 20, FadeOut: 30, Peak: 1}).Validate("bad"); err == nil {
		t.Error("Expected error for unordered envelope")
	}
}
