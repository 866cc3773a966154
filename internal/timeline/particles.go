package timeline

import (
	"image/color"
	"math"
)

// Reference canvas the particle formulas were authored against.
const (
	ReferenceWidth  = 1920
	ReferenceHeight = 1080
)

// Particle is a deterministically placed point. Positions are in reference
// canvas pixels.
type Particle struct {
	Index int
	Seed  int
	X     float64
	Y     float64
	Size  float64
	Speed float64
	Delay int
	Angle float64
	Color color.NRGBA
}

// SeedFor derives a particle seed from its index with fixed arithmetic.
func SeedFor(i int) int {
	return (i*7919 + 104729) % 100000
}

// AmbientField lays out count drifting particles. The same count and palette
// always produce the same field.
func AmbientField(count int, palette []color.NRGBA) []Particle {
	out := make([]Particle, count)
	for i := 0; i < count; i++ {
		seed := SeedFor(i)
		p := Particle{
			Index: i,
			Seed:  seed,
			X:     float64(seed % ReferenceWidth),
			Y:     float64((seed * 3) % ReferenceHeight),
			Size:  float64(2 + seed%5),
			Speed: 0.4 + float64(seed%25)/10,
			Delay: seed % 50,
		}
		if len(palette) > 0 {
			p.Color = palette[i%len(palette)]
		}
		out[i] = p
	}
	return out
}

// BurstRing places count particles on a small ring around (cx, cy); they fly
// outwards when the character arrives.
func BurstRing(count int, cx, cy float64, palette []color.NRGBA) []Particle {
	out := make([]Particle, count)
	for i := 0; i < count; i++ {
		angle := float64(i) / float64(count) * math.Pi * 2
		p := Particle{
			Index: i,
			X:     cx + math.Cos(angle)*50,
			Y:     cy + math.Sin(angle)*50,
			Size:  float64(3 + i%4),
			Speed: 1.5 + float64(i%3)*0.5,
			Angle: angle,
		}
		if len(palette) > 0 {
			p.Color = palette[i%len(palette)]
		}
		out[i] = p
	}
	return out
}

// Drift returns the particle position local frames after it appeared: a
// sinusoidal bob plus a slow upward float.
func (p Particle) Drift(local int) (x, y float64) {
	f := float64(local)
	yOffset := math.Sin(f/(8*p.Speed)) * 20
	xDrift := math.Cos(f/(12*p.Speed)) * 10
	floatY := -f * p.Speed * 0.25
	return p.X + xDrift, p.Y + yOffset + floatY
}

// Burst returns the position local frames into an outward burst.
func (p Particle) Burst(local int) (x, y float64) {
	radius := float64(local) * p.Speed * 8
	return p.X + math.Cos(p.Angle)*radius, p.Y + math.Sin(p.Angle)*radius
}

// Envelope is a four-breakpoint opacity ramp: fade in, hold, fade out.
type Envelope struct {
	FadeIn    int
	HoldStart int
	HoldEnd   int
	FadeOut   int
	Peak      float64
}

// At evaluates the envelope at local frame.
func (e Envelope) At(local int) float64 {
	return Interpolate(float64(local),
		[]float64{float64(e.FadeIn), float64(e.HoldStart), float64(e.HoldEnd), float64(e.FadeOut)},
		[]float64{0, e.Peak, e.Peak, 0},
		Linear,
	)
}

// Validate requires ordered breakpoints.
func (e Envelope) Validate(name string) error {
	if e.FadeIn > e.HoldStart || e.HoldStart > e.HoldEnd || e.HoldEnd > e.FadeOut {
		return invalidf(name, "envelope breakpoints %d,%d,%d,%d are not ordered", e.FadeIn, e.HoldStart, e.HoldEnd, e.FadeOut)
	}
	if e.Peak < 0 || e.Peak > 1 {
		return invalidf(name, "envelope peak %g outside [0, 1]", e.Peak)
	}
	return nil
}
