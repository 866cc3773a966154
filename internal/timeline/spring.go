package timeline

import "math"

// Spring approximates a damped oscillator released from 0 towards 1 with no
// initial velocity. Underdamped springs overshoot before settling.
type Spring struct {
	Damping   float64
	Stiffness float64
	Mass      float64
	// Settle pins the output to exactly 1 from this local frame on. Zero
	// leaves the spring free, in which case it still converges to 1.
	Settle int
}

// Value returns spring progress after frame local frames at fps. Frames at
// or before 0 yield 0.
func (s Spring) Value(frame, fps int) float64 {
	if frame <= 0 {
		return 0
	}
	if s.Settle > 0 && frame >= s.Settle {
		return 1
	}
	if fps <= 0 {
		fps = 30
	}
	t := float64(frame) / float64(fps)

	w0 := math.Sqrt(s.Stiffness / s.Mass)
	zeta := s.Damping / (2 * math.Sqrt(s.Stiffness*s.Mass))

	switch {
	case zeta < 1:
		wd := w0 * math.Sqrt(1-zeta*zeta)
		env := math.Exp(-zeta * w0 * t)
		if env == 0 {
			return 1
		}
		return 1 - env*(math.Cos(wd*t)+(zeta*w0/wd)*math.Sin(wd*t))
	case zeta == 1:
		return 1 - math.Exp(-w0*t)*(1+w0*t)
	default:
		root := math.Sqrt(zeta*zeta - 1)
		r1 := -w0 * (zeta - root)
		r2 := -w0 * (zeta + root)
		return 1 + (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r1-r2)
	}
}

// Validate requires positive physical parameters; an undamped spring would
// oscillate forever.
func (s Spring) Validate(name string) error {
	if s.Damping <= 0 {
		return invalidf(name, "damping must be positive, got %g", s.Damping)
	}
	if s.Stiffness <= 0 {
		return invalidf(name, "stiffness must be positive, got %g", s.Stiffness)
	}
	if s.Mass <= 0 {
		return invalidf(name, "mass must be positive, got %g", s.Mass)
	}
	if s.Settle < 0 {
		return invalidf(name, "settle frame %d is negative", s.Settle)
	}
	return nil
}
