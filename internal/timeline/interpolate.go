package timeline

// Lerp performs linear interpolation between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits t to [0, 1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Interpolate maps x through the piecewise curve defined by the input and
// output breakpoints. Inputs outside the breakpoint range clamp to the first
// or last output value; nothing is extrapolated.
func Interpolate(x float64, input, output []float64, ease Easing) float64 {
	n := len(input)
	if len(output) < n {
		n = len(output)
	}
	if n == 0 {
		return 0
	}
	if n == 1 || x <= input[0] {
		return output[0]
	}
	if x >= input[n-1] {
		return output[n-1]
	}
	if ease == nil {
		ease = Linear
	}

	for i := 0; i < n-1; i++ {
		if x >= input[i+1] {
			continue
		}
		span := input[i+1] - input[i]
		if span <= 0 {
			return output[i+1]
		}
		t := ease(Clamp01((x - input[i]) / span))
		return Lerp(output[i], output[i+1], t)
	}
	return output[n-1]
}

// Curve is a reusable breakpoint mapping, e.g. an opacity envelope.
type Curve struct {
	Input  []float64
	Output []float64
	Easing Easing
}

// At evaluates the curve at x.
func (c Curve) At(x float64) float64 {
	return Interpolate(x, c.Input, c.Output, c.Easing)
}

// Validate checks that the curve has matching, non-decreasing breakpoints.
func (c Curve) Validate(name string) error {
	if len(c.Input) < 2 {
		return invalidf(name, "curve needs at least 2 breakpoints, got %d", len(c.Input))
	}
	if len(c.Input) != len(c.Output) {
		return invalidf(name, "curve has %d inputs but %d outputs", len(c.Input), len(c.Output))
	}
	for i := 1; i < len(c.Input); i++ {
		if c.Input[i] < c.Input[i-1] {
			return invalidf(name, "breakpoint %d (%.2f) is before breakpoint %d (%.2f)", i, c.Input[i], i-1, c.Input[i-1])
		}
	}
	return nil
}
