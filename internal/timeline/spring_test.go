package timeline

import (
	"math"
	"testing"
)

func TestSpringStartsAtZeroAndConverges(t *testing.T) {
	springs := []Spring{
		{Damping: 14, Stiffness: 180, Mass: 1.2},
		{Damping: 11, Stiffness: 140, Mass: 0.9},
		{Damping: 12, Stiffness: 80, Mass: 1.4},
		{Damping: 40, Stiffness: 100, Mass: 1}, // overdamped
		{Damping: 20, Stiffness: 100, Mass: 1}, // critically damped
	}
	for _, s := range springs {
		if got := s.Value(0, 30); got != 0 {
			t.Errorf("%+v: expected 0 at frame 0, got %v", s, got)
		}
		if got := s.Value(-10, 30); got != 0 {
			t.Errorf("%+v: expected 0 before start, got %v", s, got)
		}
		for _, f := range []int{600, 10000, 1 << 30} {
			got := s.Value(f, 30)
			if math.IsNaN(got) || math.Abs(got-1) > 1e-6 {
				t.Errorf("%+v: frame %d expected convergence to 1, got %v", s, f, got)
			}
		}
	}
}

func TestSpringOvershoots(t *testing.T) {
	s := Spring{Damping: 11, Stiffness: 140, Mass: 0.9}
	peak := 0.0
	for f := 0; f < 60; f++ {
		if v := s.Value(f, 30); v > peak {
			peak = v
		}
	}
	if peak <= 1 {
		t.Errorf("Expected underdamped spring to overshoot 1, peak %v", peak)
	}
	if peak > 1.5 {
		t.Errorf("Overshoot too large: %v", peak)
	}
}

func TestSpringSettlePinsToOne(t *testing.T) {
	s := Spring{Damping: 14, Stiffness: 180, Mass: 1.2, Settle: 25}
	if got := s.Value(24, 30); got == 1 {
		t.Errorf("Expected spring still moving before settle frame")
	}
	for _, f := range []int{25, 26, 400} {
		if got := s.Value(f, 30); got != 1 {
			t.Errorf("frame %d: expected exactly 1 after settle, got %v", f, got)
		}
	}
}

func TestSpringDeterministic(t *testing.T) {
	s := Spring{Damping: 18, Stiffness: 120, Mass: 0.8}
	for f := 0; f < 120; f++ {
		if s.Value(f, 30) != s.Value(f, 30) {
			t.Fatalf("frame %d: spring output not reproducible", f)
		}
	}
}

func TestSpringValidate(t *testing.T) {
	bad := []Spring{
		{Damping: 0, Stiffness: 100, Mass: 1},
		{Damping: 10, Stiffness: 0, Mass: 1},
		{Damping: 10, Stiffness: 100, Mass: 0},
		{Damping: 10, Stiffness: 100, Mass: 1, Settle: -1},
	}
	for i, s := range bad {
		if err := s.Validate("spring"); err == nil {
			t.Errorf("spring %d: expected validation error", i)
		}
	}
}
