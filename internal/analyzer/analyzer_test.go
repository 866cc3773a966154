package analyzer

import (
	"image"
	"image/color"
	"testing"
)

func TestAlphaDetectorTransparentSprite(t *testing.T) {
	// Transparent canvas with an opaque "head" and a small separate sparkle
	img := image.NewNRGBA(image.Rect(0, 0, 200, 200))
	for y := 40; y < 160; y++ {
		for x := 60; x < 140; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 139, G: 92, B: 246, A: 255})
		}
	}
	for y := 5; y < 15; y++ {
		for x := 5; x < 15; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 200})
		}
	}

	blocks, err := NewAlphaDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	head := blocks[0]
	if head.Rect.Dx() < 80 || head.Rect.Dy() < 120 {
		t.Errorf("Head block too small: %v", head.Rect)
	}

	focus := Focus(blocks, img.Bounds(), 0.4)
	if focus.X < 95 || focus.X > 105 || focus.Y < 80 || focus.Y > 95 {
		t.Errorf("Unexpected focus point %v", focus)
	}

	t.Logf("Detected %d blocks", len(blocks))
	for i, b := range blocks {
		t.Logf("Block %d: %v (pixels: %d, coverage: %.2f)", i, b.Rect, b.Pixels, b.Coverage)
	}
}

func TestAlphaDetectorOpaqueBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	bg := color.RGBA{R: 8, G: 0, B: 26, A: 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	for y := 30; y < 70; y++ {
		for x := 20; x < 60; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 255, G: 182, B: 193, A: 255})
		}
	}

	blocks, err := NewAlphaDetector().Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("Expected 1 block, got %d", len(blocks))
	}
	if u := Union(blocks); u.Min.X > 20 || u.Max.X < 60 {
		t.Errorf("Block does not cover content: %v", u)
	}
}

func TestFocusWithoutBlocks(t *testing.T) {
	p := Focus(nil, image.Rect(0, 0, 500, 500), 0.4)
	if p != (image.Point{X: 250, Y: 200}) {
		t.Errorf("Expected fallback focus (250,200), got %v", p)
	}
}

func TestDetectorRegistry(t *testing.T) {
	tests := []struct {
		variant string
		wantErr bool
	}{
		{"alpha", false},
		{"", false}, // default
		{"keyed", false},
		{"ocr", true},
		{"invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			detector, err := NewDetector(tt.variant)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				if detector == nil {
					t.Error("Expected detector, got nil")
				}
			}
		})
	}
}
