package director

// Canonical returns the built-in title card: staggered letter reveal, the
// wink sprite sequence and the episode-title overlay, 8 seconds at 30 fps.
func Canonical() *Composition {
	return &Composition{
		Version:     "1.0",
		Name:        "babaru-intro",
		Width:       1920,
		Height:      1080,
		FPS:         30,
		TotalFrames: 240,
		Palette: Palette{
			Primary:    "#8B5CF6",
			Secondary:  "#5B8BD9",
			Accent:     "#FFB6C1",
			Gold:       "#F59E0B",
			Background: "#08001A",
			Text:       "#FFFFFF",
		},
		FadeIn:  Phase{Start: 0, End: 20},
		FadeOut: Phase{Start: 210, End: 240},
		Glow: GlowSpec{
			PulsePeriod: 60,
			PulseMin:    0.15,
			PulseMax:    0.35,
			Drift:       20,
			Radius:      400,
		},
		Particles: ParticleSpec{
			Count:    25,
			Start:    20,
			Envelope: [4]int{0, 15, 180, 210},
			Peak:     0.7,
			Colors: []string{
				"#8B5CF699", // purple
				"#F59E0B80", // gold
				"#FFFFFF66", // white
				"#A78BFA80", // light purple
				"#EC489966", // pink
			},
			Burst: BurstSpec{
				Count:   12,
				Start:   100,
				Life:    40,
				Opacity: CurveSpec{Frames: []float64{0, 5, 25, 40}, Values: []float64{0, 1, 0.6, 0}},
				Scale:   CurveSpec{Frames: []float64{0, 10, 40}, Values: []float64{0.5, 1.2, 0.3}},
				Colors:  []string{"#F59E0BCC", "#8B5CF6CC", "#FFFFFFB3"},
			},
		},
		Streaks: []StreakSpec{
			{Delay: 15, Y: 0.35, Color: "#8B5CF6", Direction: "right", Travel: 25, Opacity: streakOpacity()},
			{Delay: 20, Y: 0.50, Color: "#5B8BD9", Direction: "left", Travel: 25, Opacity: streakOpacity()},
			{Delay: 25, Y: 0.65, Color: "#FFB6C1", Direction: "right", Travel: 25, Opacity: streakOpacity()},
		},
		Title: TitleSpec{
			Text:      "BABARU",
			Start:     30,
			Stagger:   7,
			Land:      79,
			Spring:    SpringSpec{Damping: 11, Stiffness: 140, Mass: 0.9},
			Drop:      CurveSpec{Frames: []float64{0, 8, 14}, Values: []float64{-50, 0, 0}},
			FadeIn:    5,
			Burst:     CurveSpec{Frames: []float64{0, 4, 18}, Values: []float64{0, 1, 0}},
			Pulse:     Phase{Start: 70, End: 90},
			PulseRate: 0.25,
			PulseAmp:  0.04,
			ExitScale: WindowSpec{Start: 90, End: 120, From: 1, To: 1.4},
			ExitFade:  WindowSpec{Start: 90, End: 115, From: 1, To: 0},
			Underline: CurveSpec{Frames: []float64{79, 89, 90}, Values: []float64{0, 1, 0.5}},
			Y:         0.46,
			Size:      180,
		},
		Tagline: TaglineSpec{
			Text:    "The AI that remembers you",
			Start:   66,
			Spring:  SpringSpec{Damping: 18, Stiffness: 120, Mass: 0.8},
			FadeOut: WindowSpec{Start: 90, End: 105, From: 1, To: 0},
			Y:       0.58,
			Size:    28,
		},
		Reveal: RevealSpec{
			Start:  100,
			Spring: SpringSpec{Damping: 12, Stiffness: 80, Mass: 1.4},
			FadeIn: 12,
			Sprites: []SpriteSpec{
				{Image: "1.png", Hold: 8},
				{Image: "2.png", Hold: 3},
				{Image: "3.png", Hold: 3},
				{Image: "5.png", Hold: 3},
				{Image: "6.png", Hold: 3},
				{Image: "7.png", Hold: 8},
				{Image: "8.png", Hold: 3},
				{Image: "9.png", Hold: 3},
				{Image: "10.png", Hold: 3},
				{Image: "11.png", Hold: 25},
				{Image: "12.png", Hold: 10},
			},
			Declared:   72,
			AssetDir:   "assets/intro",
			Zoom:       WindowSpec{Start: 185, End: 230, From: 1, To: 6},
			TranslateY: -120,
			Glow: CurveSpec{
				Frames: []float64{100, 120, 150, 185, 230},
				Values: []float64{0.2, 0.3, 0.4, 0.5, 0.8},
			},
			Size: 500,
		},
		Episode: EpisodeSpec{
			Label: "SEASON 1 · EPISODE 1",
			Title: "Arc One: The Setup",
			Opacity: []WindowSpec{
				{Start: 140, End: 152, From: 0, To: 1},
				{Start: 168, End: 180, From: 1, To: 0},
			},
			Y: 0.82,
		},
		Vignette: 0.7,
		Grain:    0.04,
	}
}

func streakOpacity() CurveSpec {
	return CurveSpec{Frames: []float64{0, 8, 20, 28}, Values: []float64{0, 0.6, 0.6, 0}}
}
