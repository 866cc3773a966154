package director

// Composition describes a complete title card: canvas, clock and every
// layer's phase timings. It is the on-disk YAML format.
type Composition struct {
	Version     string  `yaml:"version"`
	Name        string  `yaml:"name"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	FPS         int     `yaml:"fps"`
	TotalFrames int     `yaml:"total_frames"`
	Palette     Palette `yaml:"palette"`

	FadeIn  Phase `yaml:"fade_in"`
	FadeOut Phase `yaml:"fade_out"`

	Glow      GlowSpec     `yaml:"glow"`
	Particles ParticleSpec `yaml:"particles"`
	Streaks   []StreakSpec `yaml:"streaks"`
	Title     TitleSpec    `yaml:"title"`
	Tagline   TaglineSpec  `yaml:"tagline"`
	Reveal    RevealSpec   `yaml:"reveal"`
	Episode   EpisodeSpec  `yaml:"episode"`

	Vignette float64 `yaml:"vignette"` // edge darkness, 0..1
	Grain    float64 `yaml:"grain"`    // grain overlay opacity
}

// Palette holds the brand colours as hex strings.
type Palette struct {
	Primary    string `yaml:"primary"`
	Secondary  string `yaml:"secondary"`
	Accent     string `yaml:"accent"`
	Gold       string `yaml:"gold"`
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
}

// Phase is a half-open frame range [Start, End).
type Phase struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Len returns the number of frames covered by the phase.
func (p Phase) Len() int {
	return p.End - p.Start
}

// SpringSpec configures a damped spring entrance.
type SpringSpec struct {
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
	Mass      float64 `yaml:"mass"`
	Settle    int     `yaml:"settle,omitempty"` // local frame after which the spring is pinned to 1
}

// CurveSpec is a breakpoint curve in local frames.
type CurveSpec struct {
	Frames []float64 `yaml:"frames"`
	Values []float64 `yaml:"values"`
	Easing string    `yaml:"easing,omitempty"`
}

// WindowSpec is one phase window of a property track.
type WindowSpec struct {
	Start  int     `yaml:"start"`
	End    int     `yaml:"end"`
	From   float64 `yaml:"from"`
	To     float64 `yaml:"to"`
	Easing string  `yaml:"easing,omitempty"`
}

type GlowSpec struct {
	PulsePeriod int     `yaml:"pulse_period"`
	PulseMin    float64 `yaml:"pulse_min"`
	PulseMax    float64 `yaml:"pulse_max"`
	Drift       float64 `yaml:"drift"` // vertical drift in pixels over the whole composition
	Radius      float64 `yaml:"radius"`
}

type ParticleSpec struct {
	Count    int       `yaml:"count"`
	Start    int       `yaml:"start"`
	Envelope [4]int    `yaml:"envelope,flow"`
	Peak     float64   `yaml:"peak"`
	Colors   []string  `yaml:"colors"`
	Burst    BurstSpec `yaml:"burst"`
}

type BurstSpec struct {
	Count   int       `yaml:"count"`
	Start   int       `yaml:"start"`
	Life    int       `yaml:"life"`
	Opacity CurveSpec `yaml:"opacity"`
	Scale   CurveSpec `yaml:"scale"`
	Colors  []string  `yaml:"colors"`
}

type StreakSpec struct {
	Delay     int       `yaml:"delay"`
	Y         float64   `yaml:"y"` // fraction of canvas height
	Color     string    `yaml:"color"`
	Direction string    `yaml:"direction"` // "right" or "left"
	Travel    int       `yaml:"travel"`
	Opacity   CurveSpec `yaml:"opacity"`
}

// TitleSpec drives the staggered letter reveal.
type TitleSpec struct {
	Text      string     `yaml:"text"`
	Start     int        `yaml:"start"`
	Stagger   int        `yaml:"stagger"`
	Land      int        `yaml:"land"`
	Spring    SpringSpec `yaml:"spring"`
	Drop      CurveSpec  `yaml:"drop"`
	FadeIn    int        `yaml:"fade_in"`
	Burst     CurveSpec  `yaml:"burst"`
	Pulse     Phase      `yaml:"pulse"`
	PulseRate float64    `yaml:"pulse_rate"`
	PulseAmp  float64    `yaml:"pulse_amp"`
	ExitScale WindowSpec `yaml:"exit_scale"`
	ExitFade  WindowSpec `yaml:"exit_fade"`
	Underline CurveSpec  `yaml:"underline"`
	Y         float64    `yaml:"y"`
	Size      float64    `yaml:"size"`
}

type TaglineSpec struct {
	Text    string     `yaml:"text"`
	Start   int        `yaml:"start"`
	Spring  SpringSpec `yaml:"spring"`
	FadeOut WindowSpec `yaml:"fade_out"`
	Y       float64    `yaml:"y"`
	Size    float64    `yaml:"size"`
}

// RevealSpec drives the character entrance, the sprite sequence and the
// closing zoom. Frames are absolute unless noted otherwise.
type RevealSpec struct {
	Start      int          `yaml:"start"`
	Spring     SpringSpec   `yaml:"spring"`
	FadeIn     int          `yaml:"fade_in"`
	Sprites    []SpriteSpec `yaml:"sprites"`
	Declared   int          `yaml:"declared_frames,omitempty"`
	AssetDir   string       `yaml:"asset_dir,omitempty"`
	Clip       string       `yaml:"clip,omitempty"` // optional video used instead of the sprites
	Zoom       WindowSpec   `yaml:"zoom"`
	TranslateY float64      `yaml:"translate_y"`
	Glow       CurveSpec    `yaml:"glow"`
	Size       float64      `yaml:"size"`
}

type SpriteSpec struct {
	Image string `yaml:"image"`
	Hold  int    `yaml:"hold"`
}

// EpisodeSpec is the episode-title overlay shown after the reveal.
type EpisodeSpec struct {
	Label    string       `yaml:"label"`
	Title    string       `yaml:"title"`
	Subtitle string       `yaml:"subtitle,omitempty"`
	Opacity  []WindowSpec `yaml:"opacity"`
	ShareURL string       `yaml:"share_url,omitempty"`
	Y        float64      `yaml:"y"`
}
