package renderer

import "image/color"

// LayerKind identifies one of the composition's visual layers.
type LayerKind int

const (
	LayerGlow LayerKind = iota
	LayerParticles
	LayerStreaks
	LayerTitle
	LayerTagline
	LayerReveal
	LayerEpisode
	LayerVignette
	LayerGrain
)

// DrawOrder is the back-to-front compositing order. It never depends on
// phase timings.
var DrawOrder = [...]LayerKind{
	LayerGlow,
	LayerParticles,
	LayerStreaks,
	LayerTitle,
	LayerTagline,
	LayerReveal,
	LayerEpisode,
	LayerVignette,
	LayerGrain,
}

var layerNames = [...]string{
	LayerGlow:      "glow",
	LayerParticles: "particles",
	LayerStreaks:   "streaks",
	LayerTitle:     "title",
	LayerTagline:   "tagline",
	LayerReveal:    "reveal",
	LayerEpisode:   "episode",
	LayerVignette:  "vignette",
	LayerGrain:     "grain",
}

func (k LayerKind) String() string {
	if k < 0 || int(k) >= len(layerNames) {
		return "unknown"
	}
	return layerNames[k]
}

// MarshalText lets layer kinds appear by name in JSON.
func (k LayerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Element is a positioned primitive inside a layer: a particle, a streak, a
// glow blob or a title letter. Coordinates are canvas pixels.
type Element struct {
	Glyph   string      `json:"glyph,omitempty"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Scale   float64     `json:"scale"`
	OffsetY float64     `json:"offset_y"`
	Opacity float64     `json:"opacity"`
	Glow    float64     `json:"glow"`
	Color   color.NRGBA `json:"color"`
}

// Layer is the render descriptor of one layer at one frame. Opacity already
// includes the global fade.
type Layer struct {
	Kind    LayerKind   `json:"kind"`
	Depth   int         `json:"depth"`
	Opacity float64     `json:"opacity"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	OffsetY float64     `json:"offset_y"`
	Scale   float64     `json:"scale"`
	OriginY float64     `json:"origin_y,omitempty"` // transform origin as a fraction of the content height
	Size    float64     `json:"size,omitempty"`
	Glow    float64     `json:"glow"`
	Color   color.NRGBA `json:"color"`
	Accent  color.NRGBA `json:"accent"`

	Text     string `json:"text,omitempty"`
	Label    string `json:"label,omitempty"`
	Subtitle string `json:"subtitle,omitempty"`
	Link     string `json:"link,omitempty"`

	Sprite    string `json:"sprite,omitempty"`
	ClipFrame int    `json:"clip_frame"`
	Seed      uint64 `json:"seed,omitempty"`

	Elements []Element `json:"elements,omitempty"`
}

// Visible reports whether the layer contributes anything to the frame.
func (l Layer) Visible() bool {
	return l.Opacity > 0
}

// CompositeFrame is the full, ordered description of one frame.
type CompositeFrame struct {
	Frame      int         `json:"frame"`
	Opacity    float64     `json:"opacity"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
	Background color.NRGBA `json:"background"`
	Layers     []Layer     `json:"layers"`
}

// Layer returns the descriptor of kind k.
func (f CompositeFrame) Layer(k LayerKind) (Layer, bool) {
	for _, l := range f.Layers {
		if l.Kind == k {
			return l, true
		}
	}
	return Layer{}, false
}
