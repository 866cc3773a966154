// Package preview plays a composition in the terminal using half-block
// cells, two pixels per cell.
package preview

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/system"
)

// RasterFunc builds a rasterizer for a pixel size.
type RasterFunc func(width, height int) (*effects.Rasterizer, error)

// Player drives an animator at its frame rate.
type Player struct {
	screen tcell.Screen
	anim   *renderer.Animator
	raster RasterFunc

	// Loop restarts at frame 0 instead of stopping at the end.
	Loop bool

	frame  int
	paused bool
	cur    *effects.Rasterizer
}

func New(screen tcell.Screen, anim *renderer.Animator, raster RasterFunc) *Player {
	return &Player{screen: screen, anim: anim, raster: raster}
}

func (p *Player) Frame() int   { return p.frame }
func (p *Player) Paused() bool { return p.paused }

// HandleEvent applies a key or resize event. It returns false when the
// player should stop.
func (p *Player) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyLeft:
			p.seek(p.frame - 1)
		case tcell.KeyRight:
			p.seek(p.frame + 1)
		case tcell.KeyHome:
			p.seek(0)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				return false
			case ' ':
				p.paused = !p.paused
			case 'r':
				p.seek(0)
				p.paused = false
			}
		}
	case *tcell.EventResize:
		p.cur = nil
		p.screen.Sync()
	}
	return true
}

func (p *Player) seek(frame int) {
	p.frame = max(0, min(frame, p.anim.TotalFrames()-1))
}

// Step advances one frame. It returns false once the last frame has been
// shown and looping is off.
func (p *Player) Step() bool {
	if p.paused {
		return true
	}
	if p.frame+1 >= p.anim.TotalFrames() {
		if !p.Loop {
			return false
		}
		p.frame = 0
		return true
	}
	p.frame++
	return true
}

// Draw renders the current frame to the screen.
func (p *Player) Draw() error {
	cols, rows := p.screen.Size()
	rows-- // status line
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if p.cur == nil || p.cur.Bounds().Dx() != cols || p.cur.Bounds().Dy() != rows*2 {
		r, err := p.raster(cols, rows*2)
		if err != nil {
			return err
		}
		p.cur = r
	}

	img, err := p.cur.Frame(p.anim.Render(p.frame))
	if err != nil {
		return err
	}
	Blit(p.screen, img)
	system.PutImage(img)

	status := fmt.Sprintf(" %3d/%d  %s  [space] pause  [←/→] step  [q] quit",
		p.frame, p.anim.TotalFrames()-1, p.state())
	drawText(p.screen, 0, rows, cols, status, tcell.StyleDefault.Reverse(true))
	p.screen.Show()
	return nil
}

func (p *Player) state() string {
	if p.paused {
		return "paused "
	}
	return "playing"
}

// Run plays until the end, a quit key or ctx is done.
func (p *Player) Run(ctx context.Context) error {
	fps := p.anim.FPS()
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := p.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := p.Draw(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !p.HandleEvent(ev) {
				return nil
			}
			if err := p.Draw(); err != nil {
				return err
			}
		case <-ticker.C:
			if !p.Step() {
				return nil
			}
			if err := p.Draw(); err != nil {
				return err
			}
		}
	}
}

// Blit draws img with the upper half block: the foreground is the top
// pixel and the background the bottom one.
func Blit(screen tcell.Screen, img *image.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := pixel(img, x, y)
			bottom := tcell.ColorBlack
			if y+1 < b.Max.Y {
				bottom = pixel(img, x, y+1)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(x-b.Min.X, (y-b.Min.Y)/2, '▀', nil, style)
		}
	}
}

func pixel(img *image.RGBA, x, y int) tcell.Color {
	i := img.PixOffset(x, y)
	px := img.Pix[i : i+3 : i+3]
	return tcell.NewRGBColor(int32(px[0]), int32(px[1]), int32(px[2]))
}

func drawText(screen tcell.Screen, x, y, width int, s string, style tcell.Style) {
	col := 0
	for _, r := range s {
		if col >= width {
			return
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
	for ; col < width; col++ {
		screen.SetContent(x+col, y, ' ', nil, style)
	}
}
