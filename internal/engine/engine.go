// Package engine exports a composition to video by rendering frames in
// parallel and streaming them in order to an encoder.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/system"
	"github.com/ivlev/babaru/internal/video"
)

// ErrOutputLocked is returned when another export writes the same file.
var ErrOutputLocked = errors.New("output is locked by another export")

// Project ties an animator, a rasterizer and an encoder together.
type Project struct {
	Animator *renderer.Animator
	Raster   *effects.Rasterizer
	Settings video.Settings
	Open     video.Opener
	Workers  int
	Logger   *slog.Logger

	// Progress is called from the writer goroutine after each frame.
	Progress func(done, total int)
}

// NewProject prepares an export of a to s.Output using ffmpeg.
func NewProject(a *renderer.Animator, r *effects.Rasterizer, s video.Settings, logger *slog.Logger) *Project {
	b := r.Bounds()
	s.Width, s.Height = b.Dx(), b.Dy()
	s.FPS = a.FPS()
	s.Frames = a.TotalFrames()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Project{
		Animator: a,
		Raster:   r,
		Settings: s,
		Open:     video.OpenStream,
		Logger:   logger,
	}
}

// Run renders every frame and blocks until the encoder finishes. A failed
// or cancelled run removes the partial output.
func (p *Project) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	before := system.Stats()
	total := p.Animator.TotalFrames()
	report := Report{Output: p.Settings.Output, Frames: total, FPS: p.Animator.FPS()}

	if err := os.MkdirAll(filepath.Dir(p.Settings.Output), 0755); err != nil {
		return report, fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(p.Settings.Output + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return report, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return report, fmt.Errorf("%w: %s", ErrOutputLocked, p.Settings.Output)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.Logger.Warn("release output lock", slog.Any("error", err))
		}
		os.Remove(lock.Path())
	}()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}
	report.Workers = workers

	p.Logger.Info("export started",
		slog.String("output", p.Settings.Output),
		slog.Int("frames", total),
		slog.Int("workers", workers),
		slog.String("encoder", p.Settings.Encoder),
	)

	sink, err := p.Open(ctx, p.Settings)
	if err != nil {
		return report, err
	}

	runErr := p.pipeline(ctx, sink, total, workers)
	closeErr := sink.Close()
	report.Elapsed = time.Since(start)
	after := system.Stats()
	report.Buffers = system.PoolStats{Gets: after.Gets - before.Gets, Puts: after.Puts - before.Puts, Allocs: after.Allocs - before.Allocs}

	if err := errors.Join(runErr, closeErr); err != nil {
		os.Remove(p.Settings.Output)
		return report, err
	}

	if info, err := os.Stat(p.Settings.Output); err == nil {
		report.Bytes = info.Size()
	}
	p.Logger.Info("export finished",
		slog.String("output", p.Settings.Output),
		slog.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// pipeline: jobs -> render workers -> per-frame slots -> ordered writer.
// At most 2*workers frames are in flight.
func (p *Project) pipeline(ctx context.Context, sink video.FrameSink, total, workers int) error {
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan int)
	ahead := make(chan struct{}, workers*2)
	slots := make([]chan *image.RGBA, total)
	for i := range slots {
		slots[i] = make(chan *image.RGBA, 1)
	}

	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < total; i++ {
			select {
			case ahead <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := range jobs {
				img, err := p.Raster.Frame(p.Animator.Render(i))
				if err != nil {
					return fmt.Errorf("render frame %d: %w", i, err)
				}
				slots[i] <- img
			}
			return nil
		})
	}

	g.Go(func() error {
		for i := 0; i < total; i++ {
			var img *image.RGBA
			select {
			case img = <-slots[i]:
			case <-ctx.Done():
				return ctx.Err()
			}
			err := sink.WriteFrame(img)
			system.PutImage(img)
			<-ahead
			if err != nil {
				return err
			}
			if p.Progress != nil {
				p.Progress(i+1, total)
			}
		}
		return nil
	})

	err := g.Wait()
	// Frames rendered ahead of a failed or cancelled writer.
	for _, slot := range slots {
		select {
		case img := <-slot:
			system.PutImage(img)
		default:
		}
	}
	return err
}

// ResolveEncoder maps "auto" to the best available encoder.
func ResolveEncoder(ctx context.Context, name string) string {
	if name == "" || name == "auto" {
		return system.GetBestH264Encoder(ctx)
	}
	return name
}

// OutputPath returns a timestamped file name in dir.
func OutputPath(dir, name string, now time.Time) string {
	if name == "" {
		name = "intro"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.mp4", name, now.Format("2006-01-02_15-04-05")))
}
