package engine

import (
	"bytes"
	"context"
	"errors"
	"hash/fnv"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/ivlev/babaru/internal/director"
	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/renderer"
	"github.com/ivlev/babaru/internal/video"
)

type memorySink struct {
	sums   []uint64
	failAt int
	closed bool
}

func (m *memorySink) WriteFrame(img *image.RGBA) error {
	if m.failAt > 0 && len(m.sums) == m.failAt {
		return errors.New("disk full")
	}
	h := fnv.New64a()
	h.Write(img.Pix)
	m.sums = append(m.sums, h.Sum64())
	return nil
}

func (m *memorySink) Close() error {
	m.closed = true
	return nil
}

func newProject(t *testing.T, sink *memorySink, workers int) *Project {
	t.Helper()
	a, err := renderer.New(director.Canonical())
	if err != nil {
		t.Fatal(err)
	}
	r, err := effects.NewRasterizer(64, 36, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewProject(a, r, video.Settings{Output: filepath.Join(t.TempDir(), "out", "intro.mp4")}, nil)
	p.Workers = workers
	p.Open = func(ctx context.Context, s video.Settings) (video.FrameSink, error) {
		return sink, nil
	}
	return p
}

func TestRunWritesFramesInOrder(t *testing.T) {
	sink := &memorySink{}
	p := newProject(t, sink, 4)

	if p.Settings.Width != 64 || p.Settings.Height != 36 || p.Settings.FPS != 30 || p.Settings.Frames != 240 {
		t.Fatalf("Unexpected settings %+v", p.Settings)
	}

	var progress []int
	p.Progress = func(done, total int) { progress = append(progress, done) }

	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sink.closed {
		t.Error("Expected sink to be closed")
	}
	if len(sink.sums) != 240 {
		t.Fatalf("Expected 240 frames, got %d", len(sink.sums))
	}
	if len(progress) != 240 || progress[239] != 240 {
		t.Errorf("Unexpected progress calls: %d", len(progress))
	}
	if report.Frames != 240 || report.Workers != 4 {
		t.Errorf("Unexpected report %+v", report)
	}

	// Compare against a sequential render.
	for _, f := range []int{0, 79, 150, 239} {
		img := image.NewRGBA(p.Raster.Bounds())
		if err := p.Raster.Draw(img, p.Animator.Render(f)); err != nil {
			t.Fatal(err)
		}
		h := fnv.New64a()
		h.Write(img.Pix)
		if h.Sum64() != sink.sums[f] {
			t.Errorf("frame %d: streamed frame differs from sequential render", f)
		}
	}

	if _, err := os.Stat(p.Settings.Output + ".lock"); !os.IsNotExist(err) {
		t.Error("Expected lock file to be removed")
	}
}

func TestRunStopsOnSinkError(t *testing.T) {
	sink := &memorySink{failAt: 10}
	p := newProject(t, sink, 2)

	_, err := p.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("Expected sink error, got %v", err)
	}
	if !sink.closed {
		t.Error("Expected sink to be closed after failure")
	}
	if len(sink.sums) != 10 {
		t.Errorf("Expected 10 frames before failure, got %d", len(sink.sums))
	}
}

func TestRunReturnsBuffersOnFailure(t *testing.T) {
	sink := &memorySink{failAt: 10}
	p := newProject(t, sink, 4)

	report, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Expected sink error")
	}
	if report.Buffers.Gets <= 10 {
		t.Fatalf("Expected frames rendered ahead of the writer, got %d", report.Buffers.Gets)
	}
	if report.Buffers.Puts != report.Buffers.Gets {
		t.Errorf("Expected every buffer returned, got %d of %d", report.Buffers.Puts, report.Buffers.Gets)
	}
}

func TestRunCancelled(t *testing.T) {
	sink := &memorySink{}
	p := newProject(t, sink, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsLockedOutput(t *testing.T) {
	sink := &memorySink{}
	p := newProject(t, sink, 1)
	os.MkdirAll(filepath.Dir(p.Settings.Output), 0755)

	other := flock.New(p.Settings.Output + ".lock")
	if ok, err := other.TryLock(); err != nil || !ok {
		t.Fatalf("could not take lock: %v", err)
	}
	defer other.Unlock()

	if _, err := p.Run(context.Background()); !errors.Is(err, ErrOutputLocked) {
		t.Fatalf("Expected ErrOutputLocked, got %v", err)
	}
	if len(sink.sums) != 0 {
		t.Error("Expected no frames written")
	}
}

func TestReport(t *testing.T) {
	r := Report{Output: "out/intro.mp4", Frames: 240, FPS: 30, Workers: 4, Elapsed: 12 * time.Second, Bytes: 4_200_000}
	r.Buffers.Gets, r.Buffers.Allocs = 240, 5
	if r.Throughput() != 20 {
		t.Errorf("Expected 20 fps, got %f", r.Throughput())
	}
	s := r.String()
	for _, want := range []string{"4.2 MB", "240 @ 30 fps", "8.00s of video", "Effective FPS: 20.00", "5 allocated for 240 frames"} {
		if !strings.Contains(s, want) {
			t.Errorf("Expected %q in report:\n%s", want, s)
		}
	}

	path := filepath.Join(t.TempDir(), "benchmark.log")
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := r.AppendBenchmark(path, now); err != nil {
		t.Fatal(err)
	}
	if err := r.AppendBenchmark(path, now); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if bytes.Count(data, []byte("\n")) != 2 {
		t.Errorf("Expected two lines, got %q", data)
	}
	if !bytes.HasPrefix(data, []byte("[2026-01-02 03:04:05] Output: intro.mp4")) {
		t.Errorf("Unexpected line %q", data)
	}
}

func TestOutputPath(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)
	got := OutputPath("output", "", now)
	if got != filepath.Join("output", "intro_2026-10-19_08-30-00.mp4") {
		t.Errorf("Unexpected path %s", got)
	}
}

func TestExportFrame(t *testing.T) {
	p := newProject(t, &memorySink{}, 1)
	path := filepath.Join(t.TempDir(), "frames", "f079.png")
	if err := ExportFrame(p.Animator, p.Raster, 79, path); err != nil {
		t.Fatalf("ExportFrame failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("Expected PNG at %s", path)
	}
}
