package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strings"
)

// Settings describes one export.
type Settings struct {
	Width     int
	Height    int
	FPS       int
	Frames    int
	Encoder   string
	Quality   int
	AudioPath string
	Output    string
}

// FrameSink receives frames in presentation order.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
	Close() error
}

// Opener starts a sink for an export.
type Opener func(ctx context.Context, s Settings) (FrameSink, error)

// Stream pipes raw RGBA frames into an ffmpeg process.
type Stream struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	frames int
	closed bool
}

// OpenStream starts ffmpeg. It is an Opener.
func OpenStream(ctx context.Context, s Settings) (FrameSink, error) {
	if s.Width <= 0 || s.Height <= 0 || s.FPS <= 0 {
		return nil, fmt.Errorf("invalid stream geometry %dx%d@%d", s.Width, s.Height, s.FPS)
	}
	if s.Output == "" {
		return nil, errors.New("output path is empty")
	}

	st := &Stream{}
	st.cmd = exec.CommandContext(ctx, "ffmpeg", buildArgs(s)...)
	st.cmd.Stderr = &st.stderr

	stdin, err := st.cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe error: %w", err)
	}
	st.stdin = stdin

	if err := st.cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}
	return st, nil
}

// WriteFrame sends one frame.
func (s *Stream) WriteFrame(img *image.RGBA) error {
	if s.closed {
		return errors.New("stream closed")
	}
	if err := writeRawRGBA(s.stdin, img); err != nil {
		return fmt.Errorf("write frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

// Close finishes the stream and waits for ffmpeg.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg wait error: %w, output: %s", err, lastLines(s.stderr.String(), 8))
	}
	return nil
}

func buildArgs(s Settings) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", s.Width, s.Height),
		"-framerate", fmt.Sprintf("%d", s.FPS),
		"-i", "-",
	}
	if s.AudioPath != "" {
		args = append(args, "-i", s.AudioPath, "-map", "0:v", "-map", "1:a", "-c:a", "aac", "-shortest")
	}

	encoder := s.Encoder
	if encoder == "" {
		encoder = "libx264"
	}
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", encoder)
	args = append(args, qualityArgs(encoder, s.Quality)...)
	if s.Frames > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", s.Frames))
	}
	args = append(args, "-movflags", "+faststart", s.Output)
	return args
}

// qualityArgs переводит единую шкалу качества в параметры энкодера.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		// VideoToolbox не везде поддерживает -q:v, используем битрейт
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", fmt.Sprintf("%d", quality)}
	default: // libx264
		return []string{"-crf", fmt.Sprintf("%d", quality), "-preset", "medium"}
	}
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	// Пишем Pix напрямую только при стандартном шаге и нулевом начале
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Rect, img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
