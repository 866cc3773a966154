package video

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
)

// Clip is a reveal video decoded into memory at the composition size and
// frame rate. Frames past the end hold the last one.
type Clip struct {
	frames []*image.RGBA
}

// NewClip wraps already decoded frames.
func NewClip(frames []*image.RGBA) *Clip {
	return &Clip{frames: frames}
}

// DecodeClip decodes up to maxFrames frames of path with ffmpeg, scaled to
// size x size and resampled to fps.
func DecodeClip(ctx context.Context, path string, size, fps, maxFrames int) (*Clip, error) {
	if size <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid clip geometry %d@%d", size, fps)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-vf", fmt.Sprintf("fps=%d,scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black@0,format=rgba", fps, size, size, size, size),
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
	}
	if maxFrames > 0 {
		args = append(args, "-frames:v", fmt.Sprintf("%d", maxFrames))
	}
	args = append(args, "-")

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe error: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start error: %w", err)
	}

	frames, readErr := readFrames(out, size, size, maxFrames)
	if err := cmd.Wait(); err != nil {
		return nil, fmt.Errorf("decode %s: %w, output: %s", path, err, lastLines(stderr.String(), 8))
	}
	if readErr != nil {
		return nil, fmt.Errorf("decode %s: %w", path, readErr)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("decode %s: no frames", path)
	}
	return NewClip(frames), nil
}

func readFrames(r io.Reader, w, h, max int) ([]*image.RGBA, error) {
	var frames []*image.RGBA
	for max <= 0 || len(frames) < max {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		if _, err := io.ReadFull(r, img.Pix); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return frames, fmt.Errorf("frame %d: %w", len(frames), err)
		}
		frames = append(frames, img)
	}
	// Дочитываем остаток, чтобы ffmpeg не упал на закрытом пайпе
	io.Copy(io.Discard, r)
	return frames, nil
}

// Len returns the number of decoded frames.
func (c *Clip) Len() int { return len(c.frames) }

// Frame returns the frame at local, clamped to the decoded range.
func (c *Clip) Frame(local int) (image.Image, error) {
	if len(c.frames) == 0 {
		return nil, errors.New("clip has no frames")
	}
	local = max(0, min(local, len(c.frames)-1))
	return c.frames[local], nil
}
