// Package audio turns chat reply audio into a per-frame talk amplitude for
// the mascot animation.
package audio

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"
)

// Boost scales RMS so speech reaches the top of the range.
const Boost = 3.0

// Envelope holds one amplitude in [0,1] per animation frame.
type Envelope struct {
	FPS    int
	Levels []float64
}

// Silent is an envelope with no frames.
func Silent(fps int) Envelope {
	return Envelope{FPS: fps}
}

// Duration is the length of the analysed audio.
func (e Envelope) Duration() time.Duration {
	if e.FPS <= 0 {
		return 0
	}
	return time.Duration(len(e.Levels)) * time.Second / time.Duration(e.FPS)
}

// Amplitude returns the level at frame, 0 outside the audio.
func (e Envelope) Amplitude(frame int) float64 {
	if frame < 0 || frame >= len(e.Levels) {
		return 0
	}
	return e.Levels[frame]
}

// AmplitudeAt returns the level elapsed into playback.
func (e Envelope) AmplitudeAt(elapsed time.Duration) float64 {
	if e.FPS <= 0 || elapsed < 0 {
		return 0
	}
	return e.Amplitude(int(elapsed * time.Duration(e.FPS) / time.Second))
}

// Decode opens WAV (RIFF header) or MP3 data.
func Decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	rc := io.NopCloser(bytes.NewReader(data))
	if len(data) >= 12 && string(data[:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return wav.Decode(rc)
	}
	return mp3.Decode(rc)
}

// Analyze computes the envelope of encoded audio at fps frames per second.
func Analyze(data []byte, fps int) (Envelope, error) {
	if fps <= 0 {
		return Envelope{}, errors.New("fps must be positive")
	}
	if len(data) == 0 {
		return Envelope{}, errors.New("empty audio")
	}
	s, format, err := Decode(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("decode audio: %w", err)
	}
	defer s.Close()
	return Measure(s, format.SampleRate, fps)
}

// AnalyzeBase64 decodes base64 audio first.
func AnalyzeBase64(b64 string, fps int) (Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return Envelope{}, fmt.Errorf("decode base64: %w", err)
	}
	return Analyze(data, fps)
}

// Measure drains s and returns min(1, rms*Boost) for every frame window of
// the mono mix. A trailing partial window counts as a frame.
func Measure(s beep.Streamer, rate beep.SampleRate, fps int) (Envelope, error) {
	window := int(rate) / fps
	if window < 1 {
		window = 1
	}
	env := Envelope{FPS: fps}
	buf := make([][2]float64, window)

	for {
		n, ok := fillWindow(s, buf)
		if n > 0 {
			sum := 0.0
			for _, smp := range buf[:n] {
				mono := (smp[0] + smp[1]) / 2
				sum += mono * mono
			}
			rms := math.Sqrt(sum / float64(n))
			env.Levels = append(env.Levels, math.Min(1, rms*Boost))
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return env, err
	}
	return env, nil
}

// fillWindow streams until buf is full or s is drained.
func fillWindow(s beep.Streamer, buf [][2]float64) (int, bool) {
	filled := 0
	for filled < len(buf) {
		n, ok := s.Stream(buf[filled:])
		filled += n
		if !ok {
			return filled, false
		}
	}
	return filled, true
}
