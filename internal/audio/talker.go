package audio

import (
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
)

// Talker tracks the reply currently being spoken. Amplitude is a
// synchronous poll suitable for a render loop.
type Talker struct {
	fps    int
	now    func() time.Time
	logger *slog.Logger
	out    Output

	mu      sync.Mutex
	env     Envelope
	started time.Time
	active  bool
}

// TalkerOption configures a Talker.
type TalkerOption func(*Talker)

// WithOutput plays replies through o. Without an output the talker only
// keeps time.
func WithOutput(o Output) TalkerOption {
	return func(t *Talker) { t.out = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) TalkerOption {
	return func(t *Talker) { t.now = now }
}

// NewTalker creates an idle talker sampling at fps.
func NewTalker(fps int, logger *slog.Logger, opts ...TalkerOption) *Talker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Talker{fps: fps, now: time.Now, logger: logger}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Play starts a new reply, replacing the current one. Undecodable audio
// plays as silence. If the output fails the reply is timed silently and
// the output is dropped.
func (t *Talker) Play(audioBase64 string) {
	var env Envelope
	data, err := base64.StdEncoding.DecodeString(audioBase64)
	if err == nil {
		env, err = Analyze(data, t.fps)
	}
	if err != nil {
		t.logger.Warn("reply audio undecodable", slog.Any("error", err))
		env = Silent(t.fps)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.out != nil && len(env.Levels) > 0 {
		if err := t.output(data); err != nil {
			t.logger.Warn("audio device unavailable, playing silently", slog.Any("error", err))
			t.out = nil
		}
	}
	t.env = env
	t.started = t.now()
	t.active = true
}

func (t *Talker) output(data []byte) error {
	stream, format, err := Decode(data)
	if err != nil {
		return err
	}
	done := beep.Callback(func() { stream.Close() })
	if err := t.out.Play(beep.Seq(stream, done), format); err != nil {
		stream.Close()
		return err
	}
	return nil
}

// Stop ends playback.
func (t *Talker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	if t.out != nil {
		t.out.Clear()
	}
}

// Playing reports whether a reply is still within its duration.
func (t *Talker) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing()
}

func (t *Talker) playing() bool {
	return t.active && t.now().Sub(t.started) < t.env.Duration()
}

// Amplitude returns the current talk level, 0 when idle.
func (t *Talker) Amplitude() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing() {
		return 0
	}
	return t.env.AmplitudeAt(t.now().Sub(t.started))
}

// Length is the duration of the current reply.
func (t *Talker) Length() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.env.Duration()
}
