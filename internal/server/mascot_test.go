package server

import (
	"encoding/base64"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/mascot"
)

// toneWAV encodes a flat signal of level lasting d.
func toneWAV(t *testing.T, level float64, d time.Duration) string {
	t.Helper()
	rate := beep.SampleRate(22050)
	s := beep.Take(rate.N(d), beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{level, level}
		}
		return len(samples), true
	}))
	path := filepath.Join(t.TempDir(), "reply.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.Encode(f, s, beep.Format{SampleRate: rate, NumChannels: 1, Precision: 2}); err != nil {
		t.Fatal(err)
	}
	f.Close()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func TestChatAudioMakesMascotSpeak(t *testing.T) {
	svc := &fakeChat{reply: chat.Response{Response: "Honk!", AudioBase64: toneWAV(t, 0.2, time.Second)}}
	s := newTestServer(t, svc)
	clock := noon
	s.now = func() time.Time { return clock }

	out := decode[chatResponse](t, do(t, s, http.MethodPost, "/api/chat", `{"message":"sing"}`))
	if len(out.Levels) != 30 || out.FPS != 30 {
		t.Fatalf("levels = %d @ %d fps", len(out.Levels), out.FPS)
	}

	clock = noon.Add(500 * time.Millisecond)
	v := decode[mascot.View](t, do(t, s, http.MethodGet, "/api/mascot", ""))
	if !v.Speaking || v.Mood != mascot.Excited {
		t.Fatalf("view while speaking = %+v", v)
	}
	if math.Abs(v.TalkScale-1.12) > 0.001 {
		t.Errorf("talk scale = %f, want about 1.12", v.TalkScale)
	}

	clock = noon.Add(2 * time.Second)
	v = decode[mascot.View](t, do(t, s, http.MethodGet, "/api/mascot", ""))
	if v.Speaking || v.TalkScale != 1 {
		t.Errorf("view after reply = %+v", v)
	}
}

func TestChatWithoutAudioStaysQuiet(t *testing.T) {
	s := newTestServer(t, &fakeChat{reply: chat.Response{Response: "Honk!"}})
	do(t, s, http.MethodPost, "/api/chat", `{"message":"hi"}`)
	v := decode[mascot.View](t, do(t, s, http.MethodGet, "/api/mascot", ""))
	if v.Speaking {
		t.Errorf("view = %+v", v)
	}
}

func TestMascotChatOpenClose(t *testing.T) {
	svc := &fakeChat{reply: chat.Response{Response: "Honk!", AudioBase64: toneWAV(t, 0.2, time.Second)}}
	s := newTestServer(t, svc)

	v := decode[mascot.View](t, do(t, s, http.MethodPost, "/api/mascot/chat", `{"open":true}`))
	if !v.ChatOpen {
		t.Fatalf("open view = %+v", v)
	}
	do(t, s, http.MethodPost, "/api/chat", `{"message":"sing"}`)

	v = decode[mascot.View](t, do(t, s, http.MethodPost, "/api/mascot/chat", `{"open":false}`))
	if v.ChatOpen || v.Speaking {
		t.Errorf("closing chat should stop speech, got %+v", v)
	}
	if rec := do(t, s, http.MethodPost, "/api/mascot/chat", `{`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad json = %d", rec.Code)
	}
}

func TestMascotGreetAndSay(t *testing.T) {
	s := newTestServer(t, &fakeChat{})

	v := decode[mascot.View](t, do(t, s, http.MethodPost, "/api/mascot/greet", ""))
	if v.Mood != mascot.Excited || v.Comment != mascot.Comment(mascot.Greeting, noon.Hour(), firstRand{}) {
		t.Errorf("greet view = %+v", v)
	}

	v = decode[mascot.View](t, do(t, s, http.MethodPost, "/api/mascot/say", `{"topic":"error"}`))
	if v.Mood != mascot.MoodFor(mascot.Error) || v.Comment == "" {
		t.Errorf("say view = %+v", v)
	}

	if rec := do(t, s, http.MethodPost, "/api/mascot/say", `{"topic":"weather"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown topic = %d", rec.Code)
	}
}
