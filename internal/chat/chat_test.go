package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ivlev/babaru/internal/prefs"
)

func TestContextFromPath(t *testing.T) {
	tests := map[string]string{
		"/":           ContextHome,
		"/comics":     ContextComics,
		"/about":      ContextAbout,
		"/community":  ContextCommunity,
		"/intro":      ContextGeneral,
		"/comics/arc": ContextGeneral,
	}
	for path, want := range tests {
		if got := ContextFromPath(path); got != want {
			t.Errorf("ContextFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestEnsureUserID(t *testing.T) {
	p := prefs.Memory()
	id := EnsureUserID(p)
	if !strings.HasPrefix(id, "web-") || len(id) != len("web-")+36 {
		t.Fatalf("Unexpected id %q", id)
	}
	if again := EnsureUserID(p); again != id {
		t.Errorf("Expected stable id, got %q then %q", id, again)
	}
}

func TestClientSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/chat" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Context != ContextGeneral || req.UserID != "web-1" {
			t.Errorf("unexpected body %+v", req)
		}
		_, _ = w.Write([]byte(`{"response":"Hi, Citizen!","audio_base64":""}`))
	}))
	t.Cleanup(server.Close)

	client, err := New(server.URL+"/", 0)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Send(context.Background(), Request{UserID: "web-1", Message: "hello"})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if resp.Response != "Hi, Citizen!" {
		t.Errorf("Unexpected response %+v", resp)
	}
}

func TestClientSendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, 0)
	_, err := client.Send(context.Background(), Request{Message: "hello"})
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("Expected status error, got %v", err)
	}
}

type fakeSpeaker struct {
	played  []string
	playing bool
	stops   int
}

func (f *fakeSpeaker) Play(b64 string) {
	f.played = append(f.played, b64)
	f.playing = true
}

func (f *fakeSpeaker) Stop() {
	f.stops++
	f.playing = false
}

func (f *fakeSpeaker) Playing() bool { return f.playing }

func TestSessionFailureAppendsCannedReply(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, 0)
	s := NewSession(client, prefs.Memory())

	reply, ok := s.Send(context.Background(), "are you there?", "/comics")
	if !ok {
		t.Fatal("Expected send to be accepted")
	}
	if reply.Content != CannedReply || reply.Role != RoleBabaru {
		t.Errorf("Expected canned reply, got %+v", reply)
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Role != RoleUser || msgs[1].Content != CannedReply {
		t.Errorf("Unexpected conversation %+v", msgs)
	}
	if s.Err() == nil {
		t.Error("Expected error recorded on session")
	}
	if s.Loading() {
		t.Error("Expected loading cleared")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected a single attempt, got %d", calls.Load())
	}
}

func TestSessionNetworkError(t *testing.T) {
	client, _ := New("http://127.0.0.1:1", 0)
	s := NewSession(client, prefs.Memory())
	reply, ok := s.Send(context.Background(), "hello", "/")
	if !ok || reply.Content != CannedReply {
		t.Fatalf("Expected canned reply on network error, got %+v", reply)
	}
}

func TestSessionPlaysAudioUnlessMuted(t *testing.T) {
	contexts := make(chan string, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		json.NewDecoder(r.Body).Decode(&req)
		contexts <- req.Context
		_, _ = w.Write([]byte(`{"response":"Ta-da!","audio_base64":"UklGRg=="}`))
	}))
	t.Cleanup(server.Close)

	client, _ := New(server.URL, 0)
	p := prefs.Memory()
	speaker := &fakeSpeaker{}
	s := NewSession(client, p, WithSpeaker(speaker))

	reply, _ := s.Send(context.Background(), "show me", "/about")
	if reply.Content != "Ta-da!" {
		t.Errorf("Unexpected reply %+v", reply)
	}
	if got := <-contexts; got != ContextAbout {
		t.Errorf("Expected about context, got %s", got)
	}
	if len(speaker.played) != 1 {
		t.Fatalf("Expected audio to play once, got %d", len(speaker.played))
	}

	if !s.ToggleMute() {
		t.Fatal("Expected muted after toggle")
	}
	if speaker.stops != 1 {
		t.Error("Expected muting to stop playback")
	}
	if !p.Muted() {
		t.Error("Expected mute persisted")
	}

	s.Send(context.Background(), "again", "/about")
	if len(speaker.played) != 1 {
		t.Error("Expected no audio while muted")
	}
	if s.Err() != nil {
		t.Errorf("Unexpected error %v", s.Err())
	}
}

func TestSessionIgnoresBlank(t *testing.T) {
	s := NewSession(nil, prefs.Memory())
	if _, ok := s.Send(context.Background(), "   ", "/"); ok {
		t.Error("Expected blank message to be ignored")
	}
	if len(s.Messages()) != 0 {
		t.Error("Expected no messages")
	}
}
