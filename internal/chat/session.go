package chat

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// CannedReply is shown when the backend cannot be reached.
const CannedReply = "Oops! My brain is taking a coffee break. Try again? ☕"

// Role of a message author.
type Role string

const (
	RoleUser   Role = "user"
	RoleBabaru Role = "babaru"
)

// Message is one line of the conversation.
type Message struct {
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	At      time.Time `json:"timestamp"`
}

// Preferences is the part of the preference store a session needs.
type Preferences interface {
	Muted() bool
	SetMuted(bool)
	UserID() string
	SetUserID(string)
}

// Speaker plays reply audio.
type Speaker interface {
	Play(audioBase64 string)
	Stop()
	Playing() bool
}

// EnsureUserID returns the stored visitor id, creating one when missing.
func EnsureUserID(p Preferences) string {
	if id := p.UserID(); id != "" {
		return id
	}
	id := NewUserID()
	p.SetUserID(id)
	return id
}

// Session is one visitor's conversation. Send never returns an error:
// failures become a canned reply and are kept in Err.
type Session struct {
	service Service
	prefs   Preferences
	speaker Speaker
	logger  *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	messages []Message
	loading  bool
	lastErr  error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSpeaker plays reply audio unless muted.
func WithSpeaker(s Speaker) SessionOption {
	return func(sess *Session) { sess.speaker = s }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(sess *Session) { sess.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) SessionOption {
	return func(sess *Session) { sess.now = now }
}

// NewSession creates an empty conversation.
func NewSession(service Service, prefs Preferences, opts ...SessionOption) *Session {
	s := &Session{
		service: service,
		prefs:   prefs,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Send posts text from the page at path. Blank text and sends while a
// request is in flight are ignored and return false.
func (s *Session) Send(ctx context.Context, text, path string) (Message, bool) {
	if strings.TrimSpace(text) == "" {
		return Message{}, false
	}
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return Message{}, false
	}
	s.loading = true
	s.lastErr = nil
	s.messages = append(s.messages, Message{Role: RoleUser, Content: text, At: s.now()})
	s.mu.Unlock()

	req := Request{UserID: EnsureUserID(s.prefs), Message: text, Context: ContextFromPath(path)}
	resp, err := s.service.Send(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.lastErr = err
		s.logger.Warn("chat request failed", slog.String("context", req.Context), slog.Any("error", err))
		reply := Message{Role: RoleBabaru, Content: CannedReply, At: s.now()}
		s.messages = append(s.messages, reply)
		return reply, true
	}

	reply := Message{Role: RoleBabaru, Content: resp.Response, At: s.now()}
	s.messages = append(s.messages, reply)
	if resp.AudioBase64 != "" && s.speaker != nil && !s.prefs.Muted() {
		s.speaker.Play(resp.AudioBase64)
	}
	return reply, true
}

// Messages returns a copy of the conversation.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the last failed send, cleared on the next send.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Clear drops the conversation and the last error.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.lastErr = nil
}

// ToggleMute flips and persists the mute flag. Muting stops playback.
func (s *Session) ToggleMute() bool {
	muted := !s.prefs.Muted()
	s.prefs.SetMuted(muted)
	if muted && s.speaker != nil && s.speaker.Playing() {
		s.speaker.Stop()
	}
	return muted
}
