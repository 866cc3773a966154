package server

import (
	"net/http"

	"github.com/ivlev/babaru/internal/mascot"
)

type chatOpenRequest struct {
	Open bool `json:"open"`
}

type sayRequest struct {
	Topic mascot.Topic `json:"topic"`
}

// syncSpeech mirrors the reply talker onto the mascot.
func (s *Server) syncSpeech() {
	if s.talker.Playing() {
		s.opts.Mascot.Speak(s.talker.Amplitude())
		return
	}
	s.opts.Mascot.Speak(-1)
}

// mascotRoute answers 404 when the mascot is disabled, otherwise runs fn
// and replies with the current view.
func (s *Server) mascotRoute(fn func(w http.ResponseWriter, r *http.Request) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Mascot == nil {
			writeError(w, http.StatusNotFound, "mascot disabled")
			return
		}
		if !fn(w, r) {
			return
		}
		now := s.now()
		s.opts.Mascot.Tick(now)
		s.syncSpeech()
		writeJSON(w, http.StatusOK, s.opts.Mascot.View(now))
	}
}

func (s *Server) mascotView(w http.ResponseWriter, r *http.Request) bool {
	return true
}

func (s *Server) mascotClick(w http.ResponseWriter, r *http.Request) bool {
	s.opts.Mascot.Click(s.now())
	return true
}

func (s *Server) mascotGreet(w http.ResponseWriter, r *http.Request) bool {
	s.opts.Mascot.Greet(s.now())
	return true
}

func (s *Server) mascotChat(w http.ResponseWriter, r *http.Request) bool {
	var req chatOpenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	s.opts.Mascot.SetChatOpen(req.Open)
	if !req.Open {
		s.talker.Stop()
	}
	return true
}

func (s *Server) mascotSay(w http.ResponseWriter, r *http.Request) bool {
	var req sayRequest
	if err := decodeJSON(w, r, &req); err != nil || !req.Topic.Valid() {
		writeError(w, http.StatusBadRequest, "unknown topic")
		return false
	}
	s.opts.Mascot.Say(req.Topic, s.now(), mascot.CommentHold)
	return true
}
