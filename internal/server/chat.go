package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ivlev/babaru/internal/audio"
	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/mascot"
)

const talkFPS = 30

type chatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

type chatResponse struct {
	UserID   string      `json:"user_id"`
	Response string      `json:"response"`
	Audio    string      `json:"audio_base64,omitempty"`
	Levels   []float64   `json:"levels,omitempty"`
	FPS      int         `json:"fps,omitempty"`
	Mood     mascot.Mood `json:"mood"`
	Fallback bool        `json:"fallback"`
}

// chat relays one message. Backend failures still answer 200 with the
// canned reply.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	text := strings.TrimSpace(req.Message)
	if text == "" {
		writeError(w, http.StatusBadRequest, "message required")
		return
	}
	if req.UserID == "" {
		req.UserID = chat.NewUserID()
	}

	if m := s.opts.Mascot; m != nil {
		m.SetLoading(true)
		defer m.SetLoading(false)
	}

	out := chatResponse{UserID: req.UserID, Mood: mascot.Excited}
	resp, err := s.opts.Chat.Send(r.Context(), chat.Request{
		UserID:  req.UserID,
		Message: text,
		Context: chat.ContextFromPath(req.Path),
	})
	if err != nil {
		s.logger.Warn("chat failed", slog.Any("error", err))
		out.Response = chat.CannedReply
		out.Mood = mascot.Confused
		out.Fallback = true
		writeJSON(w, http.StatusOK, out)
		return
	}

	out.Response = resp.Response
	if resp.AudioBase64 != "" {
		out.Audio = resp.AudioBase64
		env, err := audio.AnalyzeBase64(resp.AudioBase64, talkFPS)
		if err != nil {
			s.logger.Warn("reply audio undecodable", slog.Any("error", err))
		} else {
			out.Levels = env.Levels
			out.FPS = env.FPS
		}
	}
	if len(out.Levels) > 0 && s.opts.Mascot != nil {
		s.talker.Play(resp.AudioBase64)
		s.syncSpeech()
	}
	s.opts.Analytics.ChatMessage(r.Context())
	writeJSON(w, http.StatusOK, out)
}
