package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivlev/babaru/internal/eggs"
)

type achievementsResponse struct {
	Found        int                `json:"found"`
	Total        int                `json:"total"`
	Party        bool               `json:"party"`
	Achievements []eggs.Achievement `json:"achievements"`
}

type unlockedResponse struct {
	Unlocked []eggs.Achievement `json:"unlocked"`
}

func (s *Server) achievements(w http.ResponseWriter, r *http.Request) {
	found, total := s.opts.Registry.Progress()
	writeJSON(w, http.StatusOK, achievementsResponse{
		Found:        found,
		Total:        total,
		Party:        s.opts.Tracker.PartyMode(s.now()),
		Achievements: s.opts.Registry.List(),
	})
}

// unlock is used for achievements detected client side, like dev-tools
// and eagle-eye.
func (s *Server) unlock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.opts.Registry.Unlock(id)
	if !ok {
		if s.opts.Registry.Found(id) {
			writeJSON(w, http.StatusOK, unlockedResponse{})
			return
		}
		writeError(w, http.StatusNotFound, "unknown achievement")
		return
	}
	s.opts.Analytics.EasterEgg(r.Context(), a.ID, a.Name)
	writeJSON(w, http.StatusCreated, unlockedResponse{Unlocked: []eggs.Achievement{a}})
}

func (s *Server) visit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.Path == "" {
		writeError(w, http.StatusBadRequest, "path required")
		return
	}
	page, _ := eggs.PageForPath(req.Path)
	s.opts.Analytics.PageView(r.Context(), page, req.Path)
	s.respondUnlocked(w, r, s.opts.Tracker.VisitPath(req.Path))
}

type inputRequest struct {
	Kind  string `json:"kind"` // keydown, keypress or dial
	Value string `json:"value"`
}

func (s *Server) input(w http.ResponseWriter, r *http.Request) {
	var req inputRequest
	if err := decodeJSON(w, r, &req); err != nil || req.Value == "" {
		writeError(w, http.StatusBadRequest, "kind and value required")
		return
	}
	now := s.now()
	if s.opts.Mascot != nil {
		s.opts.Mascot.Activity(now)
	}

	var unlocked []eggs.Achievement
	switch req.Kind {
	case "keydown":
		unlocked = s.opts.Tracker.KeyDown(req.Value, now)
		if len(unlocked) > 0 && s.opts.Mascot != nil {
			s.opts.Mascot.Party(now)
		}
	case "keypress":
		unlocked = s.opts.Tracker.KeyPress(req.Value)
	case "dial":
		unlocked = s.opts.Tracker.Dial(req.Value)
	default:
		writeError(w, http.StatusBadRequest, "unknown input kind")
		return
	}
	s.respondUnlocked(w, r, unlocked)
}

func (s *Server) respondUnlocked(w http.ResponseWriter, r *http.Request, unlocked []eggs.Achievement) {
	for _, a := range unlocked {
		s.opts.Analytics.EasterEgg(r.Context(), a.ID, a.Name)
	}
	if unlocked == nil {
		unlocked = []eggs.Achievement{}
	}
	writeJSON(w, http.StatusOK, unlockedResponse{Unlocked: unlocked})
}
