package server

import (
	"image/png"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ivlev/babaru/internal/system"
)

type introInfo struct {
	FPS         int     `json:"fps"`
	TotalFrames int     `json:"totalFrames"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Seconds     float64 `json:"seconds"`
}

func (s *Server) introInfo(w http.ResponseWriter, r *http.Request) {
	a := s.opts.Animator
	width, height := a.Size()
	writeJSON(w, http.StatusOK, introInfo{
		FPS:         a.FPS(),
		TotalFrames: a.TotalFrames(),
		Width:       width,
		Height:      height,
		Seconds:     a.Duration(),
	})
}

// frameParam parses {frame}. Out of range values are valid: Render clamps.
func frameParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	frame, err := strconv.Atoi(chi.URLParam(r, "frame"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "frame must be an integer")
		return 0, false
	}
	return frame, true
}

func (s *Server) introFrame(w http.ResponseWriter, r *http.Request) {
	frame, ok := frameParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.opts.Animator.Render(frame))
}

func (s *Server) introPNG(w http.ResponseWriter, r *http.Request) {
	if s.opts.Raster == nil {
		writeError(w, http.StatusNotFound, "frame rendering disabled")
		return
	}
	frame, ok := frameParam(w, r)
	if !ok {
		return
	}
	img, err := s.opts.Raster.Frame(s.opts.Animator.Render(frame))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer system.PutImage(img)
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, img)
}
