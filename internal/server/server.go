// Package server exposes the catalog, chat, achievements and the intro
// animation over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ivlev/babaru/internal/analytics"
	"github.com/ivlev/babaru/internal/audio"
	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/chat"
	"github.com/ivlev/babaru/internal/effects"
	"github.com/ivlev/babaru/internal/eggs"
	"github.com/ivlev/babaru/internal/mascot"
	"github.com/ivlev/babaru/internal/renderer"
)

// Options wires the server. Raster may be nil, which disables PNG frames.
// Talker times reply audio for the mascot; by default a silent talker on
// the server clock is used, since the browser plays the audio.
type Options struct {
	Catalog      *catalog.Catalog
	Chat         chat.Service
	Registry     *eggs.Registry
	Tracker      *eggs.Tracker
	Mascot       *mascot.Mascot
	Talker       *audio.Talker
	Analytics    *analytics.Tracker
	Animator     *renderer.Animator
	Raster       *effects.Rasterizer
	ShareBaseURL string
	Logger       *slog.Logger
	Now          func() time.Time
}

type Server struct {
	opts   Options
	logger *slog.Logger
	now    func() time.Time
	talker *audio.Talker
	router chi.Router
}

func New(opts Options) *Server {
	s := &Server{opts: opts, logger: opts.Logger, now: opts.Now}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.talker = opts.Talker
	if s.talker == nil {
		s.talker = audio.NewTalker(talkFPS, s.logger, audio.WithClock(func() time.Time { return s.now() }))
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(45 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", s.catalog)
		r.Get("/comics", s.listItems)
		r.Get("/comics/{slug}", s.item)
		r.Get("/comics/{slug}/share.png", s.shareCode)
		r.Get("/groupings", s.listGroupings)

		r.Post("/chat", s.chat)

		r.Get("/achievements", s.achievements)
		r.Post("/achievements/{id}", s.unlock)
		r.Post("/visits", s.visit)
		r.Post("/input", s.input)

		r.Get("/mascot", s.mascotRoute(s.mascotView))
		r.Post("/mascot/click", s.mascotRoute(s.mascotClick))
		r.Post("/mascot/greet", s.mascotRoute(s.mascotGreet))
		r.Post("/mascot/chat", s.mascotRoute(s.mascotChat))
		r.Post("/mascot/say", s.mascotRoute(s.mascotSay))

		r.Route("/intro", func(r chi.Router) {
			r.Get("/", s.introInfo)
			r.Get("/frames/{frame}", s.introFrame)
			r.Get("/frames/{frame}/png", s.introPNG)
		})
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then drains
// connections for up to five seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("elapsed", time.Since(start)),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10))
	return dec.Decode(v)
}
