package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ivlev/babaru/internal/catalog"
	"github.com/ivlev/babaru/internal/effects"
)

const shareSide = 256

func (s *Server) catalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Catalog.Load(r.Context()))
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	items, _ := s.opts.Catalog.ListItems(r.Context())
	if status := r.URL.Query().Get("status"); status != "" {
		want, err := catalog.ParseStatus(status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filtered := items[:0]
		for _, it := range items {
			if it.Status == want {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) listGroupings(w http.ResponseWriter, r *http.Request) {
	groupings, _ := s.opts.Catalog.ListGroupings(r.Context())
	writeJSON(w, http.StatusOK, groupings)
}

func (s *Server) findItem(w http.ResponseWriter, r *http.Request) (catalog.Item, bool) {
	it, err := s.opts.Catalog.FindBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "comic not found")
		return it, false
	}
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return it, false
	}
	return it, true
}

func (s *Server) item(w http.ResponseWriter, r *http.Request) {
	it, ok := s.findItem(w, r)
	if !ok {
		return
	}
	s.opts.Analytics.ComicView(r.Context(), it.ID, it.Title)
	writeJSON(w, http.StatusOK, it)
}

// ShareLink returns the public page of an item.
func ShareLink(base, slug string) string {
	return fmt.Sprintf("%s/comics/%s", strings.TrimRight(base, "/"), slug)
}

func (s *Server) shareCode(w http.ResponseWriter, r *http.Request) {
	it, ok := s.findItem(w, r)
	if !ok {
		return
	}
	side := shareSide
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > 2048 {
			writeError(w, http.StatusBadRequest, "size must be between 64 and 2048")
			return
		}
		side = n
	}

	link := ShareLink(s.opts.ShareBaseURL, it.Slug)
	png, err := effects.ShareCodePNG(link, side)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.opts.Analytics.Share(r.Context(), it.ID, link)
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
