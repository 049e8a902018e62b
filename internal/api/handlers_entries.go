package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/entryview/internal/entry"
	"github.com/go-chi/chi/v5"
)

// handleListEntries returns one page of entries, filtered by tag and
// categories, starting after the given cursor.
func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	first := s.cfg.DefaultPageSize
	if v := q.Get("first"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "first must be a positive integer", http.StatusBadRequest)
			return
		}
		first = min(n, s.cfg.MaxPageSize)
	}

	conn, err := s.orchestrator.Entries(r.Context(), entry.EntriesQuery{
		First:      first,
		After:      q.Get("after"),
		Tag:        q.Get("tag"),
		Categories: q["category"],
	})
	if err != nil {
		s.log.Error("list entries failed", "error", err)
		jsonError(w, "failed to list entries: "+err.Error(), http.StatusBadGateway)
		return
	}
	jsonResponse(w, conn)
}

// handleGetEntry returns a rendered entry page. Responses carry an ETag of
// the rendered HTML.
func (s *Server) handleGetEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "entryID")

	page, err := s.orchestrator.Page(r.Context(), entryID)
	if errors.Is(err, entry.ErrNotFound) {
		jsonError(w, "entry not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error("get entry failed", "entry_id", entryID, "error", err)
		jsonError(w, "failed to load entry: "+err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("ETag", page.ETag)
	if etagMatches(r.Header.Get("If-None-Match"), page.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	jsonResponse(w, page)
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	s.orchestrator.Invalidate(chi.URLParam(r, "entryID"))
	w.WriteHeader(http.StatusNoContent)
}

// etagMatches reports whether an If-None-Match header value matches etag,
// using the weak comparison GET requests call for.
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	etag = strings.TrimPrefix(etag, "W/")
	for _, tok := range strings.Split(header, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "*" || strings.TrimPrefix(tok, "W/") == etag {
			return true
		}
	}
	return false
}
