package api

import (
	"net/http"
)

func (s *Server) handleUpstreamStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "upstream stats unavailable", http.StatusServiceUnavailable)
		return
	}
	jsonResponse(w, map[string]any{
		"endpoint":     s.cfg.EntryAPIURL,
		"cached_pages": s.orchestrator.CachedPages(),
		"operations":   s.stats.Snapshot(),
	})
}

func (s *Server) handleStyleCSS(w http.ResponseWriter, r *http.Request) {
	css, err := s.renderer.StyleCSS()
	if err != nil {
		s.log.Error("write highlighter css failed", "style", s.renderer.Style(), "error", err)
		http.Error(w, "stylesheet unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write([]byte(css))
}
