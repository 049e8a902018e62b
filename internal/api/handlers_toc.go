package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/entryview/internal/toc"
)

type tocRequest struct {
	Markdown string `json:"markdown"`
	Title    string `json:"title,omitempty"`
	Render   bool   `json:"render,omitempty"`
}

type tocResponse struct {
	toc.Result
	HTML string `json:"html,omitempty"`
}

// handleToc runs the TOC pipeline over ad-hoc markdown, optionally rendering
// the result to HTML.
func (s *Server) handleToc(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req tocRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := tocResponse{Result: toc.Process(req.Markdown, req.Title)}
	if resp.Headings == nil {
		resp.Headings = []toc.Heading{}
	}
	if req.Render {
		html, err := s.renderer.Render(resp.Markdown)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp.HTML = html
	}
	jsonResponse(w, resp)
}
