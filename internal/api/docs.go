package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// @Title: List Docs
// @Route: GET /api/docs
// @Description: Returns the available operator document names
// @Response: ["operations.adoc", ...]
func (s *Service) HandleDocsList(w http.ResponseWriter, r *http.Request) {
	names, err := s.docs.List()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "failed to list docs")
		return
	}
	s.writeJSON(w, http.StatusOK, names)
}

// @Title: Get Doc
// @Route: GET /api/docs/{name}
// @Description: Returns one operator document rendered from AsciiDoc to HTML
// @Response: text/html
func (s *Service) HandleDoc(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	html, err := s.docs.Render(r.Context(), name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "document not found")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}
