package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dgallion1/texgen/internal/doctree"
	"github.com/dgallion1/texgen/internal/latex"
	"github.com/dgallion1/texgen/internal/parser"
)

// handleBuild renders a JSON tree description synchronously. Nodes that
// read local files are refused: the server's filesystem is not an input.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	tree, err := doctree.DecodeJSON(r.Body, doctree.DecodeOptions{})
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, doctree.ErrFilesNotAllowed):
			jsonError(w, err.Error(), http.StatusForbidden)
		default:
			jsonError(w, "invalid tree: "+err.Error(), http.StatusBadRequest)
		}
		return
	}
	if tree.Class == "" {
		tree.Class = s.cfg.DocumentClass
	}

	var out strings.Builder
	start := time.Now()
	if err := tree.Render(&out); err != nil {
		jsonError(w, "render failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.orchestrator.Stats().Record(time.Since(start), out.Len())

	name := "document.tex"
	if tree.Title != "" {
		name = texFilename(sanitizeFilename(tree.Title))
	}
	writeTeX(w, name, []byte(out.String()))
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	kinds := make([]string, 0, len(latex.Kinds()))
	for _, k := range latex.Kinds() {
		kinds = append(kinds, k.String())
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"extensions": parser.Extensions(),
		"node_kinds": kinds,
	})
}
