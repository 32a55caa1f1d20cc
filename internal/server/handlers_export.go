package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmoreno/cv-studio/internal/latex"
	"github.com/dmoreno/cv-studio/internal/types"
)

// ExportRequest is the body of POST /api/cv/export.
type ExportRequest struct {
	CV     *types.CvData         `json:"cv"`
	Design *types.CvDesignConfig `json:"design,omitempty"`
}

const overleafBase = "https://www.overleaf.com/docs?snip_uri="

// handleExport renders the CV to LaTeX. The default response is a .tex
// download; with ?overleaf=1 it returns a data URI link that opens the
// document directly in Overleaf.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CV == nil {
		s.errorResponse(w, http.StatusBadRequest, "cv is required")
		return
	}

	document := latex.Generate(req.CV, req.Design)

	if r.URL.Query().Get("overleaf") == "1" {
		dataURI := "data:application/x-tex;base64," + base64.StdEncoding.EncodeToString([]byte(document))
		s.jsonResponse(w, http.StatusOK, map[string]string{
			"url": overleafBase + url.QueryEscape(dataURI),
		})
		return
	}

	w.Header().Set("Content-Type", "text/x-tex; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cv.tex"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(document))
}
