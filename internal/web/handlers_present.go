package web

import (
	"net/http"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/JonMunkholm/querychart/internal/web/templates"
)

// handleDiff lists the word changes between two query texts.
func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := s.readBody(w, r, &req, req.fromForm); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	mode, err := core.ParseDiffMode(req.Mode)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res := s.service.Diff(req.Original, req.Corrected, core.DiffOptions{Mode: mode, Limit: req.Limit})

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.DiffFragment(res).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handlePresentResult turns a query result into its display model.
func (s *Server) handlePresentResult(w http.ResponseWriter, r *http.Request) {
	var res core.QueryResult
	if err := s.readBody(w, r, &res, nil); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, core.PresentResult(res))
}

// handlePresentFields suggests chart axes for extracted fields.
func (s *Server) handlePresentFields(w http.ResponseWriter, r *http.Request) {
	var fe core.FieldExtraction
	if err := s.readBody(w, r, &fe, nil); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, core.PresentFields(fe))
}

// handlePresentCorrection turns a correction into its display model.
func (s *Server) handlePresentCorrection(w http.ResponseWriter, r *http.Request) {
	var c core.Correction
	if err := s.readBody(w, r, &c, nil); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, core.PresentCorrection(c))
}
