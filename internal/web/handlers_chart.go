package web

import (
	"bytes"
	"net/http"
	"regexp"
	"strings"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/JonMunkholm/querychart/internal/logging"
	"github.com/JonMunkholm/querychart/internal/render"
	"github.com/JonMunkholm/querychart/internal/web/templates"
)

// handleDashboard renders the main page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Dashboard(s.dashboardData()).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render dashboard", "error", err)
	}
}

// handleHealth reports liveness and a few gauges.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":       "ok",
		"canvases":     s.canvases.Len(),
		"cached_specs": s.service.CacheLen(),
	}
	if l := s.renderer.Limiter(); l != nil {
		resp["render"] = l.Status()
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// handleSchemes lists the colour schemes.
func (s *Server) handleSchemes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.Schemes())
}

// handleFields reports the fields of pasted data and the suggested axes.
func (s *Server) handleFields(w http.ResponseWriter, r *http.Request) {
	var req chartRequest
	if err := s.readBody(w, r, &req, req.fromForm); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	res, err := s.service.Fields(r.Context(), req.Data)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.FieldsFragment(res).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleChart builds a chart spec. HTMX requests get the drawn chart as a
// fragment.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	spec, err := s.buildChart(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("chart built",
		"kind", spec.Kind,
		"points", len(spec.Labels),
	)

	if !isHTMX(r) {
		writeJSON(w, r, http.StatusOK, spec)
		return
	}

	var svg bytes.Buffer
	if err := s.renderer.Render(r.Context(), spec, render.FormatSVG, &svg); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ChartFragment(spec, svg.Bytes()).Render(r.Context(), w)
}

// handleRenderChart builds a chart and returns it as an image.
func (s *Server) handleRenderChart(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	spec, err := s.buildChart(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	// Render to a buffer so a failed render can still send an error.
	var buf bytes.Buffer
	if err := s.renderer.Render(r.Context(), spec, format, &buf); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// handleExportChart builds a chart and returns it as an xlsx workbook.
func (s *Server) handleExportChart(w http.ResponseWriter, r *http.Request) {
	spec, err := s.buildChart(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := render.ExportXLSX(spec, &buf); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", render.XLSXContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename(spec.Title)+`"`)
	w.Write(buf.Bytes())
}

var filenameUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// exportFilename derives an ASCII file name from a chart title.
func exportFilename(title string) string {
	name := strings.Trim(filenameUnsafe.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if name == "" {
		name = "chart"
	}
	return name + ".xlsx"
}
