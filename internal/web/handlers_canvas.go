package web

import (
	"net/http"

	"github.com/JonMunkholm/querychart/internal/logging"
	"github.com/JonMunkholm/querychart/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleCreateCanvas creates an empty canvas.
func (s *Server) handleCreateCanvas(w http.ResponseWriter, r *http.Request) {
	c := s.canvases.Create()
	logging.WithFields(r.Context(), "canvas_id", c.ID()).Info("canvas created")
	writeJSON(w, r, http.StatusCreated, c.Info())
}

// canvas looks up the canvas named in the URL.
func (s *Server) canvas(r *http.Request) (*render.Canvas, error) {
	return s.canvases.Get(chi.URLParam(r, "canvasID"))
}

// handleDrawCanvas builds a chart and draws it on the canvas, releasing the
// chart it held before.
func (s *Server) handleDrawCanvas(w http.ResponseWriter, r *http.Request) {
	c, err := s.canvas(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	spec, err := s.buildChart(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	c.Draw(spec)
	logging.WithFields(r.Context(), "canvas_id", c.ID()).Info("chart drawn",
		"kind", spec.Kind,
		"points", len(spec.Labels),
	)
	writeJSON(w, r, http.StatusOK, c.Info())
}

// handleGetCanvas returns the canvas and its current spec.
func (s *Server) handleGetCanvas(w http.ResponseWriter, r *http.Request) {
	c, err := s.canvas(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, c.Info())
}

// handleCanvasImage renders the canvas chart.
func (s *Server) handleCanvasImage(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	c, err := s.canvas(r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	img, err := c.Image(r.Context(), format)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Write(img)
}

// handleDeleteCanvas releases the canvas.
func (s *Server) handleDeleteCanvas(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "canvasID")
	if err := s.canvases.Delete(id); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	logging.WithFields(r.Context(), "canvas_id", id).Info("canvas released")
	w.WriteHeader(http.StatusNoContent)
}
