// Package web provides the HTTP server and handlers for querychart.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JonMunkholm/querychart/internal/config"
	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/JonMunkholm/querychart/internal/render"
	mw "github.com/JonMunkholm/querychart/internal/web/middleware"
	"github.com/JonMunkholm/querychart/internal/web/templates"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for querychart.
type Server struct {
	cfg      *config.Config
	service  *core.Service
	renderer *render.Renderer
	canvases *render.Registry
	router   *chi.Mux
	server   *http.Server

	limiters []*rateLimiter
}

// NewServer creates a Server. The renderer draws images and canvases; the
// registry holds canvases created through the API.
func NewServer(cfg *config.Config, service *core.Service, renderer *render.Renderer, canvases *render.Registry) *Server {
	s := &Server{
		cfg:      cfg,
		service:  service,
		renderer: renderer,
		canvases: canvases,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	if s.cfg.Server.RequestTimeout > 0 {
		s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	}

	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))
	s.router.Use(withLocale)

	if s.cfg.Rate.Enabled {
		s.router.Use(s.newRateLimiter(s.cfg.Rate.RequestsPerMinute, time.Minute).middleware)
	}
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleDashboard)
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Get("/schemes", s.handleSchemes)
		r.Post("/fields", s.handleFields)
		r.Post("/chart", s.handleChart)
		r.Post("/diff", s.handleDiff)

		// Rasterizing is the expensive path and gets its own rate limit.
		r.Group(func(r chi.Router) {
			if s.cfg.Rate.Enabled {
				r.Use(s.newRateLimiter(s.cfg.Rate.RenderLimit, time.Minute).middleware)
			}
			r.Post("/chart/render", s.handleRenderChart)
			r.Post("/chart/export", s.handleExportChart)
			r.Get("/canvas/{canvasID}/image", s.handleCanvasImage)
		})

		r.Post("/canvas", s.handleCreateCanvas)
		r.Put("/canvas/{canvasID}", s.handleDrawCanvas)
		r.Get("/canvas/{canvasID}", s.handleGetCanvas)
		r.Delete("/canvas/{canvasID}", s.handleDeleteCanvas)

		r.Route("/present", func(r chi.Router) {
			r.Post("/result", s.handlePresentResult)
			r.Post("/fields", s.handlePresentFields)
			r.Post("/correction", s.handlePresentCorrection)
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server, waits for running renders and
// releases every canvas.
func (s *Server) Shutdown(ctx context.Context) error {
	for _, rl := range s.limiters {
		rl.stop()
	}

	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	if l := s.renderer.Limiter(); l != nil {
		if drainErr := l.WaitForDrain(ctx); drainErr != nil && err == nil {
			err = drainErr
		}
	}
	s.canvases.ReleaseAll()
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) dashboardData() templates.DashboardData {
	return templates.DashboardData{
		Kinds:         append([]core.ChartKind(nil), core.ChartKinds...),
		Schemes:       core.Schemes(),
		DefaultKind:   s.cfg.Chart.DefaultKind,
		DefaultScheme: s.cfg.Chart.DefaultScheme,
	}
}

// securityHeaders adds security headers to all responses.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' " + templates.HTMXOrigin,
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"font-src 'self'",
	}, "; ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME type sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Prevent clickjacking
			w.Header().Set("X-Frame-Options", "DENY")

			if enableCSP {
				w.Header().Set("Content-Security-Policy", csp)
			}

			// Control referrer information
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
