// Package dashboard serves the review report as an HTML page and a small JSON API.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"reviews-dashboard/metrics"
	"reviews-dashboard/models"
	"reviews-dashboard/utils"
)

// Options control the page chrome and HTTP policy.
type Options struct {
	Title          string
	Heading        string
	Period         string
	Footer         string
	StylesheetURL  string
	PlotlyURL      string
	AllowedOrigins []string
}

// DefaultOptions returns the CDMX dashboard texts.
func DefaultOptions() Options {
	return Options{
		Title:   "Dashboard CDMX - Reseñas",
		Heading: "Análisis de reseñas — Atracciones de la CDMX",
		Period:  "01/08/2010 - 01/09/2025",
		Footer:  "Dashboard generado con datos de reseñas en TripAdvisor — CDMX",
	}
}

// Server holds the computed report and serves it. Everything it serves is
// built before the first request and never changes afterwards.
type Server struct {
	opts    Options
	report  *models.Report
	view    *view
	metrics *metrics.Metrics
	logger  *utils.Logger
	router  chi.Router
}

// NewServer pre-renders figures and the word cloud for report and wires the routes.
func NewServer(report *models.Report, opts Options, m *metrics.Metrics, logger *utils.Logger) (*Server, error) {
	v, err := buildView(report)
	if err != nil {
		return nil, err
	}
	if m == nil {
		m = metrics.New()
	}
	m.ObserveReport(report)

	s := &Server{opts: opts, report: report, view: v, metrics: m, logger: logger}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.countRequests)

	if len(s.opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/", s.handleIndex)
	r.Get("/health", s.handleHealth)
	r.Get("/wordcloud.png", s.handleWordCloud)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/summary", s.handleSummary)
		r.Get("/locations", s.handleLocations)
		r.Get("/focus", s.handleFocus)
		r.Get("/topics", s.handleTopics)
		r.Get("/figures/{name}", s.handleFigure)
	})
	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("dashboard: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dashboard: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("dashboard: shutdown: %w", err)
		}
		s.logger.Info("[dashboard] Server stopped")
		return nil
	}
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.ObserveRequest(route, status)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderPage(w); err != nil {
		s.logger.Error("[dashboard] Render page: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}

func (s *Server) handleWordCloud(w http.ResponseWriter, r *http.Request) {
	if len(s.view.wordCloud) == 0 {
		http.Error(w, "no review text for a word cloud", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(s.view.wordCloud)
}

type summary struct {
	TotalReviews       int     `json:"total_reviews"`
	KeptReviews        int     `json:"kept_reviews"`
	DroppedRows        int     `json:"dropped_rows"`
	Locations          int     `json:"locations"`
	FocusLocations     int     `json:"focus_locations"`
	Topics             int     `json:"topics"`
	AvgPositivePercent float64 `json:"avg_positive_pct"`
	ReviewColumn       string  `json:"review_column,omitempty"`
	FocusSize          int     `json:"focus_size"`
	MinTopicMentions   int     `json:"min_topic_mentions"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep := s.report
	writeJSON(w, http.StatusOK, summary{
		TotalReviews:       rep.TotalReviews,
		KeptReviews:        rep.KeptReviews,
		DroppedRows:        rep.DroppedRows,
		Locations:          len(rep.Locations),
		FocusLocations:     rep.Focus.Len(),
		Topics:             len(rep.Topics),
		AvgPositivePercent: rep.AvgPositivePercent,
		ReviewColumn:       rep.ReviewColumn,
		FocusSize:          rep.FocusSize,
		MinTopicMentions:   rep.MinTopicMentions,
	})
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"locations": s.report.Locations})
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.report.Focus)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"topics": s.report.Topics})
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	fig, ok := s.view.figures[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("unknown figure %q", name)})
		return
	}
	writeJSON(w, http.StatusOK, fig)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
