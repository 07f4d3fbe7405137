package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"sitescope/services"
	"sitescope/source"
	"sitescope/storage"
	"sitescope/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// Options configures a Server.
type Options struct {
	Sessions      storage.SessionStore
	Results       *services.ResultsService
	Sources       []source.RFPSource
	DefaultSource string
	SubmitDelay   time.Duration
	CookieName    string
	Logger        *utils.Logger
}

// Server serves the intake and results screens.
type Server struct {
	sessions      storage.SessionStore
	results       *services.ResultsService
	sources       map[string]source.RFPSource
	defaultSource string
	submitDelay   time.Duration
	cookieName    string
	logger        *utils.Logger
	templates     *template.Template
}

// NewServer validates opts and parses the embedded templates.
func NewServer(opts Options) (*Server, error) {
	if opts.Sessions == nil || opts.Results == nil || opts.Logger == nil {
		return nil, errors.New("web: sessions, results and logger are required")
	}

	sources := make(map[string]source.RFPSource, len(opts.Sources))
	for _, src := range opts.Sources {
		sources[src.Name()] = src
	}
	if _, ok := sources[opts.DefaultSource]; !ok {
		return nil, fmt.Errorf("web: default source %q is not registered", opts.DefaultSource)
	}

	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "sitescope_session"
	}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"fitLabel": services.FitLabel,
		"fitBand":  services.FitBand,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	return &Server{
		sessions:      opts.Sessions,
		results:       opts.Results,
		sources:       sources,
		defaultSource: opts.DefaultSource,
		submitDelay:   opts.SubmitDelay,
		cookieName:    cookieName,
		logger:        opts.Logger,
		templates:     tmpl,
	}, nil
}

// Handler returns the routed handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIntakeForm)
	mux.HandleFunc("POST /{$}", s.handleIntakeSubmit)
	mux.HandleFunc("GET /results", s.handleResults)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return s.logRequests(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[web] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("[web] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("[web] %s %s -> %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
