// Package fixture serves a provider's posts over HTTP in the same shape as
// the upstream endpoint, so the remote provider can run against a local,
// predictable server.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/idilsaglam/posts/internal/provider"
)

type server struct {
	provider provider.Provider
	log      logr.Logger
	requests *prometheus.CounterVec
}

// Option configures the handler built by NewHandler.
type Option func(*server)

// WithLogger sets the logger for served requests.
func WithLogger(l logr.Logger) Option {
	return func(s *server) { s.log = l }
}

// NewHandler routes:
//
//	GET /posts      all posts
//	GET /posts/:id  one post
//	GET /metrics    Prometheus metrics
func NewHandler(p provider.Provider, opts ...Option) http.Handler {
	reg := prometheus.NewRegistry()
	s := &server{
		provider: p,
		log:      logr.Discard(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "posts_fixture_requests_total",
			Help: "Requests served by the fixture server.",
		}, []string{"route", "code"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	reg.MustRegister(s.requests)

	r := httprouter.New()
	r.GET("/posts", s.listPosts)
	r.GET("/posts/:id", s.getPost)
	r.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func (s *server) listPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	posts, err := s.provider.FetchPosts(r.Context())
	if err != nil {
		s.fail(w, "/posts", http.StatusBadGateway, err)
		return
	}
	s.writeJSON(w, "/posts", http.StatusOK, posts)
}

func (s *server) getPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := strconv.Atoi(ps.ByName("id"))
	if err != nil {
		s.fail(w, "/posts/:id", http.StatusBadRequest, errors.New("id must be an integer"))
		return
	}
	posts, err := s.provider.FetchPosts(r.Context())
	if err != nil {
		s.fail(w, "/posts/:id", http.StatusBadGateway, err)
		return
	}
	for _, p := range posts {
		if p.ID == id {
			s.writeJSON(w, "/posts/:id", http.StatusOK, p)
			return
		}
	}
	s.fail(w, "/posts/:id", http.StatusNotFound, errors.New("post not found"))
}

func (s *server) fail(w http.ResponseWriter, route string, code int, err error) {
	s.log.Error(err, "request failed", "route", route, "status", code)
	s.writeJSON(w, route, code, map[string]string{"error": err.Error()})
}

func (s *server) writeJSON(w http.ResponseWriter, route string, code int, v any) {
	s.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "encode response", "route", route)
	}
}

// Serve runs h on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log logr.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("fixture server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("fixture server shutting down")
	return srv.Shutdown(shutdownCtx)
}
