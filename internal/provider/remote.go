package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/idilsaglam/posts/internal/model"
)

// maxBodyBytes caps how much of a response body is decoded.
const maxBodyBytes = 8 << 20

// Remote fetches posts with a single GET against a fixed endpoint.
// It never retries; wrap it if you need resilience.
type Remote struct {
	endpoint *url.URL
	client   *http.Client
	token    string
	timeout  time.Duration
	log      logr.Logger
}

// RemoteOption customizes a Remote at construction.
type RemoteOption func(*Remote)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(c *http.Client) RemoteOption {
	return func(r *Remote) {
		if c != nil {
			r.client = c
		}
	}
}

// WithToken sends "Authorization: Bearer <token>" on every request.
func WithToken(token string) RemoteOption {
	return func(r *Remote) { r.token = strings.TrimSpace(token) }
}

// WithTimeout bounds the whole request, body included. Zero means no limit.
func WithTimeout(d time.Duration) RemoteOption {
	return func(r *Remote) { r.timeout = d }
}

// WithLogger sets the logger for request outcomes.
func WithLogger(l logr.Logger) RemoteOption {
	return func(r *Remote) { r.log = l }
}

// NewRemote validates rawURL and returns a provider bound to it. Validation
// happens here so a bad endpoint fails before any network access.
func NewRemote(rawURL string, opts ...RemoteOption) (*Remote, error) {
	u, err := parseEndpoint(rawURL)
	if err != nil {
		return nil, &Error{Kind: ErrConfiguration, Op: "new", URL: rawURL, Err: err}
	}
	r := &Remote{
		endpoint: u,
		client:   &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty endpoint")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return nil, errors.New("missing host")
	}
	return u, nil
}

// URL returns the endpoint this provider fetches.
func (r *Remote) URL() string { return r.endpoint.String() }

// FetchPosts performs one GET and decodes a JSON array of posts.
func (r *Remote) FetchPosts(ctx context.Context) ([]model.Post, error) {
	endpoint := r.endpoint.String()
	log := r.log.WithValues("url", endpoint)

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, r.fail(ErrTransport, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, r.fail(ErrTransport, 0, err)
	}
	defer resp.Body.Close()
	log.V(1).Info("response received", "status", resp.StatusCode, "latency", time.Since(start).String())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, r.fail(ErrTransport, resp.StatusCode, nil)
	}

	posts, err := decodePosts(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, r.fail(ErrDecoding, 0, err)
	}
	log.V(1).Info("posts decoded", "count", len(posts))
	return posts, nil
}

func (r *Remote) fail(kind error, status int, err error) error {
	return &Error{Kind: kind, Op: "fetch", URL: r.endpoint.String(), StatusCode: status, Err: err}
}

// decodePosts requires exactly one JSON array in body.
func decodePosts(body io.Reader) ([]model.Post, error) {
	dec := json.NewDecoder(body)
	var posts []model.Post
	if err := dec.Decode(&posts); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	if posts == nil {
		return nil, errors.New("expected a JSON array, got null")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON array")
	}
	return posts, nil
}
