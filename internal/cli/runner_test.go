package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"
	"github.com/go-logr/logr/testr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/posts/internal/auth"
	"github.com/idilsaglam/posts/internal/fixture"
	"github.com/idilsaglam/posts/internal/model"
	"github.com/idilsaglam/posts/internal/provider"
	"github.com/idilsaglam/posts/internal/store/jsonstore"
	"github.com/idilsaglam/posts/internal/ui"
)

type harness struct {
	opt            Options
	stdout, stderr *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(auth.EnvVar, "")
	h := &harness{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.opt = Options{
		Source:  "static",
		Timeout: 2 * time.Second,
		Log:     testr.New(t),
		Auth:    &auth.Store{Dir: t.TempDir()},
		Stdin:   strings.NewReader(""),
		Stdout:  h.stdout,
		Stderr:  h.stderr,
	}
	return h
}

func (h *harness) run(args ...string) int {
	return Run(context.Background(), args, h.opt)
}

func TestRun_Help(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("help"))
	assert.Contains(t, h.stdout.String(), "Subcommands:")
}

func TestRun_UnknownSubcommand(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 2, h.run("frobnicate"))
	assert.Contains(t, h.stderr.String(), "unknown subcommand: frobnicate")
}

func TestRun_ListStaticDefault(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("ls"))
	out := h.stdout.String()
	assert.Contains(t, out, "Total 2")
	assert.Less(t, strings.Index(out, "one"), strings.Index(out, "two"))
}

func TestRun_ListStaticFromFile(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, jsonstore.Save(path, []model.Post{{UserID: 3, ID: 3, Title: "three", Body: "three"}}))
	h.opt.DataFile = path

	assert.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.stdout.String(), "three")
	assert.Contains(t, h.stdout.String(), "Total 1")
}

func TestRun_ListStaticMissingFile(t *testing.T) {
	h := newHarness(t)
	h.opt.DataFile = filepath.Join(t.TempDir(), "nope.json")

	assert.Equal(t, 1, h.run("ls"))
	assert.Contains(t, h.stderr.String(), "nope.json")
}

func TestRun_Show(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("show", "2"))
	assert.Contains(t, h.stdout.String(), "post #2")

	h = newHarness(t)
	assert.Equal(t, 2, h.run("show", "42"))
	assert.Contains(t, h.stderr.String(), "no post with id 42")

	h = newHarness(t)
	assert.Equal(t, 2, h.run("show", "x"))
	assert.Equal(t, 2, h.run("show"))
}

func TestRun_Export(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "out", "posts.json")

	assert.Equal(t, 0, h.run("export", path))
	assert.Contains(t, h.stdout.String(), "exported 2 posts")

	got, err := jsonstore.Load(path)
	require.NoError(t, err)
	assert.Equal(t, provider.DefaultPosts(), got)
}

func TestRun_RemoteAgainstFixture(t *testing.T) {
	posts := []model.Post{
		{UserID: 9, ID: 11, Title: "eleven", Body: "e"},
		{UserID: 9, ID: 12, Title: "twelve", Body: "t"},
	}
	srv := httptest.NewServer(fixture.NewHandler(provider.NewStatic(posts)))
	defer srv.Close()

	h := newHarness(t)
	h.opt.Source = "remote"
	h.opt.URL = srv.URL + "/posts"

	assert.Equal(t, 0, h.run("ls"))
	assert.Contains(t, h.stdout.String(), "eleven")
	assert.Contains(t, h.stdout.String(), "twelve")
}

func TestRun_RemoteSendsStoredToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	h := newHarness(t)
	require.NoError(t, h.opt.Auth.Set("s3cret"))
	h.opt.Source = "remote"
	h.opt.URL = srv.URL

	assert.Equal(t, 0, h.run("ls"))
	assert.Equal(t, "Bearer s3cret", gotAuth)
}

func TestRun_RemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := newHarness(t)
	h.opt.Source = "remote"
	h.opt.URL = srv.URL

	assert.Equal(t, 1, h.run("ls"))
	assert.Contains(t, h.stderr.String(), "status 503")
	assert.Empty(t, h.stdout.String())
}

func TestRun_ConfigurationErrors(t *testing.T) {
	h := newHarness(t)
	h.opt.Source = "remote"
	h.opt.URL = ""
	assert.Equal(t, 2, h.run("ls"))
	assert.Contains(t, h.stderr.String(), "configuration error")

	h = newHarness(t)
	h.opt.Source = "carrier-pigeon"
	assert.Equal(t, 2, h.run("ls"))
	assert.Contains(t, h.stderr.String(), "unknown source")
}

func TestNewProvider(t *testing.T) {
	h := newHarness(t)

	p, err := NewProvider(h.opt, h.opt.Log)
	require.NoError(t, err)
	assert.IsType(t, &provider.Static{}, p)

	h.opt.Source = "remote"
	h.opt.URL = "https://example.com/posts"
	p, err = NewProvider(h.opt, h.opt.Log)
	require.NoError(t, err)
	require.IsType(t, &provider.Remote{}, p)
	assert.Equal(t, "https://example.com/posts", p.(*provider.Remote).URL())

	h.opt.URL = "::::"
	_, err = NewProvider(h.opt, h.opt.Log)
	assert.ErrorIs(t, err, provider.ErrConfiguration)
}

func TestRun_TUIUsesInjectedProgram(t *testing.T) {
	h := newHarness(t)
	// the fetch goroutine may outlive the test; keep it off the test logger
	h.opt.Log = logr.Discard()
	var got tea.Model
	h.opt.Program = func(ctx context.Context, m tea.Model) error {
		got = m
		return nil
	}

	assert.Equal(t, 0, h.run())
	require.IsType(t, ui.Model{}, got)
}

func TestRun_Auth(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, 0, h.run("auth", "status"))
	assert.Contains(t, h.stdout.String(), "not logged in")

	h.opt.Stdin = strings.NewReader("Bearer tok-1\n")
	assert.Equal(t, 0, h.run("auth", "login"))
	assert.Contains(t, h.stdout.String(), "logged in")
	assert.Equal(t, "tok-1", h.opt.Auth.Token())

	h.stdout.Reset()
	assert.Equal(t, 0, h.run("auth", "status"))
	assert.Contains(t, h.stdout.String(), "source: file")

	assert.Equal(t, 0, h.run("auth", "logout"))
	assert.Empty(t, h.opt.Auth.Token())

	assert.Equal(t, 2, h.run("auth"))
	assert.Equal(t, 2, h.run("auth", "whoami"))
}

func TestRun_AuthLogoutWithEnvToken(t *testing.T) {
	h := newHarness(t)
	t.Setenv(auth.EnvVar, "from-env")
	assert.Equal(t, 0, h.run("auth", "logout"))
	assert.Contains(t, h.stdout.String(), "nothing to delete")
}

func TestRun_ServeStopsWithContext(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() { done <- Run(ctx, []string{"serve", "127.0.0.1:0"}, h.opt) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
