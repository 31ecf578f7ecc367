package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr"

	"github.com/idilsaglam/posts/internal/auth"
	"github.com/idilsaglam/posts/internal/fixture"
	"github.com/idilsaglam/posts/internal/logging"
	"github.com/idilsaglam/posts/internal/model"
	"github.com/idilsaglam/posts/internal/provider"
	"github.com/idilsaglam/posts/internal/store/jsonstore"
	"github.com/idilsaglam/posts/internal/ui"
	"github.com/idilsaglam/posts/internal/viewmodel"
)

// Options carry the resolved configuration (env + flags) into the runner.
type Options struct {
	Source      string // "remote" or "static"
	URL         string
	DataFile    string
	Timeout     time.Duration
	FixtureAddr string

	LogFormat string
	LogFile   string
	// Log overrides LogFormat/LogFile when set.
	Log logr.Logger

	Auth *auth.Store

	Stdin          io.Reader
	Stdout, Stderr io.Writer

	// Program runs the interactive model. Defaults to a full-screen
	// Bubble Tea program.
	Program func(ctx context.Context, m tea.Model) error
}

func (o *Options) setDefaults() {
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Program == nil {
		o.Program = runProgram
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	opt.setDefaults()

	cmd, a := "tui", []string(nil)
	if len(args) > 0 {
		cmd, a = args[0], args[1:]
	}

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(opt.Stdout)
		return 0
	case "auth":
		return doAuth(a, opt)
	}

	log, flush, code := opt.logger(cmd == "tui")
	if code != 0 {
		return code
	}
	defer flush()
	log = log.WithValues("cmd", cmd)

	switch cmd {
	case "tui":
		return doTUI(ctx, opt, log)

	case "ls":
		return doList(ctx, opt, log)

	case "show":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: posts show <id>")
			return 2
		}
		id, err := strconv.Atoi(a[0])
		if err != nil {
			ui.Fail(opt.Stderr, "show: not a number: "+a[0])
			return 2
		}
		return doShow(ctx, opt, log, id)

	case "export":
		if len(a) != 1 {
			ui.Fail(opt.Stderr, "usage: posts export <file>")
			return 2
		}
		return doExport(ctx, opt, log, a[0])

	case "serve":
		addr := opt.FixtureAddr
		if len(a) == 1 {
			addr = a[0]
		} else if len(a) > 1 {
			ui.Fail(opt.Stderr, "usage: posts serve [addr]")
			return 2
		}
		return doServe(ctx, opt, log, addr)
	}

	ui.Fail(opt.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(opt.Stderr)
	PrintHelp(opt.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `posts - browse a list of posts

Usage:
  posts [flags] [subcommand] [args]

Subcommands:
  tui                Interactive list (default)
  ls                 Print post titles
  show <id>          Print one post
  export <file>      Save fetched posts as JSON
  serve [addr]       Serve the selected source over HTTP (GET /posts)
  auth <login|logout|status>   Bearer token for the remote source

Flags:
  -source remote|static   Where posts come from (POSTS_SOURCE)
  -url <url>              Remote endpoint (POSTS_URL)
  -data <file>            JSON file for the static source (POSTS_DATA_FILE)
  -theme classic|neon|mono
  -log-format text|json   -log-file <path>

Examples:
  posts ls
  posts -source static show 2
  posts -source static -data posts.json serve :8080
  posts -url http://localhost:8080/posts
`)
}

func (o Options) logger(interactive bool) (logr.Logger, func(), int) {
	if o.Log.GetSink() != nil {
		return o.Log, func() {}, 0
	}
	setup := logging.Setup
	if interactive {
		setup = logging.Interactive
	}
	log, flush, err := setup(o.LogFormat, o.LogFile)
	if err != nil {
		ui.Fail(o.Stderr, "logging: "+err.Error())
		return logr.Discard(), func() {}, 2
	}
	return log, flush, 0
}

// NewProvider is the composition root: the only place a concrete provider
// is chosen.
func NewProvider(opt Options, log logr.Logger) (provider.Provider, error) {
	switch opt.Source {
	case "remote", "":
		opts := []provider.RemoteOption{
			provider.WithTimeout(opt.Timeout),
			provider.WithLogger(log.WithName("remote")),
		}
		if opt.Auth != nil {
			if tok := opt.Auth.Token(); tok != "" {
				opts = append(opts, provider.WithToken(tok))
			}
		}
		return provider.NewRemote(opt.URL, opts...)

	case "static":
		if opt.DataFile == "" {
			return provider.NewStatic(nil), nil
		}
		posts, err := jsonstore.Load(opt.DataFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", opt.DataFile, err)
		}
		return provider.NewStatic(posts), nil
	}
	return nil, &provider.Error{
		Kind: provider.ErrConfiguration,
		Op:   "new",
		Err:  fmt.Errorf("unknown source %q (want remote or static)", opt.Source),
	}
}

func providerFailure(w io.Writer, err error) int {
	ui.Fail(w, "source: "+err.Error())
	if errors.Is(err, provider.ErrConfiguration) {
		return 2
	}
	return 1
}

// load builds the provider and view model and waits for the single fetch.
func load(ctx context.Context, opt Options, log logr.Logger) ([]model.Post, int) {
	p, err := NewProvider(opt, log)
	if err != nil {
		return nil, providerFailure(opt.Stderr, err)
	}
	vm, err := viewmodel.New(ctx, p, viewmodel.WithLogger(log.WithName("viewmodel")))
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return nil, 1
	}
	s, err := vm.Wait(ctx)
	if err != nil {
		ui.Fail(opt.Stderr, "fetch: "+err.Error())
		return nil, 1
	}
	if s.Status == viewmodel.StatusFailed {
		ui.Fail(opt.Stderr, "fetch: "+s.Err.Error())
		return nil, 1
	}
	return s.Posts, 0
}

// -------------- subcommand impls ----------------

func doTUI(ctx context.Context, opt Options, log logr.Logger) int {
	p, err := NewProvider(opt, log)
	if err != nil {
		return providerFailure(opt.Stderr, err)
	}
	vm, err := viewmodel.New(ctx, p, viewmodel.WithLogger(log.WithName("viewmodel")))
	if err != nil {
		ui.Fail(opt.Stderr, err.Error())
		return 1
	}
	if err := opt.Program(ctx, ui.NewModel(vm)); err != nil {
		ui.Fail(opt.Stderr, "tui: "+err.Error())
		return 1
	}
	return 0
}

func runProgram(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func doList(ctx context.Context, opt Options, log logr.Logger) int {
	posts, code := load(ctx, opt, log)
	if code != 0 {
		return code
	}
	ui.Panel(opt.Stdout, ui.ListLines(posts))
	return 0
}

func doShow(ctx context.Context, opt Options, log logr.Logger, id int) int {
	posts, code := load(ctx, opt, log)
	if code != 0 {
		return code
	}
	for _, p := range posts {
		if p.ID == id {
			ui.Panel(opt.Stdout, ui.DetailLines(p))
			return 0
		}
	}
	ui.Fail(opt.Stderr, fmt.Sprintf("no post with id %d (have %d posts)", id, len(posts)))
	fmt.Fprintln(opt.Stderr, ui.Current().Muted.Render("Hint: run `posts ls` to see valid ids"))
	return 2
}

func doExport(ctx context.Context, opt Options, log logr.Logger, path string) int {
	posts, code := load(ctx, opt, log)
	if code != 0 {
		return code
	}
	if err := jsonstore.Save(path, posts); err != nil {
		ui.Fail(opt.Stderr, "save: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, fmt.Sprintf("exported %d posts to %s", len(posts), path))
	return 0
}

func doServe(ctx context.Context, opt Options, log logr.Logger, addr string) int {
	p, err := NewProvider(opt, log)
	if err != nil {
		return providerFailure(opt.Stderr, err)
	}
	h := fixture.NewHandler(p, fixture.WithLogger(log.WithName("fixture")))
	ui.OK(opt.Stdout, "serving posts on "+addr+"/posts")
	if err := fixture.Serve(ctx, addr, h, log.WithName("fixture")); err != nil {
		ui.Fail(opt.Stderr, "serve: "+err.Error())
		return 1
	}
	return 0
}

// ---------------------------------------------------
// Auth subcommands
// ---------------------------------------------------

func doAuth(a []string, opt Options) int {
	if len(a) != 1 {
		ui.Fail(opt.Stderr, "usage: posts auth <login|logout|status>")
		return 2
	}
	store := opt.Auth
	if store == nil {
		s, err := auth.DefaultStore()
		if err != nil {
			ui.Fail(opt.Stderr, "auth: "+err.Error())
			return 1
		}
		store = s
	}
	switch a[0] {
	case "login":
		return doAuthLogin(store, opt)
	case "logout":
		return doAuthLogout(store, opt)
	case "status":
		return doAuthStatus(store, opt)
	}
	ui.Fail(opt.Stderr, "usage: posts auth <login|logout|status>")
	return 2
}

func doAuthLogin(store *auth.Store, opt Options) int {
	fmt.Fprint(opt.Stdout, "Paste your token: ")
	line, err := bufio.NewReader(opt.Stdin).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		ui.Fail(opt.Stderr, "read token: "+err.Error())
		return 1
	}
	if err := store.Set(line); err != nil {
		ui.Fail(opt.Stderr, "save token: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, "logged in")
	return 0
}

func doAuthLogout(store *auth.Store, opt Options) int {
	ti, _ := store.Get()
	if ti != nil && ti.Source == "env" {
		ui.OK(opt.Stdout, "token is provided by "+auth.EnvVar+" env var (nothing to delete)")
		return 0
	}
	if err := store.Delete(); err != nil {
		ui.Fail(opt.Stderr, "logout: "+err.Error())
		return 1
	}
	ui.OK(opt.Stdout, "logged out")
	return 0
}

func doAuthStatus(store *auth.Store, opt Options) int {
	ti, err := store.Get()
	if err != nil {
		ui.Fail(opt.Stderr, "auth: "+err.Error())
		return 1
	}
	if ti == nil || strings.TrimSpace(ti.Token) == "" {
		fmt.Fprintln(opt.Stdout, ui.Current().Muted.Render("not logged in"))
		fmt.Fprintln(opt.Stdout, "Run: posts auth login")
		return 0
	}
	fmt.Fprintf(opt.Stdout, "source: %s\n", ti.Source)
	if !ti.CreatedAt.IsZero() {
		fmt.Fprintf(opt.Stdout, "saved: %s\n", ti.CreatedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(opt.Stdout, "env override: "+auth.EnvVar)
	return 0
}
