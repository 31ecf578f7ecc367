package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/idilsaglam/posts/internal/auth"
	"github.com/idilsaglam/posts/internal/cli"
	"github.com/idilsaglam/posts/internal/config"
	"github.com/idilsaglam/posts/internal/ui"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	// Root flags (apply to every subcommand) override the environment.
	source := flag.String("source", cfg.Source.Kind, "post source: remote or static")
	url := flag.String("url", cfg.Source.URL, "remote endpoint")
	data := flag.String("data", cfg.Source.DataFile, "JSON file served by the static source")
	theme := flag.String("theme", cfg.Theme, "classic, neon or mono")
	logFormat := flag.String("log-format", cfg.Log.Format, "text or json")
	logFile := flag.String("log-file", cfg.Log.File, "write logs to this file")
	flag.Usage = func() { cli.PrintHelp(os.Stderr) }
	flag.Parse()

	ui.SetTheme(*theme)

	store, err := auth.DefaultStore()
	if err != nil {
		ui.Fail(os.Stderr, "auth: "+err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Hand the remaining args to the CLI runner.
	code := cli.Run(ctx, flag.Args(), cli.Options{
		Source:      *source,
		URL:         *url,
		DataFile:    *data,
		Timeout:     cfg.Source.Timeout,
		FixtureAddr: cfg.FixtureAddr,
		LogFormat:   *logFormat,
		LogFile:     *logFile,
		Auth:        store,
	})
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
