package logging

import (
	"errors"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

const (
	// JSONFormat represents JSON logging mode.
	JSONFormat = "json"
	// TextFormat represents console logging mode. It is the default.
	TextFormat = "text"
)

// Setup builds a logr.Logger backed by zap. Output goes to path, or to
// stderr at warn level when path is empty. The returned func flushes
// buffered entries.
func Setup(format, path string) (logr.Logger, func(), error) {
	var cfg zap.Config
	switch format {
	case TextFormat, "":
		cfg = zap.NewDevelopmentConfig()
	case JSONFormat:
		cfg = zap.NewProductionConfig()
	default:
		return logr.Discard(), func() {}, errors.New("log format not recognized, pass `text` for text mode or `json` to enable JSON logging")
	}

	// stderr is shared with command output; keep it to warnings and errors.
	out := "stderr"
	if path != "" {
		out = path
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{out}
	cfg.DisableStacktrace = true

	zapLog, err := cfg.Build()
	if err != nil {
		return logr.Discard(), func() {}, err
	}
	return zapr.NewLogger(zapLog), func() { _ = zapLog.Sync() }, nil
}

// Interactive returns the logger for the full-screen program. Without a
// log file it discards everything so nothing is written over the UI.
func Interactive(format, path string) (logr.Logger, func(), error) {
	if path == "" {
		return logr.Discard(), func() {}, nil
	}
	return Setup(format, path)
}
