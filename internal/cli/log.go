// Package cli implements the tether command-line interface.
//
// # Commands
//
//   - place: run the placement engine once and print the result
//   - tips: list, clear, export and import stored tips
//   - serve: expose a store over HTTP
//   - demo: interactive terminal demo
//   - script: replay a JSON interaction script against a fresh store
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context together with the loaded configuration.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/phanxgames/tether"
)

// newLogger creates a logger writing to w at the given level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          "tether",
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or the tether logger when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return tether.Logger()
}

func withConfig(ctx context.Context, cfg *tether.FileConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the loaded configuration, or the defaults.
func configFromContext(ctx context.Context) *tether.FileConfig {
	if cfg, ok := ctx.Value(configKey).(*tether.FileConfig); ok {
		return cfg
	}
	return tether.DefaultFileConfig()
}
