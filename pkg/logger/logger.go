// backend-go/pkg/logger/logger.go
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const service = "stockroom"

// Log is shared by the server and the command line tools. It starts as a
// console logger so that config loading can already report problems.
var Log = New(os.Stdout, Options{Mode: "debug", Level: "info"})

// Options selects the output format and level. Component names the binary
// (server, seed, report) and is attached to every line when set.
type Options struct {
	Mode      string
	Level     string
	Component string
}

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = Log
}

// New builds a logger writing to w. Debug mode renders a human readable
// console line with the caller; any other mode writes JSON lines. An empty
// level follows the mode: debug in debug mode, info otherwise.
func New(w io.Writer, opts Options) zerolog.Logger {
	out := w
	if opts.Mode == "debug" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05"}
	}

	ctx := zerolog.New(out).With().Timestamp().Str("service", service)
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	if opts.Mode == "debug" {
		ctx = ctx.Caller()
	}
	return ctx.Logger().Level(parseLevel(opts.Level, opts.Mode))
}

// Setup replaces the shared logger, including the zerolog/log global used by
// the HTTP middleware.
func Setup(opts Options) {
	Log = New(os.Stdout, opts)
	log.Logger = Log
	if opts.Level != "" {
		if _, err := zerolog.ParseLevel(opts.Level); err != nil {
			Log.Warn().Str("level", opts.Level).Msg("invalid log level, using the mode default")
		}
	}
}

func parseLevel(level, mode string) zerolog.Level {
	if l, err := zerolog.ParseLevel(level); err == nil && level != "" {
		return l
	}
	if mode == "debug" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
