// Package logger configures the global zerolog logger from shared CLI options.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds the logging options shared by every binary.
// Embed it in an option struct as a go-flags group.
type Logger struct {
	Level string `long:"log-level" env:"LOG_LEVEL" description:"Logging level" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	File  string `long:"log-file"  env:"LOG_FILE"  description:"Write logs to a file instead of stderr"`
	JSON  bool   `long:"log-json"  env:"LOG_JSON"  description:"Log in JSON format"`
}

// Setup applies the options to the global zerolog logger.
func (l *Logger) Setup() {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = os.Stderr
	if l.File != "" {
		f, ferr := os.OpenFile(l.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if ferr != nil {
			log.Error().Err(ferr).Str("path", l.File).Msg("Failed to open log file, falling back to stderr")
		} else {
			out = f
		}
	} else if !l.JSON {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
