package oracleraw

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the logger used by DB. Local environments get a console
// writer, DEV / STAGE / PROD get plain JSON lines.
func NewLogger(w io.Writer, level string, environment string) *zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}

	var zLog zerolog.Logger
	if isLocalEnvironment(environment) {
		zLog = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
	} else {
		zLog = zerolog.New(w).With().Timestamp().Logger()
	}

	zLog = zLog.Level(parseLevel(level)).With().Str("component", "oracleraw").Logger()
	return &zLog
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

func isLocalEnvironment(env string) bool {
	switch strings.ToUpper(env) {
	case "DEV", "STAGE", "PROD":
		return false
	}
	return true
}

// orNop never hands back a nil logger
func orNop(log *zerolog.Logger) *zerolog.Logger {
	if log == nil {
		nop := zerolog.Nop()
		return &nop
	}
	return log
}
