package logging

import (
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Config controls the process-wide logger.
type Config struct {
	Level  string // debug, info, warn, error; default info
	Format string // json or console; default console
}

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger()

// Init configures the global logger from the given settings. Call once at
// startup, before anything logs.
func Init(cfg Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if strings.ToLower(strings.TrimSpace(cfg.Format)) != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}
	logger = zerolog.New(out).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Debug starts a debug-level event.
func Debug() *zerolog.Event { return logger.Debug() }

// Info starts an info-level event.
func Info() *zerolog.Event { return logger.Info() }

// Warn starts a warn-level event.
func Warn() *zerolog.Event { return logger.Warn() }

// Error starts an error-level event.
func Error() *zerolog.Event { return logger.Error() }

// Fatal starts a fatal-level event; Msg exits the process.
func Fatal() *zerolog.Event { return logger.Fatal() }

// RequestLogger emits one structured line per HTTP request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
