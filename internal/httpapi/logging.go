package httpapi

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the HTTP layer's structured logger; silent until SetLogger is called.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l.With().Str("component", "httpapi").Logger() }

func logger() *zerolog.Logger { return &zlog }

// parseLevel maps a request or env log level onto a zerolog threshold.
// "off" and "" disable request logging, "1" means debug and anything
// unrecognized falls back to info.
func parseLevel(s string) zerolog.Level {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "", "off", "none":
		return zerolog.Disabled
	case "1":
		return zerolog.DebugLevel
	}
	if lvl, err := zerolog.ParseLevel(s); err == nil && lvl != zerolog.NoLevel {
		return lvl
	}
	return zerolog.InfoLevel
}

// defaultLogLevel applies to requests without an override.
var defaultLogLevel = func() zerolog.Level {
	if v, ok := os.LookupEnv("SEGD_LOG_LEVEL"); ok {
		return parseLevel(v)
	}
	return zerolog.InfoLevel
}()

// SetDefaultLogLevel overrides the request log level used when a request
// carries no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// requestLogLevel picks the threshold for one request: ?log= beats
// X-Log-Level, which beats the process default.
func requestLogLevel(r *http.Request) zerolog.Level {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// logs reports whether a request at threshold lvl emits events at want.
func logs(lvl, want zerolog.Level) bool {
	return lvl != zerolog.Disabled && want >= lvl
}

// logEnd logs the outcome of a request: 5xx at error, everything else at info.
func logEnd(r *http.Request, lvl zerolog.Level, msg string, status int, start time.Time, err error) {
	at := zerolog.InfoLevel
	if err != nil && status >= http.StatusInternalServerError {
		at = zerolog.ErrorLevel
	}
	if !logs(lvl, at) {
		return
	}
	ev := zlog.WithLevel(at).Str("path", r.URL.Path).Int("status", status).Dur("dur", time.Since(start))
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		ev = ev.Str("request_id", rid)
	}
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg(msg)
}
