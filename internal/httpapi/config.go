package httpapi

import "net/http"

// maxBodyBytes controls the maximum allowed request body size for POST /segment.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// segmentTimeout bounds a /segment request, including the wait for the
// in-flight slot. Zero means no timeout beyond server/connection timeouts.
var segmentTimeout = int64(0) // seconds

// SetSegmentTimeoutSeconds sets the segment timeout in seconds (0 disables).
func SetSegmentTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	segmentTimeout = sec
}

// strictStatus makes a not-initialized /segment answer 409 instead of 200.
var strictStatus bool

// SetStrictStatus toggles strict status codes for the not-initialized response.
func SetStrictStatus(on bool) { strictStatus = on }

// CORS configuration. All origins are allowed unless narrowed.
var (
	defaultCORSOrigins = []string{"*"}
	defaultCORSMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	defaultCORSHeaders = []string{"Accept", "Content-Type", "X-Log-Level", "X-Request-Id"}

	corsAllowedOrigins = defaultCORSOrigins
	corsAllowedMethods = defaultCORSMethods
	corsAllowedHeaders = defaultCORSHeaders
)

// SetCORSOptions configures CORS behavior for the HTTP server. Empty lists keep the defaults.
func SetCORSOptions(origins, methods, headers []string) {
	corsAllowedOrigins = orDefault(origins, defaultCORSOrigins)
	corsAllowedMethods = orDefault(methods, defaultCORSMethods)
	corsAllowedHeaders = orDefault(headers, defaultCORSHeaders)
}

func orDefault(v, def []string) []string {
	if len(v) == 0 {
		return def
	}
	return append([]string(nil), v...)
}
