package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"segd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Initialize(ctx context.Context) (types.InitResponse, error)
	SegmentJSON(ctx context.Context, req types.SegmentRequest) ([]byte, error)
	// CachedResult returns the replayable /segment body, if any.
	CachedResult() ([]byte, bool)
	Ready() bool
	Status() types.StatusResponse
}

const helloBody = "<p>Hello, World!</p>"

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(cors.Handler(corsOptions()))
	// Compression for JSON endpoints; masks are large and very repetitive
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	h := &handlers{svc: svc}
	r.Get("/", h.hello)
	r.Get("/init", h.initModel)
	r.Post("/segment", h.segment)
	r.Get("/status", h.status)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

func corsOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: corsAllowedMethods,
		AllowedHeaders: corsAllowedHeaders,
		MaxAge:         300,
	}
}

type handlers struct {
	svc Service
}

// hello godoc
// @Summary      Liveness
// @Produce      html
// @Success      200  {string}  string  "<p>Hello, World!</p>"
// @Router       / [get]
func (h *handlers) hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(helloBody))
}

// initModel godoc
// @Summary      Load the segmentation model
// @Description  Loads the predictor on first call. Later calls return alreadyInitialized=true without doing any work.
// @Produce      json
// @Success      200  {object}  types.InitResponse
// @Failure      500  {object}  types.ErrorResponse
// @Failure      503  {object}  types.ErrorResponse  "Runtime missing or server shutting down"
// @Router       /init [get]
func (h *handlers) initModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()

	resp, err := h.svc.Initialize(ctx)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		err = shutdownError(ctx, err)
		status := writeError(w, err)
		logEnd(r, lvl, "init end", status, start, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
	logEnd(r, lvl, "init end", http.StatusOK, start, nil)
}

// segment godoc
// @Summary      Segment an image
// @Description  Decodes the server-local image, prompts the model with the points (all foreground) and returns every candidate mask with its score.
// @Accept       json
// @Produce      json
// @Param        request  body      types.SegmentRequest  true  "Image path and prompt points"
// @Success      200      {object}  types.SegmentResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      409      {object}  types.ErrorResponse  "Not initialized (strict_status only; 200 otherwise)"
// @Failure      413      {object}  types.ErrorResponse  "Body larger than max_body_bytes"
// @Failure      415      {object}  types.ErrorResponse
// @Failure      422      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Failure      503      {object}  types.ErrorResponse  "Runtime missing or server shutting down"
// @Failure      504      {object}  types.ErrorResponse  "segment_timeout_seconds elapsed"
// @Router       /segment [post]
func (h *handlers) segment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)

	req, perr := decodeSegmentRequest(w, r)
	// Readiness, then the cache, then the body: an uninitialized predictor
	// wins over a malformed body, and a filled cache answers it.
	if perr != nil && h.svc.Ready() {
		if body, ok := h.svc.CachedResult(); ok {
			writeJSONBody(w, body)
			logEnd(r, lvl, "segment end", http.StatusOK, start, nil)
			return
		}
		status := writeError(w, perr)
		logEnd(r, lvl, "segment end", status, start, perr)
		return
	}
	if logs(lvl, zerolog.InfoLevel) && perr == nil {
		ev := logger().Info().Str("path", r.URL.Path).Str("filename", req.Filename).Int("points", len(req.Points))
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			ev = ev.Str("request_id", rid)
		}
		ev.Msg("segment start")
	}

	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if segmentTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(segmentTimeout)*time.Second)
		defer tcancel()
	}

	body, err := h.svc.SegmentJSON(ctx, req)
	if err != nil {
		// client gone: nobody to answer
		if r.Context().Err() != nil {
			return
		}
		err = shutdownError(ctx, err)
		status := writeError(w, err)
		logEnd(r, lvl, "segment end", status, start, err)
		return
	}
	writeJSONBody(w, body)
	if logs(lvl, zerolog.DebugLevel) {
		logger().Debug().Int("bytes", len(body)).Msg("segment body")
	}
	logEnd(r, lvl, "segment end", http.StatusOK, start, nil)
}

// status godoc
// @Summary      Session status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Router       /status [get]
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status())
}

func decodeSegmentRequest(w http.ResponseWriter, r *http.Request) (types.SegmentRequest, error) {
	var req types.SegmentRequest
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		return req, statusError{status: http.StatusUnsupportedMediaType, msg: "Content-Type must be application/json"}
	}
	// Limit body size (configurable, default 1MiB)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return types.SegmentRequest{}, statusError{status: http.StatusRequestEntityTooLarge, msg: "request body too large"}
		}
		return types.SegmentRequest{}, statusError{status: http.StatusBadRequest, msg: "invalid JSON body"}
	}
	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger().Error().Err(err).Msg("encode response")
	}
}

// writeJSONBody writes an already encoded 200 JSON body.
func writeJSONBody(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
