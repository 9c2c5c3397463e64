package types

// SegmentRequest is the POST /segment payload.
type SegmentRequest struct {
	// Server-local path of the image to segment.
	// example: /data/images/slice-01.png
	Filename string `json:"filename" example:"/data/images/slice-01.png"`
	// Prompt points, each [x, y] in image pixels. All points are treated as foreground.
	Points []Point `json:"points"`
}

// SegmentResponse documents the successful POST /segment body. The server writes it
// through the numeric encoder, not by marshaling this struct.
type SegmentResponse struct {
	// Candidate masks, each a height x width grid of booleans.
	Masks [][][]bool `json:"masks"`
	// One confidence score per mask.
	// example: [0.91,0.62,0.35]
	Scores []float64 `json:"scores" example:"0.91,0.62,0.35"`
	// Always true for a successful segmentation.
	// example: true
	Success bool `json:"success" example:"true"`
}

// InitResponse is returned by GET /init.
type InitResponse struct {
	// example: true
	Success bool `json:"success" example:"true"`
	// True when the predictor was already loaded and no work was done.
	// example: false
	AlreadyInitialized bool `json:"alreadyInitialized" example:"false"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Always false.
	// example: false
	Success bool `json:"success" example:"false"`
	// Error message.
	// example: predictor is not initialized
	Error string `json:"error" example:"predictor is not initialized"`
	// HTTP status code. Omitted on the legacy not-initialized response.
	// example: 400
	Code int `json:"code,omitempty" example:"400"`
}

// CacheStats summarizes the single-slot result cache.
type CacheStats struct {
	// example: false
	Enabled bool `json:"enabled" example:"false"`
	// Whether a body is currently stored.
	// example: false
	Filled bool `json:"filled" example:"false"`
	// example: 0
	Hits uint64 `json:"hits" example:"0"`
	// example: 0
	Misses uint64 `json:"misses" example:"0"`
	// example: 0
	Stores uint64 `json:"stores" example:"0"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Random id assigned when the process starts.
	// example: 3f2c9a4e-8d1b-4c7a-9e0f-5b6d7c8e9f01
	SessionID string `json:"session_id" example:"3f2c9a4e-8d1b-4c7a-9e0f-5b6d7c8e9f01"`
	// Session state: uninitialized, loading, ready or error.
	// example: ready
	State string `json:"state" example:"ready"`
	// Requested device: auto, cpu or cuda.
	// example: auto
	Device string `json:"device" example:"auto"`
	// Device the predictor was loaded on (empty until initialized).
	// example: cpu
	ResolvedDevice string `json:"resolved_device,omitempty" example:"cpu"`
	// Checkpoint the session loads.
	Checkpoint Checkpoint `json:"checkpoint"`
	// Result cache counters.
	Cache CacheStats `json:"cache"`
	// Number of segmentations currently running (0 or 1).
	// example: 0
	Inflight int `json:"inflight" example:"0"`
	// Total predictor constructions.
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
	// Total completed segmentations (cache hits excluded).
	// example: 12
	SegmentsTotal uint64 `json:"segments_total" example:"12"`
	// Last error observed by the manager (if any).
	LastError string `json:"last_error,omitempty"`
	// Most recent session events, oldest first.
	RecentEvents []EventRecord `json:"recent_events"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// EventRecord is one session lifecycle event as reported by GET /status.
type EventRecord struct {
	// example: init_ready
	Name string `json:"name" example:"init_ready"`
	// example: 1700000000000
	TimeUnixMs int64 `json:"time_unix_ms" example:"1700000000000"`
	// Event details, e.g. dur_ms or error.
	Fields map[string]any `json:"fields,omitempty"`
}

// SanityReport describes runtime checks for the model collaborator.
type SanityReport struct {
	// Whether this binary was built with the ONNX runtime (build tag onnx).
	// example: true
	RuntimeBuilt bool `json:"runtime_built" example:"true"`
	// ONNX Runtime shared library path and whether it exists.
	RuntimeLib      string `json:"runtime_lib,omitempty"`
	RuntimeLibFound bool   `json:"runtime_lib_found"`
	// Checkpoint files and whether both exist.
	Checkpoint      Checkpoint `json:"checkpoint"`
	CheckpointFound bool       `json:"checkpoint_found"`
	// Complete checkpoints found under the weights directory.
	// example: ["default","sam2-hiera-tiny"]
	AvailableVariants []string `json:"available_variants,omitempty"`
	// Device detection would pick for device=auto.
	// example: cpu
	DetectedDevice string `json:"detected_device,omitempty" example:"cpu"`
	Error          string `json:"error,omitempty"`
}
