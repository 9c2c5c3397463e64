package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Defaults for unset fields.
const (
	DefaultAddr         = ":8080"
	DefaultWeightsDir   = "./sam2_weights"
	DefaultModelVariant = "default"
	DefaultDevice       = "auto"
	DefaultMaxBodyBytes = 1 << 20
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
)

// WithDefaults returns cfg with every unset field filled in.
func (cfg Config) WithDefaults() Config {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.WeightsDir == "" {
		cfg.WeightsDir = DefaultWeightsDir
	}
	if cfg.ModelVariant == "" {
		cfg.ModelVariant = DefaultModelVariant
	}
	if cfg.Device == "" {
		cfg.Device = DefaultDevice
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"*"}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	return cfg
}

// ApplyEnv overrides fields from SEGD_* environment variables. lookup is
// normally os.LookupEnv.
func (cfg Config) ApplyEnv(lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("SEGD_ADDR", &cfg.Addr)
	str("SEGD_WEIGHTS_DIR", &cfg.WeightsDir)
	str("SEGD_MODEL_VARIANT", &cfg.ModelVariant)
	str("SEGD_DEVICE", &cfg.Device)
	str("SEGD_ONNX_RUNTIME_LIB", &cfg.ONNXRuntimeLib)
	str("SEGD_LOG_LEVEL", &cfg.LogLevel)
	str("SEGD_LOG_FORMAT", &cfg.LogFormat)

	if v, ok := lookup("SEGD_NUM_THREADS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("SEGD_NUM_THREADS: %w", err)
		}
		cfg.NumThreads = n
	}
	if v, ok := lookup("SEGD_MAX_BODY_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SEGD_MAX_BODY_BYTES: %w", err)
		}
		cfg.MaxBodyBytes = n
	}
	if v, ok := lookup("SEGD_SEGMENT_TIMEOUT_SECONDS"); ok && v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("SEGD_SEGMENT_TIMEOUT_SECONDS: %w", err)
		}
		cfg.SegmentTimeoutSeconds = n
	}
	for key, dst := range map[string]*bool{
		"SEGD_CACHE_ENABLED": &cfg.CacheEnabled,
		"SEGD_STRICT_STATUS": &cfg.StrictStatus,
	} {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return cfg, fmt.Errorf("%s: %w", key, err)
			}
			*dst = b
		}
	}
	if v, ok := lookup("SEGD_CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = SplitCSV(v)
	}
	return cfg, nil
}

// Validate rejects values the service cannot run with.
func (cfg Config) Validate() error {
	switch strings.ToLower(cfg.Device) {
	case "auto", "cpu", "cuda":
	default:
		return fmt.Errorf("device must be auto, cpu or cuda, got %q", cfg.Device)
	}
	if cfg.NumThreads < 0 {
		return fmt.Errorf("num_threads must be >= 0")
	}
	if cfg.SegmentTimeoutSeconds < 0 {
		return fmt.Errorf("segment_timeout_seconds must be >= 0")
	}
	switch cfg.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("log_format must be console or json, got %q", cfg.LogFormat)
	}
	return nil
}

// SplitCSV splits a comma-separated list, trimming blanks and dropping empties.
func SplitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
