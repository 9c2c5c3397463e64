package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified"; Defaults fills them in.
type Config struct {
	Addr                  string   `json:"addr" yaml:"addr" toml:"addr"`
	WeightsDir            string   `json:"weights_dir" yaml:"weights_dir" toml:"weights_dir"`
	ModelVariant          string   `json:"model_variant" yaml:"model_variant" toml:"model_variant"`
	Device                string   `json:"device" yaml:"device" toml:"device"`
	ONNXRuntimeLib        string   `json:"onnx_runtime_lib" yaml:"onnx_runtime_lib" toml:"onnx_runtime_lib"`
	NumThreads            int      `json:"num_threads" yaml:"num_threads" toml:"num_threads"`
	CacheEnabled          bool     `json:"cache_enabled" yaml:"cache_enabled" toml:"cache_enabled"`
	StrictStatus          bool     `json:"strict_status" yaml:"strict_status" toml:"strict_status"`
	MaxBodyBytes          int64    `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	SegmentTimeoutSeconds int64    `json:"segment_timeout_seconds" yaml:"segment_timeout_seconds" toml:"segment_timeout_seconds"`
	CORSOrigins           []string `json:"cors_origins" yaml:"cors_origins" toml:"cors_origins"`
	LogLevel              string   `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFormat             string   `json:"log_format" yaml:"log_format" toml:"log_format"`
}

// Format is a supported config file syntax.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf picks the format from a file extension (.yaml/.yml, .json, .toml).
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported config extension: %s", ext)
	}
}

// ParseFormat validates a format name given on the command line.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatYAML, FormatJSON, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config format: %q", s)
	}
}

// Load reads a configuration file, choosing the decoder by extension.
func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("empty config path")
	}
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Decode(b, format)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses b in the given format.
func Decode(b []byte, format Format) (Config, error) {
	var cfg Config
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(b, &cfg)
	case FormatJSON:
		err = json.Unmarshal(b, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(b, &cfg)
	default:
		err = fmt.Errorf("unsupported config format: %q", format)
	}
	return cfg, err
}

// Encode writes cfg in the given format, using the same keys Decode reads.
func Encode(w io.Writer, cfg Config, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(cfg)
	default:
		return fmt.Errorf("unsupported config format: %q", format)
	}
}
