package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"segd/internal/common/fsutil"
	"segd/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "segd",
		Short:         "Segment Anything over HTTP",
		Long:          "segd serves a pretrained Segment Anything model: GET /init loads it, POST /segment returns candidate masks for point prompts.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.HiddenDefaultCmd = true

	pflags := root.PersistentFlags()
	pflags.String("config", "", "Path to a config file (.yaml, .yml, .json, .toml)")
	pflags.String("env-file", ".env", "Path to an optional env file loaded before SEGD_* variables are read")
	pflags.String("addr", "", "HTTP listen address, e.g. :8080")
	pflags.String("weights-dir", "", "Directory holding the SAM ONNX checkpoint(s)")
	pflags.String("model-variant", "", "Checkpoint variant; 'default' uses weights-dir itself")
	pflags.String("device", "", "Compute device: auto, cpu or cuda")
	pflags.String("onnx-runtime-lib", "", "Path to the onnxruntime shared library")
	pflags.Int("num-threads", 0, "Intra-op threads for ONNX Runtime (0 = runtime default)")
	pflags.Bool("cache", false, "Replay the last successful /segment body for every request (development only)")
	pflags.Bool("strict-status", false, "Answer 409 instead of 200 when /segment runs before /init")
	pflags.Int64("max-body-bytes", 0, "Maximum /segment request body size in bytes")
	pflags.Int64("segment-timeout", 0, "Per-request /segment timeout in seconds (0 = none)")
	pflags.String("cors-origins", "", "Comma-separated allowed CORS origins (default *)")
	pflags.String("log-level", "", "Log level: debug, info, warn, error")
	pflags.String("log-format", "", "Log format: console or json")

	root.AddCommand(newServeCmd(), newSanityCmd(), newConfigCmd(), newVersionCmd())
	return root
}

// loadConfig resolves the effective configuration:
// defaults < config file < env (including the env file) < flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()
	if raw, _ := flags.GetString("env-file"); raw != "" {
		envFile, err := fsutil.ExpandHome(raw)
		if err != nil {
			return config.Config{}, err
		}
		if fsutil.FileExists(envFile) {
			if err := godotenv.Load(envFile); err != nil {
				return config.Config{}, fmt.Errorf("load env file: %w", err)
			}
		} else if flags.Changed("env-file") {
			return config.Config{}, fmt.Errorf("env file %s not found", envFile)
		}
	}

	var cfg config.Config
	path, _ := flags.GetString("config")
	if path == "" {
		path = os.Getenv("SEGD_CONFIG")
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg, err := cfg.ApplyEnv(os.LookupEnv)
	if err != nil {
		return cfg, err
	}

	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("addr", &cfg.Addr)
	str("weights-dir", &cfg.WeightsDir)
	str("model-variant", &cfg.ModelVariant)
	str("device", &cfg.Device)
	str("onnx-runtime-lib", &cfg.ONNXRuntimeLib)
	str("log-level", &cfg.LogLevel)
	str("log-format", &cfg.LogFormat)
	if flags.Changed("num-threads") {
		cfg.NumThreads, _ = flags.GetInt("num-threads")
	}
	if flags.Changed("cache") {
		cfg.CacheEnabled, _ = flags.GetBool("cache")
	}
	if flags.Changed("strict-status") {
		cfg.StrictStatus, _ = flags.GetBool("strict-status")
	}
	if flags.Changed("max-body-bytes") {
		cfg.MaxBodyBytes, _ = flags.GetInt64("max-body-bytes")
	}
	if flags.Changed("segment-timeout") {
		cfg.SegmentTimeoutSeconds, _ = flags.GetInt64("segment-timeout")
	}
	if flags.Changed("cors-origins") {
		v, _ := flags.GetString("cors-origins")
		cfg.CORSOrigins = config.SplitCSV(v)
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
