package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nweights_dir: /w\nmodel_variant: tiny\ndevice: cpu\ncache_enabled: true\ncors_origins: [\"http://a\", \"http://b\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.WeightsDir != "/w" || cfg.ModelVariant != "tiny" || cfg.Device != "cpu" || !cfg.CacheEnabled {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","weights_dir":"/m","num_threads":4,"strict_status":true,"max_body_bytes":2048}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.WeightsDir != "/m" || cfg.NumThreads != 4 || !cfg.StrictStatus || cfg.MaxBodyBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nweights_dir=\"/x\"\nonnx_runtime_lib=\"/lib/libonnxruntime.so\"\nsegment_timeout_seconds=30\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.WeightsDir != "/x" || cfg.ONNXRuntimeLib != "/lib/libonnxruntime.so" || cfg.SegmentTimeoutSeconds != 30 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.Addr != DefaultAddr || cfg.WeightsDir != DefaultWeightsDir || cfg.ModelVariant != DefaultModelVariant || cfg.Device != DefaultDevice {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.CacheEnabled {
		t.Fatalf("cache must be off by default")
	}
	if cfg.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Fatalf("max body bytes=%d", cfg.MaxBodyBytes)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors origins=%v", cfg.CORSOrigins)
	}
	// explicit values survive
	kept := Config{Addr: ":1", Device: "cuda"}.WithDefaults()
	if kept.Addr != ":1" || kept.Device != "cuda" {
		t.Fatalf("explicit values overwritten: %+v", kept)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"SEGD_ADDR":                    ":9000",
		"SEGD_DEVICE":                  "cpu",
		"SEGD_CACHE_ENABLED":           "true",
		"SEGD_NUM_THREADS":             "2",
		"SEGD_SEGMENT_TIMEOUT_SECONDS": "15",
		"SEGD_CORS_ORIGINS":            "http://a, http://b,",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	cfg, err := Config{Addr: ":1"}.ApplyEnv(lookup)
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.Device != "cpu" || !cfg.CacheEnabled || cfg.NumThreads != 2 || cfg.SegmentTimeoutSeconds != 15 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "http://a" || cfg.CORSOrigins[1] != "http://b" {
		t.Fatalf("cors origins=%v", cfg.CORSOrigins)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	for _, key := range []string{"SEGD_NUM_THREADS", "SEGD_CACHE_ENABLED", "SEGD_MAX_BODY_BYTES"} {
		lookup := func(k string) (string, bool) {
			if k == key {
				return "nope", true
			}
			return "", false
		}
		if _, err := (Config{}).ApplyEnv(lookup); err == nil {
			t.Fatalf("%s: expected parse error", key)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{Device: "auto"}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	bad := []Config{
		{Device: "tpu"},
		{Device: "cpu", NumThreads: -1},
		{Device: "cpu", SegmentTimeoutSeconds: -5},
		{Device: "cpu", LogFormat: "xml"},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", c)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := SplitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}
