package config

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestLoad_RejectsMalformedFiles(t *testing.T) {
	cases := map[string]string{
		"bad.yaml": "addr: :8080\n: broken\n",
		"bad.yml":  "cors_origins: [unterminated\n",
		"bad.json": `{ "addr": ":8080", "weights_dir": }`,
		"bad.toml": "addr=:8080\nweights_dir\n",
		// well-formed but mistyped
		"typed.json": `{"num_threads":"four"}`,
		"typed.toml": "cache_enabled=\"yes\"\n",
	}
	d := t.TempDir()
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeTempFile(t, d, name, content)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}

// A config written in any supported format loads back to the same values.
func TestLoad_SameConfigInEveryFormat(t *testing.T) {
	want := Config{
		Addr:                  ":9090",
		WeightsDir:            "/srv/weights",
		ModelVariant:          "sam2-hiera-tiny",
		Device:                "cuda",
		ONNXRuntimeLib:        "/usr/lib/libonnxruntime.so",
		NumThreads:            8,
		CacheEnabled:          true,
		StrictStatus:          true,
		MaxBodyBytes:          4096,
		SegmentTimeoutSeconds: 20,
		CORSOrigins:           []string{"http://localhost:3000"},
		LogLevel:              "debug",
		LogFormat:             "json",
	}
	d := t.TempDir()
	for _, name := range []string{"cfg.yaml", "cfg.json", "cfg.toml"} {
		t.Run(name, func(t *testing.T) {
			format, err := FormatOf(name)
			if err != nil {
				t.Fatalf("format: %v", err)
			}
			var buf bytes.Buffer
			if err := Encode(&buf, want, format); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := Load(writeTempFile(t, d, name, buf.String()))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Addr != want.Addr || got.ModelVariant != want.ModelVariant || got.Device != want.Device ||
				got.ONNXRuntimeLib != want.ONNXRuntimeLib || got.NumThreads != want.NumThreads ||
				got.CacheEnabled != want.CacheEnabled || got.StrictStatus != want.StrictStatus ||
				got.MaxBodyBytes != want.MaxBodyBytes || got.SegmentTimeoutSeconds != want.SegmentTimeoutSeconds ||
				got.LogLevel != want.LogLevel || got.LogFormat != want.LogFormat {
				t.Fatalf("got %+v want %+v", got, want)
			}
			if len(got.CORSOrigins) != 1 || got.CORSOrigins[0] != want.CORSOrigins[0] {
				t.Fatalf("cors origins=%v", got.CORSOrigins)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"yaml": FormatYAML, "YML": FormatYAML, "json": FormatJSON, "toml": FormatTOML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("ini"); err == nil {
		t.Fatalf("expected error for ini")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, Config{}, Format("ini")); err == nil {
		t.Fatalf("expected encode error for ini")
	}
}
