package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"segd/internal/common/fsutil"
	"segd/pkg/types"
)

// DefaultVariant names the checkpoint stored directly in the weights directory.
const DefaultVariant = "default"

// File names of an exported SAM checkpoint: the image encoder and the prompt
// encoder + mask decoder.
const (
	EncoderFile = "vision_encoder.onnx"
	DecoderFile = "prompt_encoder_mask_decoder.onnx"
)

// Resolve maps a variant onto its encoder/decoder files under dir.
// The default variant lives in dir itself, any other in dir/<variant>.
// Both files must exist.
func Resolve(dir, variant string) (types.Checkpoint, error) {
	if variant == "" {
		variant = DefaultVariant
	}
	cp := Locate(dir, variant)
	for _, p := range []string{cp.EncoderPath, cp.DecoderPath} {
		if err := fsutil.RegularFile(p); err != nil {
			return cp, fmt.Errorf("checkpoint %q: %w", variant, err)
		}
	}
	return cp, nil
}

// Locate returns where Resolve would look, without checking the files.
func Locate(dir, variant string) types.Checkpoint {
	if variant == "" {
		variant = DefaultVariant
	}
	base := dir
	if expanded, err := fsutil.ExpandHome(dir); err == nil {
		base = expanded
	}
	if abs, err := filepath.Abs(base); err == nil {
		base = abs
	}
	if variant != DefaultVariant {
		base = filepath.Join(base, variant)
	}
	return types.Checkpoint{
		Variant:     variant,
		EncoderPath: filepath.Join(base, EncoderFile),
		DecoderPath: filepath.Join(base, DecoderFile),
	}
}

// LoadDir lists the complete checkpoints under dir: the default variant when
// dir holds both files, then every subdirectory that does, sorted by name.
func LoadDir(dir string) ([]types.Checkpoint, error) {
	base, err := fsutil.ExpandHome(dir)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("abs path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []types.Checkpoint
	if cp, err := Resolve(abs, DefaultVariant); err == nil {
		out = append(out, cp)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if cp, err := Resolve(abs, name); err == nil {
			out = append(out, cp)
		}
	}
	return out, nil
}
