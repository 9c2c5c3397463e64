package manager

import (
	"errors"

	"segd/internal/common/fsutil"
	"segd/pkg/types"
)

// SanityCheck validates that the runtime library and checkpoint files are
// present. It does not load the predictor and is safe to call at any time.
func (m *Manager) SanityCheck() types.SanityReport {
	r := types.SanityReport{
		RuntimeBuilt:   onnxBuilt,
		RuntimeLib:     m.spec.RuntimeLib,
		Checkpoint:     m.spec.Checkpoint,
		DetectedDevice: string(m.spec.Device),
	}
	var errs []error
	if !onnxBuilt {
		errs = append(errs, errors.New("onnx support not built (missing 'onnx' build tag)"))
	}
	if m.spec.RuntimeLib != "" {
		if err := fsutil.RegularFile(m.spec.RuntimeLib); err != nil {
			errs = append(errs, err)
		} else {
			r.RuntimeLibFound = true
		}
	} else if onnxBuilt {
		errs = append(errs, errors.New("onnxruntime library path is empty"))
	}
	encErr := fsutil.RegularFile(m.spec.Checkpoint.EncoderPath)
	decErr := fsutil.RegularFile(m.spec.Checkpoint.DecoderPath)
	r.CheckpointFound = encErr == nil && decErr == nil
	errs = append(errs, encErr, decErr)
	if err := errors.Join(errs...); err != nil {
		r.Error = err.Error()
	}
	return r
}
