//go:build !onnx

package manager

import "context"

const onnxBuilt = false

// DetectDevice always reports cpu without onnx support.
func DetectDevice(string) Device { return DeviceCPU }

type samFactory struct{}

// NewSAMFactory returns a factory that fails with DependencyUnavailable; build
// with -tags onnx for the real predictor.
func NewSAMFactory() PredictorFactory { return samFactory{} }

func (samFactory) Load(context.Context, ModelSpec) (Predictor, error) {
	return nil, ErrDependencyUnavailable("onnx support not built (missing 'onnx' build tag)")
}
