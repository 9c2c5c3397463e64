package manager

import (
	"context"
	"image"

	"segd/pkg/types"
)

// ModelSpec is the fixed (checkpoint, variant, device) triple a predictor is
// built from, plus runtime knobs.
type ModelSpec struct {
	Checkpoint types.Checkpoint
	Device     Device
	// RuntimeLib is the onnxruntime shared library path.
	RuntimeLib string
	NumThreads int
}

// PredictorFactory constructs the segmentation collaborator. Load is called at
// most once per successful initialization.
type PredictorFactory interface {
	Load(ctx context.Context, spec ModelSpec) (Predictor, error)
}

// Predictor is the pretrained segmentation model. SetImage binds the image the
// following Predict calls run against; callers serialize access.
type Predictor interface {
	SetImage(img image.Image) error
	// Predict returns candidate masks at the bound image's size, one score per
	// mask and the low-resolution mask logits.
	Predict(points []types.Point, labels []Label, multimask bool) (masks []Mask, scores []float32, logits [][]float32, err error)
	Close() error
}

// ImageDecoder loads an image from a server-local path.
type ImageDecoder interface {
	Decode(path string) (image.Image, error)
}

// PredictorFactoryFunc adapts a function to PredictorFactory.
type PredictorFactoryFunc func(ctx context.Context, spec ModelSpec) (Predictor, error)

func (f PredictorFactoryFunc) Load(ctx context.Context, spec ModelSpec) (Predictor, error) {
	return f(ctx, spec)
}
