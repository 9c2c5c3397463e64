//go:build onnx

package manager

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"segd/internal/common/fsutil"
	"segd/pkg/types"
)

const onnxBuilt = true

var (
	envOnce sync.Once
	envErr  error
)

// initRuntime loads the onnxruntime shared library once per process.
func initRuntime(lib string) error {
	if lib == "" {
		return ErrDependencyUnavailable("onnxruntime library path is empty")
	}
	envOnce.Do(func() {
		ort.SetSharedLibraryPath(lib)
		envErr = ort.InitializeEnvironment()
	})
	if envErr != nil {
		return ErrDependencyUnavailable(fmt.Sprintf("initialize onnxruntime: %v", envErr))
	}
	return nil
}

func newSessionOptions(spec ModelSpec) (*ort.SessionOptions, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, err
	}
	if spec.NumThreads > 0 {
		if err := opts.SetIntraOpNumThreads(spec.NumThreads); err != nil {
			opts.Destroy()
			return nil, err
		}
	}
	if spec.Device == DeviceCUDA {
		cuda, err := ort.NewCUDAProviderOptions()
		if err != nil {
			opts.Destroy()
			return nil, fmt.Errorf("cuda provider options: %w", err)
		}
		defer cuda.Destroy()
		if err := opts.AppendExecutionProviderCUDA(cuda); err != nil {
			opts.Destroy()
			return nil, fmt.Errorf("append cuda provider: %w", err)
		}
	}
	return opts, nil
}

// DetectDevice reports cuda when the runtime accepts the CUDA execution
// provider, cpu otherwise.
func DetectDevice(lib string) Device {
	if err := initRuntime(lib); err != nil {
		return DeviceCPU
	}
	opts, err := newSessionOptions(ModelSpec{Device: DeviceCUDA})
	if err != nil {
		return DeviceCPU
	}
	opts.Destroy()
	return DeviceCUDA
}

type samFactory struct{}

// NewSAMFactory returns the factory for the ONNX export of SAM 2.
func NewSAMFactory() PredictorFactory { return samFactory{} }

func (samFactory) Load(ctx context.Context, spec ModelSpec) (Predictor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, p := range []string{spec.Checkpoint.EncoderPath, spec.Checkpoint.DecoderPath} {
		if err := fsutil.RegularFile(p); err != nil {
			return nil, err
		}
	}
	if err := initRuntime(spec.RuntimeLib); err != nil {
		return nil, err
	}
	opts, err := newSessionOptions(spec)
	if err != nil {
		return nil, err
	}
	defer opts.Destroy()

	enc, err := ort.NewDynamicAdvancedSession(spec.Checkpoint.EncoderPath,
		[]string{"pixel_values"},
		[]string{"image_embeddings.0", "image_embeddings.1", "image_embeddings.2"},
		opts)
	if err != nil {
		return nil, fmt.Errorf("encoder session: %w", err)
	}
	dec, err := ort.NewDynamicAdvancedSession(spec.Checkpoint.DecoderPath,
		[]string{"input_points", "input_labels", "input_boxes",
			"image_embeddings.0", "image_embeddings.1", "image_embeddings.2"},
		[]string{"iou_scores", "pred_masks", "object_score_logits"},
		opts)
	if err != nil {
		enc.Destroy()
		return nil, fmt.Errorf("decoder session: %w", err)
	}
	return &samPredictor{encoder: enc, decoder: dec}, nil
}

// samPredictor holds the two ONNX sessions and the embeddings of the bound image.
type samPredictor struct {
	encoder    *ort.DynamicAdvancedSession
	decoder    *ort.DynamicAdvancedSession
	embeddings []ort.Value
	frame      imageFrame
}

func (p *samPredictor) SetImage(img image.Image) error {
	p.releaseEmbeddings()
	data, frame := preprocess(img, samInputSize)
	in, err := ort.NewTensor(ort.NewShape(1, 3, samInputSize, samInputSize), data)
	if err != nil {
		return fmt.Errorf("pixel tensor: %w", err)
	}
	defer in.Destroy()
	out := make([]ort.Value, 3)
	if err := p.encoder.Run([]ort.Value{in}, out); err != nil {
		return fmt.Errorf("encoder run: %w", err)
	}
	p.embeddings = out
	p.frame = frame
	return nil
}

func (p *samPredictor) Predict(points []types.Point, labels []Label, multimask bool) ([]Mask, []float32, [][]float32, error) {
	if p.embeddings == nil {
		return nil, nil, nil, errors.New("no image bound")
	}
	if len(points) == 0 || len(points) != len(labels) {
		return nil, nil, nil, fmt.Errorf("need one label per point (points=%d labels=%d)", len(points), len(labels))
	}
	n := int64(len(points))
	lbl := make([]int64, len(labels))
	for i, l := range labels {
		lbl[i] = int64(l)
	}

	tPoints, err := ort.NewTensor(ort.NewShape(1, 1, n, 2), scalePoints(points, p.frame.scale))
	if err != nil {
		return nil, nil, nil, err
	}
	defer tPoints.Destroy()
	tLabels, err := ort.NewTensor(ort.NewShape(1, 1, n), lbl)
	if err != nil {
		return nil, nil, nil, err
	}
	defer tLabels.Destroy()
	tBoxes, err := ort.NewTensor(ort.NewShape(1, 0, 4), []float32{})
	if err != nil {
		return nil, nil, nil, err
	}
	defer tBoxes.Destroy()

	inputs := []ort.Value{tPoints, tLabels, tBoxes, p.embeddings[0], p.embeddings[1], p.embeddings[2]}
	outputs := make([]ort.Value, 3)
	if err := p.decoder.Run(inputs, outputs); err != nil {
		return nil, nil, nil, fmt.Errorf("decoder run: %w", err)
	}
	defer func() {
		for _, o := range outputs {
			if o != nil {
				o.Destroy()
			}
		}
	}()

	scoresT, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, nil, errors.New("unexpected iou_scores type")
	}
	masksT, ok := outputs[1].(*ort.Tensor[float32])
	if !ok {
		return nil, nil, nil, errors.New("unexpected pred_masks type")
	}
	rawScores := scoresT.GetData()
	rawMasks := masksT.GetData()
	plane := samLowResSize * samLowResSize
	if len(rawMasks) < len(rawScores)*plane {
		return nil, nil, nil, fmt.Errorf("pred_masks too short: %d values for %d scores", len(rawMasks), len(rawScores))
	}

	idx := make([]int, 0, len(rawScores))
	if multimask {
		for i := range rawScores {
			idx = append(idx, i)
		}
	} else if len(rawScores) > 0 {
		idx = append(idx, bestIndex(rawScores))
	}

	validW := int(float32(p.frame.newW) / 4)
	validH := int(float32(p.frame.newH) / 4)
	masks := make([]Mask, 0, len(idx))
	scores := make([]float32, 0, len(idx))
	logits := make([][]float32, 0, len(idx))
	for _, i := range idx {
		src := rawMasks[i*plane : (i+1)*plane]
		masks = append(masks, upscaleMask(src, samLowResSize, validW, validH, p.frame.origW, p.frame.origH))
		scores = append(scores, rawScores[i])
		logits = append(logits, append([]float32(nil), src...))
	}
	return masks, scores, logits, nil
}

func (p *samPredictor) releaseEmbeddings() {
	for _, v := range p.embeddings {
		if v != nil {
			v.Destroy()
		}
	}
	p.embeddings = nil
}

func (p *samPredictor) Close() error {
	p.releaseEmbeddings()
	var errs []error
	if p.encoder != nil {
		errs = append(errs, p.encoder.Destroy())
		p.encoder = nil
	}
	if p.decoder != nil {
		errs = append(errs, p.decoder.Destroy())
		p.decoder = nil
	}
	return errors.Join(errs...)
}
