package manager

import (
	"context"
	"errors"
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"segd/pkg/types"
)

// fakePredictor returns a fixed result and records how it was used.
type fakePredictor struct {
	masks  []Mask
	scores []float32

	setErr     error
	predictErr error
	delay      time.Duration

	setCalls     atomic.Int32
	predictCalls atomic.Int32
	closeCalls   atomic.Int32

	inflight    atomic.Int32
	maxInflight atomic.Int32

	mu         sync.Mutex
	lastPoints []types.Point
	lastLabels []Label
	lastMulti  bool
}

func (p *fakePredictor) enter() func() {
	n := p.inflight.Add(1)
	for {
		cur := p.maxInflight.Load()
		if n <= cur || p.maxInflight.CompareAndSwap(cur, n) {
			break
		}
	}
	return func() { p.inflight.Add(-1) }
}

func (p *fakePredictor) SetImage(image.Image) error {
	defer p.enter()()
	p.setCalls.Add(1)
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	return p.setErr
}

func (p *fakePredictor) Predict(points []types.Point, labels []Label, multimask bool) ([]Mask, []float32, [][]float32, error) {
	defer p.enter()()
	p.predictCalls.Add(1)
	p.mu.Lock()
	p.lastPoints = append([]types.Point(nil), points...)
	p.lastLabels = append([]Label(nil), labels...)
	p.lastMulti = multimask
	p.mu.Unlock()
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.predictErr != nil {
		return nil, nil, nil, p.predictErr
	}
	return p.masks, p.scores, nil, nil
}

func (p *fakePredictor) Close() error {
	p.closeCalls.Add(1)
	return nil
}

// fakeFactory hands out one predictor and counts constructions.
type fakeFactory struct {
	pred  *fakePredictor
	err   error
	delay time.Duration
	loads atomic.Int32
	spec  atomic.Pointer[ModelSpec]
}

func (f *fakeFactory) Load(ctx context.Context, spec ModelSpec) (Predictor, error) {
	f.loads.Add(1)
	f.spec.Store(&spec)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.pred == nil {
		// an untyped nil, not a nil *fakePredictor wrapped in Predictor
		return nil, nil
	}
	return f.pred, nil
}

// fakeDecoder returns a small blank image.
type fakeDecoder struct {
	err   error
	calls atomic.Int32
}

func (d *fakeDecoder) Decode(string) (image.Image, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, d.err
	}
	return image.NewRGBA(image.Rect(0, 0, 2, 1)), nil
}

// fixedPrediction is two 2x1 masks scored 0.9 and 0.5.
func fixedPredictor() *fakePredictor {
	return &fakePredictor{
		masks: []Mask{
			{Width: 2, Height: 1, Data: []bool{true, false}},
			{Width: 2, Height: 1, Data: []bool{false, true}},
		},
		scores: []float32{0.9, 0.5},
	}
}

const fixedBody = `{"masks":[[[true,false]],[[false,true]]],"scores":[0.9,0.5],"success":true}`

type testSession struct {
	m   *Manager
	f   *fakeFactory
	p   *fakePredictor
	d   *fakeDecoder
	pub *EventRing
}

func newTestSession(t *testing.T, cacheEnabled bool) *testSession {
	t.Helper()
	p := fixedPredictor()
	f := &fakeFactory{pred: p}
	d := &fakeDecoder{}
	pub := NewEventRing(64)
	m := NewWithConfig(ManagerConfig{
		Checkpoint:   types.Checkpoint{Variant: "default", EncoderPath: "enc.onnx", DecoderPath: "dec.onnx"},
		Device:       DeviceCPU,
		CacheEnabled: cacheEnabled,
		Factory:      f,
		Decoder:      d,
		Publisher:    pub,
	})
	return &testSession{m: m, f: f, p: p, d: d, pub: pub}
}

func (s *testSession) init(t *testing.T) {
	t.Helper()
	if _, err := s.m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
}

func request(name string, pts ...types.Point) types.SegmentRequest {
	if len(pts) == 0 {
		pts = []types.Point{{X: 10, Y: 20}}
	}
	return types.SegmentRequest{Filename: name, Points: pts}
}

var errBoom = errors.New("boom")
