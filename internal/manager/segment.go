package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"segd/internal/numenc"
	"segd/pkg/types"
)

// Segment decodes the image at filename, binds it into the predictor and
// predicts multiple candidate masks for points, all labeled foreground.
// It fails with ErrNotInitialized before Initialize, without touching the
// decoder or the predictor.
func (m *Manager) Segment(ctx context.Context, filename string, points []types.Point) (Prediction, error) {
	pred, err := m.readyPredictor()
	if err != nil {
		return Prediction{}, err
	}
	release, err := m.holdSlot(ctx)
	if err != nil {
		return Prediction{}, err
	}
	defer release()

	start := time.Now()
	defer func() { segmentDuration.Observe(time.Since(start).Seconds()) }()

	img, err := m.decoder.Decode(filename)
	if err != nil {
		return Prediction{}, ErrResourceLoad(ResourceImage, filename, err)
	}
	if err := pred.SetImage(img); err != nil {
		return Prediction{}, inferenceError{err: fmt.Errorf("set image: %w", err)}
	}
	labels := make([]Label, len(points))
	for i := range labels {
		labels[i] = LabelForeground
	}
	masks, scores, _, err := pred.Predict(points, labels, true)
	if err != nil {
		return Prediction{}, inferenceError{err: fmt.Errorf("predict: %w", err)}
	}
	if len(masks) != len(scores) {
		return Prediction{}, inferenceError{err: fmt.Errorf("predictor returned %d masks and %d scores", len(masks), len(scores))}
	}
	m.segmentsTotal.Add(1)
	return Prediction{Masks: masks, Scores: scores}, nil
}

// SegmentJSON serves POST /segment: readiness check, cache replay, Segment,
// encoding and cache store. A cache hit returns the stored body verbatim
// whatever req contains.
func (m *Manager) SegmentJSON(ctx context.Context, req types.SegmentRequest) (body []byte, err error) {
	start := time.Now()
	defer func() {
		segmentsTotal.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			m.setLastError(err)
		}
	}()

	if _, err := m.readyPredictor(); err != nil {
		return nil, err
	}
	if cached, ok := m.replay(); ok {
		return cached, nil
	}
	if err := validateSegmentRequest(req); err != nil {
		return nil, err
	}
	pred, err := m.Segment(ctx, req.Filename, req.Points)
	if err != nil {
		return nil, err
	}
	body, err = EncodePrediction(pred)
	if err != nil {
		return nil, err
	}
	m.cache.Put(body)
	m.emit("segment_done", map[string]any{
		"masks":  len(pred.Masks),
		"points": len(req.Points),
		"bytes":  len(body),
		"dur_ms": int(time.Since(start) / time.Millisecond),
	})
	return body, nil
}

// EncodePrediction writes {"masks","scores","success":true}, each mask as a
// Height x Width boolean grid.
func EncodePrediction(p Prediction) ([]byte, error) {
	masks := make([]numenc.Array, len(p.Masks))
	for i, mk := range p.Masks {
		masks[i] = numenc.NewArray(mk.Data, mk.Height, mk.Width)
	}
	scores := p.Scores
	if scores == nil {
		scores = []float32{}
	}
	return numenc.EncodeResult(masks, scores)
}

// CachedResult returns the stored /segment body when the session is ready and
// the cache holds one. It lets the HTTP layer replay the cache for requests it
// could not even parse.
func (m *Manager) CachedResult() ([]byte, bool) {
	if !m.Ready() {
		return nil, false
	}
	body, ok := m.replay()
	if ok {
		segmentsTotal.WithLabelValues(resultLabel(nil)).Inc()
	}
	return body, ok
}

func (m *Manager) replay() ([]byte, bool) {
	cached, ok := m.cache.Get()
	if !ok {
		return nil, false
	}
	cacheHitsTotal.Inc()
	m.emit("cache_hit", map[string]any{"bytes": len(cached)})
	return cached, true
}

func validateSegmentRequest(req types.SegmentRequest) error {
	if strings.TrimSpace(req.Filename) == "" {
		return ErrInvalidRequest("filename is required")
	}
	if len(req.Points) == 0 {
		return ErrInvalidRequest("at least one point is required")
	}
	return nil
}

func (m *Manager) setLastError(err error) {
	if IsNotInitialized(err) || IsInvalidRequest(err) {
		return
	}
	m.mu.Lock()
	m.err = err.Error()
	m.mu.Unlock()
}
