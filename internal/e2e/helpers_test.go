package e2e

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"segd/internal/httpapi"
	"segd/internal/manager"
	"segd/pkg/types"
)

// writePNG writes a blank w x h PNG into a temp dir and returns its path.
func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "slice.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return p
}

// stubPredictor returns two masks the size of the bound image: the column of
// the first prompt point, and its complement.
type stubPredictor struct {
	mu     sync.Mutex
	bounds image.Rectangle
	delay  time.Duration
	// When hold is set, Predict signals entered and blocks until hold closes.
	hold    chan struct{}
	entered chan struct{}

	predicts    atomic.Int32
	inflight    atomic.Int32
	maxInflight atomic.Int32
}

func (p *stubPredictor) SetImage(img image.Image) error {
	p.mu.Lock()
	p.bounds = img.Bounds()
	p.mu.Unlock()
	return nil
}

func (p *stubPredictor) Predict(points []types.Point, labels []manager.Label, multimask bool) ([]manager.Mask, []float32, [][]float32, error) {
	n := p.inflight.Add(1)
	defer p.inflight.Add(-1)
	if n > p.maxInflight.Load() {
		p.maxInflight.Store(n)
	}
	p.predicts.Add(1)
	if p.hold != nil {
		select {
		case p.entered <- struct{}{}:
		default:
		}
		<-p.hold
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	p.mu.Lock()
	w, h := p.bounds.Dx(), p.bounds.Dy()
	p.mu.Unlock()
	col := int(points[0].X)
	hit := manager.Mask{Width: w, Height: h, Data: make([]bool, w*h)}
	miss := manager.Mask{Width: w, Height: h, Data: make([]bool, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hit.Data[y*w+x] = x == col
			miss.Data[y*w+x] = x != col
		}
	}
	return []manager.Mask{hit, miss}, []float32{0.9, 0.5}, nil, nil
}

func (p *stubPredictor) Close() error { return nil }

func stubFactory(p *stubPredictor, loads *atomic.Int32) manager.PredictorFactory {
	return manager.PredictorFactoryFunc(func(ctx context.Context, spec manager.ModelSpec) (manager.Predictor, error) {
		loads.Add(1)
		return p, nil
	})
}

func newServer(t *testing.T, cfg manager.ManagerConfig) (*httptest.Server, *manager.Manager) {
	t.Helper()
	if cfg.Device == "" {
		cfg.Device = manager.DeviceCPU
	}
	mgr := manager.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { mgr.Close() })
	return srv, mgr
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

type postResult struct {
	status int
	body   []byte
	err    error
}

// postAsync sends a JSON POST from a goroutine; the result arrives on the
// returned channel.
func postAsync(url string, payload []byte) <-chan postResult {
	out := make(chan postResult, 1)
	go func() {
		resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
		if err != nil {
			out <- postResult{err: err}
			return
		}
		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		out <- postResult{status: resp.StatusCode, body: body, err: err}
	}()
	return out
}
