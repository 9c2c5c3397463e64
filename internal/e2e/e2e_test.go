package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"segd/internal/httpapi"
	"segd/internal/manager"
	"segd/pkg/types"
)

func segmentPayload(filename string, points string) []byte {
	return []byte(fmt.Sprintf(`{"filename":%q,"points":%s}`, filename, points))
}

// TestE2E_FullFlow walks the documented client sequence against a real
// manager with a stub predictor.
func TestE2E_FullFlow(t *testing.T) {
	var loads atomic.Int32
	pred := &stubPredictor{}
	srv, _ := newServer(t, manager.ManagerConfig{Factory: stubFactory(pred, &loads)})
	img := writePNG(t, 2, 1)

	resp, body := httpGet(t, srv.URL+"/")
	if resp.StatusCode != http.StatusOK || string(body) != "<p>Hello, World!</p>" {
		t.Fatalf("GET / status=%d body=%q", resp.StatusCode, body)
	}

	resp, body = httpPostJSON(t, srv.URL+"/segment", segmentPayload(img, "[[0,0]]"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("segment before init status=%d", resp.StatusCode)
	}
	if got := strings.TrimSpace(string(body)); got != `{"success":false,"error":"predictor is not initialized"}` {
		t.Fatalf("segment before init body=%s", got)
	}
	if pred.predicts.Load() != 0 {
		t.Fatalf("predictor ran before init")
	}

	for i, wantAlready := range []bool{false, true} {
		resp, body = httpGet(t, srv.URL+"/init")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("init #%d status=%d", i, resp.StatusCode)
		}
		var ir types.InitResponse
		if err := json.Unmarshal(body, &ir); err != nil {
			t.Fatalf("init json: %v", err)
		}
		if !ir.Success || ir.AlreadyInitialized != wantAlready {
			t.Fatalf("init #%d: %+v", i, ir)
		}
	}
	if loads.Load() != 1 {
		t.Fatalf("expected one construction, got %d", loads.Load())
	}

	resp, body = httpPostJSON(t, srv.URL+"/segment", segmentPayload(img, "[[0,0]]"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("segment status=%d body=%s", resp.StatusCode, body)
	}
	want := `{"masks":[[[true,false]],[[false,true]]],"scores":[0.9,0.5],"success":true}`
	if string(body) != want {
		t.Fatalf("segment body:\n got %s\nwant %s", body, want)
	}

	resp, body = httpGet(t, srv.URL+"/status")
	var st types.StatusResponse
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("status json: %v", err)
	}
	if st.State != "ready" || st.SegmentsTotal != 1 || st.LoadsTotal != 1 || st.ResolvedDevice != "cpu" {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestE2E_MasksMatchImageSize(t *testing.T) {
	var loads atomic.Int32
	srv, mgr := newServer(t, manager.ManagerConfig{Factory: stubFactory(&stubPredictor{}, &loads)})
	if _, err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	img := writePNG(t, 5, 3)
	resp, body := httpPostJSON(t, srv.URL+"/segment", segmentPayload(img, `[{"x":2,"y":1},[4,2]]`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	var out struct {
		Masks   [][][]bool `json:"masks"`
		Scores  []float64  `json:"scores"`
		Success bool       `json:"success"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !out.Success || len(out.Masks) != len(out.Scores) {
		t.Fatalf("masks=%d scores=%d", len(out.Masks), len(out.Scores))
	}
	for i, m := range out.Masks {
		if len(m) != 3 || len(m[0]) != 5 {
			t.Fatalf("mask %d is %dx%d, want 3x5", i, len(m), len(m[0]))
		}
	}
	if !out.Masks[0][1][2] || out.Masks[0][1][3] {
		t.Fatalf("mask 0 should cover column 2 only")
	}
}

func TestE2E_ImageErrors(t *testing.T) {
	var loads atomic.Int32
	srv, mgr := newServer(t, manager.ManagerConfig{Factory: stubFactory(&stubPredictor{}, &loads)})
	if _, err := mgr.Initialize(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	resp, body := httpPostJSON(t, srv.URL+"/segment", segmentPayload("/nonexistent/slice.png", "[[1,1]]"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("missing image status=%d body=%s", resp.StatusCode, body)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(body, &e); err != nil || e.Success || e.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unexpected error body %s (%v)", body, err)
	}

	resp, _ = httpPostJSON(t, srv.URL+"/segment", []byte(`{"filename":"a.png","points":[]}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("no points status=%d", resp.StatusCode)
	}
}

func TestE2E_CacheReplaysLastBody(t *testing.T) {
	var loads atomic.Int32
	pred := &stubPredictor{}
	srv, _ := newServer(t, manager.ManagerConfig{Factory: stubFactory(pred, &loads), CacheEnabled: true})
	httpGet(t, srv.URL+"/init")

	small := writePNG(t, 2, 1)
	big := writePNG(t, 4, 4)
	_, first := httpPostJSON(t, srv.URL+"/segment", segmentPayload(small, "[[0,0]]"))
	_, second := httpPostJSON(t, srv.URL+"/segment", segmentPayload(big, "[[3,3]]"))
	if string(first) != string(second) {
		t.Fatalf("cache should replay the first body:\n%s\n%s", first, second)
	}
	if pred.predicts.Load() != 1 {
		t.Fatalf("expected one prediction, got %d", pred.predicts.Load())
	}
}

func TestE2E_ConcurrentSegmentsAreSerialized(t *testing.T) {
	var loads atomic.Int32
	pred := &stubPredictor{delay: 5 * time.Millisecond}
	srv, _ := newServer(t, manager.ManagerConfig{Factory: stubFactory(pred, &loads)})
	httpGet(t, srv.URL+"/init")
	img := writePNG(t, 2, 2)

	results := make([]<-chan postResult, 8)
	for i := range results {
		results[i] = postAsync(srv.URL+"/segment", segmentPayload(img, "[[1,1]]"))
	}
	for _, ch := range results {
		res := <-ch
		if res.err != nil {
			t.Fatalf("post: %v", res.err)
		}
		if res.status != http.StatusOK {
			t.Fatalf("status=%d body=%s", res.status, res.body)
		}
	}
	if got := pred.maxInflight.Load(); got != 1 {
		t.Fatalf("max concurrent predictions=%d", got)
	}
}

func TestE2E_InitWithoutOnnxIs503(t *testing.T) {
	srv, _ := newServer(t, manager.ManagerConfig{})
	resp, body := httpGet(t, srv.URL+"/init")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status=%d body=%s", resp.StatusCode, body)
	}
	resp, _ = httpGet(t, srv.URL+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz status=%d", resp.StatusCode)
	}
}

// A request still waiting for the in-flight slot when the server shuts down
// gets a 503, not an empty success. The request already predicting finishes.
func TestE2E_ShutdownAnswersWaitingSegment(t *testing.T) {
	base, stop := context.WithCancel(context.Background())
	defer stop()
	httpapi.SetBaseContext(base)
	t.Cleanup(func() { httpapi.SetBaseContext(nil) })

	var loads atomic.Int32
	pred := &stubPredictor{hold: make(chan struct{}), entered: make(chan struct{}, 1)}
	srv, _ := newServer(t, manager.ManagerConfig{Factory: stubFactory(pred, &loads)})
	httpGet(t, srv.URL+"/init")
	img := writePNG(t, 2, 2)

	running := postAsync(srv.URL+"/segment", segmentPayload(img, "[[1,1]]"))
	select {
	case <-pred.entered:
	case <-time.After(2 * time.Second):
		close(pred.hold)
		t.Fatalf("first segment never reached the predictor")
	}
	waiting := postAsync(srv.URL+"/segment", segmentPayload(img, "[[0,0]]"))
	time.Sleep(50 * time.Millisecond)
	stop()

	res := <-waiting
	close(pred.hold)
	if res.err != nil {
		t.Fatalf("post: %v", res.err)
	}
	if res.status != http.StatusServiceUnavailable {
		t.Fatalf("waiting segment: status=%d body=%q", res.status, res.body)
	}
	var e types.ErrorResponse
	if err := json.Unmarshal(res.body, &e); err != nil || e.Success || e.Code != http.StatusServiceUnavailable || e.Error != "server shutting down" {
		t.Fatalf("unexpected body %q (err=%v)", res.body, err)
	}

	done := <-running
	if done.err != nil || done.status != http.StatusOK {
		t.Fatalf("running segment: status=%d err=%v", done.status, done.err)
	}
	if got := pred.predicts.Load(); got != 1 {
		t.Fatalf("predictions=%d, the waiting request must not run", got)
	}
}
