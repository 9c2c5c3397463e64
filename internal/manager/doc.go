// Package manager owns the segmentation model session: lazy predictor
// construction, serialized inference and the cache/encoder orchestration
// behind POST /segment. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - types.go: state and result types (State, Device, Label, Mask, Prediction).
//   - errors.go: error types and helpers (IsNotInitialized, IsResourceLoad, ...).
//   - adapter_iface.go: collaborator contracts (PredictorFactory, Predictor, ImageDecoder).
//   - ensure.go: Initialize, the one-time predictor load.
//   - admission.go: the single in-flight slot guarding the bound image.
//   - segment.go: Segment and SegmentJSON.
//   - decode.go: image file decoding.
//   - sam_process.go: SAM pre/post-processing shared by the ONNX adapter.
//   - status_report.go, sanity.go: Status and SanityCheck reporting.
//   - events.go, eventpub_memory.go: lifecycle events, logging and the bounded
//     history reported by Status.
//   - metrics.go: Prometheus counters.
//
// Build tags and runtimes:
//
//   - ONNX Runtime (standard):
//     The SAM predictor runs on onnxruntime_go. Enabled with `-tags=onnx`
//     (requires CGO and the onnxruntime shared library at run time).
//     File: adapter_sam.go.
//     A no-CGO stub exists when the tag is not set: adapter_sam_stub.go. It
//     reports DependencyUnavailable from Initialize.
//
// External packages should use the public methods only (New/NewWithConfig,
// Initialize, SegmentJSON, Ready, Status, SanityCheck, Close).
package manager
