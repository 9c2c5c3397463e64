package manager

import (
	"errors"
	"fmt"

	"segd/internal/numenc"
)

// notInitializedError signals a segmentation attempt before Initialize.
type notInitializedError struct{}

func (notInitializedError) Error() string { return "predictor is not initialized" }

// ErrNotInitialized is returned by Segment and SegmentJSON before Initialize succeeds.
var ErrNotInitialized error = notInitializedError{}

// IsNotInitialized reports whether err indicates the predictor is not loaded yet.
func IsNotInitialized(err error) bool {
	var e notInitializedError
	return errors.As(err, &e)
}

// Resource names what failed to load.
type Resource string

const (
	ResourceModel Resource = "model"
	ResourceImage Resource = "image"
)

// resourceLoadError wraps a failure to construct the predictor or decode an image.
type resourceLoadError struct {
	kind Resource
	path string
	err  error
}

func (e *resourceLoadError) Error() string {
	return fmt.Sprintf("load %s %s: %v", e.kind, e.path, e.err)
}

func (e *resourceLoadError) Unwrap() error { return e.err }

// ErrResourceLoad constructs a resource load failure.
func ErrResourceLoad(kind Resource, path string, err error) error {
	return &resourceLoadError{kind: kind, path: path, err: err}
}

// IsResourceLoad reports whether err is a resource load failure.
func IsResourceLoad(err error) bool {
	var e *resourceLoadError
	return errors.As(err, &e)
}

// ResourceOf returns the failed resource kind of a resource load failure.
func ResourceOf(err error) (Resource, bool) {
	var e *resourceLoadError
	if errors.As(err, &e) {
		return e.kind, true
	}
	return "", false
}

// dependencyUnavailableError signals a missing runtime dependency (e.g. a binary
// built without onnx) so the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}

// invalidRequestError rejects a malformed segmentation request.
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }

// ErrInvalidRequest constructs an invalidRequestError.
func ErrInvalidRequest(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err rejects the request itself.
func IsInvalidRequest(err error) bool {
	var e invalidRequestError
	return errors.As(err, &e)
}

// inferenceError wraps a predictor failure after the image was decoded.
type inferenceError struct{ err error }

func (e inferenceError) Error() string { return "inference: " + e.err.Error() }
func (e inferenceError) Unwrap() error { return e.err }

// IsInference reports whether err came from the predictor itself.
func IsInference(err error) bool {
	var e inferenceError
	return errors.As(err, &e)
}

// IsSerialization reports whether err came from encoding the result.
func IsSerialization(err error) bool { return numenc.IsSerialization(err) }
