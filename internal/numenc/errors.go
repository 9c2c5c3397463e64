package numenc

import (
	"errors"
	"fmt"
)

// ErrSerialization is wrapped by every error returned for a value that has no
// JSON form.
var ErrSerialization = errors.New("value is not JSON serializable")

// UnsupportedTypeError reports a value the encoder cannot represent.
type UnsupportedTypeError struct {
	Type   string
	Reason string
}

func (e *UnsupportedTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("numenc: %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("numenc: object of type %s is not JSON serializable", e.Type)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrSerialization }

// IsSerialization reports whether err came from the encoder rejecting a value.
func IsSerialization(err error) bool { return errors.Is(err, ErrSerialization) }
