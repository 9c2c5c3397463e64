package manager

import (
	"fmt"
	"strings"
)

// State represents the lifecycle state of the session.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateError         State = "error"
	StateClosed        State = "closed"
)

// Device is the compute device the predictor runs on.
type Device string

const (
	DeviceAuto Device = "auto"
	DeviceCPU  Device = "cpu"
	DeviceCUDA Device = "cuda"
)

// ParseDevice accepts auto, cpu or cuda (case-insensitive). Empty means auto.
func ParseDevice(s string) (Device, error) {
	switch d := Device(strings.ToLower(strings.TrimSpace(s))); d {
	case "":
		return DeviceAuto, nil
	case DeviceAuto, DeviceCPU, DeviceCUDA:
		return d, nil
	default:
		return "", fmt.Errorf("unknown device %q (want auto, cpu or cuda)", s)
	}
}

// Label marks a prompt point as foreground or background.
type Label int64

const (
	LabelBackground Label = 0
	LabelForeground Label = 1
)

// Mask is a boolean grid stored row-major, Width x Height.
type Mask struct {
	Width  int
	Height int
	Data   []bool
}

// At reports whether pixel (x, y) is inside the mask.
func (m Mask) At(x, y int) bool { return m.Data[y*m.Width+x] }

// Area counts the pixels set in the mask.
func (m Mask) Area() int {
	n := 0
	for _, v := range m.Data {
		if v {
			n++
		}
	}
	return n
}

// Prediction is the outcome of one segmentation: Masks[i] scored Scores[i].
type Prediction struct {
	Masks  []Mask
	Scores []float32
}

// Snapshot is a read-only projection of the session state.
type Snapshot struct {
	State  State
	Device Device
	Err    string
}
