package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is a prompt coordinate in image pixel space.
// On the wire it is a two-element array [x, y]; an {"x":..,"y":..} object is also accepted.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MarshalJSON writes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON accepts [x, y] or {"x": x, "y": y}.
func (p *Point) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("point: empty value")
	}
	switch b[0] {
	case '[':
		var xy []float64
		if err := json.Unmarshal(b, &xy); err != nil {
			return fmt.Errorf("point: %w", err)
		}
		if len(xy) != 2 {
			return fmt.Errorf("point: want [x, y], got %d values", len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	case '{':
		var obj struct {
			X *float64 `json:"x"`
			Y *float64 `json:"y"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return fmt.Errorf("point: %w", err)
		}
		if obj.X == nil || obj.Y == nil {
			return fmt.Errorf("point: x and y are required")
		}
		p.X, p.Y = *obj.X, *obj.Y
		return nil
	default:
		return fmt.Errorf("point: want [x, y] or {\"x\",\"y\"}")
	}
}

// Checkpoint identifies the model weights the service runs with.
type Checkpoint struct {
	// Model variant name.
	// example: sam2-hiera-tiny
	Variant string `json:"variant" example:"sam2-hiera-tiny"`
	// Image encoder ONNX file.
	// example: /opt/segd/weights/vision_encoder.onnx
	EncoderPath string `json:"encoder_path" example:"/opt/segd/weights/vision_encoder.onnx"`
	// Prompt encoder + mask decoder ONNX file.
	// example: /opt/segd/weights/prompt_encoder_mask_decoder.onnx
	DecoderPath string `json:"decoder_path" example:"/opt/segd/weights/prompt_encoder_mask_decoder.onnx"`
}
