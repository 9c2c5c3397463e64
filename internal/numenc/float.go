package numenc

import (
	"math"
	"strconv"
)

// Float32 marshals with its shortest float32 representation and always
// carries a fraction or exponent.
type Float32 float32

// Float64 marshals like encoding/json but always carries a fraction or exponent.
type Float64 float64

func (f Float32) MarshalJSON() ([]byte, error) { return appendFloat(nil, float64(f), 32), nil }
func (f Float64) MarshalJSON() ([]byte, error) { return appendFloat(nil, float64(f), 64), nil }

func appendFloat(b []byte, f float64, bits int) []byte {
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 {
		if bits == 64 && (abs < 1e-6 || abs >= 1e21) || bits == 32 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
			format = 'e'
		}
	}
	start := len(b)
	b = strconv.AppendFloat(b, f, format, -1, bits)
	if format == 'e' {
		// e-09 becomes e-9. Only the parsed value matters; Python's 1e-09 spelling
		// is not reproduced.
		n := len(b)
		if n-start >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
		return b
	}
	for _, c := range b[start:] {
		if c == '.' {
			return b
		}
	}
	return append(b, '.', '0')
}

func checkFinite(f float64, typ string) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &UnsupportedTypeError{Type: typ, Reason: "out of range float value " + strconv.FormatFloat(f, 'g', -1, 64)}
	}
	return nil
}
