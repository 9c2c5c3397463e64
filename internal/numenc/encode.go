package numenc

import (
	"encoding/json"
	"reflect"
	"strconv"
)

// Normalize converts v into a tree of JSON-ready values: int64, uint64,
// Float32, Float64, bool, string, nil, []any, map[string]any and
// json.Marshaler.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	return normalizeValue(reflect.ValueOf(v))
}

// Marshal normalizes v and encodes it.
func Marshal(v any) ([]byte, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}

type resultBody struct {
	Masks   any  `json:"masks"`
	Scores  any  `json:"scores"`
	Success bool `json:"success"`
}

// EncodeResult builds the {"masks","scores","success":true} segmentation body.
func EncodeResult(masks, scores any) ([]byte, error) {
	m, err := Normalize(masks)
	if err != nil {
		return nil, err
	}
	s, err := Normalize(scores)
	if err != nil {
		return nil, err
	}
	return json.Marshal(resultBody{Masks: m, Scores: s, Success: true})
}

var (
	arrayType     = reflect.TypeOf((*Array)(nil)).Elem()
	marshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
)

func normalizeValue(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}
	if scalar, ok, err := fastScalar(rv); ok {
		return scalar, err
	}
	t := rv.Type()
	if rv.CanInterface() {
		if t.Implements(arrayType) {
			if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
				return nil, nil
			}
			return expandArray(rv.Interface().(Array))
		}
		if t.Implements(marshalerType) {
			return rv.Interface(), nil
		}
	}
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32:
		f := rv.Float()
		if err := checkFinite(f, t.String()); err != nil {
			return nil, err
		}
		return Float32(f), nil
	case reflect.Float64:
		f := rv.Float()
		if err := checkFinite(f, t.String()); err != nil {
			return nil, err
		}
		return Float64(f), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeList(rv)
	case reflect.Array:
		return normalizeList(rv)
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Type: t.String(), Reason: "map keys must be strings"}
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, err := normalizeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = v
		}
		return out, nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeValue(rv.Elem())
	}
	return nil, &UnsupportedTypeError{Type: t.String()}
}

func normalizeList(rv reflect.Value) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := normalizeValue(rv.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// fastScalar handles the unnamed scalar types that dominate model output
// without going through the kind switch.
func fastScalar(rv reflect.Value) (any, bool, error) {
	if !rv.CanInterface() {
		return nil, false, nil
	}
	switch x := rv.Interface().(type) {
	case bool:
		return x, true, nil
	case float32:
		if err := checkFinite(float64(x), "float32"); err != nil {
			return nil, true, err
		}
		return Float32(x), true, nil
	case float64:
		if err := checkFinite(x, "float64"); err != nil {
			return nil, true, err
		}
		return Float64(x), true, nil
	case int:
		return int64(x), true, nil
	case int64:
		return x, true, nil
	case uint8:
		return uint64(x), true, nil
	}
	return nil, false, nil
}

func expandArray(a Array) (any, error) {
	shape := a.Shape()
	size := 1
	for _, d := range shape {
		if d < 0 {
			return nil, &UnsupportedTypeError{Type: "array", Reason: "negative dimension " + strconv.Itoa(d)}
		}
		size *= d
	}
	if size != a.Size() {
		return nil, &UnsupportedTypeError{
			Type:   "array",
			Reason: "shape " + shapeString(shape) + " does not match " + strconv.Itoa(a.Size()) + " elements",
		}
	}
	if len(shape) == 0 {
		return normalizeValue(reflect.ValueOf(a.At(0)))
	}
	return expandLevel(a, shape, 0, 0)
}

func expandLevel(a Array, shape []int, level, offset int) (any, error) {
	n := shape[level]
	out := make([]any, n)
	if level == len(shape)-1 {
		for i := 0; i < n; i++ {
			v, err := normalizeValue(reflect.ValueOf(a.At(offset + i)))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	stride := 1
	for _, d := range shape[level+1:] {
		stride *= d
	}
	for i := 0; i < n; i++ {
		v, err := expandLevel(a, shape, level+1, offset+i*stride)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func shapeString(shape []int) string {
	b := []byte{'('}
	for i, d := range shape {
		if i > 0 {
			b = append(b, ", "...)
		}
		b = strconv.AppendInt(b, int64(d), 10)
	}
	return string(append(b, ')'))
}
