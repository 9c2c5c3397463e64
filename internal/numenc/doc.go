// Package numenc turns numeric model outputs into plain JSON values.
//
// Integers of any width stay JSON integers, floats always re-parse as floats
// (a whole float64 is written as 1.0, a float32 with its shortest 32-bit
// representation), boolean grids stay booleans and rectangular arrays expand
// row-major into nested lists. Strings, nil, string-keyed maps and
// json.Marshaler values fall through to encoding/json. Everything else is
// rejected with an error wrapping ErrSerialization.
package numenc
