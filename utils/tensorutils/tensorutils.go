// Package tensorutils provides helpers for moving data between Gorgonia
// values and Go slices.
package tensorutils

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Float64s returns the data backing a Gorgonia value as a slice. Values
// holding a single element may be backed by a bare float64, in which
// case a slice of length 1 is returned.
func Float64s(v G.Value) ([]float64, error) {
	if v == nil {
		return nil, fmt.Errorf("float64s: value is nil")
	}

	switch data := v.Data().(type) {
	case []float64:
		return data, nil
	case float64:
		return []float64{data}, nil
	}
	return nil, fmt.Errorf("float64s: unsupported data type %T", v.Data())
}

// Padded returns a new Float64 tensor of the given shape whose leading
// elements are copied from data and whose remaining elements are zero.
func Padded(data []float64, shape ...int) (*tensor.Dense, error) {
	size := tensor.Shape(shape).TotalSize()
	if len(data) > size {
		return nil, fmt.Errorf("padded: %v elements do not fit in shape %v",
			len(data), shape)
	}

	backing := make([]float64, size)
	copy(backing, data)

	return tensor.New(
		tensor.WithShape(shape...),
		tensor.WithBacking(backing),
	), nil
}
