package initwfn

import (
	"fmt"

	"gorgonia.org/tensor"
)

// fans returns the fan in and fan out of a weight tensor of shape s.
// Weights of fully connected layers have shape (in, out).
func fans(s ...int) (fanIn, fanOut float64) {
	if len(s) == 2 {
		return float64(s[0]), float64(s[1])
	}

	size := 1
	for _, dim := range s {
		size *= dim
	}
	return float64(size), float64(size)
}

// fill returns a backing slice of the given dtype for a tensor of
// shape s, with each element drawn from sample.
func fill(dt tensor.Dtype, sample func() float64, s ...int) interface{} {
	size := tensor.Shape(s).TotalSize()

	switch dt {
	case tensor.Float64:
		out := make([]float64, size)
		for i := range out {
			out[i] = sample()
		}
		return out

	case tensor.Float32:
		out := make([]float32, size)
		for i := range out {
			out[i] = float32(sample())
		}
		return out
	}
	panic(fmt.Sprintf("fill: unsupported dtype %v", dt))
}
