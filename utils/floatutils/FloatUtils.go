// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Ones returns a slice of float64 of length size filled with 1.0
func Ones(size int) []float64 {
	return Fill(size, 1.0)
}

// Fill returns a slice of float64 of length size filled with value
func Fill(size int, value float64) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = value
	}
	return out
}

// IsFinite returns whether a float64 is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// AllFinite returns whether every element of a vector is finite
func AllFinite(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if !IsFinite(v.AtVec(i)) {
			return false
		}
	}
	return true
}

// SliceFinite returns whether every element of a slice is finite
func SliceFinite(s []float64) bool {
	if len(s) == 0 {
		return true
	}
	return !floats.HasNaN(s) && floats.Min(s) > math.Inf(-1) &&
		floats.Max(s) < math.Inf(1)
}

// Min calculates and returns the minimum float64 in a list
func Min(values ...float64) float64 {
	return floats.Min(values)
}

// Max calculates and returns the maximum float64 in a list
func Max(values ...float64) float64 {
	return floats.Max(values)
}
