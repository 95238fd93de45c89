package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	assert.Equal(t, 3.0, Clip(10, -3, 3))
	assert.Equal(t, -3.0, Clip(-10, -3, 3))
	assert.Equal(t, 0.5, Clip(0.5, -3, 3))
	assert.Equal(t, 1.0, ClipInterval(2, r1.Interval{Min: -1, Max: 1}))
}

func TestFinite(t *testing.T) {
	assert.True(t, AllFinite(mat.NewVecDense(2, []float64{1, -2})))
	assert.False(t, AllFinite(mat.NewVecDense(2, []float64{1, math.NaN()})))
	assert.False(t, AllFinite(mat.NewVecDense(1, []float64{math.Inf(-1)})))

	assert.True(t, SliceFinite([]float64{0, 1, 2}))
	assert.False(t, SliceFinite([]float64{0, math.Inf(1)}))
	assert.False(t, SliceFinite([]float64{math.NaN()}))
}

func TestOnes(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, Ones(3))
	assert.Equal(t, []float64{2.5, 2.5}, Fill(2, 2.5))
}
