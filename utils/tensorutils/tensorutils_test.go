package tensorutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func TestFloat64s(t *testing.T) {
	dense := tensor.New(tensor.WithShape(2), tensor.WithBacking([]float64{1, 2}))
	out, err := Float64s(dense)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, out)

	out, err = Float64s(G.NewF64(3))
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, out)

	_, err = Float64s(nil)
	assert.Error(t, err)
}

func TestPadded(t *testing.T) {
	padded, err := Padded([]float64{1, 2, 3}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, padded.Shape())
	assert.Equal(t, []float64{1, 2, 3, 0, 0, 0}, padded.Data())

	_, err = Padded([]float64{1, 2, 3}, 2)
	assert.Error(t, err)
}
