package initwfn

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestSeededInitializersAreReproducible(t *testing.T) {
	for _, ty := range []Type{GlorotU, GlorotN, HeU, HeN, Uniform} {
		a, err := New(ty, 1)
		require.NoError(t, err)
		b, err := New(ty, 1)
		require.NoError(t, err)

		a.Seed(7)
		b.Seed(7)
		wa := a.InitWFn()(tensor.Float64, 4, 3).([]float64)
		wb := b.InitWFn()(tensor.Float64, 4, 3).([]float64)
		assert.Equal(t, wa, wb, ty)

		b.Seed(8)
		wc := b.InitWFn()(tensor.Float64, 4, 3).([]float64)
		assert.NotEqual(t, wa, wc, ty)
	}
}

func TestGlorotUBounds(t *testing.T) {
	init, err := NewGlorotU(1)
	require.NoError(t, err)
	init.Seed(1)

	w := init.InitWFn()(tensor.Float64, 16, 32).([]float64)
	require.Len(t, w, 16*32)

	limit := math.Sqrt(6.0 / 48.0)
	for _, v := range w {
		assert.LessOrEqual(t, math.Abs(v), limit)
	}
}

func TestConstantInitializers(t *testing.T) {
	zeroes, err := NewZeroes()
	require.NoError(t, err)
	for _, v := range zeroes.InitWFn()(tensor.Float64, 3).([]float64) {
		assert.Equal(t, 0.0, v)
	}

	ones, err := NewOnes()
	require.NoError(t, err)
	for _, v := range ones.InitWFn()(tensor.Float32, 2, 2).([]float32) {
		assert.Equal(t, float32(1), v)
	}
}

func TestUnknownType(t *testing.T) {
	_, err := New("Orthogonal", 1)
	assert.Error(t, err)
}

func TestInitWFnJSON(t *testing.T) {
	init, err := NewHeN(2)
	require.NoError(t, err)

	data, err := json.Marshal(init)
	require.NoError(t, err)

	var out InitWFn
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, HeN, out.Type)
	assert.Equal(t, HeNConfig{Gain: 2}, out.Config)
	assert.NotNil(t, out.InitWFn())
}
