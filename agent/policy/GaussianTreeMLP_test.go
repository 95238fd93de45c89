package policy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreinforce/distribution"
	"github.com/samuelfneumann/goreinforce/initwfn"
	"github.com/samuelfneumann/goreinforce/network"
	"github.com/samuelfneumann/goreinforce/utils/tensorutils"
)

const eps = 1e-6

func newPolicy(t *testing.T, batch int, seed uint64) *GaussianTreeMLP {
	t.Helper()

	init, err := initwfn.NewGlorotU(1)
	require.NoError(t, err)
	init.Seed(seed)

	p, err := NewGaussianTreeMLP(4, 1, batch, []int{16, 32},
		network.TanH(), init.InitWFn(), distribution.NewNormal(seed), eps)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })

	return p
}

func TestMeanStdShapesAndPositivity(t *testing.T) {
	p := newPolicy(t, 1, 1)

	for _, obs := range [][]float64{
		{0, 0, 0, 0},
		{1, -1, 2, -2},
		{100, 100, -100, 100},
	} {
		mean, std, err := p.MeanStd(obs)
		require.NoError(t, err)
		require.Len(t, mean, 1)
		require.Len(t, std, 1)
		assert.Greater(t, std[0], 0.0)
		assert.False(t, math.IsNaN(mean[0]))
	}
}

func TestMeanStdIsDeterministic(t *testing.T) {
	p := newPolicy(t, 1, 1)
	obs := []float64{0.01, -0.02, 0.03, 0.04}

	m1, s1, err := p.MeanStd(obs)
	require.NoError(t, err)
	m2, s2, err := p.MeanStd(obs)
	require.NoError(t, err)

	assert.Equal(t, m1, m2)
	assert.Equal(t, s1, s2)
}

func TestSameSeedSameSamples(t *testing.T) {
	a, b := newPolicy(t, 1, 5), newPolicy(t, 1, 5)
	obs := []float64{0.01, -0.02, 0.03, 0.04}

	for i := 0; i < 5; i++ {
		actA, logpA, err := a.Sample(obs)
		require.NoError(t, err)
		actB, logpB, err := b.Sample(obs)
		require.NoError(t, err)

		assert.Equal(t, actA, actB)
		assert.Equal(t, logpA, logpB)
	}
}

func TestBatchPolicyCannotSample(t *testing.T) {
	p := newPolicy(t, 3, 1)
	_, _, err := p.MeanStd([]float64{0, 0, 0, 0})
	assert.Error(t, err)
}

func TestCloneLogProbMatchesSampledLogProb(t *testing.T) {
	p := newPolicy(t, 1, 2)
	obs := []float64{0.01, -0.02, 0.03, 0.04}
	action, logProb, err := p.Sample(obs)
	require.NoError(t, err)

	batch, err := p.CloneWithBatch(2)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Network().BatchSize())

	states := append(append([]float64{}, obs...), obs...)
	actions := append(append([]float64{}, action...), action...)
	require.NoError(t, batch.SetInput(states, actions))

	vm := G.NewTapeMachine(batch.Network().Graph())
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	got, err := tensorutils.Float64s(batch.LogProbVal())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, logProb[0], got[0], 1e-9)
	assert.InDelta(t, logProb[0], got[1], 1e-9)
}

func TestSetInputRejectsWrongActionSize(t *testing.T) {
	p := newPolicy(t, 2, 1)
	err := p.SetInput(make([]float64, 8), make([]float64, 3))
	assert.Error(t, err)
}

func TestNegativeEpsilon(t *testing.T) {
	_, err := NewGaussianTreeMLP(4, 1, 1, []int{16}, network.TanH(),
		G.GlorotU(1), distribution.NewNormal(0), -1)
	assert.Error(t, err)
}

func TestSoftplusIsStable(t *testing.T) {
	in := []float64{-1000, -20, -1, 0, 1, 20, 1000}

	g := G.NewGraph()
	x := G.NewVector(g, tensor.Float64, G.WithShape(len(in)),
		G.WithValue(tensor.NewDense(tensor.Float64, []int{len(in)},
			tensor.WithBacking(in))))
	out, err := softplus(x)
	require.NoError(t, err)

	var outVal G.Value
	G.Read(out, &outVal)
	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	got, err := tensorutils.Float64s(outVal)
	require.NoError(t, err)
	require.Len(t, got, len(in))
	for i, v := range in {
		assert.False(t, math.IsInf(got[i], 0) || math.IsNaN(got[i]), "x = %v", v)
		assert.GreaterOrEqual(t, got[i], 0.0, "x = %v", v)
		if math.Abs(v) < 700 {
			assert.InDelta(t, math.Log1p(math.Exp(v)), got[i], 1e-9, "x = %v", v)
		}
	}
	assert.InDelta(t, 1000.0, got[len(in)-1], 1e-9)
}

func TestStdFiniteForSaturatedHead(t *testing.T) {
	init, err := initwfn.NewOnes()
	require.NoError(t, err)

	// With unit weights and a saturated tanh layer, the standard
	// deviation head outputs roughly ±1000
	p, err := NewGaussianTreeMLP(4, 1, 1, []int{1000}, network.TanH(),
		init.InitWFn(), distribution.NewNormal(1), eps)
	require.NoError(t, err)
	defer p.Close()

	for _, obs := range [][]float64{
		{10, 10, 10, 10},
		{-10, -10, -10, -10},
	} {
		mean, std, err := p.MeanStd(obs)
		require.NoError(t, err)
		assert.False(t, math.IsInf(std[0], 0) || math.IsNaN(std[0]), "%v", obs)
		assert.Greater(t, std[0], 0.0)
		assert.Greater(t, math.Abs(mean[0]), 700.0)

		action, logProb, err := p.Sample(obs)
		require.NoError(t, err)
		assert.False(t, math.IsInf(action[0], 0) || math.IsNaN(action[0]))
		assert.False(t, math.IsNaN(logProb[0]))
	}
}
