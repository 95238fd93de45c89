package distribution

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

func closedForm(mu, sigma, x float64) float64 {
	z := (x - mu) / sigma
	return -0.5*z*z - math.Log(sigma) - 0.5*math.Log(2*math.Pi)
}

func TestNormalLogProb(t *testing.T) {
	n := NewNormal(0)
	mean := []float64{0, 1.5, -2}
	std := []float64{1, 0.5, 3}
	x := []float64{0.3, 1.0, 4}

	logProb := n.LogProb(mean, std, x)
	require.Len(t, logProb, 3)
	for i := range x {
		assert.InDelta(t, closedForm(mean[i], std[i], x[i]), logProb[i], 1e-12)
	}
}

func TestNormalSampleIsSeeded(t *testing.T) {
	a, b := NewNormal(11), NewNormal(11)
	mean, std := []float64{0, 1}, []float64{1, 2}

	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Sample(mean, std), b.Sample(mean, std))
	}

	a.Seed(3)
	b.Seed(4)
	assert.NotEqual(t, a.Sample(mean, std), b.Sample(mean, std))
}

func TestNormalSampleMoments(t *testing.T) {
	n := NewNormal(42)
	const samples = 20000

	sum, sumSq := 0.0, 0.0
	for i := 0; i < samples; i++ {
		x := n.Sample([]float64{2}, []float64{0.5})[0]
		sum += x
		sumSq += x * x
	}
	mean := sum / samples
	variance := sumSq/samples - mean*mean

	assert.InDelta(t, 2.0, mean, 0.02)
	assert.InDelta(t, 0.25, variance, 0.02)
}

func TestNormalLogProbNodeMatchesLogProb(t *testing.T) {
	mean := []float64{0, 1.5, -2, 0.1}
	std := []float64{1, 0.5, 3, 0.2}
	x := []float64{0.3, 1.0, 4, 0.1}

	g := G.NewGraph()
	newNode := func(name string, data []float64) *G.Node {
		return G.NewMatrix(g, tensor.Float64, G.WithShape(2, 2),
			G.WithName(name), G.WithValue(tensor.New(
				tensor.WithShape(2, 2), tensor.WithBacking(data))))
	}

	n := NewNormal(0)
	logProbNode, err := n.LogProbNode(newNode("mean", mean),
		newNode("std", std), newNode("x", x))
	require.NoError(t, err)

	var logProbVal G.Value
	G.Read(logProbNode, &logProbVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()
	require.NoError(t, vm.RunAll())

	got := logProbVal.Data().([]float64)
	want := n.LogProb(mean, std, x)
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9)
	}
}

func TestNormalLogProbNodeShapeMismatch(t *testing.T) {
	g := G.NewGraph()
	a := G.NewMatrix(g, tensor.Float64, G.WithShape(2, 1), G.WithName("a"),
		G.WithInit(G.Zeroes()))
	b := G.NewMatrix(g, tensor.Float64, G.WithShape(1, 2), G.WithName("b"),
		G.WithInit(G.Ones()))

	_, err := NewNormal(0).LogProbNode(a, b, a)
	assert.Error(t, err)
}
