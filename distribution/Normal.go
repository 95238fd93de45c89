package distribution

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
)

// logSqrt2Pi is log(√(2π))
var logSqrt2Pi = 0.5 * math.Log(2*math.Pi)

// Normal implements a multivariate normal distribution with diagonal
// covariance.
type Normal struct {
	src rand.Source
}

// NewNormal returns a new Normal distribution that samples from a
// source seeded with seed.
func NewNormal(seed uint64) *Normal {
	return &Normal{src: rand.NewSource(seed)}
}

// Seed reseeds the source of randomness used by Sample
func (n *Normal) Seed(seed uint64) {
	n.src = rand.NewSource(seed)
}

// Sample draws x[i] ~ N(mean[i], std[i]²) for each dimension i
func (n *Normal) Sample(mean, std []float64) []float64 {
	if len(mean) != len(std) {
		panic(fmt.Sprintf("sample: mean and std have different lengths "+
			"(%v, %v)", len(mean), len(std)))
	}

	x := make([]float64, len(mean))
	for i := range x {
		dist := distuv.Normal{Mu: mean[i], Sigma: std[i], Src: n.src}
		x[i] = dist.Rand()
	}
	return x
}

// LogProb returns log N(x[i]; mean[i], std[i]²) for each dimension i
func (n *Normal) LogProb(mean, std, x []float64) []float64 {
	if len(mean) != len(std) || len(mean) != len(x) {
		panic(fmt.Sprintf("logProb: mismatched lengths (%v, %v, %v)",
			len(mean), len(std), len(x)))
	}

	logProb := make([]float64, len(x))
	for i := range x {
		dist := distuv.Normal{Mu: mean[i], Sigma: std[i]}
		logProb[i] = dist.LogProb(x[i])
	}
	return logProb
}

// LogProbNode adds the elementwise normal log density
//
//	-½((x - μ) / σ)² - log σ - log √(2π)
//
// of x to the graph of mean, std, and x.
func (n *Normal) LogProbNode(mean, std, x *G.Node) (*G.Node, error) {
	graph := mean.Graph()
	if graph != std.Graph() || graph != x.Graph() {
		return nil, fmt.Errorf("logProbNode: all nodes must share the " +
			"same graph")
	}
	if !mean.Shape().Eq(std.Shape()) || !mean.Shape().Eq(x.Shape()) {
		return nil, fmt.Errorf("logProbNode: shape mismatch mean=%v "+
			"std=%v x=%v", mean.Shape(), std.Shape(), x.Shape())
	}

	z, err := G.Sub(x, mean)
	if err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}
	if z, err = G.HadamardDiv(z, std); err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}
	if z, err = G.Square(z); err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}

	negativeHalf := G.NewConstant(-0.5, G.WithName("negativeHalf"))
	exponent, err := G.Mul(negativeHalf, z)
	if err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}

	logStd, err := G.Log(std)
	if err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}
	logProb, err := G.Sub(exponent, logStd)
	if err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}

	normalizer := G.NewConstant(logSqrt2Pi, G.WithName("logSqrt2Pi"))
	if logProb, err = G.Sub(logProb, normalizer); err != nil {
		return nil, fmt.Errorf("logProbNode: %v", err)
	}
	return logProb, nil
}
