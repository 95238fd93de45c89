// Package distribution implements the action distributions that
// stochastic policies sample from and score under.
package distribution

import (
	G "gorgonia.org/gorgonia"
)

// Distribution is a family of distributions over real vectors that is
// parameterized per dimension by a mean and a scale. Each dimension is
// independent of the others.
//
// Sample and LogProb operate on Go slices and are used during action
// selection. LogProbNode adds the same log density to a computational
// graph so that it can be differentiated.
type Distribution interface {
	// Sample draws one sample from the distribution
	Sample(mean, std []float64) []float64

	// LogProb returns the per-dimension log density of x
	LogProb(mean, std, x []float64) []float64

	// LogProbNode returns a node holding the elementwise log density of
	// x, which must have the same shape as mean and std
	LogProbNode(mean, std, x *G.Node) (*G.Node, error)

	// Seed reseeds the source of randomness used by Sample
	Seed(uint64)
}
