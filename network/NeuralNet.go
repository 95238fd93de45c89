// Package network implements feed forward neural networks built on
// Gorgonia computational graphs.
package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// NeuralNet implements a neural network whose forward pass has been
// added to a computational graph. Running a VM on Graph() fills
// Output() with the values of the nodes returned by Prediction().
type NeuralNet interface {
	Graph() *G.ExprGraph
	CloneWithBatch(int) (NeuralNet, error)
	BatchSize() int
	Features() int

	// Outputs returns the number of outputs of each output layer
	Outputs() []int
	SetInput([]float64) error
	Learnables() G.Nodes
	Model() []G.ValueGrad
	Output() []G.Value
	Prediction() []*G.Node
}

// Set sets the weights of dest to be equal to the weights of source.
// Both networks must have the same architecture, but may have
// different batch sizes.
func Set(dest, source NeuralNet) error {
	sourceNodes := source.Learnables()
	destNodes := dest.Learnables()
	if len(sourceNodes) != len(destNodes) {
		return fmt.Errorf("set: cannot set %v learnables from %v learnables",
			len(destNodes), len(sourceNodes))
	}

	for i, destLearnable := range destNodes {
		if !destLearnable.Shape().Eq(sourceNodes[i].Shape()) {
			return fmt.Errorf("set: learnable %v shape mismatch \n\twant(%v)"+
				"\n\thave(%v)", destLearnable.Name(), destLearnable.Shape(),
				sourceNodes[i].Shape())
		}

		sourceValue, ok := sourceNodes[i].Value().(tensor.Tensor)
		if !ok {
			return fmt.Errorf("set: learnable %v has no tensor value",
				sourceNodes[i].Name())
		}
		if err := G.Let(destLearnable, sourceValue.Clone()); err != nil {
			return fmt.Errorf("set: %v", err)
		}
	}
	return nil
}
