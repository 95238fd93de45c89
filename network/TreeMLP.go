package network

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// TreeMLP implements a multi-layered perceptron with a base observation
// network and multiple leaf networks that use the output of the root
// observation network as their own inputs. A diagram of a tree MLP:
//
//	                  ╭─→ Leaf Network 1       ─→ Output
//	                  ├─→ Leaf Network 2       ─→ Output
//	                  ├─→ ...                  ─→  ...
//	Input ─→ Root Net ┼─→ ...                  ─→  ...
//	                  ├─→ Leaf Network (N - 1) ─→ Output
//	                  ╰─→ Leaf Network N       ─→ Output
//
// Each leaf network ends in a linear layer with a bias, so that each
// output has shape (batch, outputs). A Gaussian policy uses two leaves,
// one for the mean and one for the (pre-softplus) standard deviation.
type TreeMLP struct {
	g     *G.ExprGraph
	input *G.Node

	root   []*fcLayer
	leaves [][]*fcLayer

	numInputs  int
	numOutputs int
	batchSize  int

	// Architecture, needed for cloning
	rootHiddenSizes []int
	rootBiases      []bool
	rootActivations []*Activation
	leafHiddenSizes [][]int
	leafBiases      [][]bool
	leafActivations [][]*Activation

	learnables G.Nodes
	model      []G.ValueGrad

	predVal    []G.Value
	prediction []*G.Node
}

// validateTreeMLP validates the arguments of NewTreeMLP() to ensure
// they are legal.
func validateTreeMLP(features, batch, numOutputs int, rootHiddenSizes []int,
	rootBiases []bool, rootActivations []*Activation,
	leafHiddenSizes [][]int, leafBiases [][]bool,
	leafActivations [][]*Activation) error {
	if features <= 0 || batch <= 0 {
		return fmt.Errorf("features and batch size must be positive, "+
			"have features=%v batch=%v", features, batch)
	}

	if len(rootHiddenSizes) == 0 {
		return fmt.Errorf("root network must have at least one hidden layer")
	}

	if len(rootHiddenSizes) != len(rootActivations) {
		return fmt.Errorf("invalid number of root activations"+
			"\n\twant(%d)\n\thave(%d)", len(rootHiddenSizes),
			len(rootActivations))
	}

	if len(rootHiddenSizes) != len(rootBiases) {
		return fmt.Errorf("invalid number of root biases"+
			"\n\twant(%d)\n\thave(%d)", len(rootHiddenSizes), len(rootBiases))
	}

	for i, size := range rootHiddenSizes {
		if size <= 0 {
			return fmt.Errorf("root layer %v has %v units", i, size)
		}
	}

	if len(leafHiddenSizes) == 0 {
		return fmt.Errorf("there must be at least one leaf network specified")
	}

	if numOutputs <= 0 {
		return fmt.Errorf("there must be more than 0 outputs per leaf network")
	}

	if len(leafHiddenSizes) != len(leafActivations) {
		return fmt.Errorf("invalid number of leaf network activations "+
			"\n\twant(%v) \n\thave(%v)", len(leafHiddenSizes),
			len(leafActivations))
	}

	if len(leafHiddenSizes) != len(leafBiases) {
		return fmt.Errorf("invalid number of leaf network biases "+
			"\n\twant(%v) \n\thave(%v)", len(leafHiddenSizes), len(leafBiases))
	}

	for i := range leafHiddenSizes {
		if len(leafHiddenSizes[i]) != len(leafActivations[i]) {
			return fmt.Errorf("invalid number of activations for leaf "+
				"network %v \n\twant(%v) \n\thave(%v)", i,
				len(leafHiddenSizes[i]), len(leafActivations[i]))
		}

		if len(leafHiddenSizes[i]) != len(leafBiases[i]) {
			return fmt.Errorf("invalid number of biases for leaf "+
				"network %v \n\twant(%v) \n\thave(%v)", i,
				len(leafHiddenSizes[i]), len(leafBiases[i]))
		}
	}

	return nil
}

// NewTreeMLP returns a new NeuralNet with a tree MLP architecture.
//
// The observation network has number of layers equal to
// len(rootHiddenSizes). For index i, rootHiddenSizes[i] determines the
// number of hidden units in that layer, rootBiases[i] determines if a
// bias unit is added to the hidden layer, and rootActivations[i]
// determines the activation function to apply to that hidden layer.
//
// The number of leaf networks is defined by len(leafHiddenSizes), and
// leafHiddenSizes[i], leafBiases[i], and leafActivations[i] describe
// the hidden layers of leaf i in the same way. For all leaf networks, a
// final linear layer with a bias and no activation is added so that
// each leaf has outputs outputs. To create a network with only a single
// linear layer per leaf, set leafHiddenSizes = [][]int{{}, ..., {}}.
func NewTreeMLP(features, batch, outputs int, g *G.ExprGraph,
	rootHiddenSizes []int, rootBiases []bool, rootActivations []*Activation,
	leafHiddenSizes [][]int, leafBiases [][]bool,
	leafActivations [][]*Activation, init G.InitWFn) (NeuralNet, error) {
	err := validateTreeMLP(features, batch, outputs, rootHiddenSizes,
		rootBiases, rootActivations, leafHiddenSizes, leafBiases,
		leafActivations)
	if err != nil {
		return nil, fmt.Errorf("newTreeMLP: %v", err)
	}

	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batch, features),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	// Root network layers
	root := make([]*fcLayer, len(rootHiddenSizes))
	in := features
	for i, size := range rootHiddenSizes {
		name := fmt.Sprintf("Root%d", i)
		root[i] = newFCLayer(g, name, in, size, rootBiases[i],
			rootActivations[i], init)
		in = size
	}
	rootOut := in

	// Leaf network layers, each ending in a linear output layer
	leaves := make([][]*fcLayer, len(leafHiddenSizes))
	for i := range leafHiddenSizes {
		in := rootOut
		leaves[i] = make([]*fcLayer, 0, len(leafHiddenSizes[i])+1)
		for j, size := range leafHiddenSizes[i] {
			name := fmt.Sprintf("Leaf%d_%d", i, j)
			leaves[i] = append(leaves[i], newFCLayer(g, name, in, size,
				leafBiases[i][j], leafActivations[i][j], init))
			in = size
		}

		name := fmt.Sprintf("Leaf%d_Out", i)
		leaves[i] = append(leaves[i], newFCLayer(g, name, in, outputs,
			true, nil, init))
	}

	net := &TreeMLP{
		g:               g,
		input:           input,
		root:            root,
		leaves:          leaves,
		numInputs:       features,
		numOutputs:      outputs,
		batchSize:       batch,
		rootHiddenSizes: rootHiddenSizes,
		rootBiases:      rootBiases,
		rootActivations: rootActivations,
		leafHiddenSizes: leafHiddenSizes,
		leafBiases:      leafBiases,
		leafActivations: leafActivations,
	}

	if err := net.fwd(); err != nil {
		return nil, fmt.Errorf("newTreeMLP: could not compute forward "+
			"pass: %v", err)
	}

	return net, nil
}

// fwd adds the forward pass of the root and each leaf network to the
// computational graph.
func (t *TreeMLP) fwd() error {
	var err error
	rootPred := t.input
	for i, layer := range t.root {
		if rootPred, err = layer.fwd(rootPred); err != nil {
			return fmt.Errorf("fwd: root layer %v: %v", i, err)
		}
	}

	t.prediction = make([]*G.Node, len(t.leaves))
	t.predVal = make([]G.Value, len(t.leaves))
	for i, leaf := range t.leaves {
		pred := rootPred
		for j, layer := range leaf {
			if pred, err = layer.fwd(pred); err != nil {
				return fmt.Errorf("fwd: leaf %v layer %v: %v", i, j, err)
			}
		}
		t.prediction[i] = pred
		G.Read(t.prediction[i], &t.predVal[i])
	}

	return nil
}

// SetInput sets the value of the input node before running the forward
// pass. The input is interpreted in row-major order as a
// (BatchSize(), Features()) matrix.
func (t *TreeMLP) SetInput(input []float64) error {
	if len(input) != t.numInputs*t.batchSize {
		return fmt.Errorf("setInput: invalid number of inputs\n\twant(%v)"+
			"\n\thave(%v)", t.numInputs*t.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(t.input.Shape()...),
	)

	return G.Let(t.input, inputTensor)
}

// Outputs returns the number of outputs per leaf network
func (t *TreeMLP) Outputs() []int {
	outputs := make([]int, len(t.leaves))
	for i := range outputs {
		outputs[i] = t.numOutputs
	}
	return outputs
}

// Graph returns the computational graph of the network
func (t *TreeMLP) Graph() *G.ExprGraph {
	return t.g
}

// Features returns the number of input features
func (t *TreeMLP) Features() int {
	return t.numInputs
}

// BatchSize returns the batch size for inputs to the network
func (t *TreeMLP) BatchSize() int {
	return t.batchSize
}

// CloneWithBatch returns a clone of the TreeMLP on a new computational
// graph with a new input batch size. The weights of the clone are
// equal to the weights of t.
func (t *TreeMLP) CloneWithBatch(batchSize int) (NeuralNet, error) {
	clone, err := NewTreeMLP(t.numInputs, batchSize, t.numOutputs,
		G.NewGraph(), t.rootHiddenSizes, t.rootBiases, t.rootActivations,
		t.leafHiddenSizes, t.leafBiases, t.leafActivations, G.Zeroes())
	if err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %v", err)
	}

	if err := Set(clone, t); err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %v", err)
	}
	return clone, nil
}

// Output returns the values predicted by each leaf network, in leaf
// order. Each value has shape (BatchSize(), outputs).
func (t *TreeMLP) Output() []G.Value {
	return t.predVal
}

// Prediction returns the nodes of the computational graph that store
// the output of each leaf network
func (t *TreeMLP) Prediction() []*G.Node {
	return t.prediction
}

// Model returns the learnable nodes with their gradients.
func (t *TreeMLP) Model() []G.ValueGrad {
	if t.model == nil {
		learnables := t.Learnables()
		t.model = make([]G.ValueGrad, len(learnables))
		for i, learnable := range learnables {
			t.model[i] = learnable
		}
	}
	return t.model
}

// Learnables returns the learnable nodes of the root network followed
// by the learnable nodes of each leaf network
func (t *TreeMLP) Learnables() G.Nodes {
	if t.learnables == nil {
		for _, layer := range t.root {
			t.learnables = append(t.learnables, layer.learnables()...)
		}
		for _, leaf := range t.leaves {
			for _, layer := range leaf {
				t.learnables = append(t.learnables, layer.learnables()...)
			}
		}
	}
	return t.learnables
}
