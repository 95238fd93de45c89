// Package policy implements stochastic policies parameterized by
// neural networks.
package policy

import (
	"fmt"

	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreinforce/distribution"
	"github.com/samuelfneumann/goreinforce/network"
	"github.com/samuelfneumann/goreinforce/utils/tensorutils"
)

// GaussianTreeMLP implements a Gaussian policy parameterized by a
// tree MLP. The MLP has a single root network which breaks off into
// two linear leaf networks. One predicts the mean, and the other the
// standard deviation after passing through a softplus, log(1 + exp(x)).
// See the network.TreeMLP struct for more details.
//
// Both predicted parameters are offset by a small constant ε, and the
// policy distribution in a state is N(μ + ε, (σ + ε)²) independently in
// each action dimension.
//
// Given a batch of states and actions set with SetInput, the policy's
// graph computes the log probability of each action in each state in
// LogProbNode(). A GaussianTreeMLP with batch size 1 can additionally
// select actions with Sample.
type GaussianTreeMLP struct {
	vm   G.VM
	net  network.NeuralNet
	dist distribution.Distribution

	actions     *G.Node
	logProbNode *G.Node
	logProbVal  G.Value

	actionDims int
	batch      int
	eps        float64

	meanVal G.Value
	stdVal  G.Value
}

// NewGaussianTreeMLP returns a new GaussianTreeMLP policy for
// observations with features features and actions with actionDims
// dimensions. The root network has one layer per element of
// hiddenSizes, each followed by activation act. Actions are sampled
// and scored under dist, and eps offsets both distribution parameters.
//
// The policy can be a batch policy when batch > 1. In such a case, the
// log probability of actions can be computed for a batch of actions,
// but actions cannot be sampled. When a policy is created as a batch
// policy, it is assumed that callers will add a loss to its graph and
// construct their own VM to learn its weights.
func NewGaussianTreeMLP(features, actionDims, batch int, hiddenSizes []int,
	act *network.Activation, init G.InitWFn,
	dist distribution.Distribution, eps float64) (*GaussianTreeMLP, error) {
	if eps < 0 {
		return nil, fmt.Errorf("newGaussianTreeMLP: ε must be "+
			"non-negative, have %v", eps)
	}

	biases := make([]bool, len(hiddenSizes))
	activations := make([]*network.Activation, len(hiddenSizes))
	for i := range hiddenSizes {
		biases[i] = true
		activations[i] = act
	}

	net, err := network.NewTreeMLP(
		features,
		batch,
		actionDims,
		G.NewGraph(),
		hiddenSizes,
		biases,
		activations,
		[][]int{{}, {}},
		[][]bool{{}, {}},
		[][]*network.Activation{{}, {}},
		init,
	)
	if err != nil {
		return nil, fmt.Errorf("newGaussianTreeMLP: %v", err)
	}

	return newGaussianTreeMLP(net, dist, eps)
}

// newGaussianTreeMLP adds the distribution nodes to the graph of an
// existing TreeMLP with two leaves.
func newGaussianTreeMLP(net network.NeuralNet, dist distribution.Distribution,
	eps float64) (*GaussianTreeMLP, error) {
	if len(net.Prediction()) != 2 {
		return nil, fmt.Errorf("newGaussianTreeMLP: gaussian policy "+
			"requires 2 leaf networks \n\twant(2) \n\thave(%v)",
			len(net.Prediction()))
	}
	actionDims := net.Outputs()[0]
	batch := net.BatchSize()

	offset := G.NewConstant(eps, G.WithName("epsilon"))

	mean, err := G.Add(net.Prediction()[0], offset)
	if err != nil {
		return nil, fmt.Errorf("newGaussianTreeMLP: could not offset "+
			"mean: %v", err)
	}

	std, err := softplus(net.Prediction()[1])
	if err != nil {
		return nil, fmt.Errorf("newGaussianTreeMLP: %v", err)
	}
	if std, err = G.Add(std, offset); err != nil {
		return nil, fmt.Errorf("newGaussianTreeMLP: could not offset "+
			"standard deviation: %v", err)
	}

	actions := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithName("InputActions"),
		G.WithShape(batch, actionDims),
		G.WithInit(G.Zeroes()),
	)
	logProbNode, err := dist.LogProbNode(mean, std, actions)
	if err != nil {
		return nil, fmt.Errorf("newGaussianTreeMLP: %v", err)
	}

	pol := &GaussianTreeMLP{
		net:         net,
		dist:        dist,
		actions:     actions,
		logProbNode: logProbNode,
		actionDims:  actionDims,
		batch:       batch,
		eps:         eps,
	}

	// Record values of Gorgonia nodes
	G.Read(pol.logProbNode, &pol.logProbVal)
	G.Read(mean, &pol.meanVal)
	G.Read(std, &pol.stdVal)

	// Policy can select actions only if using a batch size of 1. Batch
	// policies are run by the VM of their learner.
	if batch == 1 {
		pol.vm = G.NewTapeMachine(net.Graph())
	}

	return pol, nil
}

// softplus returns log(1 + exp(x)) computed as
// max(x, 0) + log(1 + exp(-|x|)), which does not overflow for large x.
func softplus(x *G.Node) (*G.Node, error) {
	positive, err := G.Rectify(x)
	if err != nil {
		return nil, fmt.Errorf("softplus: %v", err)
	}

	tail, err := G.Abs(x)
	if err != nil {
		return nil, fmt.Errorf("softplus: %v", err)
	}
	if tail, err = G.Neg(tail); err != nil {
		return nil, fmt.Errorf("softplus: %v", err)
	}
	if tail, err = G.Exp(tail); err != nil {
		return nil, fmt.Errorf("softplus: %v", err)
	}
	if tail, err = G.Log1p(tail); err != nil {
		return nil, fmt.Errorf("softplus: %v", err)
	}

	return G.Add(positive, tail)
}

// SetInput sets the states and actions input to the policy's graph so
// that when a VM of the policy is run, the log probability of actions
// a taken in states s will be stored in the node returned by
// LogProbNode(). Inputs should be constructed in row major order.
func (p *GaussianTreeMLP) SetInput(s, a []float64) error {
	if err := p.net.SetInput(s); err != nil {
		return fmt.Errorf("setInput: could not set states: %v", err)
	}

	if len(a) != p.batch*p.actionDims {
		return fmt.Errorf("setInput: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", p.batch*p.actionDims, len(a))
	}
	actionsTensor := tensor.NewDense(tensor.Float64,
		[]int{p.batch, p.actionDims},
		tensor.WithBacking(a),
	)
	if err := G.Let(p.actions, actionsTensor); err != nil {
		return fmt.Errorf("setInput: could not set actions: %v", err)
	}

	return nil
}

// MeanStd returns the mean and standard deviation of the action
// distribution in state obs, both already offset by ε.
func (p *GaussianTreeMLP) MeanStd(obs []float64) (mean, std []float64,
	err error) {
	if p.vm == nil {
		return nil, nil, fmt.Errorf("meanStd: only policies with batch "+
			"size 1 can be run directly \n\twant(1) \n\thave(%v)", p.batch)
	}

	// Actions are not needed, but must hold a value for the VM to run
	if err := p.SetInput(obs, make([]float64, p.actionDims)); err != nil {
		return nil, nil, fmt.Errorf("meanStd: %v", err)
	}

	if err := p.vm.RunAll(); err != nil {
		return nil, nil, fmt.Errorf("meanStd: could not run policy VM: %v",
			err)
	}
	defer p.vm.Reset()

	if mean, err = tensorutils.Float64s(p.meanVal); err != nil {
		return nil, nil, fmt.Errorf("meanStd: %v", err)
	}
	if std, err = tensorutils.Float64s(p.stdVal); err != nil {
		return nil, nil, fmt.Errorf("meanStd: %v", err)
	}

	// Values are overwritten on the next run
	mean = append([]float64(nil), mean...)
	std = append([]float64(nil), std...)

	return mean, std, nil
}

// Sample samples an action in state obs and returns it along with the
// log probability of each of its dimensions.
func (p *GaussianTreeMLP) Sample(obs []float64) (action, logProb []float64,
	err error) {
	mean, std, err := p.MeanStd(obs)
	if err != nil {
		return nil, nil, fmt.Errorf("sample: %v", err)
	}

	action = p.dist.Sample(mean, std)
	return action, p.dist.LogProb(mean, std, action), nil
}

// LogProbNode returns the node that will hold the log probability
// of actions when the computational graph is run. The node has shape
// (batch, action dimensions).
func (p *GaussianTreeMLP) LogProbNode() *G.Node {
	return p.logProbNode
}

// LogProbVal returns the value of the node returned by LogProbNode()
func (p *GaussianTreeMLP) LogProbVal() G.Value {
	return p.logProbVal
}

// CloneWithBatch returns a new GaussianTreeMLP on a new graph with the
// same weights and distribution, but with a new batch size.
func (p *GaussianTreeMLP) CloneWithBatch(batch int) (*GaussianTreeMLP,
	error) {
	net, err := p.net.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("cloneWithBatch: %v", err)
	}
	return newGaussianTreeMLP(net, p.dist, p.eps)
}

// ActionDims returns the dimension of actions
func (p *GaussianTreeMLP) ActionDims() int {
	return p.actionDims
}

// Network returns the network of the GaussianTreeMLP
func (p *GaussianTreeMLP) Network() network.NeuralNet {
	return p.net
}

// Close closes the policy's VM, if it has one
func (p *GaussianTreeMLP) Close() error {
	if p.vm == nil {
		return nil
	}
	return p.vm.Close()
}
