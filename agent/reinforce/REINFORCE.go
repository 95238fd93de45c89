// Package reinforce implements the REINFORCE Monte Carlo policy
// gradient algorithm with a Gaussian policy.
//
// The agent samples actions with a batch size 1 behaviour policy while
// recording a trajectory. At the end of each episode, Update computes
// the discounted return following each step and minimises
//
//	-Σₜ mean_d(log π(aₜ | sₜ)[d]) Gₜ
//
// with a single solver step on a training policy whose batch holds a
// whole episode. The behaviour policy's weights are then set to the
// training policy's weights.
package reinforce

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/agent/policy"
	"github.com/samuelfneumann/goreinforce/distribution"
	"github.com/samuelfneumann/goreinforce/initwfn"
	"github.com/samuelfneumann/goreinforce/network"
	"github.com/samuelfneumann/goreinforce/solver"
	"github.com/samuelfneumann/goreinforce/utils/floatutils"
	"github.com/samuelfneumann/goreinforce/utils/tensorutils"
)

// REINFORCE implements the REINFORCE algorithm
type REINFORCE struct {
	behaviour *policy.GaussianTreeMLP // Has its own VM

	trainPolicy       *policy.GaussianTreeMLP
	trainPolicyVM     G.VM
	trainPolicySolver *solver.Solver
	returns           *G.Node
	loss              *G.Node
	lossVal           G.Value

	buffer *trajectory
	gamma  float64
}

// New creates and returns a new REINFORCE agent that acts on
// observations with features features and selects actions with
// actionDims dimensions. The seeds for weight initialization and
// action sampling are both derived from seed.
func New(features, actionDims int, c Config, seed uint64) (*REINFORCE,
	error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	// Separate, reproducible streams for weights and sampling
	seeds := rand.New(rand.NewSource(seed))
	init, err := initwfn.New(c.InitWFn, c.InitGain)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	init.Seed(seeds.Uint64())
	dist := distribution.NewNormal(seeds.Uint64())

	act, err := network.ActivationByName(c.Activation)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	behaviour, err := policy.NewGaussianTreeMLP(features, actionDims, 1,
		c.HiddenSizes, act, init.InitWFn(), dist, c.Epsilon)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour policy: %v",
			err)
	}

	trainPolicy, err := behaviour.CloneWithBatch(c.MaxEpisodeSteps)
	if err != nil {
		return nil, fmt.Errorf("new: could not create training policy: %v",
			err)
	}

	// Policy gradient loss. Rows past the end of an episode have a
	// return of 0 and contribute nothing to the loss or its gradient.
	net := trainPolicy.Network()
	returns := G.NewVector(
		net.Graph(),
		tensor.Float64,
		G.WithName("Returns"),
		G.WithShape(c.MaxEpisodeSteps),
		G.WithInit(G.Zeroes()),
	)
	loss, err := policyLoss(trainPolicy.LogProbNode(), returns)
	if err != nil {
		return nil, fmt.Errorf("new: could not construct loss: %v", err)
	}

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, fmt.Errorf("new: could not compute gradient: %v", err)
	}

	trainPolicySolver, err := solver.New(c.Solver, c.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}

	r := &REINFORCE{
		behaviour:         behaviour,
		trainPolicy:       trainPolicy,
		trainPolicySolver: trainPolicySolver,
		returns:           returns,
		loss:              loss,
		buffer:            newTrajectory(features, actionDims, c.MaxEpisodeSteps),
		gamma:             c.Gamma,
	}

	// Reads must be added to the graph before the VM compiles it
	G.Read(r.loss, &r.lossVal)
	r.trainPolicyVM = G.NewTapeMachine(net.Graph(),
		G.BindDualValues(net.Learnables()...))

	return r, nil
}

// policyLoss returns -Σₜ mean_d(logProb[t, d]) returns[t]
func policyLoss(logProb, returns *G.Node) (*G.Node, error) {
	stepLogProb, err := G.Mean(logProb, 1)
	if err != nil {
		return nil, err
	}

	loss, err := G.HadamardProd(stepLogProb, returns)
	if err != nil {
		return nil, err
	}
	if loss, err = G.Sum(loss); err != nil {
		return nil, err
	}
	return G.Neg(loss)
}

// SampleAction samples an action in state obs from the current policy
// and records the observation, action, and the action's log
// probability in the trajectory.
func (r *REINFORCE) SampleAction(obs mat.Vector) (*mat.VecDense, error) {
	if !floatutils.AllFinite(obs) {
		return nil, fmt.Errorf("sampleAction: observation %v: %w",
			mat.Formatted(obs.T()), agent.ErrNonFinite)
	}
	if r.buffer.steps() >= r.buffer.maxSize {
		return nil, fmt.Errorf("sampleAction: %v steps recorded: %w",
			r.buffer.steps(), agent.ErrEpisodeTooLong)
	}

	o := make([]float64, obs.Len())
	for i := range o {
		o[i] = obs.AtVec(i)
	}

	action, logProb, err := r.behaviour.Sample(o)
	if err != nil {
		return nil, fmt.Errorf("sampleAction: %v", err)
	}

	if err := r.buffer.store(o, action, stat.Mean(logProb, nil)); err != nil {
		return nil, fmt.Errorf("sampleAction: %v", err)
	}

	return mat.NewVecDense(len(action), action), nil
}

// RecordReward records the reward following the most recently sampled
// action
func (r *REINFORCE) RecordReward(reward float64) {
	r.buffer.reward(reward)
}

// Update performs a single policy gradient update using the recorded
// trajectory, then clears the trajectory. The trajectory is cleared
// on every error except ErrEmptyTrajectory.
func (r *REINFORCE) Update() error {
	steps := r.buffer.steps()
	if steps == 0 && len(r.buffer.rewards) == 0 {
		return fmt.Errorf("update: %w", agent.ErrEmptyTrajectory)
	}
	defer r.buffer.reset()

	if len(r.buffer.rewards) != steps {
		return fmt.Errorf("update: %v rewards for %v actions: %w",
			len(r.buffer.rewards), steps, agent.ErrTrajectoryMismatch)
	}

	batch := r.trainPolicy.Network().BatchSize()
	features := r.trainPolicy.Network().Features()
	obs, err := tensorutils.Padded(r.buffer.obs, batch, features)
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}
	actions, err := tensorutils.Padded(r.buffer.actions, batch,
		r.trainPolicy.ActionDims())
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}
	returns, err := tensorutils.Padded(
		DiscountedReturns(r.buffer.rewards, r.gamma), batch)
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}

	err = r.trainPolicy.SetInput(obs.Data().([]float64),
		actions.Data().([]float64))
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}
	if err := G.Let(r.returns, returns); err != nil {
		return fmt.Errorf("update: could not set returns: %v", err)
	}

	defer r.trainPolicyVM.Reset()
	if err := r.trainPolicyVM.RunAll(); err != nil {
		return fmt.Errorf("update: could not run training VM: %v", err)
	}

	loss, err := tensorutils.Float64s(r.lossVal)
	if err != nil {
		return fmt.Errorf("update: %v", err)
	}
	if math.IsNaN(loss[0]) || math.IsInf(loss[0], 0) {
		return fmt.Errorf("update: loss %v: %w", loss[0], agent.ErrNonFinite)
	}

	model := r.trainPolicy.Network().Model()
	if err := r.trainPolicySolver.Step(model); err != nil {
		return fmt.Errorf("update: could not step solver: %v", err)
	}

	if err := network.Set(r.behaviour.Network(),
		r.trainPolicy.Network()); err != nil {
		return fmt.Errorf("update: could not set behaviour policy: %v", err)
	}

	return nil
}

// Reset clears the recorded trajectory without updating
func (r *REINFORCE) Reset() {
	r.buffer.reset()
}

// Trajectory returns copies of the log probabilities of the actions
// sampled and the rewards recorded in the current episode
func (r *REINFORCE) Trajectory() (logProbs, rewards []float64) {
	logProbs = append([]float64(nil), r.buffer.logProbs...)
	rewards = append([]float64(nil), r.buffer.rewards...)
	return logProbs, rewards
}

// Len returns the number of actions sampled in the current episode
func (r *REINFORCE) Len() int {
	return r.buffer.steps()
}

// Policy returns the behaviour policy
func (r *REINFORCE) Policy() agent.NNPolicy {
	return r.behaviour
}

// Close closes the agent's VMs
func (r *REINFORCE) Close() error {
	if err := r.behaviour.Close(); err != nil {
		return fmt.Errorf("close: %v", err)
	}
	return r.trainPolicyVM.Close()
}
