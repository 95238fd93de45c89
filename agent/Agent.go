// Package agent defines the interfaces of learning agents that act in
// continuous-action environments.
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goreinforce/network"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// A Closer is an agent that must be closed after it is done learning
type Closer interface {
	Agent
	Close() error
}

// Policy selects actions in states. Episodic policy gradient agents
// record the information needed for learning as they select actions,
// so that SampleAction should be called exactly once for each
// environmental step.
type Policy interface {
	SampleAction(obs mat.Vector) (*mat.VecDense, error)
}

// Learner implements a learning algorithm that defines how weights are
// updated from the trajectory of an episode.
type Learner interface {
	// RecordReward records the reward following the most recently
	// sampled action
	RecordReward(r float64)

	// Update performs a single update using the current trajectory and
	// then clears it
	Update() error

	// Reset clears the current trajectory without updating
	Reset()
}

// NNPolicy represents a stochastic policy that uses neural network
// function approximation to predict the parameters of its action
// distribution.
type NNPolicy interface {
	// MeanStd returns the mean and standard deviation of the action
	// distribution in a state
	MeanStd(obs []float64) (mean, std []float64, err error)
	Network() network.NeuralNet
	Close() error
}
