// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments. Seed re-initializes the random
// source so that the sequence of starting states can be reproduced.
type Starter interface {
	Start() *mat.VecDense
	Seed(seed uint64)
}

// Ender determines when episodes should be ended. If an episode
// should end, End adjusts the TimeStep to be the last in the episode
// and records why the episode ended.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment, as well as the start state distribution and the
// conditions under which episodes end.
type Task interface {
	Starter
	Ender
	GetReward(state, a, nextState mat.Vector) float64
	RewardSpec() Spec
	Min() float64 // Minimum attainable reward
	Max() float64 // Maximum attainable reward
}

// Environment implements a simulated environment, which includes a Task
// to complete.
//
// Reset starts a new episode with a start state drawn from the Task's
// Starter. Calling Seed before Reset makes the start state of the
// episode reproducible. Step takes an action in the environment and
// returns the next TimeStep along with whether it is the last in the
// episode, either because the episode terminated or was truncated.
type Environment interface {
	Task
	Reset() ts.TimeStep
	Step(action mat.Vector) (ts.TimeStep, bool)
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
