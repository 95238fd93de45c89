package reinforce

import (
	"fmt"
)

// trajectory stores the observations, actions, log probabilities, and
// rewards of a single episode. The observations and actions are kept
// in row major order so that they can be fed to a batch policy.
type trajectory struct {
	features   int
	actionDims int
	maxSize    int

	obs      []float64
	actions  []float64
	logProbs []float64
	rewards  []float64
}

// newTrajectory returns a new trajectory that can hold up to maxSize
// steps.
func newTrajectory(features, actionDims, maxSize int) *trajectory {
	return &trajectory{
		features:   features,
		actionDims: actionDims,
		maxSize:    maxSize,
		obs:        make([]float64, 0, features*maxSize),
		actions:    make([]float64, 0, actionDims*maxSize),
		logProbs:   make([]float64, 0, maxSize),
		rewards:    make([]float64, 0, maxSize),
	}
}

// store records a state, the action sampled in it, and the log
// probability of the action
func (t *trajectory) store(obs, action []float64, logProb float64) error {
	if len(obs) != t.features || len(action) != t.actionDims {
		return fmt.Errorf("store: invalid step dimensions (%v, %v)",
			len(obs), len(action))
	}
	if t.steps() >= t.maxSize {
		return fmt.Errorf("store: trajectory is full at %v steps", t.maxSize)
	}

	t.obs = append(t.obs, obs...)
	t.actions = append(t.actions, action...)
	t.logProbs = append(t.logProbs, logProb)
	return nil
}

// reward records a reward
func (t *trajectory) reward(r float64) {
	t.rewards = append(t.rewards, r)
}

// steps returns the number of actions recorded
func (t *trajectory) steps() int {
	return len(t.logProbs)
}

// reset empties the trajectory, keeping its allocated capacity
func (t *trajectory) reset() {
	t.obs = t.obs[:0]
	t.actions = t.actions[:0]
	t.logProbs = t.logProbs[:0]
	t.rewards = t.rewards[:0]
}
