package invertedpendulum

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goreinforce/environment"
	ts "github.com/samuelfneumann/goreinforce/timestep"
	"github.com/samuelfneumann/goreinforce/utils/floatutils"
)

const (
	// FailAngle is the default angle (radians) from upright past which
	// the pole has fallen
	FailAngle float64 = 0.2

	// EpisodeSteps is the default number of steps before an episode
	// is truncated
	EpisodeSteps int = 1000

	// StartBound is the default bound (+/-) on each starting state
	// feature
	StartBound float64 = 0.01
)

// Balance implements the inverted pendulum balance task. The agent
// must keep the pole upright for as long as possible.
//
// The reward is +1 for every timestep, including the timestep on which
// the pole falls.
//
// Episodes terminate when the pole angle leaves [-failAngle, failAngle]
// or when any state feature is no longer finite. Episodes are truncated
// after episodeSteps timesteps.
type Balance struct {
	env.Starter
	stepLimiter   env.StepLimit
	angleLimiter  *env.IntervalLimit
	finiteLimiter *env.FunctionEnder
	failAngle     float64
}

// NewBalance creates and returns a new Balance task
func NewBalance(s env.Starter, episodeSteps int, failAngle float64) *Balance {
	stepLimiter := env.NewStepLimit(episodeSteps)

	legalAngles := []r1.Interval{{Min: -failAngle, Max: failAngle}}
	angleFeatureIndex := []int{Angle}
	angleLimiter := env.NewIntervalLimit(legalAngles, angleFeatureIndex,
		ts.TerminalStateReached)

	finiteLimiter := env.NewFunctionEnder(func(v mat.Vector) bool {
		return !floatutils.AllFinite(v)
	}, ts.TerminalStateReached)

	return &Balance{s, stepLimiter, angleLimiter, finiteLimiter, failAngle}
}

// NewDefaultBalance returns a new Balance task with the default step
// limit and fail angle, and starting states drawn uniformly from
// [-StartBound, StartBound] for each state feature.
func NewDefaultBalance(seed uint64) *Balance {
	bounds := make([]r1.Interval, ObservationDims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -StartBound, Max: StartBound}
	}
	starter := env.NewUniformStarter(bounds, seed)

	return NewBalance(starter, EpisodeSteps, FailAngle)
}

// End checks if a TimeStep is the last in an episode. If so, it adjusts
// the TimeStep's StepType to timestep.Last and returns true. Otherwise,
// the function does not adjust the TimeStep and returns false.
//
// Reaching a terminal state takes precedence over truncation.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.finiteLimiter.End(t); end {
		return true
	}
	if end := b.angleLimiter.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState.
func (b *Balance) GetReward(_, _, _ mat.Vector) float64 {
	return 1.0
}

// FailAngle returns the angle past which the pole has fallen
func (b *Balance) FailAngle() float64 {
	return b.failAngle
}

// Min returns the minimum possible reward that can be received in the
// environment
func (b *Balance) Min() float64 {
	return 1.0
}

// Max returns the maximum possible reward that can be received in the
// environment
func (b *Balance) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification for the environment
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
