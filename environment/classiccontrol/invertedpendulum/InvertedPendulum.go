// Package invertedpendulum implements a continuous-action inverted
// pendulum balancing environment: a pole is hinged to a cart that
// slides along a rail, and the agent pushes the cart left or right to
// keep the pole upright.
package invertedpendulum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goreinforce/environment"
	ts "github.com/samuelfneumann/goreinforce/timestep"
	"github.com/samuelfneumann/goreinforce/utils/floatutils"
)

const (
	// Physical constants
	Gravity        float64 = 9.81
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5
	ForceScale     float64 = 10.0 / 3.0 // Newtons per unit of action
	Dt             float64 = 0.02       // seconds per integration step
	FrameSkip      int     = 2          // integration steps per env step

	// RailLength bounds the cart position to [-RailLength, RailLength]
	RailLength float64 = 1.0

	// Continuous action bounds
	MinContinuousAction float64 = -3.0
	MaxContinuousAction float64 = 3.0

	// ObservationDims is the number of state features
	ObservationDims int = 4
	// ActionDims is the number of action dimensions
	ActionDims int = 1
)

// Indices of the state features in an observation
const (
	Position int = iota
	Angle
	Speed
	AngularVelocity
)

// InvertedPendulum implements the inverted pendulum environment.
//
// Observations are continuous and consist of, in order: the cart's
// position on the rail, the pole's angle from the upright position,
// the cart's speed, and the pole's angular velocity.
//
// Actions are one-dimensional and continuous. An action is the force
// applied to the cart, scaled by ForceScale: its sign is the direction
// and its magnitude the intensity of the push. Actions outside of
// [MinContinuousAction, MaxContinuousAction] are clipped to that range.
//
// Rewards, episode termination, and starting states are determined by
// the embedded Task.
type InvertedPendulum struct {
	env.Task
	lastStep ts.TimeStep
	discount float64

	gravity        float64
	cartMass       float64
	poleMass       float64
	halfPoleLength float64
	forceScale     float64
	dt             float64
	frameSkip      int

	railBounds   r1.Interval
	actionBounds r1.Interval
}

// New constructs a new InvertedPendulum environment and returns it
// along with the first timestep of the first episode.
func New(t env.Task, discount float64) (*InvertedPendulum, ts.TimeStep) {
	p := &InvertedPendulum{
		Task:           t,
		discount:       discount,
		gravity:        Gravity,
		cartMass:       CartMass,
		poleMass:       PoleMass,
		halfPoleLength: HalfPoleLength,
		forceScale:     ForceScale,
		dt:             Dt,
		frameSkip:      FrameSkip,
		railBounds:     r1.Interval{Min: -RailLength, Max: RailLength},
		actionBounds: r1.Interval{
			Min: MinContinuousAction,
			Max: MaxContinuousAction,
		},
	}

	return p, p.Reset()
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (p *InvertedPendulum) Reset() ts.TimeStep {
	state := p.Start()
	if state.Len() != ObservationDims {
		panic(fmt.Sprintf("reset: starter returned a state with %v "+
			"features \n\twant(%v) \n\thave(%v)", state.Len(),
			ObservationDims, state.Len()))
	}
	state.SetVec(Position, floatutils.ClipInterval(state.AtVec(Position),
		p.railBounds))

	startStep := ts.New(ts.First, 0, p.discount, state, 0)
	p.lastStep = startStep

	return startStep
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended. Step panics if called after the episode has
// ended and before Reset.
func (p *InvertedPendulum) Step(a mat.Vector) (ts.TimeStep, bool) {
	if p.lastStep.Last() {
		panic("step: episode has ended, call Reset() before Step()")
	}
	if a.Len() != ActionDims {
		panic(fmt.Sprintf("step: illegal action dimensions \n\twant(%v) "+
			"\n\thave(%v)", ActionDims, a.Len()))
	}

	clipped := floatutils.ClipInterval(a.AtVec(0), p.actionBounds)
	force := clipped * p.forceScale

	newState := p.nextState(p.lastStep.Observation, force)
	reward := p.GetReward(p.lastStep.Observation,
		mat.NewVecDense(1, []float64{clipped}), newState)
	nextStep := ts.New(ts.Mid, reward, p.discount, newState,
		p.lastStep.Number+1)

	// Check if the step ends the episode
	p.End(&nextStep)

	p.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// nextState integrates the cart/pole dynamics for frameSkip steps of
// semi-implicit Euler integration under a constant force.
func (p *InvertedPendulum) nextState(state mat.Vector,
	force float64) *mat.VecDense {
	x, th := state.AtVec(Position), state.AtVec(Angle)
	xDot, thDot := state.AtVec(Speed), state.AtVec(AngularVelocity)

	totalMass := p.poleMass + p.cartMass
	poleMassLength := p.poleMass * p.halfPoleLength

	for i := 0; i < p.frameSkip; i++ {
		cosTheta := math.Cos(th)
		sinTheta := math.Sin(th)

		temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
		thAcc := (p.gravity*sinTheta - cosTheta*temp) / (p.halfPoleLength *
			(4.0/3.0 - p.poleMass*cosTheta*cosTheta/totalMass))
		xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

		xDot += p.dt * xAcc
		x += p.dt * xDot
		thDot += p.dt * thAcc
		th += p.dt * thDot

		// The cart stops dead at the ends of the rail
		if x > p.railBounds.Max || x < p.railBounds.Min {
			x = floatutils.ClipInterval(x, p.railBounds)
			xDot = 0
		}
	}

	return mat.NewVecDense(ObservationDims, []float64{x, th, xDot, thDot})
}

// LastStep returns the most recent timestep of the environment
func (p *InvertedPendulum) LastStep() ts.TimeStep {
	return p.lastStep
}

// ActionSpec returns the action specification of the environment
func (p *InvertedPendulum) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{p.actionBounds.Min})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{p.actionBounds.Max})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Continuous)
}

// ObservationSpec returns the observation specification of the
// environment
func (p *InvertedPendulum) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	inf := math.Inf(1)
	lowerBound := mat.NewVecDense(ObservationDims,
		[]float64{p.railBounds.Min, -inf, -inf, -inf})
	upperBound := mat.NewVecDense(ObservationDims,
		[]float64{p.railBounds.Max, inf, inf, inf})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (p *InvertedPendulum) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{p.discount})
	upperBound := mat.NewVecDense(1, []float64{p.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

func (p *InvertedPendulum) String() string {
	msg := "InvertedPendulum  |  Position: %v  |  Angle: %v  |  Speed: %v" +
		"  |  Angular Velocity: %v"

	state := p.lastStep.Observation
	return fmt.Sprintf(msg, state.AtVec(Position), state.AtVec(Angle),
		state.AtVec(Speed), state.AtVec(AngularVelocity))
}
