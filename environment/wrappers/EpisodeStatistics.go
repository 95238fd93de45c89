package wrappers

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/goreinforce/environment"
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// EpisodeStatistics wraps an environment and records the return and
// length of each episode. Statistics of the most recent completed
// episodes are kept in rolling queues: once a queue holds queueSize
// entries, recording a new episode evicts the oldest one.
//
// EpisodeStatistics does not alter the timesteps of the wrapped
// environment and itself implements the environment.Environment
// interface.
type EpisodeStatistics struct {
	environment.Environment

	queueSize int
	returns   []float64
	lengths   []int

	currentReturn float64
	currentLength int
	episodes      int
}

// NewEpisodeStatistics creates and returns a new EpisodeStatistics
// environment wrapper along with the first timestep of the wrapped
// environment.
func NewEpisodeStatistics(env environment.Environment,
	queueSize int) (*EpisodeStatistics, ts.TimeStep, error) {
	if queueSize <= 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newEpisodeStatistics: queue "+
			"size must be positive \n\thave(%v)", queueSize)
	}

	e := &EpisodeStatistics{
		Environment: env,
		queueSize:   queueSize,
		returns:     make([]float64, 0, queueSize),
		lengths:     make([]int, 0, queueSize),
	}

	return e, e.Reset(), nil
}

// Reset resets the wrapped environment and starts recording a new
// episode. Statistics of an unfinished episode are discarded.
func (e *EpisodeStatistics) Reset() ts.TimeStep {
	e.currentReturn = 0
	e.currentLength = 0

	return e.Environment.Reset()
}

// Step takes one step in the wrapped environment. If the step ends the
// episode, the episode's return and length are pushed onto the
// rolling queues.
func (e *EpisodeStatistics) Step(a mat.Vector) (ts.TimeStep, bool) {
	step, last := e.Environment.Step(a)

	e.currentReturn += step.Reward
	e.currentLength++

	if last {
		e.record(e.currentReturn, e.currentLength)
		e.currentReturn = 0
		e.currentLength = 0
	}

	return step, last
}

// record pushes an episode's statistics onto the rolling queues
func (e *EpisodeStatistics) record(ret float64, length int) {
	if len(e.returns) == e.queueSize {
		copy(e.returns, e.returns[1:])
		e.returns = e.returns[:len(e.returns)-1]

		copy(e.lengths, e.lengths[1:])
		e.lengths = e.lengths[:len(e.lengths)-1]
	}

	e.returns = append(e.returns, ret)
	e.lengths = append(e.lengths, length)
	e.episodes++
}

// ReturnQueue returns the returns of the most recently completed
// episodes, oldest first.
func (e *EpisodeStatistics) ReturnQueue() []float64 {
	out := make([]float64, len(e.returns))
	copy(out, e.returns)
	return out
}

// LengthQueue returns the lengths of the most recently completed
// episodes, oldest first.
func (e *EpisodeStatistics) LengthQueue() []int {
	out := make([]int, len(e.lengths))
	copy(out, e.lengths)
	return out
}

// LastReturn returns the return of the most recently completed
// episode and whether any episode has been completed.
func (e *EpisodeStatistics) LastReturn() (float64, bool) {
	if len(e.returns) == 0 {
		return 0, false
	}
	return e.returns[len(e.returns)-1], true
}

// MeanReturn returns the mean of the return queue, or 0 if no episode
// has been completed.
func (e *EpisodeStatistics) MeanReturn() float64 {
	if len(e.returns) == 0 {
		return 0
	}
	return stat.Mean(e.returns, nil)
}

// Episodes returns the total number of completed episodes
func (e *EpisodeStatistics) Episodes() int {
	return e.episodes
}

// QueueSize returns the capacity of the rolling queues
func (e *EpisodeStatistics) QueueSize() int {
	return e.queueSize
}

func (e *EpisodeStatistics) String() string {
	return fmt.Sprintf("EpisodeStatistics(%v) | Episodes: %v | Mean "+
		"Return: %.2f", e.Environment, e.episodes, e.MeanReturn())
}
