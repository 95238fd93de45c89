package experiment

import (
	"context"
	"fmt"

	"github.com/samuelfneumann/goreinforce/agent"
	env "github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/experiment/trackers"
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// Online runs an agent online for a fixed number of episodes. The
// agent samples an action on each step, records the reward that
// follows, and updates once at the end of each episode.
type Online struct {
	env.Environment
	agent.Agent

	seed             uint64
	reseed           bool
	maxEpisodes      int
	finishedEpisodes int
	trackers         []trackers.Tracker
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The episodes parameter determines
// how many episodes the experiment is run for, and the t parameter is
// a slice of trackers.Tracker which determine what data is tracked.
//
// If reseed is true, the environment is reseeded with seed before
// every episode, so that every episode starts from the same state.
func NewOnline(e env.Environment, a agent.Agent, seed uint64, reseed bool,
	episodes int, t ...trackers.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		seed:        seed,
		reseed:      reseed,
		maxEpisodes: episodes,
		trackers:    t,
	}
}

// Register registers a Tracker with an Experiment so that data
// generated during the experiment can be tracked
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// RunEpisode runs a single episode of the experiment and updates the
// agent on the episode's trajectory
func (o *Online) RunEpisode() error {
	if o.reseed {
		o.Environment.Seed(o.seed)
	}

	step := o.Environment.Reset()
	o.track(step)

	for !step.Last() {
		action, err := o.Agent.SampleAction(step.Observation)
		if err != nil {
			o.Agent.Reset()
			return fmt.Errorf("runEpisode: step %v: %w", step.Number, err)
		}

		step, _ = o.Environment.Step(action)
		o.Agent.RecordReward(step.Reward)
		o.track(step)
	}

	if err := o.Agent.Update(); err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}
	o.finishedEpisodes++

	return nil
}

// Run runs all remaining episodes of the experiment, calling each
// hook after every episode. Run stops early if ctx is cancelled.
func (o *Online) Run(ctx context.Context, hooks ...func(episode int)) error {
	for o.finishedEpisodes < o.maxEpisodes {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run: stopped after %v episodes: %w",
				o.finishedEpisodes, err)
		}

		if err := o.RunEpisode(); err != nil {
			return fmt.Errorf("run: episode %v: %w", o.finishedEpisodes, err)
		}

		for _, hook := range hooks {
			hook(o.finishedEpisodes)
		}
	}
	return nil
}

// Episodes returns the number of episodes finished
func (o *Online) Episodes() int {
	return o.finishedEpisodes
}

// track tracks the current timestep by sending it to each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tracker := range o.trackers {
		tracker.Track(t)
	}
}
