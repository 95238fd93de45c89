// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/environment/classiccontrol/invertedpendulum"
	ts "github.com/samuelfneumann/goreinforce/timestep"
)

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	InvertedPendulum EnvName = "InvertedPendulum"
)

// TaskName stores the tasks that can be configured with this package.
// The tasks that can be used with each environment are as follows:
//
//	Environment			Task
//	InvertedPendulum	Balance
type TaskName string

// Tasks available for configuration
const (
	Balance TaskName = "Balance"
)

// Config implements a specific configuration of a specific environment
// and specific task.
type Config struct {
	Environment  EnvName  `mapstructure:"environment" json:"environment"`
	Task         TaskName `mapstructure:"task" json:"task"`
	EpisodeSteps int      `mapstructure:"episode_steps" json:"episode_steps"`
	FailAngle    float64  `mapstructure:"fail_angle" json:"fail_angle"`
	StartBound   float64  `mapstructure:"start_bound" json:"start_bound"`
	Discount     float64  `mapstructure:"discount" json:"discount"`
}

// Default returns the configuration of the inverted pendulum balance
// task with a step limit of 1000 and a fail angle of 0.2 radians.
func Default() Config {
	return Config{
		Environment:  InvertedPendulum,
		Task:         Balance,
		EpisodeSteps: invertedpendulum.EpisodeSteps,
		FailAngle:    invertedpendulum.FailAngle,
		StartBound:   invertedpendulum.StartBound,
		Discount:     0.99,
	}
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.Environment != InvertedPendulum {
		return fmt.Errorf("unknown environment %q", c.Environment)
	}
	if c.Task != Balance {
		return fmt.Errorf("task %q cannot be used with environment %q",
			c.Task, c.Environment)
	}
	if c.EpisodeSteps <= 0 {
		return fmt.Errorf("episode steps must be positive \n\thave(%v)",
			c.EpisodeSteps)
	}
	if c.FailAngle <= 0 || c.FailAngle > math.Pi {
		return fmt.Errorf("fail angle must be in (0, π] \n\thave(%v)",
			c.FailAngle)
	}
	if c.StartBound < 0 {
		return fmt.Errorf("start bound cannot be negative \n\thave(%v)",
			c.StartBound)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("discount must be in [0, 1] \n\thave(%v)",
			c.Discount)
	}
	return nil
}

// CreateEnv returns the environment described by the Config as well as
// the first timestep of the environment.
func (c Config) CreateEnv(seed uint64) (env.Environment, ts.TimeStep,
	error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("createEnv: %v", err)
	}

	bounds := make([]r1.Interval, invertedpendulum.ObservationDims)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -c.StartBound, Max: c.StartBound}
	}
	starter := env.NewUniformStarter(bounds, seed)
	task := invertedpendulum.NewBalance(starter, c.EpisodeSteps,
		c.FailAngle)

	e, first := invertedpendulum.New(task, c.Discount)
	return e, first, nil
}
