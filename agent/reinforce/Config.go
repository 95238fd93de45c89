package reinforce

import (
	"fmt"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/initwfn"
	"github.com/samuelfneumann/goreinforce/network"
	"github.com/samuelfneumann/goreinforce/solver"
)

// Config implements a configuration of a REINFORCE agent with a
// Gaussian policy parameterized by a tree MLP.
type Config struct {
	// Discount factor γ used to compute returns
	Gamma float64 `mapstructure:"gamma" json:"gamma"`

	LearningRate float64 `mapstructure:"learning_rate" json:"learning_rate"`

	// Offset added to both the mean and standard deviation of the
	// policy for numerical stability
	Epsilon float64 `mapstructure:"epsilon" json:"epsilon"`

	HiddenSizes []int  `mapstructure:"hidden_sizes" json:"hidden_sizes"`
	Activation  string `mapstructure:"activation" json:"activation"`

	// MaxEpisodeSteps is the longest episode the agent can learn from,
	// and is the batch size of the training policy
	MaxEpisodeSteps int `mapstructure:"max_episode_steps" json:"max_episode_steps"`

	Solver   solver.Type  `mapstructure:"solver" json:"solver"`
	InitWFn  initwfn.Type `mapstructure:"init" json:"init"`
	InitGain float64      `mapstructure:"init_gain" json:"init_gain"`
}

// DefaultConfig returns the default REINFORCE configuration
func DefaultConfig() Config {
	return Config{
		Gamma:           0.99,
		LearningRate:    1e-4,
		Epsilon:         1e-6,
		HiddenSizes:     []int{16, 32},
		Activation:      "tanh",
		MaxEpisodeSteps: 1000,
		Solver:          solver.Adam,
		InitWFn:         initwfn.GlorotU,
		InitGain:        1.0,
	}
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.Gamma < 0 || c.Gamma > 1 {
		return fmt.Errorf("gamma must be in [0, 1], have %v", c.Gamma)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, have %v",
			c.LearningRate)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, have %v", c.Epsilon)
	}
	if len(c.HiddenSizes) == 0 {
		return fmt.Errorf("at least one hidden layer is required")
	}
	for i, size := range c.HiddenSizes {
		if size <= 0 {
			return fmt.Errorf("hidden layer %v must have a positive "+
				"size, have %v", i, size)
		}
	}
	if _, err := network.ActivationByName(c.Activation); err != nil {
		return err
	}
	if c.MaxEpisodeSteps <= 0 {
		return fmt.Errorf("max episode steps must be positive, have %v",
			c.MaxEpisodeSteps)
	}
	if _, err := solver.New(c.Solver, c.LearningRate); err != nil {
		return err
	}
	if _, err := initwfn.New(c.InitWFn, c.InitGain); err != nil {
		return err
	}
	return nil
}

// Type returns the type of agent that the Config creates
func (c Config) Type() agent.Type {
	return agent.GaussianREINFORCETreeMLP
}

// CreateAgent creates a new REINFORCE agent for env, with all
// randomness derived from seed
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	if env.ActionSpec().Cardinality != environment.Continuous {
		return nil, fmt.Errorf("createAgent: actions must be continuous")
	}

	features := env.ObservationSpec().Dims()
	actionDims := env.ActionSpec().Dims()
	return New(features, actionDims, c, seed)
}
