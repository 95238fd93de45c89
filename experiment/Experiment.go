// Package experiment implements functionality for running an
// experiment: training independently seeded agents for a number of
// episodes each and collecting their learning curves.
package experiment

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/samuelfneumann/goreinforce/agent"
	"github.com/samuelfneumann/goreinforce/agent/reinforce"
	"github.com/samuelfneumann/goreinforce/environment/envconfig"
	"github.com/samuelfneumann/goreinforce/environment/wrappers"
	"github.com/samuelfneumann/goreinforce/experiment/trackers"
)

// Config represents a configuration of an experiment.
type Config struct {
	Seeds       []uint64 `mapstructure:"seeds" json:"seeds"`
	Episodes    int      `mapstructure:"episodes" json:"episodes"`
	ReportEvery int      `mapstructure:"report_every" json:"report_every"`

	// StatsQueueSize is the number of recent episodes averaged over
	// when reporting progress
	StatsQueueSize int `mapstructure:"stats_queue_size" json:"stats_queue_size"`

	// ReseedEveryEpisode reseeds the environment with the run's seed
	// at the start of every episode
	ReseedEveryEpisode bool `mapstructure:"reseed_every_episode" json:"reseed_every_episode"`

	Env   envconfig.Config `mapstructure:"env" json:"env"`
	Agent reinforce.Config `mapstructure:"agent" json:"agent"`
}

// DefaultConfig returns the default experiment: five seeds of 5000
// episodes each on the inverted pendulum, with progress reported every
// 1000 episodes.
func DefaultConfig() Config {
	return Config{
		Seeds:              []uint64{1, 2, 3, 5, 8},
		Episodes:           5000,
		ReportEvery:        1000,
		StatsQueueSize:     50,
		ReseedEveryEpisode: true,
		Env:                envconfig.Default(),
		Agent:              reinforce.DefaultConfig(),
	}
}

// Validate returns an error describing whether or not the
// configuration is valid
func (c Config) Validate() error {
	if len(c.Seeds) == 0 {
		return fmt.Errorf("validate: at least one seed is required")
	}
	seen := make(map[uint64]bool, len(c.Seeds))
	for _, seed := range c.Seeds {
		if seen[seed] {
			return fmt.Errorf("validate: duplicate seed %v", seed)
		}
		seen[seed] = true
	}
	if c.Episodes <= 0 {
		return fmt.Errorf("validate: episodes must be positive, have %v",
			c.Episodes)
	}
	if c.ReportEvery < 0 {
		return fmt.Errorf("validate: report every must be non-negative, "+
			"have %v", c.ReportEvery)
	}
	if c.StatsQueueSize <= 0 {
		return fmt.Errorf("validate: stats queue size must be positive, "+
			"have %v", c.StatsQueueSize)
	}
	if err := c.Env.Validate(); err != nil {
		return fmt.Errorf("validate: env: %v", err)
	}
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("validate: agent: %v", err)
	}
	if c.Agent.MaxEpisodeSteps < c.Env.EpisodeSteps {
		return fmt.Errorf("validate: agent max episode steps (%v) must be "+
			"at least the environment step limit (%v)",
			c.Agent.MaxEpisodeSteps, c.Env.EpisodeSteps)
	}
	return nil
}

// Result holds the learning curves of an experiment. Returns[i] and
// Lengths[i] hold the return and length of each episode run with
// Seeds[i].
type Result struct {
	RunID   uuid.UUID
	Seeds   []uint64
	Returns [][]float64
	Lengths [][]float64
}

// Save saves the returns and episode lengths of each seed to dir, one
// gob encoded file per seed and quantity
func (r *Result) Save(dir string) error {
	for i, seed := range r.Seeds {
		base := fmt.Sprintf("%v_seed%d", r.RunID, seed)

		err := trackers.SaveData(filepath.Join(dir, base+"_returns.gob"),
			r.Returns[i])
		if err != nil {
			return fmt.Errorf("save: %v", err)
		}

		err = trackers.SaveData(filepath.Join(dir, base+"_lengths.gob"),
			r.Lengths[i])
		if err != nil {
			return fmt.Errorf("save: %v", err)
		}
	}
	return nil
}

// EpisodeHook is called after every finished episode of an experiment
type EpisodeHook func(seed uint64, episode int)

// Run runs the experiment described by c. For each seed, in order, a
// new environment and agent are created and the agent is trained for
// c.Episodes episodes. Every c.ReportEvery episodes, the mean return
// over the last c.StatsQueueSize episodes is logged.
func Run(ctx context.Context, c Config, logger zerolog.Logger,
	hooks ...EpisodeHook) (*Result, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("run: %v", err)
	}

	result := &Result{
		RunID:   uuid.New(),
		Seeds:   append([]uint64(nil), c.Seeds...),
		Returns: make([][]float64, 0, len(c.Seeds)),
		Lengths: make([][]float64, 0, len(c.Seeds)),
	}
	logger = logger.With().Str("run_id", result.RunID.String()).Logger()
	logger.Info().
		Uints64("seeds", c.Seeds).
		Int("episodes", c.Episodes).
		Str("agent", string(c.Agent.Type())).
		Msg("starting experiment")

	for _, seed := range c.Seeds {
		returns, lengths, err := runSeed(ctx, c, seed, logger, hooks)
		if err != nil {
			return nil, fmt.Errorf("run: seed %v: %w", seed, err)
		}
		result.Returns = append(result.Returns, returns)
		result.Lengths = append(result.Lengths, lengths)
	}

	return result, nil
}

// runSeed trains a single agent with all randomness derived from seed
func runSeed(ctx context.Context, c Config, seed uint64,
	logger zerolog.Logger, hooks []EpisodeHook) ([]float64, []float64,
	error) {
	logger = logger.With().Uint64("seed", seed).Logger()
	start := time.Now()

	e, _, err := c.Env.CreateEnv(seed)
	if err != nil {
		return nil, nil, err
	}
	stats, _, err := wrappers.NewEpisodeStatistics(e, c.StatsQueueSize)
	if err != nil {
		return nil, nil, err
	}

	a, err := c.Agent.CreateAgent(stats, seed)
	if err != nil {
		return nil, nil, err
	}
	if closer, ok := a.(agent.Closer); ok {
		defer closer.Close()
	}

	returns := trackers.NewReturn()
	lengths := trackers.NewEpisodeLength()
	online := NewOnline(stats, a, seed, c.ReseedEveryEpisode, c.Episodes,
		returns, lengths)

	report := func(episode int) {
		if c.ReportEvery > 0 && episode%c.ReportEvery == 0 {
			logger.Info().
				Int("episode", episode).
				Float64("avg_return", stats.MeanReturn()).
				Msg("progress")
		}
		for _, hook := range hooks {
			hook(seed, episode)
		}
	}

	if err := online.Run(ctx, report); err != nil {
		return nil, nil, err
	}

	logger.Info().
		Dur("elapsed", time.Since(start)).
		Float64("avg_return", stats.MeanReturn()).
		Msg("seed finished")

	return returns.Data(), lengths.Data(), nil
}
