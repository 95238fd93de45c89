package experiment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/goreinforce/environment/envconfig"
	"github.com/samuelfneumann/goreinforce/experiment/trackers"
)

func smallConfig() Config {
	c := DefaultConfig()
	c.Seeds = []uint64{1, 2}
	c.Episodes = 3
	c.ReportEvery = 2
	c.StatsQueueSize = 5
	c.Env.EpisodeSteps = 20
	c.Agent.MaxEpisodeSteps = 20
	c.Agent.HiddenSizes = []int{8}
	return c
}

// fixedAgent always pushes the cart with the same force
type fixedAgent struct {
	force   float64
	steps   int
	rewards int
	updates int
}

func (f *fixedAgent) SampleAction(mat.Vector) (*mat.VecDense, error) {
	f.steps++
	return mat.NewVecDense(1, []float64{f.force}), nil
}

func (f *fixedAgent) RecordReward(float64) { f.rewards++ }

func (f *fixedAgent) Update() error {
	f.updates++
	return nil
}

func (f *fixedAgent) Reset() {}

func TestOnlineRunsEpisodesAndUpdates(t *testing.T) {
	cfg := envconfig.Default()
	cfg.EpisodeSteps = 15
	e, _, err := cfg.CreateEnv(1)
	require.NoError(t, err)

	a := &fixedAgent{force: 0}
	lengths := trackers.NewEpisodeLength()
	online := NewOnline(e, a, 1, true, 4, lengths)

	var hooked []int
	require.NoError(t, online.Run(context.Background(),
		func(episode int) { hooked = append(hooked, episode) }))

	assert.Equal(t, 4, online.Episodes())
	assert.Equal(t, 4, a.updates)
	assert.Equal(t, a.steps, a.rewards)
	assert.Equal(t, []int{1, 2, 3, 4}, hooked)

	// Reseeding with a constant action repeats the same episode
	data := lengths.Data()
	require.Len(t, data, 4)
	for _, length := range data {
		assert.Equal(t, data[0], length)
	}
}

func TestOnlineStopsOnCancel(t *testing.T) {
	e, _, err := envconfig.Default().CreateEnv(1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	online := NewOnline(e, &fixedAgent{}, 1, true, 10)
	err = online.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, online.Episodes())
}

func TestRunCollectsLearningCurves(t *testing.T) {
	c := smallConfig()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	episodes := map[uint64]int{}
	result, err := Run(context.Background(), c, logger,
		func(seed uint64, episode int) { episodes[seed] = episode })
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.RunID)
	assert.Equal(t, c.Seeds, result.Seeds)
	require.Len(t, result.Returns, 2)
	require.Len(t, result.Lengths, 2)
	for i := range result.Seeds {
		require.Len(t, result.Returns[i], c.Episodes)
		require.Len(t, result.Lengths[i], c.Episodes)

		// Every step is rewarded with 1
		for j := range result.Returns[i] {
			assert.Equal(t, result.Lengths[i][j], result.Returns[i][j])
			assert.LessOrEqual(t, result.Lengths[i][j],
				float64(c.Env.EpisodeSteps))
			assert.GreaterOrEqual(t, result.Lengths[i][j], 1.0)
		}
	}
	assert.Equal(t, map[uint64]int{1: 3, 2: 3}, episodes)

	assert.Contains(t, buf.String(), `"message":"progress"`)
	assert.Contains(t, buf.String(), `"avg_return"`)
}

func TestRunIsReproducible(t *testing.T) {
	c := smallConfig()
	c.Seeds = []uint64{3}

	a, err := Run(context.Background(), c, zerolog.Nop())
	require.NoError(t, err)
	b, err := Run(context.Background(), c, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, a.Returns, b.Returns)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestResultSave(t *testing.T) {
	result := &Result{
		RunID:   uuid.New(),
		Seeds:   []uint64{1},
		Returns: [][]float64{{1, 2, 3}},
		Lengths: [][]float64{{1, 2, 3}},
	}
	dir := t.TempDir()
	require.NoError(t, result.Save(dir))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)

	data, err := trackers.LoadData(filepath.Join(dir,
		result.RunID.String()+"_seed1_returns.gob"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, data)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	for name, mutate := range map[string]func(*Config){
		"noSeeds":   func(c *Config) { c.Seeds = nil },
		"dupSeeds":  func(c *Config) { c.Seeds = []uint64{1, 1} },
		"episodes":  func(c *Config) { c.Episodes = 0 },
		"report":    func(c *Config) { c.ReportEvery = -1 },
		"queue":     func(c *Config) { c.StatsQueueSize = 0 },
		"env":       func(c *Config) { c.Env.EpisodeSteps = 0 },
		"agent":     func(c *Config) { c.Agent.Gamma = 2 },
		"batchSize": func(c *Config) { c.Agent.MaxEpisodeSteps = 10 },
	} {
		c := DefaultConfig()
		mutate(&c)
		assert.Error(t, c.Validate(), name)
	}
}
