package wrappers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	"github.com/samuelfneumann/goreinforce/environment"
	"github.com/samuelfneumann/goreinforce/environment/classiccontrol/invertedpendulum"
)

func newPendulum(t *testing.T, episodeSteps int) environment.Environment {
	t.Helper()

	zero := r1.Interval{Min: -1e-9, Max: 1e-9}
	starter := environment.NewUniformStarter(
		[]r1.Interval{zero, zero, zero, zero}, 1)
	task := invertedpendulum.NewBalance(starter, episodeSteps,
		invertedpendulum.FailAngle)
	p, _ := invertedpendulum.New(task, 0.99)

	return p
}

func runEpisode(e environment.Environment) int {
	e.Reset()
	steps := 0
	for done := false; !done; {
		_, done = e.Step(mat.NewVecDense(1, []float64{0}))
		steps++
	}
	return steps
}

func TestEpisodeStatisticsRecordsEpisodes(t *testing.T) {
	stats, first, err := NewEpisodeStatistics(newPendulum(t, 5), 3)
	require.NoError(t, err)
	assert.True(t, first.First())

	_, ok := stats.LastReturn()
	assert.False(t, ok)

	steps := runEpisode(stats)
	assert.Equal(t, 5, steps)

	ret, ok := stats.LastReturn()
	require.True(t, ok)
	assert.Equal(t, 5.0, ret)
	assert.Equal(t, []int{5}, stats.LengthQueue())
	assert.Equal(t, 1, stats.Episodes())
	assert.Equal(t, 5.0, stats.MeanReturn())
}

func TestEpisodeStatisticsQueueIsBounded(t *testing.T) {
	stats, _, err := NewEpisodeStatistics(newPendulum(t, 2), 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		runEpisode(stats)
	}

	assert.Len(t, stats.ReturnQueue(), 2)
	assert.Len(t, stats.LengthQueue(), 2)
	assert.Equal(t, 5, stats.Episodes())
	assert.Equal(t, 2, stats.QueueSize())
}

func TestEpisodeStatisticsDropsUnfinishedEpisodes(t *testing.T) {
	stats, _, err := NewEpisodeStatistics(newPendulum(t, 10), 5)
	require.NoError(t, err)

	stats.Step(mat.NewVecDense(1, []float64{0}))
	stats.Reset()
	runEpisode(stats)

	assert.Equal(t, []float64{10}, stats.ReturnQueue())
}

func TestEpisodeStatisticsQueueSizeValidated(t *testing.T) {
	_, _, err := NewEpisodeStatistics(newPendulum(t, 10), 0)
	assert.Error(t, err)
}
