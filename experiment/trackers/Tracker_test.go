package trackers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	ts "github.com/samuelfneumann/goreinforce/timestep"
)

func episode(rewards ...float64) []ts.TimeStep {
	obs := mat.NewVecDense(1, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, 1, obs, 0)}
	for i, r := range rewards {
		kind := ts.Mid
		if i == len(rewards)-1 {
			kind = ts.Last
		}
		steps = append(steps, ts.New(kind, r, 1, obs, i+1))
	}
	return steps
}

func track(t Tracker, steps []ts.TimeStep) {
	for _, step := range steps {
		t.Track(step)
	}
}

func TestReturnTracksEpisodeSums(t *testing.T) {
	r := NewReturn()
	track(r, episode(1, 1, 1))
	track(r, episode(2, -1))
	track(r, episode(5)[:1]) // Unfinished episode

	assert.Equal(t, []float64{3, 1}, r.Data())
}

func TestEpisodeLengthTracksLengths(t *testing.T) {
	e := NewEpisodeLength()
	track(e, episode(1, 1, 1))
	track(e, episode(1))

	assert.Equal(t, []float64{3, 1}, e.Data())
}

func TestSaveAndLoadData(t *testing.T) {
	r := NewReturn()
	track(r, episode(1, 2))
	track(r, episode(4))

	filename := filepath.Join(t.TempDir(), "returns.gob")
	require.NoError(t, r.Save(filename))

	data, err := LoadData(filename)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, data)
}

func TestLoadDataMissingFile(t *testing.T) {
	_, err := LoadData(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}
