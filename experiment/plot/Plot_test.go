package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/goreinforce/experiment"
)

func TestSummarize(t *testing.T) {
	curve, err := Summarize([][]float64{
		{1, 2, 3},
		{3, 4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, []float64{2, 3, 4}, curve.Mean)
	assert.Equal(t, []float64{1, 2, 3}, curve.Min)
	assert.Equal(t, []float64{3, 4, 5}, curve.Max)

	_, err = Summarize(nil)
	assert.Error(t, err)
}

func TestSmooth(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, []float64{1, 1.5, 2, 3, 4}, Smooth(data, 3))
	assert.Equal(t, data, Smooth(data, 1))
	assert.Empty(t, Smooth(nil, 3))
}

func TestLearningCurveWritesImage(t *testing.T) {
	result := &experiment.Result{
		RunID:   uuid.New(),
		Seeds:   []uint64{1, 2},
		Returns: [][]float64{{1, 5, 9, 12}, {2, 3, 10, 20}},
	}

	for _, name := range []string{"curve.png", "curve.svg"} {
		filename := filepath.Join(t.TempDir(), name)
		require.NoError(t, LearningCurve(result, "REINFORCE", filename))

		info, err := os.Stat(filename)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestLearningCurveNoData(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "curve.png")
	err := LearningCurve(&experiment.Result{}, "empty", filename)
	assert.Error(t, err)
}
