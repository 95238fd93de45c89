package envconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCreatesPendulum(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	e, first, err := c.CreateEnv(1)
	require.NoError(t, err)
	assert.True(t, first.First())
	assert.Equal(t, 4, e.ObservationSpec().Dims())
	assert.Equal(t, 1, e.ActionSpec().Dims())
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"environment":   func(c *Config) { c.Environment = "Cartpole" },
		"task":          func(c *Config) { c.Task = "SwingUp" },
		"episode steps": func(c *Config) { c.EpisodeSteps = 0 },
		"fail angle":    func(c *Config) { c.FailAngle = -1 },
		"start bound":   func(c *Config) { c.StartBound = -0.1 },
		"discount":      func(c *Config) { c.Discount = 1.5 },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			assert.Error(t, c.Validate())

			_, _, err := c.CreateEnv(1)
			assert.Error(t, err)
		})
	}
}
