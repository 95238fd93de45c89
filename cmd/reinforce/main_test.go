package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samuelfneumann/goreinforce/experiment"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	require.NoError(t, root.Execute())

	return out.String()
}

func printedConfig(t *testing.T, args ...string) experiment.Config {
	t.Helper()

	var cfg experiment.Config
	out := execute(t, append([]string{"config"}, args...)...)
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	return cfg
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, experiment.DefaultConfig(), printedConfig(t))
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "exp.json")
	err := os.WriteFile(file, []byte(`{
		"episodes": 10,
		"seeds": [4, 7],
		"agent": {"gamma": 0.9, "hidden_sizes": [8]}
	}`), 0o644)
	require.NoError(t, err)

	cfg := printedConfig(t, "--config", file)
	assert.Equal(t, 10, cfg.Episodes)
	assert.Equal(t, []uint64{4, 7}, cfg.Seeds)
	assert.Equal(t, 0.9, cfg.Agent.Gamma)
	assert.Equal(t, []int{8}, cfg.Agent.HiddenSizes)

	// Keys missing from the file keep their defaults
	defaults := experiment.DefaultConfig()
	assert.Equal(t, defaults.ReportEvery, cfg.ReportEvery)
	assert.Equal(t, defaults.Agent.LearningRate, cfg.Agent.LearningRate)
}

func TestEnvironmentOverridesConfigFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "exp.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"episodes": 10}`), 0o644))
	t.Setenv("REINFORCE_EPISODES", "20")

	cfg := printedConfig(t, "--config", file)
	assert.Equal(t, 20, cfg.Episodes)
}

func TestEnvironmentOverridesWithoutConfigFile(t *testing.T) {
	t.Setenv("REINFORCE_AGENT_EPSILON", "0.001")
	t.Setenv("REINFORCE_AGENT_HIDDEN_SIZES", "8,4")
	t.Setenv("REINFORCE_SEEDS", "4,7")
	t.Setenv("REINFORCE_ENV_FAIL_ANGLE", "0.1")

	cfg := printedConfig(t)
	assert.Equal(t, 0.001, cfg.Agent.Epsilon)
	assert.Equal(t, []int{8, 4}, cfg.Agent.HiddenSizes)
	assert.Equal(t, []uint64{4, 7}, cfg.Seeds)
	assert.Equal(t, 0.1, cfg.Env.FailAngle)

	defaults := experiment.DefaultConfig()
	assert.Equal(t, defaults.Agent.Gamma, cfg.Agent.Gamma)
	assert.Equal(t, defaults.Episodes, cfg.Episodes)
}

func TestInvalidConfigIsRejected(t *testing.T) {
	file := filepath.Join(t.TempDir(), "exp.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"episodes": -1}`), 0o644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "--config", file})
	assert.Error(t, root.Execute())
}

func TestNewLogger(t *testing.T) {
	var out bytes.Buffer
	logger, err := newLogger(&out, "warn")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")

	_, err = newLogger(&out, "loud")
	assert.Error(t, err)
}

func TestRunWritesPlotAndData(t *testing.T) {
	dir := t.TempDir()
	plotFile := filepath.Join(dir, "curve.png")
	dataDir := filepath.Join(dir, "data")

	execute(t, "run", "--seeds", "1,2", "--episodes", "2",
		"--report-every", "1", "--log-level", "error",
		"--plot", plotFile, "--data", dataDir)

	_, err := os.Stat(plotFile)
	assert.NoError(t, err)

	files, err := os.ReadDir(dataDir)
	require.NoError(t, err)
	assert.Len(t, files, 4)
}
