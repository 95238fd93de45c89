package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/goreinforce/experiment"
)

// envPrefix prefixes environment variables that override configuration,
// e.g. REINFORCE_EPISODES or REINFORCE_AGENT_GAMMA
const envPrefix = "REINFORCE"

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "reinforce",
		Short: "REINFORCE on a continuous inverted pendulum",
		Long: `Trains a Gaussian policy with the REINFORCE policy gradient algorithm
on a continuous inverted pendulum, once per seed, and reports the
average return as training progresses.

Configuration is read from (in increasing priority) built in defaults,
an optional config file, REINFORCE_* environment variables, and flags.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Config file (JSON, YAML, or TOML)")
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(newRunCmd(v), newConfigCmd(v))
	return root
}

// loadConfig returns the experiment configuration built from defaults,
// the config file named by the --config flag, environment variables,
// and any flags bound to v.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (experiment.Config, error) {
	cfg := experiment.DefaultConfig()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	if err := setDefaults(v, cfg); err != nil {
		return cfg, fmt.Errorf("loadConfig: %v", err)
	}

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return cfg, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("loadConfig: could not read %v: %v",
				path, err)
		}
	}

	// Slices from the file replace default slices rather than
	// overwriting their leading elements
	zeroSlices := func(c *mapstructure.DecoderConfig) { c.ZeroFields = true }
	if err := v.Unmarshal(&cfg, zeroSlices); err != nil {
		return cfg, fmt.Errorf("loadConfig: %v", err)
	}
	return cfg, cfg.Validate()
}

// setDefaults registers every field of cfg as a default of v, keyed
// by its dotted mapstructure path such as agent.hidden_sizes
func setDefaults(v *viper.Viper, cfg experiment.Config) error {
	settings := make(map[string]interface{})
	if err := mapstructure.Decode(cfg, &settings); err != nil {
		return fmt.Errorf("setDefaults: %v", err)
	}
	setNested(v, "", settings)
	return nil
}

func setNested(v *viper.Viper, prefix string, settings map[string]interface{}) {
	for name, value := range settings {
		key := name
		if prefix != "" {
			key = prefix + "." + name
		}
		if sub, ok := value.(map[string]interface{}); ok {
			setNested(v, key, sub)
			continue
		}
		v.SetDefault(key, value)
	}
}

// newLogger returns a human readable logger writing to out at the
// given level
func newLogger(out io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("newLogger: %v", err)
	}

	writer := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}

func stderrLogger(v *viper.Viper) (zerolog.Logger, error) {
	return newLogger(os.Stderr, v.GetString("log_level"))
}
