package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/goreinforce/experiment"
	"github.com/samuelfneumann/goreinforce/experiment/plot"
	"github.com/samuelfneumann/goreinforce/utils/progressbar"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	defaults := experiment.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Train one agent per seed and plot the learning curves",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v)
		},
	}

	seeds := make([]int, len(defaults.Seeds))
	for i, seed := range defaults.Seeds {
		seeds[i] = int(seed)
	}

	flags := cmd.Flags()
	flags.IntSlice("seeds", seeds, "Seeds to train an agent with, one agent per seed")
	flags.Int("episodes", defaults.Episodes, "Episodes to train each agent for")
	flags.Int("report-every", defaults.ReportEvery, "Log the average return every this many episodes (0 to disable)")
	flags.Float64("gamma", defaults.Agent.Gamma, "Discount factor")
	flags.Float64("learning-rate", defaults.Agent.LearningRate, "Policy learning rate")
	flags.String("plot", "reinforce.png", "Learning curve output file, format by extension (empty to disable)")
	flags.String("data", "", "Directory to save per-seed returns and episode lengths to (empty to disable)")
	flags.Bool("progress", false, "Display a progress bar")

	v.BindPFlag("seeds", flags.Lookup("seeds"))
	v.BindPFlag("episodes", flags.Lookup("episodes"))
	v.BindPFlag("report_every", flags.Lookup("report-every"))
	v.BindPFlag("agent.gamma", flags.Lookup("gamma"))
	v.BindPFlag("agent.learning_rate", flags.Lookup("learning-rate"))
	v.BindPFlag("plot", flags.Lookup("plot"))
	v.BindPFlag("data", flags.Lookup("data"))
	v.BindPFlag("progress", flags.Lookup("progress"))

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper) error {
	logger, err := stderrLogger(v)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, v)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt,
		syscall.SIGTERM)
	defer stop()

	var hooks []experiment.EpisodeHook
	if v.GetBool("progress") {
		bar := progressbar.NewProgressBar(os.Stderr, 50,
			len(cfg.Seeds)*cfg.Episodes, time.Second)
		bar.Display()
		defer bar.Close()

		hooks = append(hooks, func(uint64, int) { bar.Increment() })
	}

	result, err := experiment.Run(ctx, cfg, logger, hooks...)
	if err != nil {
		return err
	}

	if dir := v.GetString("data"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("run: could not create data directory: %v", err)
		}
		if err := result.Save(dir); err != nil {
			return err
		}
		logger.Info().Str("dir", dir).Msg("saved data")
	}

	if filename := v.GetString("plot"); filename != "" {
		title := "REINFORCE for InvertedPendulum"
		if err := plot.LearningCurve(result, title, filename); err != nil {
			return err
		}
		logger.Info().Str("file", filename).Msg("saved learning curve")
	}

	return nil
}
