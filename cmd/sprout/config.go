package main

import (
	"github.com/nexusagri/sprout"
	"github.com/spf13/cobra"
)

// addConfigFlags registers the flags shared by every command that starts a
// preloader.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "TOML config file")
	cmd.Flags().Int32("seed", 0, "override the topology seed")
	cmd.Flags().Bool("reduced-motion", false, "show the pulsing dot instead of branches")
	cmd.Flags().String("strategy", "", "topology strategy: radial, snake or recursive")
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
// Only flags set on the command line override file values.
func loadConfig(cmd *cobra.Command) (sprout.Config, error) {
	cfg := sprout.DefaultConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		var err error
		if cfg, err = sprout.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	return applyFlags(cmd, cfg)
}

func applyFlags(cmd *cobra.Command, cfg sprout.Config) (sprout.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt32("seed")
	}
	if flags.Changed("reduced-motion") {
		cfg.ReducedMotion, _ = flags.GetBool("reduced-motion")
	}
	if flags.Changed("strategy") {
		name, _ := flags.GetString("strategy")
		s, err := sprout.ParseStrategy(name)
		if err != nil {
			return cfg, err
		}
		cfg.Topology.Strategy = s
	}
	return cfg, cfg.Validate()
}
