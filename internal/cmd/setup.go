package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bathymetrix/rudics/internal/airtime"
	"github.com/bathymetrix/rudics/internal/config"
	"github.com/bathymetrix/rudics/internal/logger"
)

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "Path to a YAML config file (default <root>/"+config.DefaultFileName+")")
	flags.String("root", "", "Data root, overrides $"+config.EnvRoot)
	flags.String("mode", "", "Correlation mode: paired or legacy")
	flags.String("dedup-scope", "", "Timestamp deduplication scope: file or group")
	flags.String("pair-policy", "", "Open connection after pairing: hold or clear")
	flags.Int("workers", 0, "Files scanned concurrently per group")
	flags.Bool("compressed", false, "Also read gzip-compressed logs (<suffix>.gz)")
	flags.Bool("debug", false, "Enable debug logging")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(cmd)
	}
}

func setupLogging(cmd *cobra.Command) {
	level := logger.GetLogLevelFromEnv()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = logger.LevelDebug
	}
	logger.Configure(level, logger.IsTerminal(os.Stderr))
	logger.SetRunID(uuid.New().String())
}

// resolveConfig loads the config file and environment, then applies any
// flags that were set explicitly
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	root, _ := flags.GetString("root")

	cfg, err := config.Load(path, root)
	if err != nil {
		return nil, err
	}

	if flags.Changed("mode") {
		mode, _ := flags.GetString("mode")
		cfg.Mode = airtime.Mode(mode)
	}
	if flags.Changed("dedup-scope") {
		scope, _ := flags.GetString("dedup-scope")
		cfg.DedupScope = airtime.DedupScope(scope)
	}
	if flags.Changed("pair-policy") {
		policy, _ := flags.GetString("pair-policy")
		cfg.PairPolicy = airtime.PairPolicy(policy)
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("compressed") {
		cfg.IncludeCompressed, _ = flags.GetBool("compressed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Logger.Debug().
		Str("root", cfg.Root).
		Str("mode", string(cfg.Mode)).
		Str("dedup_scope", string(cfg.EffectiveScope())).
		Str("pair_policy", string(cfg.PairPolicy)).
		Int("workers", cfg.Workers).
		Msg("configuration resolved")
	return cfg, nil
}
