package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bathymetrix/rudics/internal/logger"
	"github.com/bathymetrix/rudics/internal/processor"
)

// cacheSize bounds the per-file results kept between regenerations
const cacheSize = 4096

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "👀 Keep reports current as new logs arrive",
	Long: `# 👀 Watch

**Writes every report once, then rewrites a group's report whenever its CYCLE.h files change.**

Unchanged files are not parsed again when deduplication is per file.
Stop with **Ctrl-C**.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringSliceP("group", "g", nil, "Only watch the named group (repeatable)")
	watchCmd.Flags().Duration("debounce", 2*time.Second, "Quiet period before a changed group is rewritten")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireRoot(); err != nil {
		return err
	}
	groups, _ := cmd.Flags().GetStringSlice("group")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	proc := processor.New(cfg,
		processor.WithCache(cacheSize),
		processor.WithNotifier(consoleNotifier{out: out}),
	)

	watched, err := proc.Groups(groups)
	if err != nil {
		return err
	}
	w, err := processor.NewWatcher(proc, debounce)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := w.Add(watched...); err != nil {
		return fmt.Errorf("failed to watch groups: %w", err)
	}

	// Initial pass; watching starts first so nothing written meanwhile is missed
	if err := proc.Run(ctx, processor.RunOptions{Groups: groups}); err != nil {
		logger.Logger.Error().Err(err).Msg("initial report pass incomplete")
	}

	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("Watching %d group(s) for changes...", len(watched))))
	err = w.Run(ctx)

	stats := proc.CacheStats()
	logger.Logger.Debug().
		Int64("hits", stats.Hits).
		Int64("misses", stats.Misses).
		Int("size", stats.Size).
		Msg("file cache")
	return err
}
