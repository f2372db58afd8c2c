package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bathymetrix/rudics/internal/airtime"
	"github.com/bathymetrix/rudics/internal/config"
	"github.com/bathymetrix/rudics/internal/logger"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions FILE...",
	Short: "🔗 Show the sessions reconstructed from log files",
	Long: `# 🔗 Sessions

**Prints every connect/disconnect pairing found in the given files, then their combined report.**

Nothing is written to disk and **MERMAID** is not required.

## 💡 Examples

` + "```bash\nrudics sessions 452.020-P-0051/*_CYCLE.h\n```",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		return printSessions(cmd.OutOrStdout(), cfg, args)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func printSessions(out io.Writer, cfg *config.Config, files []string) error {
	totals := airtime.NewMonthlyTotals()
	var shared airtime.TimestampSet
	if cfg.EffectiveScope() == airtime.ScopeGroup {
		shared = airtime.NewTimestampSet()
	}

	for _, path := range files {
		seen := shared
		if seen == nil {
			seen = airtime.NewTimestampSet()
		}

		result, err := airtime.ScanFile(path, cfg.ScanOptions(), seen)
		if err != nil {
			logger.Logger.Error().Str("file", path).Err(err).Msg("failed to read log file")
		}
		if result == nil {
			continue
		}

		fmt.Fprintln(out, headerStyle.Render(path))
		for _, s := range result.Sessions {
			connect := "-"
			if s.Connect != nil {
				connect = s.Connect.Timestamp
			}
			line := fmt.Sprintf("  %-19s  %-19s  %7ds  %7.2f min  %s",
				connect, s.Disconnect.Timestamp, s.Seconds, s.Minutes(), s.Month())
			if s.Anomalous() {
				line += "  (clock anomaly)"
			}
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf(
			"  %d lines, %d events, %d duplicates, %d unpaired, %d sessions",
			result.Stats.Lines, result.Stats.Events, result.Stats.Duplicates,
			result.Stats.Unpaired, result.Stats.Sessions)))
		fmt.Fprintln(out)

		totals.Merge(result.Totals)
	}

	return airtime.WriteReport(out, totals)
}
