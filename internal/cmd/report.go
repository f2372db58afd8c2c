package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bathymetrix/rudics/internal/processor"
)

type reportOptions struct {
	groups []string
	dryRun bool
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "📝 Write monthly airtime reports for every float",
	Long: `# 📝 Airtime Reports

**Scans each float directory and writes its monthly airtime totals.**

## 📁 Layout

- Groups are the directories in **$MERMAID/processed_everyone**
- Directories starting with **.** are skipped
- Every **CYCLE.h** file below a group is scanned
- The report is written to **<group>/rudics_minutes.txt**

## 💡 Examples

Write every report:
` + "```bash\nrudics report\n```" + `

Preview two floats without writing:
` + "```bash\nrudics report --dry-run --group 452.020-P-0051 --group 467.174-T-0100\n```",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups, _ := cmd.Flags().GetStringSlice("group")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		return runReport(cmd, reportOptions{groups: groups, dryRun: dryRun})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringSliceP("group", "g", nil, "Only process the named group (repeatable)")
	reportCmd.Flags().BoolP("dry-run", "n", false, "Print reports to stdout instead of writing them")
}

func runReport(cmd *cobra.Command, opts reportOptions) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.RequireRoot(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	var procOpts []processor.Option
	if !opts.dryRun {
		procOpts = append(procOpts, processor.WithNotifier(consoleNotifier{out: out}))
	}

	return processor.New(cfg, procOpts...).Run(ctx, processor.RunOptions{
		Groups: opts.groups,
		DryRun: opts.dryRun,
		Out:    out,
	})
}
