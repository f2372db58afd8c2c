package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rudics",
	Short: "📡 rudics - monthly satellite airtime from float logs",
	Long: `# 📡 rudics

**Sums the RUDICS satellite airtime recorded in float CYCLE.h logs into monthly totals.**

## ✨ What it does

- 🔎 **Finds** every *CYCLE.h* log below each float directory
- 🔗 **Pairs** *connected in* and *disconnected after* lines into sessions
- 🧮 **Rounds** every session up to the next third of a minute
- 📝 **Writes** *rudics_minutes.txt* into each float directory

## 🚀 Getting Started

Point **MERMAID** at the data root and run **rudics**. Reports are written for every
directory in *$MERMAID/processed_everyone*.

Use **rudics report --dry-run** to print the reports without writing them.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd, reportOptions{})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	addConfigFlags(rootCmd)

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderMarkdownHelp(cmd)
	})
}

// helpMarkdown assembles the markdown help page of cmd
func helpMarkdown(cmd *cobra.Command) string {
	var b strings.Builder
	switch {
	case cmd.Long != "":
		b.WriteString(cmd.Long)
	case cmd.Short != "":
		fmt.Fprintf(&b, "# %s", cmd.Short)
	}
	b.WriteString("\n\n")

	codeSection(&b, "📖 Usage", "bash", cmd.UseLine()+"\n")
	if cmd.HasAvailableSubCommands() {
		b.WriteString("## 🔧 Commands\n\n")
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() {
				fmt.Fprintf(&b, "- **%s** - %s\n", sub.Name(), sub.Short)
			}
		}
		b.WriteString("\n")
	}
	if cmd.HasAvailableLocalFlags() {
		codeSection(&b, "⚙️  Flags", "", cmd.LocalFlags().FlagUsages())
	}
	if cmd.HasAvailableInheritedFlags() {
		codeSection(&b, "🌐 Global Flags", "", cmd.InheritedFlags().FlagUsages())
	}
	return b.String()
}

func codeSection(b *strings.Builder, title, lang, body string) {
	fmt.Fprintf(b, "## %s\n\n```%s\n%s```\n\n", title, lang, body)
}

// renderMarkdownHelp prints the help page through glamour. Cobra's plain
// usage is the fallback.
func renderMarkdownHelp(cmd *cobra.Command) {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		var rendered string
		if rendered, err = renderer.Render(helpMarkdown(cmd)); err == nil {
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return
		}
	}
	_ = cmd.Usage()
}
