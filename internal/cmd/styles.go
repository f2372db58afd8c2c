package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/bathymetrix/rudics/internal/discovery"
)

const (
	colorPrimary = "6" // Cyan
	colorSuccess = "2" // Green
	colorMuted   = "8" // Gray
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorSuccess))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))
)

// consoleNotifier prints group progress the way operators expect to read it
type consoleNotifier struct {
	out io.Writer
}

func (n consoleNotifier) GroupStarted(g discovery.Group) {
	fmt.Fprintf(n.out, "%s %s\n", headerStyle.Render("Processing:"), g.Path)
}

func (n consoleNotifier) ReportWritten(g discovery.Group, path string) {
	fmt.Fprintf(n.out, "%s %s\n\n", successStyle.Render("Wrote:"), path)
}
