package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bathymetrix/rudics/internal/airtime"
	"github.com/bathymetrix/rudics/internal/config"
)

func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addConfigFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestResolveConfig_FlagsOverride(t *testing.T) {
	t.Setenv(config.EnvRoot, "/from/env")
	cmd := newTestCommand(t,
		"--root", "/from/flag",
		"--mode", "legacy",
		"--pair-policy", "clear",
		"--dedup-scope", "group",
		"--workers", "3",
		"--compressed",
	)

	cfg, err := resolveConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Root)
	assert.Equal(t, airtime.ModeLegacy, cfg.Mode)
	assert.Equal(t, airtime.PolicyClear, cfg.PairPolicy)
	assert.Equal(t, airtime.ScopeGroup, cfg.DedupScope)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.IncludeCompressed)
}

func TestResolveConfig_DefaultsKeepEnv(t *testing.T) {
	t.Setenv(config.EnvRoot, "/from/env")
	cfg, err := resolveConfig(newTestCommand(t))
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Root)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, airtime.ModePaired, cfg.Mode)
}

func TestResolveConfig_RootFlagFindsConfigFile(t *testing.T) {
	t.Setenv(config.EnvRoot, "")
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.DefaultFileName), []byte("mode: legacy\nworkers: 2\n"), 0644))

	cfg, err := resolveConfig(newTestCommand(t, "--root", root))
	require.NoError(t, err)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, airtime.ModeLegacy, cfg.Mode)
	assert.Equal(t, 2, cfg.Workers)

	// Flags still win over the file
	cfg, err = resolveConfig(newTestCommand(t, "--root", root, "--mode", "paired"))
	require.NoError(t, err)
	assert.Equal(t, airtime.ModePaired, cfg.Mode)
}

func TestResolveConfig_InvalidValue(t *testing.T) {
	t.Setenv(config.EnvRoot, "")
	_, err := resolveConfig(newTestCommand(t, "--mode", "sum"))
	assert.Error(t, err)

	_, err = resolveConfig(newTestCommand(t, "--workers", "0"))
	assert.Error(t, err)
}

func TestRunReport_MissingRoot(t *testing.T) {
	t.Setenv(config.EnvRoot, "")
	err := runReport(newTestCommand(t), reportOptions{})
	assert.ErrorIs(t, err, config.ErrRootUnset)
}

func TestRunReport_WritesReports(t *testing.T) {
	root := t.TempDir()
	t.Setenv(config.EnvRoot, root)
	group := filepath.Join(root, "processed_everyone", "452.020-P-0051")
	require.NoError(t, os.MkdirAll(group, 0755))
	log := "2024-01-31T23:59:00 connected in 100s\n2024-02-01T00:00:30 disconnected after 160s\n"
	require.NoError(t, os.WriteFile(filepath.Join(group, "0001_CYCLE.h"), []byte(log), 0644))

	cmd := newTestCommand(t)
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, runReport(cmd, reportOptions{}))

	report := filepath.Join(group, "rudics_minutes.txt")
	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Equal(t, "  Month\t Minutes\n2024-02:    1.00\n", string(data))
	assert.Contains(t, out.String(), group)
	assert.Contains(t, out.String(), report)
}

func TestPrintSessions(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "0001_CYCLE.h")
	second := filepath.Join(dir, "0002_CYCLE.h")
	log := "2024-03-01T00:00:00 connected in 0s\n" +
		"2024-03-01T00:10:00 disconnected after 600s\n" +
		"2024-03-01T00:20:00 disconnected after 1200s\n"
	require.NoError(t, os.WriteFile(first, []byte(log), 0644))
	require.NoError(t, os.WriteFile(second, []byte(log), 0644))

	var out bytes.Buffer
	cfg := config.Default()
	require.NoError(t, printSessions(&out, cfg, []string{first, second, filepath.Join(dir, "missing_CYCLE.h")}))

	text := out.String()
	assert.Contains(t, text, "2024-03-01T00:00:00  2024-03-01T00:10:00      600s    10.00 min  2024-03")
	assert.Equal(t, 4, strings.Count(text, " min "))
	assert.True(t, strings.HasSuffix(text, "  Month\t Minutes\n2024-03:   60.00\n"))

	out.Reset()
	cfg.DedupScope = airtime.ScopeGroup
	require.NoError(t, printSessions(&out, cfg, []string{first, second}))
	assert.True(t, strings.HasSuffix(out.String(), "2024-03:   30.00\n"))
}

func TestHelpMarkdown(t *testing.T) {
	md := helpMarkdown(rootCmd)
	assert.True(t, strings.HasPrefix(md, "# 📡 rudics"))
	assert.Contains(t, md, "## 📖 Usage\n\n```bash\nrudics")
	assert.Contains(t, md, "- **report** - ")
	assert.Contains(t, md, "- **sessions** - ")
	assert.Contains(t, md, "- **watch** - ")
	assert.Contains(t, md, "--pair-policy")

	md = helpMarkdown(reportCmd)
	assert.Contains(t, md, "## ⚙️  Flags")
	assert.Contains(t, md, "--dry-run")
	assert.Contains(t, md, "## 🌐 Global Flags")
	assert.NotContains(t, md, "## 🔧 Commands")
}
