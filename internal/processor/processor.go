// Package processor turns the log files of each group into an airtime report
package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bathymetrix/rudics/internal/airtime"
	"github.com/bathymetrix/rudics/internal/cache"
	"github.com/bathymetrix/rudics/internal/config"
	"github.com/bathymetrix/rudics/internal/discovery"
	"github.com/bathymetrix/rudics/internal/logger"
	"github.com/bathymetrix/rudics/internal/recovery"
)

// Notifier receives progress for user-facing output
type Notifier interface {
	GroupStarted(g discovery.Group)
	ReportWritten(g discovery.Group, path string)
}

type nopNotifier struct{}

func (nopNotifier) GroupStarted(discovery.Group)          {}
func (nopNotifier) ReportWritten(discovery.Group, string) {}

// GroupResult is the merged outcome of every file in a group
type GroupResult struct {
	Group       discovery.Group
	Files       int
	FailedFiles int
	CachedFiles int
	Totals      *airtime.MonthlyTotals
	Stats       airtime.FileStats
}

type cachedFile struct {
	size    int64
	modTime time.Time
	result  *airtime.FileResult
}

type fileOutcome struct {
	path   string
	result *airtime.FileResult
	err    error
	cached bool
}

// Option configures a Processor
type Option func(*Processor)

// WithCache keeps up to size per-file results between runs. Results are only
// reused under per-file deduplication.
func WithCache(size int) Option {
	return func(p *Processor) {
		p.cache = cache.NewLRU[cachedFile](size)
	}
}

// WithNotifier sets the progress receiver
func WithNotifier(n Notifier) Option {
	return func(p *Processor) {
		if n != nil {
			p.notifier = n
		}
	}
}

// Processor runs the discovery, scan, merge and write steps for groups
type Processor struct {
	cfg      *config.Config
	cache    *cache.LRU[cachedFile]
	notifier Notifier
}

// New creates a processor for cfg
func New(cfg *config.Config, opts ...Option) *Processor {
	p := &Processor{cfg: cfg, notifier: nopNotifier{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Processor) matcher() discovery.Matcher {
	return discovery.Matcher{Suffix: p.cfg.FileSuffix, IncludeCompressed: p.cfg.IncludeCompressed}
}

// Groups lists the groups to process. Unknown names in only are an error.
func (p *Processor) Groups(only []string) ([]discovery.Group, error) {
	groups, err := discovery.ListGroups(p.cfg.GroupsDir(), p.cfg.SkipPrefix)
	if err != nil {
		return nil, err
	}
	kept, missing := discovery.FilterGroups(groups, only)
	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown group(s): %s", strings.Join(missing, ", "))
	}
	return kept, nil
}

// ProcessGroup scans every log file of g and merges the results. Unreadable
// files are logged and skipped.
func (p *Processor) ProcessGroup(ctx context.Context, g discovery.Group) (*GroupResult, error) {
	files, err := discovery.FindLogFiles(g.Path, p.matcher())
	if err != nil {
		return nil, err
	}

	log := logger.WithField("group", g.Name)
	res := &GroupResult{Group: g, Files: len(files), Totals: airtime.NewMonthlyTotals()}
	for _, o := range p.scanAll(ctx, files) {
		if o.err != nil {
			res.FailedFiles++
			log.Error().Str("file", o.path).Err(o.err).Msg("failed to read log file")
		}
		if o.result == nil {
			continue
		}
		if o.cached {
			res.CachedFiles++
		} else {
			logAnomalies(o.result)
		}
		res.Totals.Merge(o.result.Totals)
		res.Stats.Add(o.result.Stats)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Debug().
		Int("files", res.Files).
		Int("failed", res.FailedFiles).
		Int("cached", res.CachedFiles).
		Int("events", res.Stats.Events).
		Int("duplicates", res.Stats.Duplicates).
		Int("unpaired", res.Stats.Unpaired).
		Int("sessions", res.Stats.Sessions).
		Int("anomalies", res.Stats.Anomalies).
		Int("months", res.Totals.Len()).
		Msg("group scanned")
	return res, nil
}

func logAnomalies(result *airtime.FileResult) {
	for _, s := range result.Sessions {
		if !s.Anomalous() {
			continue
		}
		anomaly := logger.WithFields(map[string]interface{}{
			"file":       result.Path,
			"connect":    s.Connect.Timestamp,
			"disconnect": s.Disconnect.Timestamp,
			"seconds":    s.Seconds,
		})
		anomaly.Warn().Msg("non-positive session duration")
	}
}

// scanAll returns one outcome per file, in file order
func (p *Processor) scanAll(ctx context.Context, files []string) []fileOutcome {
	outcomes := make([]fileOutcome, len(files))
	scope := p.cfg.EffectiveScope()

	if scope == airtime.ScopeGroup || p.cfg.Workers <= 1 || len(files) < 2 {
		var shared airtime.TimestampSet
		if scope == airtime.ScopeGroup {
			shared = airtime.NewTimestampSet()
		}
		for i, path := range files {
			if ctx.Err() != nil {
				break
			}
			outcomes[i] = p.scanOne(path, shared)
		}
		return outcomes
	}

	workers := p.cfg.Workers
	if workers > len(files) {
		workers = len(files)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		recovery.SafeGoWithCleanup(fmt.Sprintf("scan-worker-%d", w), func() {
			for i := range jobs {
				outcomes[i] = p.scanOne(files[i], nil)
			}
		}, wg.Done)
	}

feed:
	for i := range files {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return outcomes
}

// scanOne scans a single file. A nil shared set gives the file its own set.
func (p *Processor) scanOne(path string, shared airtime.TimestampSet) fileOutcome {
	out := fileOutcome{path: path}
	cacheable := p.cache != nil && shared == nil

	var info os.FileInfo
	if cacheable {
		if fi, err := os.Stat(path); err == nil {
			info = fi
			if c, ok := p.cache.Get(path); ok && c.size == fi.Size() && c.modTime.Equal(fi.ModTime()) {
				out.result = c.result
				out.cached = true
				return out
			}
		}
	}

	seen := shared
	if seen == nil {
		seen = airtime.NewTimestampSet()
	}
	out.err = recovery.Call("scan "+path, func() error {
		result, err := airtime.ScanFile(path, p.cfg.ScanOptions(), seen)
		out.result = result
		return err
	})

	if cacheable && out.err == nil && info != nil {
		p.cache.Set(path, cachedFile{size: info.Size(), modTime: info.ModTime(), result: out.result})
	}
	return out
}

// Forget drops cached results for path and anything below it
func (p *Processor) Forget(path string) {
	if p.cache == nil {
		return
	}
	p.cache.Delete(path)
	p.cache.Clear(path + string(filepath.Separator))
}

// CacheStats returns per-file cache statistics, zero when caching is off
func (p *Processor) CacheStats() cache.Stats {
	if p.cache == nil {
		return cache.Stats{}
	}
	return p.cache.Stats()
}

// ReportPath is where the report of g is written
func (p *Processor) ReportPath(g discovery.Group) string {
	return filepath.Join(g.Path, p.cfg.ReportName)
}

// WriteReport writes the report of res into its group directory, replacing
// any previous report in one rename
func (p *Processor) WriteReport(res *GroupResult) (string, error) {
	path := p.ReportPath(res.Group)

	tmp, err := os.CreateTemp(res.Group.Path, "."+p.cfg.ReportName+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create report: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := airtime.WriteReport(tmp, res.Totals); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return path, nil
}

// RunOptions selects what Run processes and where dry-run output goes
type RunOptions struct {
	Groups []string
	DryRun bool
	Out    io.Writer
}

// Run processes every selected group in name order. A failing group is
// logged and the remaining groups still run; the returned error lists them.
func (p *Processor) Run(ctx context.Context, opts RunOptions) error {
	groups, err := p.Groups(opts.Groups)
	if err != nil {
		return err
	}

	var failed []string
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.runGroup(ctx, g, opts); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Logger.Error().Str("group", g.Name).Err(err).Msg("group failed")
			failed = append(failed, g.Name)
		}
	}

	logger.Infof("processed %d of %d group(s)", len(groups)-len(failed), len(groups))
	if len(failed) > 0 {
		return fmt.Errorf("%d group(s) failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return nil
}

func (p *Processor) runGroup(ctx context.Context, g discovery.Group, opts RunOptions) error {
	p.notifier.GroupStarted(g)

	res, err := p.ProcessGroup(ctx, g)
	if err != nil {
		return err
	}

	if opts.DryRun {
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		if _, err := fmt.Fprintf(out, "# %s\n", p.ReportPath(g)); err != nil {
			return err
		}
		return airtime.WriteReport(out, res.Totals)
	}

	path, err := p.WriteReport(res)
	if err != nil {
		return err
	}
	p.notifier.ReportWritten(g, path)
	return nil
}
