package processor

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bathymetrix/rudics/internal/discovery"
	"github.com/bathymetrix/rudics/internal/logger"
)

// Watcher regenerates a group's report when its log files change
type Watcher struct {
	proc     *Processor
	fsw      *fsnotify.Watcher
	debounce time.Duration

	groups  map[string]discovery.Group
	dirs    map[string]bool
	pending chan string
	done    chan struct{}

	timers   map[string]*time.Timer
	timersMu sync.Mutex
}

// NewWatcher creates a watcher that waits debounce after the last change in a
// group before rewriting its report
func NewWatcher(p *Processor, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		proc:     p,
		fsw:      fsw,
		debounce: debounce,
		groups:   make(map[string]discovery.Group),
		dirs:     make(map[string]bool),
		pending:  make(chan string, 16),
		done:     make(chan struct{}),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching every directory below each group
func (w *Watcher) Add(groups ...discovery.Group) error {
	for _, g := range groups {
		w.groups[g.Name] = g
		if err := w.addTree(g.Path); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Logger.Warn().Str("dir", path).Err(err).Msg("failed to watch directory")
			return nil
		}
		w.dirs[path] = true
		return nil
	})
}

// Run handles file events until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("file watcher error: %v", err)

		case name := <-w.pending:
			w.regenerate(ctx, name)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name, ok := discovery.GroupOf(w.proc.cfg.GroupsDir(), event.Name)
	if !ok {
		return
	}
	if _, watched := w.groups[name]; !watched {
		return
	}

	matches := w.proc.matcher().Match(filepath.Base(event.Name))
	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				logger.Logger.Warn().Str("dir", event.Name).Err(err).Msg("failed to watch new directory")
			}
			w.schedule(name)
			return
		}
		if matches {
			w.schedule(name)
		}

	case event.Has(fsnotify.Write):
		if matches {
			w.schedule(name)
		}

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		if matches || w.dirs[event.Name] {
			delete(w.dirs, event.Name)
			w.proc.Forget(event.Name)
			w.schedule(name)
		}
	}
}

// schedule restarts the debounce timer of a group
func (w *Watcher) schedule(name string) {
	w.timersMu.Lock()
	defer w.timersMu.Unlock()

	if t, exists := w.timers[name]; exists {
		t.Stop()
	}
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		select {
		case w.pending <- name:
		case <-w.done:
		}
	})
}

func (w *Watcher) regenerate(ctx context.Context, name string) {
	w.timersMu.Lock()
	delete(w.timers, name)
	w.timersMu.Unlock()

	g := w.groups[name]
	logger.Debugf("log files of %s changed, regenerating report", name)
	if err := w.proc.runGroup(ctx, g, RunOptions{}); err != nil {
		logger.Errorf("failed to regenerate report of %s: %v", name, err)
	}
}

func (w *Watcher) stop() {
	close(w.done)
	w.timersMu.Lock()
	for _, t := range w.timers {
		t.Stop()
	}
	w.timersMu.Unlock()
	_ = w.fsw.Close()
}
