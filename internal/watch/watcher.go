// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when a package source changes on disk.
//
// A directory source is watched recursively; a container file is watched
// through its parent directory with events filtered to the file itself.
// Events within the debounce window are coalesced so the callback fires once
// with the full set of changed paths.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce absorbs editors that write a temp file and rename it.
const defaultDebounce = 500 * time.Millisecond

// defaultIgnores are never reported, regardless of user ignore patterns.
var defaultIgnores = []string{
	"**/.git/**",
	"**/*.swp",
	"**/*.swo",
	"**/*~",
	"**/.DS_Store",
	"**/__MACOSX/**",
}

// ErrUnsupportedTarget is returned when the target is neither a directory
// nor a regular file.
var ErrUnsupportedTarget = errors.New("unsupported watch target")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Target is a package directory or container file.
		Target string

		// Ignore holds doublestar patterns, relative to a directory target,
		// merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the deduplicated changed paths, relative to the
		// watched directory. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives watcher diagnostics. nil discards them.
		Logger *log.Logger
	}

	// Watcher monitors a package source. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		logger   *log.Logger
		debounce time.Duration
		// root is the watched directory; for a file target it is the parent.
		root string
		// file is the base name of a file target, empty for directories.
		file    string
		started atomic.Bool
	}
)

// New resolves the target, initialises fsnotify and registers the
// directories to monitor.
func New(cfg Config) (*Watcher, error) {
	target := cfg.Target
	if target == "" {
		target = "."
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve target: %w", err)
	}
	info, err := os.Stat(absTarget)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	w := &Watcher{
		cfg:      cfg,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		logger:   logger,
		debounce: debounce,
	}

	switch {
	case info.IsDir():
		w.root = absTarget
	case info.Mode().IsRegular():
		w.root = filepath.Dir(absTarget)
		w.file = filepath.Base(absTarget)
	default:
		return nil, fmt.Errorf("watch: %s: %w", target, ErrUnsupportedTarget)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	w.fsw = fsw

	if w.file != "" {
		err = fsw.Add(w.root)
	} else {
		err = w.addDirectories()
	}
	if err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("close after init failure", "err", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Root returns the watched directory.
func (w *Watcher) Root() string { return w.root }

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and propagates fatal watcher errors.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may be scheduled by time.AfterFunc after cancellation, so it
	// re-checks ctx. At most one callback runs at a time; a busy callback
	// reschedules the pending set instead of dropping it.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("previous run still in progress, rescheduling")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Error("callback failed", "err", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("close fsnotify", "err", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}

			rel, ok := w.relevant(evt.Name)
			if !ok {
				continue
			}
			w.logger.Debug("change", "path", rel, "op", evt.Op.String())

			// Directories created after startup join the recursive watch.
			if w.file == "" && evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}

			mu.Lock()
			pending[rel] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("fsnotify error", "err", err)
		}
	}
}

// relevant maps an event path to its root-relative form and reports whether
// it should trigger the callback.
func (w *Watcher) relevant(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		rel = name
	}
	if w.file != "" {
		return rel, rel == w.file
	}
	return rel, !w.isIgnored(rel)
}

// addDirectories registers every non-ignored directory under root.
func (w *Watcher) addDirectories() error {
	walkErr := filepath.WalkDir(w.root, func(path string, d os.DirEntry, walkDirErr error) error {
		if walkDirErr != nil {
			w.logger.Warn("skipping inaccessible path", "path", path, "err", walkDirErr)
			return nil //nolint:nilerr // intentional skip of inaccessible paths
		}
		if !d.IsDir() {
			return nil
		}

		rel, relErr := filepath.Rel(w.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // skip paths that cannot be made relative
		}
		if w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}

		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("watch: walk directory tree: %w", walkErr)
	}
	return nil
}

// maybeAddDir registers a directory created after startup, including any
// subdirectories that appeared before its watch was in place.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}

	_ = filepath.WalkDir(path, func(sub string, d os.DirEntry, walkErr error) error {
		if walkErr != nil || !d.IsDir() {
			return nil //nolint:nilerr // best-effort registration
		}
		rel, relErr := filepath.Rel(w.root, sub)
		if relErr != nil || w.isIgnored(rel) || w.isIgnored(rel+"/") {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(sub); addErr != nil {
			w.logger.Warn("add new directory", "path", sub, "err", addErr)
		}
		return nil
	})
}

func (w *Watcher) isIgnored(rel string) bool {
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}
	return nil
}
