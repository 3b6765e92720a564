package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/dailybit/internal/logger"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// ChangeType describes what happened to a content file.
type ChangeType string

// Change types.
const (
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is a settled modification of one content file.
type Change struct {
	Type ChangeType
	Path string
}

// Watcher reports changes to content files under a set of paths.
// Directories are watched recursively; new subdirectories are picked up.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration

	files map[string]struct{}
	trees []string
	dirs  map[string]struct{}
}

// NewWatcher starts watching paths, which may be files or directories.
func NewWatcher(paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}

	for _, p := range paths {
		p = filepath.Clean(ResolvePath(p))
		info, err := os.Stat(p)
		if err != nil {
			fsw.Close() //nolint:errcheck
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			w.trees = append(w.trees, p)
			err = w.addTree(p)
		} else {
			w.files[p] = struct{}{}
			err = w.addDir(filepath.Dir(p))
		}
		if err != nil {
			fsw.Close() //nolint:errcheck
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addDir(dir string) error {
	if _, ok := w.dirs[dir]; ok {
		return nil
	}
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.dirs[dir] = struct{}{}
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

// Run delivers settled changes to handle until ctx is cancelled.
// handle is called from a single goroutine.
func (w *Watcher) Run(ctx context.Context, handle func(Change)) error {
	pending := make(map[string]Change)
	flush := make(chan struct{}, 1)
	timer := time.AfterFunc(time.Hour, func() {
		select {
		case flush <- struct{}{}:
		default:
		}
	})
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			change := w.handleFsEvent(ev)
			if change == nil {
				continue
			}
			pending[change.Path] = *change
			timer.Reset(w.debounce)

		case <-flush:
			batch := pending
			pending = make(map[string]Change)
			for _, c := range batch {
				handle(c)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// handleFsEvent maps a raw event to a change, or nil when it is not relevant.
// New directories are added to the watch set as a side effect.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) *Change {
	path := filepath.Clean(ev.Name)

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.inTree(path) && !isHidden(path) {
				if err := w.addTree(path); err != nil {
					logger.Warn("watcher: %v", err)
				}
			}
			return nil
		}
	}

	if !w.relevant(path) {
		return nil
	}

	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		return &Change{Type: ChangeUpdated, Path: path}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: path}
	default:
		return nil
	}
}

func (w *Watcher) relevant(path string) bool {
	if !IsContentFile(path) {
		return false
	}
	if _, ok := w.files[path]; ok {
		return true
	}
	return w.inTree(path)
}

func (w *Watcher) inTree(path string) bool {
	for _, root := range w.trees {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
