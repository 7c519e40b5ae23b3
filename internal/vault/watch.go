package vault

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const debounceDelay = 100 * time.Millisecond

// Watcher re-imports vault files when they change on disk.
type Watcher struct {
	vault   *Vault
	watcher *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// NewWatcher watches the vault root and every directory below it.
func NewWatcher(v *Vault) (*Watcher, error) {
	if err := os.MkdirAll(v.dir, 0o755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		vault:   v,
		watcher: watcher,
		pending: make(map[string]*time.Timer),
	}
	if err := w.addRecursive(v.dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	return w, nil
}

// Run handles events until ctx is done, then releases the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	logrus.Infof("watching %s for changes", w.vault.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Warnf("vault watcher error: %v", err)
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	if event.Has(fsnotify.Create) {
		if isDir, err := statDir(event.Name); err == nil && isDir {
			if err := w.addRecursive(event.Name); err != nil {
				logrus.Warnf("failed to watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !w.vault.matches(event.Name) {
		return
	}
	w.schedule(ctx, event.Name)
}

// schedule coalesces the bursts of writes editors make into one import.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok && timer.Stop() {
		timer.Reset(debounceDelay)
		return
	}

	w.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(debounceDelay, func() {
		defer w.wg.Done()

		w.mu.Lock()
		if w.pending[path] == timer {
			delete(w.pending, path)
		}
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		outcome, note, err := w.vault.ImportFile(ctx, path)
		if err != nil {
			logrus.Warnf("failed to import %s: %v", path, err)
			return
		}
		if outcome != Unchanged {
			logrus.Infof("%s note %s from %s", outcome, note.ID, path)
		}
	})
	w.pending[path] = timer
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, timer := range w.pending {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	_ = w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
