package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"Forge3D/internal/logger"
	"Forge3D/internal/renderer"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type watchTarget struct {
	sources *Sources
	kind    renderer.ShaderKind
}

// Watcher reloads shader files into pipeline Sources whenever they change on
// disk. Directories are watched rather than files, since editors often
// replace a file instead of writing it in place.
type Watcher struct {
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	targets map[string][]watchTarget
	dirs    map[string]bool
}

// NewWatcher starts watching. Close stops it.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher: fw,
		done:    make(chan struct{}),
		targets: make(map[string][]watchTarget),
		dirs:    make(map[string]bool),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch loads path into one stage of src now and again on every change.
func (w *Watcher) Watch(path string, src *Sources, kind renderer.ShaderKind) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := load(abs, src, kind); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	dir := filepath.Dir(abs)
	if !w.dirs[dir] {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.dirs[dir] = true
	}
	w.targets[abs] = append(w.targets[abs], watchTarget{sources: src, kind: kind})
	logger.Log.Debug("Watching shader", zap.String("path", abs), zap.Stringer("kind", kind))
	return nil
}

func load(path string, src *Sources, kind renderer.ShaderKind) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	src.Set(kind, string(data))
	return nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.reload(filepath.Clean(event.Name))
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Log.Warn("Shader watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload(path string) {
	w.mu.Lock()
	targets := w.targets[path]
	w.mu.Unlock()
	for _, t := range targets {
		if err := load(path, t.sources, t.kind); err != nil {
			logger.Log.Warn("Unable to reload shader", zap.String("path", path), zap.Error(err))
			continue
		}
		logger.Log.Info("Shader reloaded", zap.String("path", path), zap.Stringer("kind", t.kind))
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
