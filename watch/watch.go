package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounceDelay is how long to wait after the last file event before
// regenerating. Editors fire bursts of events per save.
const debounceDelay = 500 * time.Millisecond

// Watcher monitors a source image and re-runs the generation callback
// whenever the file changes.
type Watcher struct {
	path     string
	onChange func() error
	watcher  *fsnotify.Watcher
	runs     chan error
	done     chan struct{}
}

// New creates a watcher for the given source file. The callback runs
// after each debounced change.
func New(path string, onChange func() error) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     abs,
		onChange: onChange,
		watcher:  fsWatcher,
		runs:     make(chan error, 16),
		done:     make(chan struct{}),
	}, nil
}

// Start begins monitoring. It watches the source file's directory
// rather than the file itself: editors that replace the file on save
// would otherwise drop the watch.
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	Logger().Info("watching source", zap.String("path", w.path))

	go w.processEvents()

	return nil
}

// processEvents handles fsnotify events for the watched file
func (w *Watcher) processEvents() {
	// Debounce timer to avoid processing rapid successive events
	debounce := make(map[string]*time.Timer)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only react to the watched file
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: wait before processing
			if timer, exists := debounce[event.Name]; exists {
				timer.Stop()
			}
			debounce[event.Name] = time.AfterFunc(debounceDelay, w.regenerate)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			Logger().Warn("watcher error", zap.Error(err))
		}
	}
}

// regenerate runs the callback and reports the outcome
func (w *Watcher) regenerate() {
	select {
	case <-w.done:
		return
	default:
	}

	err := w.onChange()
	if err != nil {
		Logger().Warn("regeneration failed", zap.String("source", w.path), zap.Error(err))
	} else {
		Logger().Info("regenerated icon set", zap.String("source", w.path))
	}

	// Report for callers that track runs; never block the timer goroutine.
	select {
	case w.runs <- err:
	default:
	}
}

// Runs returns a channel carrying the result of each regeneration.
func (w *Watcher) Runs() <-chan error {
	return w.runs
}

// Stop stops the watcher
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

// Run watches path until ctx is cancelled, invoking onChange after
// each debounced change. Callback errors are logged, never fatal.
func Run(ctx context.Context, path string, onChange func() error) error {
	w, err := New(path, onChange)
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}
