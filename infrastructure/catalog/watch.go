package catalog

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/felixgeelhaar/goap-go/infrastructure/logging"
)

// Watcher reloads a catalog file whenever it changes on disk. A reload that
// fails keeps the previous bundle.
type Watcher struct {
	path     string
	current  atomic.Pointer[Bundle]
	watcher  *fsnotify.Watcher
	onReload func(*Bundle)

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithOnReload registers a callback run after each successful reload.
func WithOnReload(fn func(*Bundle)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

// NewWatcher loads path once and prepares a watch on its directory.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	b, err := Load(path)
	if err != nil {
		return nil, err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		_ = fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:    path,
		watcher: fw,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	w.current.Store(b)
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Current returns the most recently loaded bundle.
func (w *Watcher) Current() *Bundle {
	return w.current.Load()
}

// Start runs the watch loop in a goroutine until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn().
				Add(logging.Component("catalog")).
				Add(logging.ErrorField(err)).
				Msg("catalog watcher error")
		}
	}
}

func (w *Watcher) reload() {
	b, err := Load(w.path)
	if err != nil {
		logging.Warn().
			Add(logging.Component("catalog")).
			Add(logging.Path(w.path)).
			Add(logging.ErrorField(err)).
			Msg("catalog reload failed, keeping previous")
		return
	}
	w.current.Store(b)

	logging.Info().
		Add(logging.Component("catalog")).
		Add(logging.Path(w.path)).
		Add(logging.Count(b.Actions.Len())).
		Msg("catalog reloaded")

	if w.onReload != nil {
		w.onReload(b)
	}
}

// Close stops the loop and releases the underlying watcher. Wait on Done
// to know the loop has exited.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopCh)
		err = w.watcher.Close()
	})
	return err
}

// Done is closed when the watch loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}
