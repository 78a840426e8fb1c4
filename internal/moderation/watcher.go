package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// WatcherConfig holds dependencies for a Watcher.
type WatcherConfig struct {
	// Path is the YAML words file to follow.
	Path string

	// List receives the reloaded words.
	List *WordList

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// OnReload, if set, is called after each successful reload.
	OnReload func(words []string)

	Logger *slog.Logger
}

// Watcher reloads a WordList whenever its backing file changes. Reloads
// only influence later writes.
type Watcher struct {
	cfg     WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
	pending time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for cfg.Path. Call Start to begin.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}

	return &Watcher{
		cfg:     cfg,
		watcher: fw,
		logger:  logger.With(slog.String("component", "words_watcher"), slog.String("path", cfg.Path)),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start watches the file's directory so atomic renames are seen. Non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.cfg.Path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(w.cfg.Path), err)
	}

	go w.run(ctx)

	return nil
}

// Stop ends the event loop and releases the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.logger.Error("closing fs watcher", slog.Any("error", err))
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.cfg.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Warn("fs watcher error", slog.Any("error", err))

		case now := <-ticker.C:
			w.flushPending(now)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.cfg.Path) {
		return
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	w.pending = time.Now().Add(w.cfg.Debounce)
	w.mu.Unlock()
}

func (w *Watcher) flushPending(now time.Time) {
	w.mu.Lock()
	due := !w.pending.IsZero() && now.After(w.pending)
	if due {
		w.pending = time.Time{}
	}
	w.mu.Unlock()

	if due {
		w.reload()
	}
}

func (w *Watcher) reload() {
	words, err := LoadFile(w.cfg.Path)
	if err != nil {
		// keep the previous list; a half-written file must not clear it
		w.logger.Warn("reloading banned words", slog.Any("error", err))
		return
	}

	w.cfg.List.Replace(words)
	w.logger.Info("banned words reloaded", slog.Int("count", w.cfg.List.Len()))

	if w.cfg.OnReload != nil {
		w.cfg.OnReload(w.cfg.List.Words())
	}
}
