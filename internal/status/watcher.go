package status

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
)

// Watcher publishes a StatusChangedEvent whenever status.json is written.
// It watches the containing directory so it keeps working when the tool
// replaces the file or creates it for the first time.
type Watcher struct {
	path     string
	bus      *events.EventBus
	logger   *logging.Logger
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher for the status file at path. The directory is
// created if it does not exist yet.
func NewWatcher(path string, bus *events.EventBus, logger *logging.Logger, debounce time.Duration) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		path:     path,
		bus:      bus,
		logger:   logger,
		debounce: debounce,
		fsw:      fsw,
	}, nil
}

// Run processes file system events until ctx is done. It closes the
// underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	name := filepath.Base(w.path)
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logger.Debug().Str("path", w.path).Msg("Status file changed")
			w.bus.PublishStatusChanged(w.path)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Status watcher error")
		}
	}
}
