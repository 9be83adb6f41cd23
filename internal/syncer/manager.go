package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/runner"
)

// ErrBusy is returned by RunOnce while another sync is in flight, here or in
// another process sharing the data directory.
var ErrBusy = errors.New("a sync is already running")

// Executor runs a command to completion. *runner.Runner implements it.
type Executor interface {
	Run(ctx context.Context, cmd runner.Command) (string, error)
}

// result describes a finished sync.
type result struct {
	Args     SyncArgs
	Output   string
	Err      error
	Started  time.Time
	Duration time.Duration
}

// Manager runs at most one sync at a time and announces each run on the bus.
// A lock file in the data directory extends the limit to every process that
// shares the checkout.
type Manager struct {
	cfg    *config.TrayConfig
	paths  *config.Paths
	exec   Executor
	bus    *events.EventBus
	logger *logging.Logger
	lock   *syncLock

	mu      sync.RWMutex
	running bool
	locked  bool
	wg      sync.WaitGroup
}

// NewManager creates a Manager. bus may be nil when nobody listens.
func NewManager(cfg *config.TrayConfig, paths *config.Paths, exec Executor, bus *events.EventBus, logger *logging.Logger) *Manager {
	m := &Manager{
		cfg:    cfg,
		paths:  paths,
		exec:   exec,
		bus:    bus,
		logger: logger,
	}
	if paths != nil {
		m.lock = newSyncLock(paths.DataDir)
	}
	return m
}

// Submit starts a background sync and returns true, or returns false if one
// is already running. The run has no timeout and cannot be cancelled; its
// outcome is published as a SyncFinishedEvent.
func (m *Manager) Submit(args SyncArgs) bool {
	if !m.acquire() {
		m.logger.Info().Msg("Sync already running, ignoring request")
		return false
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.release()
		m.run(context.Background(), args)
	}()
	return true
}

// RunOnce runs a sync in the foreground. ctx cancels the subprocess.
func (m *Manager) RunOnce(ctx context.Context, args SyncArgs) (string, error) {
	if !m.acquire() {
		return "", ErrBusy
	}
	defer m.release()

	res := m.run(ctx, args)
	return res.Output, res.Err
}

// Wait blocks until the background sync, if any, has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// IsRunning reports whether a sync is in flight.
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

func (m *Manager) acquire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return false
	}
	if m.lock != nil {
		ok, err := m.lock.tryLock()
		switch {
		case err != nil:
			// An unusable data directory should not block syncing
			m.logger.Warn().Err(err).Msg("Sync lock unavailable")
		case !ok:
			return false
		default:
			m.locked = true
		}
	}
	m.running = true
	return true
}

func (m *Manager) release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locked {
		if err := m.lock.unlock(); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to remove sync lock")
		}
		m.locked = false
	}
	m.running = false
}

func (m *Manager) run(ctx context.Context, args SyncArgs) *result {
	res := &result{Args: args, Started: time.Now()}

	if err := args.Validate(); err != nil {
		res.Err = err
		m.finish(res)
		return res
	}

	cmd := BuildCommand(m.cfg, m.paths, args)
	m.logger.Info().
		Str("command", cmd.String()).
		Str("dir", cmd.Dir).
		Bool("dry_run", args.DryRun).
		Msg("Sync starting")
	if m.bus != nil {
		m.bus.PublishSyncStarted(args.SinceHours, args.IgnoreLastSync, args.DryRun)
	}

	res.Output, res.Err = m.exec.Run(ctx, cmd)
	m.finish(res)
	return res
}

func (m *Manager) finish(res *result) {
	res.Duration = time.Since(res.Started)

	if res.Err != nil {
		m.logger.Error().Err(res.Err).Dur("duration", res.Duration).Msg("Sync failed")
	} else {
		m.logger.Info().Dur("duration", res.Duration).Msg("Sync finished")
	}

	if m.bus != nil {
		m.bus.PublishSyncFinished(res.Output, res.Err, res.Duration)
	}
}
