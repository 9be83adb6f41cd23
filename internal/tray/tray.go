// Package tray runs the BearMinder system tray icon and menu.
//
// The menu is static: a status line, Open BearMinder, Sync now, Open
// config.yaml, Open data folder and Quit. The status line and tooltip are
// refreshed from status.json on a timer, when the file changes, and when a
// sync starts or finishes.
package tray

import (
	"context"
	"errors"
	"os"
	"time"

	"fyne.io/systray"

	"github.com/bearminder/bearminder-tray/internal/assets"
	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/notify"
	"github.com/bearminder/bearminder-tray/internal/status"
	"github.com/bearminder/bearminder-tray/internal/syncer"
)

// Opener opens a path or URL with the OS default handler.
type Opener interface {
	Open(target string) error
}

// view receives display updates. The systray implementation is swapped
// for a recorder in tests.
type view interface {
	SetStatusTitle(title string)
	SetTooltip(tooltip string)
}

// Options wires the tray to the rest of the application.
type Options struct {
	Config   *config.TrayConfig
	Paths    *config.Paths
	Logger   *logging.Logger
	Bus      *events.EventBus
	Syncer   *syncer.Manager
	Opener   Opener
	Notifier *notify.Notifier

	// LaunchWindow starts the settings window, normally as a child process.
	LaunchWindow func() error
}

// App is the running tray.
type App struct {
	opts  Options
	state state
	view  view

	mStatus     *systray.MenuItem
	mOpenApp    *systray.MenuItem
	mSyncNow    *systray.MenuItem
	mOpenConfig *systray.MenuItem
	mOpenData   *systray.MenuItem
	mQuit       *systray.MenuItem

	done chan struct{}
}

// New creates the tray application. Call Run to show it.
func New(opts Options) *App {
	return &App{
		opts: opts,
		done: make(chan struct{}),
	}
}

// Run shows the tray icon and blocks until Quit is chosen or ctx is done.
// It must be called from the main goroutine.
func (a *App) Run(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			systray.Quit()
		case <-a.done:
		}
	}()
	systray.Run(a.onReady, a.onExit)
}

func (a *App) onReady() {
	systray.SetIcon(assets.IconPNG)
	systray.SetTooltip(constants.AppName)

	a.mStatus = systray.AddMenuItem("Status: Checking...", "Last sync result")
	a.mStatus.Disable()

	a.mOpenApp = systray.AddMenuItem("Open BearMinder", "Open the settings window")
	a.mSyncNow = systray.AddMenuItem("Sync now", "Run the sync tool once")

	systray.AddSeparator()

	a.mOpenConfig = systray.AddMenuItem("Open config.yaml", "Open the sync tool configuration")
	a.mOpenData = systray.AddMenuItem("Open data folder", "Open the folder holding status.json")

	systray.AddSeparator()

	a.mQuit = systray.AddMenuItem("Quit", "Exit BearMinder")

	a.view = &systrayView{status: a.mStatus}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-a.done
		cancel()
	}()

	if w, err := status.NewWatcher(a.opts.Paths.StatusPath, a.opts.Bus, a.opts.Logger, constants.StatusDebounce); err != nil {
		// Polling still keeps the status line current
		a.opts.Logger.Warn().Err(err).Msg("Status file watching disabled")
	} else {
		go w.Run(ctx)
	}

	go a.refreshLoop(a.opts.Bus.SubscribeAll())
	go a.handleMenuClicks()

	a.opts.Logger.Info().Str("root", a.opts.Paths.RepoRoot).Msg("Tray ready")
}

func (a *App) onExit() {
	close(a.done)
	if a.opts.Syncer.IsRunning() {
		a.opts.Logger.Info().Msg("Waiting for the running sync to finish")
	}
	a.opts.Syncer.Wait()
	a.opts.Logger.Info().Msg("Tray exited")
}

// refreshLoop re-reads status.json periodically and on bus events.
func (a *App) refreshLoop(ch <-chan events.Event) {
	a.refreshStatus()

	ticker := time.NewTicker(a.opts.Config.StatusRefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.refreshStatus()
		case ev, ok := <-ch:
			if !ok {
				return
			}
			a.handleEvent(ev)
		case <-a.done:
			return
		}
	}
}

func (a *App) handleEvent(ev events.Event) {
	switch e := ev.(type) {
	case *events.SyncStartedEvent:
		a.state.setSyncing(true)
		a.render()

	case *events.SyncFinishedEvent:
		a.state.setSyncing(false)
		a.state.setSyncError(e.Err)
		a.refreshStatus()
		if e.Succeeded() {
			summary := ""
			if st := a.state.snapshot().lastStatus; st != nil {
				summary = st.Summary()
			}
			a.opts.Notifier.SyncSucceeded(summary)
		} else {
			a.opts.Notifier.SyncFailed(e.Err)
		}

	case *events.StatusChangedEvent:
		a.refreshStatus()
	}
}

// refreshStatus reads status.json and updates the display. A missing file
// just means no sync has run yet.
func (a *App) refreshStatus() {
	st, err := status.Read(a.opts.Paths.StatusPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			a.opts.Logger.Debug().Err(err).Msg("Failed to read status")
		}
		st = nil
	}
	a.state.setStatus(st)
	a.state.setActionError(nil)
	a.render()
}

func (a *App) render() {
	if a.view == nil {
		return
	}
	snap := a.state.snapshot()
	a.view.SetStatusTitle(snap.statusTitle())
	a.view.SetTooltip(snap.tooltip())
}

// handleMenuClicks processes menu item clicks.
func (a *App) handleMenuClicks() {
	for {
		select {
		case <-a.mOpenApp.ClickedCh:
			a.openWindow()

		case <-a.mSyncNow.ClickedCh:
			a.syncNow()

		case <-a.mOpenConfig.ClickedCh:
			a.open(a.opts.Paths.ConfigPath)

		case <-a.mOpenData.ClickedCh:
			if err := os.MkdirAll(a.opts.Paths.DataDir, 0755); err != nil {
				a.opts.Logger.Warn().Err(err).Msg("Failed to create data directory")
			}
			a.open(a.opts.Paths.DataDir)

		case <-a.mQuit.ClickedCh:
			systray.Quit()
			return

		case <-a.done:
			return
		}
	}
}

func (a *App) openWindow() {
	if a.opts.LaunchWindow == nil {
		return
	}
	if err := a.opts.LaunchWindow(); err != nil {
		a.opts.Logger.Error().Err(err).Msg("Failed to launch settings window")
		a.state.setActionError(err)
		a.render()
	}
}

// syncNow starts the tray preset sync. A click while a sync is running is
// ignored.
func (a *App) syncNow() {
	args := syncer.TrayPreset(a.opts.Config)
	if !a.opts.Syncer.Submit(args) {
		return
	}
	a.opts.Logger.Info().Int("since_hours", args.SinceHours).Msg("Sync requested from tray")
}

func (a *App) open(target string) {
	if err := a.opts.Opener.Open(target); err != nil {
		a.opts.Logger.Error().Err(err).Str("target", target).Msg("Failed to open")
		a.state.setActionError(err)
		a.render()
	}
}

type systrayView struct {
	status *systray.MenuItem
}

func (v *systrayView) SetStatusTitle(title string) { v.status.SetTitle(title) }
func (v *systrayView) SetTooltip(tooltip string)   { systray.SetTooltip(tooltip) }
