// Package gui provides the BearMinder settings window.
package gui

import (
	"context"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/envfile"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/status"
	"github.com/bearminder/bearminder-tray/internal/syncer"
)

const prefOnboardingDismissed = "onboarding_dismissed"

// Opener opens a path or URL with the OS default handler.
type Opener interface {
	Open(target string) error
}

// Options wires the window to the rest of the application.
type Options struct {
	Config *config.TrayConfig
	Paths  *config.Paths
	Logger *logging.Logger
	Bus    *events.EventBus
	Syncer *syncer.Manager
	Opener Opener
}

// Launch opens the settings window and blocks until it is closed. It must be
// called from the main goroutine.
func Launch(opts Options) error {
	if !HasDisplay() {
		return ErrNoDisplay
	}

	a := app.NewWithID(constants.AppID)
	a.Settings().SetTheme(&bearTheme{})
	a.SetIcon(AppIcon())

	w := a.NewWindow(constants.AppName)
	w.SetMaster()

	ui := NewUI(opts, a, w)
	w.SetContent(ui.Build())
	ui.Start()

	w.Resize(fyne.NewSize(620, 760))
	w.CenterOnScreen()
	w.SetOnClosed(ui.Stop)
	w.ShowAndRun()
	return nil
}

// UI is the content of the settings window.
type UI struct {
	opts   Options
	app    fyne.App
	window fyne.Window

	statusBar  *StatusBar
	setupTab   *SetupTab
	statusCard *StatusCard

	syncButton    *widget.Button
	recountButton *widget.Button
	previewCheck  *widget.Check
	output        *widget.Label

	ctx    context.Context
	cancel context.CancelFunc
}

// NewUI creates the window content.
func NewUI(opts Options, a fyne.App, w fyne.Window) *UI {
	ctx, cancel := context.WithCancel(context.Background())
	ui := &UI{
		opts:      opts,
		app:       a,
		window:    w,
		statusBar: NewStatusBar(),
		ctx:       ctx,
		cancel:    cancel,
	}
	ui.setupTab = NewSetupTab(envfile.NewStore(opts.Paths.EnvPath), opts.Opener, opts.Bus, opts.Logger, ui.statusBar)
	ui.statusCard = NewStatusCard(opts.Paths.StatusPath, opts.Logger)
	return ui
}

// Build creates the layout: header, banners, sync actions, status, setup
// and advanced sections in one scrolling column.
func (ui *UI) Build() fyne.CanvasObject {
	title := widget.NewLabelWithStyle(constants.AppName, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	header := container.NewVBox(
		title,
		subtleLabel("Keep your writing synced to Beeminder with one click."),
	)

	sections := container.NewVBox(header)
	if banner := ui.buildBearBanner(); banner != nil {
		sections.Add(banner)
	}
	if ui.needsOnboarding() {
		sections.Add(ui.buildOnboarding(sections))
	}
	sections.Add(ui.buildSyncActions())
	sections.Add(ui.statusCard.Build(ui.statusCard.Refresh))
	sections.Add(ui.setupTab.Build())
	sections.Add(ui.buildAdvanced())

	return container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), container.NewPadded(ui.statusBar)),
		nil, nil,
		container.NewVScroll(container.NewPadded(sections)),
	)
}

// needsOnboarding reports whether the welcome card is shown: not skipped
// yet and no Beeminder value saved in .env.
func (ui *UI) needsOnboarding() bool {
	if ui.app.Preferences().Bool(prefOnboardingDismissed) {
		return false
	}
	return envfile.NewStore(ui.opts.Paths.EnvPath).Load().IsEmpty()
}

func (ui *UI) buildOnboarding(parent *fyne.Container) fyne.CanvasObject {
	var card *widget.Card
	steps := widget.NewLabel(
		"1. Open the token page and copy your Beeminder API token.\n" +
			"2. Enter your username, goal name and token below, then Save settings.\n" +
			"3. Click Sync now to post today's words.")
	steps.Wrapping = fyne.TextWrapWord

	skip := widget.NewButton("Skip for now", func() {
		ui.app.Preferences().SetBool(prefOnboardingDismissed, true)
		parent.Remove(card)
	})

	card = widget.NewCard("Welcome", "A quick setup and you're ready to sync.", container.NewVBox(steps, container.NewHBox(skip)))
	return card
}

func (ui *UI) buildSyncActions() fyne.CanvasObject {
	ui.syncButton = NewPrimaryButton("Sync now", func() {
		ui.runSync(syncer.WindowPreset(ui.previewCheck.Checked))
	})
	ui.recountButton = widget.NewButton("Recount last hour", func() {
		ui.runSync(syncer.RecountPreset(ui.previewCheck.Checked))
	})
	ui.previewCheck = widget.NewCheck("Preview only", nil)
	ui.previewCheck.SetChecked(ui.opts.Config.Sync.DryRun)

	ui.output = widget.NewLabel("Ready.")
	ui.output.Wrapping = fyne.TextWrapWord
	ui.output.TextStyle = fyne.TextStyle{Monospace: true}

	return widget.NewCard("Sync", "", container.NewVBox(
		container.NewHBox(ui.syncButton, ui.recountButton, ui.previewCheck),
		ui.output,
	))
}

func (ui *UI) buildAdvanced() fyne.CanvasObject {
	p := ui.opts.Paths
	openDataDir := func() {
		if err := os.MkdirAll(p.DataDir, 0755); err != nil {
			ui.statusBar.SetError(err.Error())
			return
		}
		ui.open(p.DataDir)
	}
	openLogs := func() {
		if err := config.EnsureLogDirectory(); err != nil {
			ui.statusBar.SetError(err.Error())
			return
		}
		ui.open(config.LogDirectory())
	}

	return widget.NewCard("Advanced", "", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewButton("Open config.yaml", func() { ui.open(p.ConfigPath) }),
			widget.NewButton("Open data folder", openDataDir),
			widget.NewButton("Open .env", func() { ui.open(p.EnvPath) }),
			widget.NewButton("Open logs", openLogs),
		),
		subtleLabel("Sync tool: "+p.RepoRoot),
	))
}

func (ui *UI) runSync(args syncer.SyncArgs) {
	if !ui.opts.Syncer.Submit(args) {
		ui.statusBar.SetInfo("A sync is already running")
		return
	}
	ui.setBusy(true)
	ui.statusBar.SetProgress("Running sync...")
	ui.setOutput("Running sync...")
}

func (ui *UI) open(target string) {
	if err := ui.opts.Opener.Open(target); err != nil {
		ui.opts.Logger.Error().Err(err).Str("target", target).Msg("Failed to open")
		dialog.ShowError(err, ui.window)
	}
}

// Start begins event monitoring and loads the initial status.
func (ui *UI) Start() {
	go ui.statusCard.Refresh()
	go ui.monitorEvents()

	w, err := status.NewWatcher(ui.opts.Paths.StatusPath, ui.opts.Bus, ui.opts.Logger, constants.StatusDebounce)
	if err != nil {
		ui.opts.Logger.Warn().Err(err).Msg("Status file watching disabled")
		return
	}
	go w.Run(ui.ctx)
}

// Stop stops event monitoring.
func (ui *UI) Stop() {
	ui.cancel()
}

func (ui *UI) monitorEvents() {
	finished := ui.opts.Bus.Subscribe(events.EventSyncFinished)
	changed := ui.opts.Bus.Subscribe(events.EventStatusChanged)
	defer ui.opts.Bus.Unsubscribe(events.EventSyncFinished, finished)
	defer ui.opts.Bus.Unsubscribe(events.EventStatusChanged, changed)

	for {
		select {
		case ev, ok := <-finished:
			if !ok {
				return
			}
			if e, ok := ev.(*events.SyncFinishedEvent); ok {
				ui.onSyncFinished(e)
			}
		case _, ok := <-changed:
			if !ok {
				return
			}
			ui.statusCard.Refresh()
		case <-ui.ctx.Done():
			return
		}
	}
}

func (ui *UI) onSyncFinished(e *events.SyncFinishedEvent) {
	ui.setBusy(false)
	if e.Succeeded() {
		ui.setOutput(syncOutputText(e.Output, nil))
		ui.statusBar.SetSuccess("Sync finished in " + e.Duration.Round(100*time.Millisecond).String())
	} else {
		ui.setOutput(syncOutputText(e.Output, e.Err))
		ui.statusBar.SetError("Sync failed")
	}
	ui.statusCard.Refresh()
}

func (ui *UI) setBusy(busy bool) {
	fyne.Do(func() {
		for _, b := range []*widget.Button{ui.syncButton, ui.recountButton} {
			if busy {
				b.Disable()
			} else {
				b.Enable()
			}
		}
		if busy {
			ui.previewCheck.Disable()
		} else {
			ui.previewCheck.Enable()
		}
	})
}

func (ui *UI) setOutput(text string) {
	fyne.Do(func() {
		ui.output.SetText(text)
	})
}

// syncOutputText is what the output area shows after a run.
func syncOutputText(output string, err error) string {
	if err != nil {
		return err.Error()
	}
	if out := strings.TrimSpace(output); out != "" {
		return out
	}
	return "Sync finished."
}
