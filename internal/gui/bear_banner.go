package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/bearminder/bearminder-tray/internal/bear"
)

// buildBearBanner returns a warning card when no Bear database can be
// found, or nil when one exists.
func (ui *UI) buildBearBanner() fyne.CanvasObject {
	path, err := bear.Detect()
	if err == nil {
		ui.opts.Logger.Debug().Str("path", path).Msg("Bear database found")
		return nil
	}

	hint := subtleLabel("Set " + bear.EnvDBPath + " in your .env or open the Bear data folder to locate database.sqlite.")

	openFolder := widget.NewButton("Open Bear data folder", func() {
		dir, err := bear.Folder()
		if err != nil {
			ui.statusBar.SetError(err.Error())
			return
		}
		ui.open(dir)
	})
	openEnv := widget.NewButton("Open .env", func() {
		ui.open(ui.opts.Paths.EnvPath)
	})

	return widget.NewCard("Bear database not found", "", container.NewVBox(
		hint,
		container.NewHBox(openFolder, openEnv),
	))
}
