package gui

import (
	"errors"
	"os"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/status"
)

// StatusCard shows the fields of status.json.
type StatusCard struct {
	path   string
	logger *logging.Logger

	grid    *fyne.Container
	empty   *widget.Label
	errText *widget.Label
	details *widget.Label
}

type statusRow struct {
	label string
	value string
}

// NewStatusCard creates a card for the status document at path.
func NewStatusCard(path string, logger *logging.Logger) *StatusCard {
	return &StatusCard{path: path, logger: logger}
}

// Build creates the card. refresh is the Refresh button action.
func (sc *StatusCard) Build(refresh func()) fyne.CanvasObject {
	sc.grid = container.NewGridWithColumns(2)
	sc.empty = subtleLabel("No sync yet.")
	sc.errText = widget.NewLabel("")
	sc.errText.Wrapping = fyne.TextWrapWord
	sc.errText.Importance = widget.DangerImportance
	sc.errText.Hide()
	sc.details = widget.NewLabel("")
	sc.details.Wrapping = fyne.TextWrapWord
	sc.details.Hide()

	return widget.NewCard("Current status", "", container.NewVBox(
		sc.empty,
		sc.grid,
		sc.errText,
		sc.details,
		widget.NewButton("Refresh", refresh),
	))
}

// Refresh re-reads status.json. Safe to call from any goroutine.
func (sc *StatusCard) Refresh() {
	st, err := status.Read(sc.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		sc.logger.Debug().Err(err).Msg("Failed to read status")
	}
	if err != nil {
		st = nil
	}

	fyne.Do(func() {
		sc.render(st)
	})
}

func (sc *StatusCard) render(st *status.Status) {
	sc.grid.RemoveAll()
	if st == nil {
		sc.empty.Show()
		sc.errText.Hide()
		sc.details.Hide()
		return
	}

	sc.empty.Hide()
	for _, r := range statusRows(st) {
		label := widget.NewLabel(r.label)
		label.TextStyle = fyne.TextStyle{Bold: true}
		sc.grid.Add(label)
		sc.grid.Add(widget.NewLabel(r.value))
	}

	if st.Error != "" {
		sc.errText.SetText("Error: " + st.Error)
		sc.errText.Show()
	} else {
		sc.errText.Hide()
	}
	if st.Comment != "" {
		sc.details.SetText(st.Comment)
		sc.details.Show()
	} else {
		sc.details.Hide()
	}
}

func statusRows(st *status.Status) []statusRow {
	result := "Error"
	if st.Success {
		result = "Success"
	}
	if st.DryRun {
		result += " (preview)"
	}
	return []statusRow{
		{"Last sync", formatLocal(st)},
		{"Words posted", strconv.Itoa(st.Value)},
		{"Notes scanned", strconv.Itoa(st.NotesCount)},
		{"Tags found", strconv.Itoa(st.TagsCount)},
		{"Result", result},
	}
}

// formatLocal renders last_sync in local time, or the raw text when it
// cannot be parsed.
func formatLocal(st *status.Status) string {
	if st.LastSync == "" {
		return "-"
	}
	t, ok := st.LastSyncTime()
	if !ok {
		return st.LastSync
	}
	return t.Local().Format("Jan 2, 2006 15:04:05")
}
