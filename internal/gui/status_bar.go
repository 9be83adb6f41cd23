package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// StatusLevel selects the icon shown next to a status message.
type StatusLevel int

const (
	StatusInfo StatusLevel = iota
	StatusSuccess
	StatusError
	StatusProgress
)

// StatusBar shows the latest action result with a level icon, or a spinner
// while an action runs. Setters are safe to call from any goroutine.
type StatusBar struct {
	widget.BaseWidget

	icon    *widget.Icon
	label   *widget.Label
	spinner *widget.Activity
}

// NewStatusBar creates a status bar showing "Ready."
func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.label = widget.NewLabel("Ready.")
	sb.label.Wrapping = fyne.TextWrapWord
	sb.icon = widget.NewIcon(theme.InfoIcon())
	sb.spinner = widget.NewActivity()
	sb.spinner.Hide()
	sb.ExtendBaseWidget(sb)
	return sb
}

// SetStatus updates the message and level.
func (sb *StatusBar) SetStatus(message string, level StatusLevel) {
	fyne.Do(func() {
		sb.label.SetText(message)
		sb.spinner.Stop()
		sb.spinner.Hide()
		sb.icon.Show()

		switch level {
		case StatusInfo:
			sb.icon.SetResource(theme.InfoIcon())
		case StatusSuccess:
			sb.icon.SetResource(theme.ConfirmIcon())
		case StatusError:
			sb.icon.SetResource(theme.ErrorIcon())
		case StatusProgress:
			sb.icon.Hide()
			sb.spinner.Show()
			sb.spinner.Start()
		}
	})
}

func (sb *StatusBar) SetInfo(message string)     { sb.SetStatus(message, StatusInfo) }
func (sb *StatusBar) SetSuccess(message string)  { sb.SetStatus(message, StatusSuccess) }
func (sb *StatusBar) SetError(message string)    { sb.SetStatus(message, StatusError) }
func (sb *StatusBar) SetProgress(message string) { sb.SetStatus(message, StatusProgress) }

// CreateRenderer implements fyne.Widget
func (sb *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, container.NewHBox(sb.icon, sb.spinner), nil, sb.label))
}
