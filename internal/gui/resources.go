package gui

import (
	"fyne.io/fyne/v2"

	"github.com/bearminder/bearminder-tray/internal/assets"
)

// AppIcon returns the application icon resource.
func AppIcon() fyne.Resource {
	return fyne.NewStaticResource("icon.png", assets.IconPNG)
}
