// Package assets holds files embedded into the binary.
package assets

import (
	_ "embed"
)

// IconPNG is the 64x64 application icon used by the tray and the settings
// window. fyne.io/systray accepts PNG data on every platform.
//
//go:embed icon.png
var IconPNG []byte
