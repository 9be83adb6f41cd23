package gui

import (
	"errors"
	"os"
	"runtime"

	"github.com/bearminder/bearminder-tray/internal/constants"
)

// ErrNoDisplay is returned on Linux when neither X11 nor Wayland is available.
var ErrNoDisplay = errors.New("the settings window requires a display; DISPLAY and WAYLAND_DISPLAY are not set. Use '" +
	constants.BinaryName + " env set' to edit settings from the command line")

// HasDisplay reports whether a graphical session is available.
func HasDisplay() bool {
	if runtime.GOOS != "linux" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
