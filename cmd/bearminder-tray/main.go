// BearMinder tray - desktop companion for the bearminder sync tool.
//
// Mode selection:
//   - No args + display available → tray icon
//   - No args + no display → CLI help
//   - Any subcommand or flag → CLI
//
// Build with: go build ./cmd/bearminder-tray
// On Windows add -ldflags "-H=windowsgui" to hide the console window.
package main

import (
	"os"

	"github.com/bearminder/bearminder-tray/internal/cli"
	"github.com/bearminder/bearminder-tray/internal/gui"
)

func main() {
	var args []string
	if isTrayMode() {
		args = []string{"tray"}
	}

	// cobra prints the error
	if err := cli.Execute(args); err != nil {
		os.Exit(1)
	}
}

// isTrayMode reports whether the binary was started without arguments on a
// desktop, for example from a login item or a .desktop autostart entry.
func isTrayMode() bool {
	return len(os.Args) == 1 && gui.HasDisplay()
}
