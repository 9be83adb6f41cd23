package tray

import (
	"fmt"
	"os"
	"os/exec"
)

// WindowLauncher returns a function that starts "<this binary> gui" with
// extraArgs appended. The systray and fyne event loops both need the main
// thread, so the settings window always lives in its own process.
func WindowLauncher(extraArgs ...string) func() error {
	return func() error {
		exePath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to find executable path: %w", err)
		}

		args := append([]string{"gui"}, extraArgs...)
		cmd := exec.Command(exePath, args...)
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("failed to launch settings window: %w", err)
		}
		go cmd.Wait() //nolint:errcheck
		return nil
	}
}
