// Package opener hands paths and URLs to the operating system's default
// handler. Opening is fire-and-forget: only start errors are reported.
package opener

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// ErrEmptyTarget is returned when asked to open an empty path or URL.
var ErrEmptyTarget = errors.New("nothing to open")

// StartFunc launches an external program without waiting for it.
type StartFunc func(name string, args ...string) error

// Opener opens files, folders and URLs.
type Opener struct {
	goos  string
	start StartFunc
	shell func(target string) error
}

// New returns an Opener for the running platform.
func New() *Opener {
	return &Opener{
		goos:  runtime.GOOS,
		start: startDetached,
		shell: shellOpen,
	}
}

// Open asks the OS to open target with its default handler.
func (o *Opener) Open(target string) error {
	if target == "" {
		return ErrEmptyTarget
	}

	if o.goos == "windows" {
		if err := o.shell(target); err != nil {
			return fmt.Errorf("failed to open %s: %w", target, err)
		}
		return nil
	}

	name, args := o.command(target)
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	return nil
}

// command returns the launcher invocation for non-Windows systems.
func (o *Opener) command(target string) (string, []string) {
	switch o.goos {
	case "darwin":
		return "open", []string{target}
	default:
		// Linux and the BSDs
		return "xdg-open", []string{target}
	}
}

// startDetached starts the program and reaps it in the background.
func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait() //nolint:errcheck
	return nil
}
