//go:build !windows

package syncer

import (
	"errors"
	"os"
	"syscall"
)

// processAlive uses kill(0); FindProcess always succeeds on Unix.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = p.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
