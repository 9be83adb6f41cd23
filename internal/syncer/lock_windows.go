//go:build windows

package syncer

import "golang.org/x/sys/windows"

const stillActive = 259

// processAlive reports whether pid names a process that has not exited. An
// exited process keeps its handle while anyone holds one open.
func processAlive(pid int) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var code uint32
	if err := windows.GetExitCodeProcess(h, &code); err != nil {
		return true
	}
	return code == stillActive
}
