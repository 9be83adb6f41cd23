//go:build windows

package opener

import (
	"golang.org/x/sys/windows"
)

// shellOpen uses ShellExecute with the "open" verb, which is what Explorer
// does on double-click.
func shellOpen(target string) error {
	verb, err := windows.UTF16PtrFromString("open")
	if err != nil {
		return err
	}
	file, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL)
}
