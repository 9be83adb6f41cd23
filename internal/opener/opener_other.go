//go:build !windows

package opener

import "errors"

func shellOpen(string) error {
	return errors.New("ShellExecute is only available on Windows")
}
