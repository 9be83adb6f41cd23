package syncer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// lockFileName marks a running sync in the data directory. The tray, the
// settings window and the CLI run in separate processes and all check it.
const lockFileName = ".sync.lock"

// A lock file that has no PID yet is only trusted this long; its creator
// writes the PID right after creating it.
const emptyLockGrace = 5 * time.Second

// syncLock is a PID file held for the duration of one sync. A lock left
// behind by a process that no longer exists is taken over.
type syncLock struct {
	path string
}

func newSyncLock(dir string) *syncLock {
	if dir == "" {
		return nil
	}
	return &syncLock{path: filepath.Join(dir, lockFileName)}
}

// tryLock creates the lock file with the current PID. It reports false when
// a live process holds the lock.
func (l *syncLock) tryLock() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return false, fmt.Errorf("failed to create data directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(os.Getpid()))
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			if werr != nil {
				os.Remove(l.path)
				return false, fmt.Errorf("failed to write sync lock: %w", werr)
			}
			return true, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return false, fmt.Errorf("failed to create sync lock: %w", err)
		}

		if l.held() {
			return false, nil
		}
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to remove stale sync lock: %w", err)
		}
	}
	return false, nil
}

// held reports whether the existing lock file belongs to a live process.
func (l *syncLock) held() bool {
	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return time.Since(info.ModTime()) < emptyLockGrace
	}
	return processAlive(pid)
}

func (l *syncLock) unlock() error {
	if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
