package tray

import (
	"sync"

	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/status"
	"github.com/bearminder/bearminder-tray/internal/util/text"
	"github.com/bearminder/bearminder-tray/internal/version"
)

// state is what the tray displays. All fields are guarded by mu.
type state struct {
	mu          sync.RWMutex
	syncing     bool
	lastStatus  *status.Status
	syncError   string
	actionError string
}

type snapshot struct {
	syncing     bool
	lastStatus  *status.Status
	syncError   string
	actionError string
}

func (s *state) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		syncing:     s.syncing,
		lastStatus:  s.lastStatus,
		syncError:   s.syncError,
		actionError: s.actionError,
	}
}

func (s *state) setSyncing(v bool) {
	s.mu.Lock()
	s.syncing = v
	s.mu.Unlock()
}

func (s *state) setStatus(st *status.Status) {
	s.mu.Lock()
	s.lastStatus = st
	s.mu.Unlock()
}

// setSyncError records the outcome of the last sync; nil clears it.
func (s *state) setSyncError(err error) {
	s.mu.Lock()
	s.syncError = errorLine(err)
	s.mu.Unlock()
}

// setActionError records a failed menu action such as opening a file. It is
// shown in the tooltip until the next status refresh.
func (s *state) setActionError(err error) {
	s.mu.Lock()
	s.actionError = errorLine(err)
	s.mu.Unlock()
}

func errorLine(err error) string {
	if err == nil {
		return ""
	}
	return text.LastLine(err.Error())
}

// statusTitle is the disabled first menu item.
func (s snapshot) statusTitle() string {
	switch {
	case s.syncing:
		return "Status: Syncing..."
	case s.syncError != "":
		return "Status: Sync failed"
	case s.lastStatus != nil:
		return "Status: " + text.Truncate(s.lastStatus.Summary(), 60)
	default:
		return "Status: No sync yet"
	}
}

func (s snapshot) tooltip() string {
	tip := constants.AppName + " " + version.Version
	switch {
	case s.syncing:
		tip += "\nSyncing..."
	case s.syncError != "":
		tip += "\nLast error: " + text.Truncate(s.syncError, constants.TooltipErrorMaxLen)
	case s.lastStatus != nil:
		tip += "\n" + s.lastStatus.Summary()
	default:
		tip += "\nNo sync yet"
	}
	if s.actionError != "" {
		tip += "\n" + text.Truncate(s.actionError, constants.TooltipErrorMaxLen)
	}
	return tip
}
