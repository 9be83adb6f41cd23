// Package notify provides cross-platform desktop notifications for sync results.
// It uses github.com/gen2brain/beeep for cross-platform notification support.
package notify

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"

	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/util/text"
)

// SendFunc delivers a notification. beeep.Notify is the default.
type SendFunc func(title, message string) error

// Notifier handles desktop notifications.
type Notifier struct {
	logger  *logging.Logger
	enabled bool
	send    SendFunc
	mu      sync.RWMutex
}

// NewNotifier creates a new notifier.
func NewNotifier(enabled bool, logger *logging.Logger) *Notifier {
	return &Notifier{
		logger:  logger,
		enabled: enabled,
		send: func(title, message string) error {
			// Windows: toast, macOS: notification center, Linux: D-Bus
			return beeep.Notify(title, message, "")
		},
	}
}

// SetSender replaces the delivery function.
func (n *Notifier) SetSender(send SendFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

// IsEnabled returns whether notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.enabled
}

// SyncSucceeded notifies that a sync finished. summary is the status line
// derived from status.json, or empty when unavailable.
func (n *Notifier) SyncSucceeded(summary string) {
	if !n.IsEnabled() {
		return
	}
	message := "Sync finished."
	if summary != "" {
		message = text.Truncate(summary, 120)
	}
	n.deliver(constants.AppName, message)
}

// SyncFailed notifies that a sync failed.
func (n *Notifier) SyncFailed(err error) {
	if !n.IsEnabled() || err == nil {
		return
	}
	message := fmt.Sprintf("Sync failed:\n%s", text.Truncate(text.LastLine(err.Error()), 100))
	n.deliver(constants.AppName+" Alert", message)
}

func (n *Notifier) deliver(title, message string) {
	n.mu.RLock()
	send := n.send
	n.mu.RUnlock()

	if err := send(title, message); err != nil {
		n.logger.Warn().Err(err).Str("title", title).Msg("Failed to send notification")
	}
}
