// Package constants holds application-wide names and tuning values.
package constants

import "time"

// Application identity
const (
	// AppName is shown in the tray tooltip, window titles and notifications.
	AppName = "BearMinder"

	// AppID is the fyne application ID for the settings window.
	AppID = "com.bearminder.tray"

	// BinaryName is the executable name used in help text and re-launches.
	BinaryName = "bearminder-tray"

	// LogFileName is the rotating log file inside config.LogDirectory().
	LogFileName = "bearminder-tray.log"
)

// Event bus sizing
const (
	// EventBusDefaultBuffer - default buffer size for subscriber channels.
	// Sync events are rare; a small buffer is plenty.
	EventBusDefaultBuffer = 64

	// EventBusMaxBuffer - cap on requested buffer sizes.
	EventBusMaxBuffer = 1024
)

// Tray timing
const (
	// StatusDebounce delays a status re-read after a file system event so the
	// sync tool has finished writing status.json.
	StatusDebounce = 250 * time.Millisecond

	// TooltipErrorMaxLen truncates errors shown in the tooltip.
	TooltipErrorMaxLen = 80
)

// Sync presets used by the settings window.
const (
	// WindowSyncSinceHours is the "Sync now" lookback in the settings window.
	WindowSyncSinceHours = 24

	// RecountSinceHours is the "Recount last hour" lookback.
	RecountSinceHours = 1
)

// Beeminder pages opened from the settings window.
const (
	BeeminderTokenURL   = "https://www.beeminder.com/api/v1/auth_token.json"
	BeeminderGoalURLFmt = "https://www.beeminder.com/%s/goals/%s"
)
