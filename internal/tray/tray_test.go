package tray

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bearminder/bearminder-tray/internal/config"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
	"github.com/bearminder/bearminder-tray/internal/notify"
	"github.com/bearminder/bearminder-tray/internal/status"
)

type recordingView struct {
	mu      sync.Mutex
	title   string
	tooltip string
}

func (v *recordingView) SetStatusTitle(title string) {
	v.mu.Lock()
	v.title = title
	v.mu.Unlock()
}

func (v *recordingView) SetTooltip(tooltip string) {
	v.mu.Lock()
	v.tooltip = tooltip
	v.mu.Unlock()
}

type recordingOpener struct {
	opened []string
	err    error
}

func (o *recordingOpener) Open(target string) error {
	o.opened = append(o.opened, target)
	return o.err
}

func newTestApp(t *testing.T) (*App, *recordingView, *[]string) {
	t.Helper()
	root := t.TempDir()
	paths := &config.Paths{
		RepoRoot:   root,
		ConfigPath: filepath.Join(root, "config.yaml"),
		DataDir:    filepath.Join(root, "data"),
		StatusPath: filepath.Join(root, "data", "status.json"),
	}

	var notes []string
	n := notify.NewNotifier(true, logging.NewNopLogger())
	n.SetSender(func(title, message string) error {
		notes = append(notes, title+": "+message)
		return nil
	})

	a := New(Options{
		Config:   config.NewTrayConfig(),
		Paths:    paths,
		Logger:   logging.NewNopLogger(),
		Bus:      events.NewEventBus(10),
		Opener:   &recordingOpener{},
		Notifier: n,
	})
	v := &recordingView{}
	a.view = v
	return a, v, &notes
}

func writeStatus(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotText(t *testing.T) {
	tests := []struct {
		name      string
		snap      snapshot
		wantTitle string
		wantTip   string
	}{
		{
			name:      "no sync yet",
			snap:      snapshot{},
			wantTitle: "Status: No sync yet",
			wantTip:   "No sync yet",
		},
		{
			name:      "syncing wins over error",
			snap:      snapshot{syncing: true, syncError: "boom"},
			wantTitle: "Status: Syncing...",
			wantTip:   "Syncing...",
		},
		{
			name:      "error",
			snap:      snapshot{syncError: "ValueError: bad token"},
			wantTitle: "Status: Sync failed",
			wantTip:   "Last error: ValueError: bad token",
		},
		{
			name:      "status",
			snap:      snapshot{lastStatus: &status.Status{Success: true, Value: 5, NotesCount: 1, TagsCount: 0}},
			wantTitle: "Status: 5 words, 1 notes, 0 tags",
			wantTip:   "5 words, 1 notes, 0 tags",
		},
		{
			name: "action error keeps the status line",
			snap: snapshot{
				lastStatus:  &status.Status{Success: true, Value: 5, NotesCount: 1, TagsCount: 0},
				actionError: "xdg-open not found",
			},
			wantTitle: "Status: 5 words, 1 notes, 0 tags",
			wantTip:   "5 words, 1 notes, 0 tags\nxdg-open not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.snap.statusTitle(); got != tt.wantTitle {
				t.Errorf("statusTitle() = %q, want %q", got, tt.wantTitle)
			}
			if got := tt.snap.tooltip(); !strings.HasSuffix(got, tt.wantTip) {
				t.Errorf("tooltip() = %q, want suffix %q", got, tt.wantTip)
			}
		})
	}
}

func TestTooltip_TruncatesLongErrors(t *testing.T) {
	snap := snapshot{syncError: strings.Repeat("x", 500)}
	if got := snap.tooltip(); len(got) > 150 {
		t.Errorf("tooltip not truncated: %d chars", len(got))
	}
}

func TestHandleEvent_SyncLifecycle(t *testing.T) {
	a, v, notes := newTestApp(t)
	writeStatus(t, a.opts.Paths.StatusPath, `{"success": true, "value": 42, "notes_count": 2, "tags_count": 1}`)

	a.handleEvent(&events.SyncStartedEvent{SinceHours: 1})
	if v.title != "Status: Syncing..." {
		t.Errorf("title during sync = %q", v.title)
	}

	a.handleEvent(&events.SyncFinishedEvent{Output: "ok", Duration: time.Second})
	if v.title != "Status: 42 words, 2 notes, 1 tags" {
		t.Errorf("title after sync = %q", v.title)
	}
	if len(*notes) != 1 || !strings.Contains((*notes)[0], "42 words") {
		t.Errorf("unexpected notifications %v", *notes)
	}
}

func TestHandleEvent_FailureIsSurfaced(t *testing.T) {
	a, v, notes := newTestApp(t)

	a.handleEvent(&events.SyncStartedEvent{SinceHours: 1})
	a.handleEvent(&events.SyncFinishedEvent{Err: errors.New("exit status 1: Traceback\nRuntimeError: no token")})

	if v.title != "Status: Sync failed" {
		t.Errorf("title = %q", v.title)
	}
	if !strings.Contains(v.tooltip, "RuntimeError: no token") {
		t.Errorf("tooltip should carry the error, got %q", v.tooltip)
	}
	if len(*notes) != 1 || !strings.Contains((*notes)[0], "Alert") {
		t.Errorf("expected a failure notification, got %v", *notes)
	}

	// The next successful sync clears the error
	a.handleEvent(&events.SyncFinishedEvent{})
	if v.title == "Status: Sync failed" {
		t.Error("error should be cleared after a successful sync")
	}
}

func TestHandleEvent_StatusChanged(t *testing.T) {
	a, v, _ := newTestApp(t)

	a.handleEvent(&events.StatusChangedEvent{Path: a.opts.Paths.StatusPath})
	if v.title != "Status: No sync yet" {
		t.Errorf("missing status file: title = %q", v.title)
	}

	writeStatus(t, a.opts.Paths.StatusPath, `{"success": false, "error": "HTTP 401"}`)
	a.handleEvent(&events.StatusChangedEvent{Path: a.opts.Paths.StatusPath})
	if !strings.Contains(v.title, "Last sync failed: HTTP 401") {
		t.Errorf("title = %q", v.title)
	}
}

func TestOpen_FailureDoesNotReportSyncFailed(t *testing.T) {
	a, v, notes := newTestApp(t)
	writeStatus(t, a.opts.Paths.StatusPath, `{"success": true, "value": 5, "notes_count": 0, "tags_count": 0}`)
	a.refreshStatus()
	want := "Status: 5 words, 0 notes, 0 tags"
	if v.title != want {
		t.Fatalf("title = %q, want %q", v.title, want)
	}

	a.opts.Opener = &recordingOpener{err: errors.New("exec: \"xdg-open\": executable file not found")}
	a.open(a.opts.Paths.ConfigPath)
	if v.title != want {
		t.Errorf("title after failed open = %q, want %q", v.title, want)
	}
	if !strings.Contains(v.tooltip, "xdg-open") {
		t.Errorf("tooltip should mention the failed open, got %q", v.tooltip)
	}

	a.refreshStatus()
	if v.title != want {
		t.Errorf("title after refresh = %q, want %q", v.title, want)
	}
	if strings.Contains(v.tooltip, "xdg-open") {
		t.Errorf("open error should clear on refresh, got %q", v.tooltip)
	}
	if len(*notes) != 0 {
		t.Errorf("a failed open must not notify, got %v", *notes)
	}
}

func TestOpenWindow_FailureDoesNotReportSyncFailed(t *testing.T) {
	a, v, _ := newTestApp(t)
	a.opts.LaunchWindow = func() error { return errors.New("failed to launch settings window: permission denied") }

	a.openWindow()
	if v.title == "Status: Sync failed" {
		t.Errorf("title = %q", v.title)
	}
	if !strings.Contains(v.tooltip, "permission denied") {
		t.Errorf("tooltip = %q", v.tooltip)
	}
}
