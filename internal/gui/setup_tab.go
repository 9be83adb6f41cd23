package gui

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/bearminder/bearminder-tray/internal/constants"
	"github.com/bearminder/bearminder-tray/internal/envfile"
	"github.com/bearminder/bearminder-tray/internal/events"
	"github.com/bearminder/bearminder-tray/internal/logging"
)

var errGoalIncomplete = errors.New("set username and goal first")

// SetupTab edits the Beeminder credentials in the settings file.
type SetupTab struct {
	store  *envfile.Store
	opener Opener
	bus    *events.EventBus
	logger *logging.Logger
	status *StatusBar

	usernameEntry *widget.Entry
	goalEntry     *widget.Entry
	tokenEntry    *widget.Entry
}

// NewSetupTab creates the setup section. status receives save results.
func NewSetupTab(store *envfile.Store, opener Opener, bus *events.EventBus, logger *logging.Logger, status *StatusBar) *SetupTab {
	return &SetupTab{
		store:  store,
		opener: opener,
		bus:    bus,
		logger: logger,
		status: status,
	}
}

// Build creates the setup card.
func (st *SetupTab) Build() fyne.CanvasObject {
	st.usernameEntry = widget.NewEntry()
	st.usernameEntry.SetPlaceHolder("Your Beeminder username")

	st.goalEntry = widget.NewEntry()
	st.goalEntry.SetPlaceHolder("e.g. writing")

	st.tokenEntry = widget.NewPasswordEntry()
	st.tokenEntry.SetPlaceHolder("Paste your token")

	st.load()

	form := widget.NewForm(
		widget.NewFormItem("Username", st.usernameEntry),
		widget.NewFormItem("Goal name", st.goalEntry),
		widget.NewFormItem("API token", st.tokenEntry),
	)

	saveButton := NewPrimaryButton("Save settings", st.save)
	tokenButton := widget.NewButton("Open token page", func() {
		st.open(constants.BeeminderTokenURL)
	})
	goalButton := widget.NewButton("Open goal page", st.openGoalPage)

	return widget.NewCard("Beeminder setup", "", container.NewVBox(
		form,
		subtleLabel("Get your token from the token page."),
		container.NewHBox(saveButton, tokenButton, goalButton),
		subtleLabel("Saved to "+st.store.Path()),
	))
}

// load fills the form from the settings file.
func (st *SetupTab) load() {
	s := st.store.Load()
	for _, f := range st.fields() {
		v, _ := s.Get(f.key)
		f.entry.SetText(v)
	}
}

func (st *SetupTab) save() {
	values := make(map[envfile.Key]string)
	for _, f := range st.fields() {
		values[f.key] = f.entry.Text
	}

	err := st.store.Update(func(s *envfile.Settings) {
		applyForm(s, values)
	})
	if err != nil {
		st.logger.Error().Err(err).Str("path", st.store.Path()).Msg("Failed to save settings")
		st.status.SetError(err.Error())
		return
	}

	st.logger.Info().Str("path", st.store.Path()).Msg("Settings saved")
	st.status.SetSuccess("Saved")
	if st.bus != nil {
		st.bus.PublishSettingsSaved(st.store.Path())
	}
}

func (st *SetupTab) openGoalPage() {
	u, err := goalURL(st.usernameEntry.Text, st.goalEntry.Text)
	if err != nil {
		st.status.SetInfo("Set username and goal first")
		return
	}
	st.open(u)
}

func (st *SetupTab) open(target string) {
	if err := st.opener.Open(target); err != nil {
		st.status.SetError(err.Error())
	}
}

type formField struct {
	key   envfile.Key
	entry *widget.Entry
}

func (st *SetupTab) fields() []formField {
	return []formField{
		{envfile.KeyUsername, st.usernameEntry},
		{envfile.KeyGoal, st.goalEntry},
		{envfile.KeyToken, st.tokenEntry},
	}
}

// applyForm copies form values into s. An empty entry for a key that is
// not in the file leaves it unset, so saving an untouched form does not add
// empty assignments.
func applyForm(s *envfile.Settings, values map[envfile.Key]string) {
	for _, k := range envfile.RecognizedKeys() {
		v := strings.TrimSpace(values[k])
		if _, set := s.Get(k); v == "" && !set {
			continue
		}
		s.Set(k, v)
	}
}

// goalURL returns the Beeminder page of username's goal.
func goalURL(username, goal string) (string, error) {
	username, goal = strings.TrimSpace(username), strings.TrimSpace(goal)
	if username == "" || goal == "" {
		return "", errGoalIncomplete
	}
	return fmt.Sprintf(constants.BeeminderGoalURLFmt, url.PathEscape(username), url.PathEscape(goal)), nil
}
