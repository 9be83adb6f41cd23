package envfile

import "strings"

// Settings holds the recognized Beeminder values. A nil field is unset.
type Settings struct {
	Username *string `json:"beeminder_username,omitempty"`
	Goal     *string `json:"beeminder_goal,omitempty"`
	Token    *string `json:"beeminder_token,omitempty"`
}

func (s *Settings) field(k Key) **string {
	switch k {
	case KeyUsername:
		return &s.Username
	case KeyGoal:
		return &s.Goal
	case KeyToken:
		return &s.Token
	}
	return nil
}

// Get returns the value for k and whether it is set.
func (s *Settings) Get(k Key) (string, bool) {
	f := s.field(k)
	if f == nil || *f == nil {
		return "", false
	}
	return **f, true
}

// Set assigns v to k. Unknown keys are ignored.
func (s *Settings) Set(k Key, v string) {
	if f := s.field(k); f != nil {
		*f = &v
	}
}

// Unset clears k.
func (s *Settings) Unset(k Key) {
	if f := s.field(k); f != nil {
		*f = nil
	}
}

// IsEmpty reports whether no key is set.
func (s *Settings) IsEmpty() bool {
	for _, k := range RecognizedKeys() {
		if _, ok := s.Get(k); ok {
			return false
		}
	}
	return true
}

// Redacted returns a copy with the token masked for display.
func (s *Settings) Redacted() *Settings {
	out := &Settings{Username: s.Username, Goal: s.Goal}
	if s.Token != nil {
		out.Set(KeyToken, maskToken(*s.Token))
	}
	return out
}

func maskToken(t string) string {
	if len(t) <= 4 {
		return strings.Repeat("*", len(t))
	}
	return strings.Repeat("*", len(t)-4) + t[len(t)-4:]
}

// String renders the settings as KEY=value lines with the token masked.
func (s *Settings) String() string {
	r := s.Redacted()
	var b strings.Builder
	for _, k := range RecognizedKeys() {
		v, ok := r.Get(k)
		if !ok {
			v = "(unset)"
		}
		b.WriteString(string(k))
		b.WriteString("=")
		b.WriteString(v)
		b.WriteString("\n")
	}
	return b.String()
}
