// Package envfile reads and updates the BearMinder .env settings file.
//
// The file is a flat list of KEY=value lines shared with the sync tool. Only the
// Beeminder keys are understood here; every other line (comments, blanks, keys
// owned by the tool) is carried through a save untouched and in place.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Key is a recognized settings key.
type Key string

const (
	KeyUsername Key = "BEEMINDER_USERNAME"
	KeyGoal     Key = "BEEMINDER_GOAL"
	KeyToken    Key = "BEEMINDER_TOKEN"
)

// RecognizedKeys returns the recognized keys in the order they are written
// when appended to a file.
func RecognizedKeys() []Key {
	return []Key{KeyUsername, KeyGoal, KeyToken}
}

func isRecognized(k string) bool {
	for _, rk := range RecognizedKeys() {
		if string(rk) == k {
			return true
		}
	}
	return false
}

// IOError reports a failed read or write of the settings file.
type IOError struct {
	Op   string // "read" or "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s settings file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Load reads the recognized keys from the file at path.
// A missing or unreadable file yields empty Settings, not an error.
func Load(path string) *Settings {
	s := &Settings{}
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	for _, line := range splitLines(string(data)) {
		if k, v, ok := parseAssignment(line); ok {
			s.Set(k, v)
		}
	}
	return s
}

// Save merges the set keys of s into the file at path and writes it back.
// Unset keys and unrecognized lines are left as they are on disk.
func Save(s *Settings, path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}

	current := make(map[Key]string)
	for _, line := range lines {
		if k, v, ok := parseAssignment(line); ok {
			current[k] = v
		}
	}

	for _, k := range RecognizedKeys() {
		v, ok := s.Get(k)
		if !ok {
			continue
		}
		// Leave the line alone when it already yields this value, so quoting
		// and spacing the user wrote survive a save.
		if cur, exists := current[k]; exists && cur == v {
			continue
		}
		lines = setLine(lines, k, v)
	}

	return writeLines(path, lines)
}

// Lookup returns the value assigned to name in the file at path, parsed the
// same way as the recognized keys. The last assignment wins. A missing or
// unreadable file reports false.
func Lookup(path, name string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var value string
	var found bool
	for _, line := range splitLines(string(data)) {
		if k, v, ok := splitAssignment(line); ok && k == name {
			value, found = v, true
		}
	}
	return value, found
}

// parseAssignment recognizes a KEY=value line for one of the recognized keys.
func parseAssignment(line string) (Key, string, bool) {
	key, value, ok := splitAssignment(line)
	if !ok || !isRecognized(key) {
		return "", "", false
	}
	return Key(key), value, true
}

// splitAssignment splits a line at the first '=' into a trimmed key and an
// unquoted value.
func splitAssignment(line string) (string, string, bool) {
	left, right, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(left), unquote(strings.TrimSpace(right)), true
}

// unquote strips one matched pair of surrounding double quotes.
func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return v[1 : len(v)-1]
	}
	return v
}

// setLine replaces the assignment for k in place or appends a new one.
// The last assignment is replaced since that is the one Load honors.
func setLine(lines []string, k Key, v string) []string {
	assignment := string(k) + "=" + v
	for i := len(lines) - 1; i >= 0; i-- {
		if lk, _, ok := parseAssignment(lines[i]); ok && lk == k {
			lines[i] = assignment
			return lines
		}
	}
	return append(lines, assignment)
}

// splitLines splits content on '\n'. A trailing newline does not produce an
// empty final line. Carriage returns are kept as part of the line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	return splitLines(string(data)), nil
}

func writeLines(path string, lines []string) error {
	var content string
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return &IOError{Op: "write", Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
