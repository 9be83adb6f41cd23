// Package bear locates the Bear notes database on this machine.
package bear

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/bearminder/bearminder-tray/internal/config"
)

// EnvDBPath overrides the database location.
const EnvDBPath = "BEAR_DB_PATH"

// ErrNotFound is returned when no Bear database exists at any known location.
var ErrNotFound = errors.New("Bear database not found")

// candidates are the Bear 2 and Bear 1 database locations on macOS, relative
// to the home directory.
var candidates = []string{
	"~/Library/Group Containers/9K33E3U3T4.net.shinyfrog.bear/Application Data/database.sqlite",
	"~/Library/Group Containers/2ELUDT6HF6.com.shinyfrog.bear/Application Data/database.sqlite",
	"~/Library/Containers/net.shinyfrog.bear/Data/Documents/Application Data/database.sqlite",
}

// Candidates returns the locations Detect checks, in order, with ~ expanded.
// The BEAR_DB_PATH value comes first when set.
func Candidates() []string {
	var out []string
	if p := os.Getenv(EnvDBPath); p != "" {
		out = append(out, config.ExpandHome(p))
	}
	for _, c := range candidates {
		out = append(out, config.ExpandHome(filepath.FromSlash(c)))
	}
	return out
}

// Detect returns the path of the first existing database file.
func Detect() (string, error) {
	for _, p := range Candidates() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNotFound
}

// Folder returns the directory holding the detected database.
func Folder() (string, error) {
	p, err := Detect()
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
