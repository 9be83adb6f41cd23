// Package progress shows terminal activity indicators for long CLI commands.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// Spinner is an indeterminate progress indicator. It renders only when the
// output is a terminal, so piped output stays clean.
type Spinner struct {
	bar  *progressbar.ProgressBar
	out  io.Writer
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewSpinnerTo creates a spinner writing to out. When interactive is false
// Start prints the description once and nothing else.
func NewSpinnerTo(out io.Writer, interactive bool) *Spinner {
	s := &Spinner{out: out}
	if interactive {
		s.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetRenderBlankState(true),
		)
	}
	return s
}

// Start shows description and animates until Stop is called.
func (s *Spinner) Start(description string) {
	if s.bar == nil {
		fmt.Fprintln(s.out, description)
		return
	}

	s.bar.Describe(description)
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = s.bar.Add(1)
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop ends the animation and clears the line.
func (s *Spinner) Stop() {
	if s.bar == nil || s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	_ = s.bar.Finish()
}
