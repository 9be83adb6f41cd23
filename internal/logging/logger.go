// Package logging provides structured logging for CLI, tray and window modes.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Mode selects where log output goes.
type Mode string

const (
	// ModeCLI logs to stdout; stderr is reserved for spinners and prompts.
	ModeCLI Mode = "cli"
	// ModeTray logs to stderr and, when configured, to a rotating file.
	ModeTray Mode = "tray"
	// ModeGUI behaves like ModeTray for the settings window process.
	ModeGUI Mode = "gui"
)

// Logger wraps zerolog with mode-specific behavior.
type Logger struct {
	zlog   zerolog.Logger
	mode   Mode
	output io.Writer
	file   *lumberjack.Logger
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "15:04:05",
	}
}

// NewLogger creates a new logger for the specified mode.
func NewLogger(mode Mode) *Logger {
	var output io.Writer
	if mode == ModeCLI {
		output = consoleWriter(os.Stdout)
	} else {
		output = consoleWriter(os.Stderr)
	}

	return &Logger{
		zlog:   zerolog.New(output).With().Timestamp().Logger(),
		mode:   mode,
		output: output,
	}
}

// NewDefaultCLILogger creates a default CLI logger.
func NewDefaultCLILogger() *Logger {
	return NewLogger(ModeCLI)
}

// NewFileLogger creates a logger for long-running modes that also writes JSON
// lines to a rotating file at path.
func NewFileLogger(mode Mode, path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	l := NewLogger(mode)
	l.file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	l.SetOutput(io.MultiWriter(l.output, l.file))
	return l, nil
}

// NewNopLogger returns a logger that discards everything. Used in tests.
func NewNopLogger() *Logger {
	return &Logger{zlog: zerolog.Nop(), mode: ModeCLI, output: io.Discard}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// SetOutput changes the output writer for the logger.
// w receives JSON lines; wrap it in a zerolog.ConsoleWriter for human output.
func (l *Logger) SetOutput(w io.Writer) {
	l.output = w
	l.zlog = zerolog.New(w).With().Timestamp().Logger()
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	log.Logger = log.Output(consoleWriter(os.Stderr))
}
