// Package runner executes external commands to completion and collects their output.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command describes a single process invocation.
type Command struct {
	Path string
	Dir  string
	Args []string
	// Env overrides entries of the inherited environment.
	Env map[string]string
}

// String renders the command line for logs.
func (c Command) String() string {
	return strings.TrimSpace(c.Path + " " + strings.Join(c.Args, " "))
}

// ExitError is returned when the process ran but did not succeed.
// Output holds stdout followed by stderr.
type ExitError struct {
	Output string
	Err    error
}

func (e *ExitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, out)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs commands. The zero value is ready to use.
type Runner struct{}

// New creates a Runner.
func New() *Runner {
	return &Runner{}
}

// Run executes cmd and waits for it. On success it returns stdout.
func (r *Runner) Run(ctx context.Context, cmd Command) (string, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = mergeEnv(os.Environ(), cmd.Env)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok || ctx.Err() != nil {
			return "", &ExitError{Output: stdout.String() + stderr.String(), Err: err}
		}
		return "", fmt.Errorf("failed to start %s: %w", cmd.Path, err)
	}
	return stdout.String(), nil
}

// mergeEnv returns base with overrides applied. Overridden keys are dropped from
// base and re-added in sorted order so the result is deterministic.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[k]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
