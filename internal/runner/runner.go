// Package runner executes the active document through an in-process POSIX
// shell and parses error traces out of its stderr.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/bethropolis/quill/internal/logger"
)

// FileVar is the environment variable holding the path of the file to run.
const FileVar = "QUILL_FILE"

// DefaultCommand runs the file with the system Python interpreter.
const DefaultCommand = `python3 "$QUILL_FILE"`

// Result is what a run produced.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Failed reports a non-zero exit.
func (r Result) Failed() bool { return r.ExitCode != 0 }

// Producer runs a file and captures its output. Run blocks until the
// process exits.
type Producer interface {
	Run(ctx context.Context, path string) (Result, error)
}

// Shell is a Producer that interprets a shell command line. The file path
// is passed in FileVar rather than spliced into the command text.
type Shell struct {
	Command string
	// Timeout bounds a run when positive. Zero waits for the process to exit.
	Timeout time.Duration
	Env     []string
}

// NewShell creates a Shell producer for command, using DefaultCommand when empty.
func NewShell(command string, timeout time.Duration) *Shell {
	if strings.TrimSpace(command) == "" {
		command = DefaultCommand
	}
	return &Shell{Command: command, Timeout: timeout, Env: os.Environ()}
}

// Run executes the command with the file's directory as working directory.
func (s *Shell) Run(ctx context.Context, path string) (res Result, err error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(s.Command), "")
	if err != nil {
		return res, fmt.Errorf("could not parse run command: %w", err)
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	env := append(append([]string(nil), s.Env...), FileVar+"="+path)
	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.StdIO(nil, &stdout, &stderr),
		interp.Interactive(false),
		interp.Env(expand.ListEnviron(env...)),
		interp.Dir(filepath.Dir(path)),
	)
	if err != nil {
		return res, fmt.Errorf("could not create interpreter: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("run panic: %v", r)
		}
	}()

	logger.DebugTagf("run", "running %q for %s", s.Command, path)
	start := time.Now()
	runErr := runner.Run(ctx, prog)

	res = Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: ExitCode(runErr)}
	var status interp.ExitStatus
	if runErr != nil && !errors.As(runErr, &status) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("run of %s stopped: %w", path, ctxErr)
		}
		return res, fmt.Errorf("run of %s failed: %w", path, runErr)
	}
	logger.DebugTagf("run", "%s exited %d after %s", path, res.ExitCode, time.Since(start).Round(time.Millisecond))
	return res, nil
}

// ExitCode extracts the exit code from an interpreter error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr interp.ExitStatus
	if errors.As(err, &exitErr) {
		return int(exitErr)
	}
	return 1
}
