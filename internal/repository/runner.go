package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"
	"go.uber.org/zap"
)

// ErrGitNotFound is returned when no git program can be located.
var ErrGitNotFound = errors.New("git program not found")

// Runner executes git subcommands and returns their trimmed stdout.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CmdError describes a git invocation that exited non-zero.
type CmdError struct {
	Cmd      string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (e *CmdError) Error() string {
	return fmt.Sprintf("failed to exec: %s (exit %d): stderr=%q", e.Cmd, e.ExitCode, strings.TrimSpace(string(e.Stderr)))
}

// ExecRunner runs the git binary in a fixed working directory.
type ExecRunner struct {
	path   string
	dir    string
	logger *zap.Logger
}

// NewExecRunner locates git (programPath wins when set) and binds it to dir.
func NewExecRunner(programPath, dir string, logger *zap.Logger) (*ExecRunner, error) {
	if programPath == "" {
		found, err := safeexec.LookPath("git")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGitNotFound, err)
		}
		programPath = found
	}
	if _, err := os.Stat(programPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGitNotFound, err)
	}
	return &ExecRunner{path: programPath, dir: dir, logger: logger}, nil
}

// Run executes git with args.
func (r *ExecRunner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.path, args...)
	cmd.Dir = r.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	r.logger.Debug("running git", zap.Strings("args", args), zap.String("dir", r.dir))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to start %s: %w", cmd.String(), err)
		}
		return "", &CmdError{
			Cmd:      cmd.String(),
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.Bytes(),
			Stderr:   stderr.Bytes(),
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
