package delegate

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Process exit codes produced by the delegator itself. Every other code is
// the target's own.
const (
	ExitFailure       = 1
	ExitCannotExecute = 126
	ExitNotFound      = 127
)

// MissingTargetError means the target script is not where the workspace
// layout says it must be.
type MissingTargetError struct {
	Component string
	Path      string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("%s not found at %s", e.Component, e.Path)
}

// LaunchError means the target exists but could not be started.
type LaunchError struct {
	Path string
	Code int
	Err  error
}

func (e *LaunchError) Error() string {
	return e.Err.Error()
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// newLaunchError classifies a start failure the way a shell would:
// 127 for "not found", 126 for everything else.
func newLaunchError(path string, err error) *LaunchError {
	code := ExitCannotExecute
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		code = ExitNotFound
	}
	return &LaunchError{Path: path, Code: code, Err: err}
}

// ExitCode maps a delegation error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var launchErr *LaunchError
	if errors.As(err, &launchErr) {
		return launchErr.Code
	}
	return ExitFailure
}
