package wrapper

// The target owns the process outcome.
// If we are unsure, DO LESS.
// No retries. No fallbacks. No translation of the target's exit status.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"time"

	"github.com/psantana5/ceres-scripts/internal/report"
)

// Command is a fully resolved launch.
type Command struct {
	// Name labels the result (the target name).
	Name string
	// Path is the executable to start.
	Path string
	// Args is the full argv, Args[0] included.
	Args []string
	// Env is the environment; nil inherits the current one.
	Env []string
}

// Stdio are the streams handed to a spawned target.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSStdio passes the delegator's own file descriptors through.
func OSStdio() Stdio {
	return Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// ErrExecUnsupported is returned by Exec where the platform cannot replace
// the running process image.
var ErrExecUnsupported = errors.New("exec launch is not supported on this platform")

// Run spawns the target, waits for it, and relays its exit status.
// A non-nil error means the target never started.
func Run(ctx context.Context, c Command, stdio Stdio) (*report.Result, error) {
	if len(c.Args) == 0 {
		return nil, fmt.Errorf("start %s: empty argv", c.Path)
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args[1:]...)
	cmd.Args = c.Args
	cmd.Env = c.Env
	cmd.Stdin = stdio.Stdin
	cmd.Stdout = stdio.Stdout
	cmd.Stderr = stdio.Stderr

	// Catch forwarded signals before the child exists so none are lost.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals...)
	defer signal.Stop(sigs)
	fromTerminal := terminalForeground()

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", c.Path, err)
	}

	done := make(chan struct{})
	defer close(done)
	go forwardSignals(cmd.Process, sigs, fromTerminal, done)

	waitErr := cmd.Wait()
	endTime := time.Now()

	if cmd.ProcessState == nil {
		return nil, fmt.Errorf("wait %s: %w", c.Path, waitErr)
	}

	code, sig := exitStatus(cmd.ProcessState)
	result := report.NewResult(c.Name, cmd.Process.Pid, code, startTime, endTime, "spawn")
	if sig != "" {
		result.SetSignal(sig)
	}
	return result, nil
}

// forwardSignals relays signals aimed at the delegator to the target.
func forwardSignals(p *os.Process, sigs <-chan os.Signal, fromTerminal bool, done <-chan struct{}) {
	for {
		select {
		case sig := <-sigs:
			if !forwardable(sig, fromTerminal) {
				continue
			}
			// Best effort: the target may already be gone.
			_ = p.Signal(sig)
		case <-done:
			return
		}
	}
}
