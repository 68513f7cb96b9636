//go:build unix

package wrapper

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

var forwardedSignals = []os.Signal{
	syscall.SIGINT,
	syscall.SIGQUIT,
	syscall.SIGTERM,
	syscall.SIGHUP,
}

// terminalForeground reports whether the delegator is in the foreground
// process group of the terminal on stdin. Such a terminal has already sent
// its SIGINT and SIGQUIT to the whole group, target included.
var terminalForeground = func() bool {
	fg, err := unix.IoctlGetInt(int(os.Stdin.Fd()), unix.TIOCGPGRP)
	if err != nil {
		return false
	}
	return fg == unix.Getpgrp()
}

// forwardable skips SIGINT and SIGQUIT when the terminal delivered them to
// the target itself, so the target does not see them twice.
func forwardable(sig os.Signal, fromTerminal bool) bool {
	if !fromTerminal {
		return true
	}
	return sig != syscall.SIGINT && sig != syscall.SIGQUIT
}

// exitStatus maps a finished process to a shell-style exit code.
// Death by signal N becomes 128+N.
func exitStatus(state *os.ProcessState) (int, string) {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal()), ws.Signal().String()
	}
	return state.ExitCode(), ""
}

// Exec replaces the current process image with the target.
// It only returns on failure.
func Exec(c Command) error {
	if len(c.Args) == 0 {
		return fmt.Errorf("exec %s: empty argv", c.Path)
	}
	env := c.Env
	if env == nil {
		env = os.Environ()
	}
	if err := unix.Exec(c.Path, c.Args, env); err != nil {
		return fmt.Errorf("exec %s: %w", c.Path, err)
	}
	return nil
}
