//go:build !unix

package wrapper

import "os"

var forwardedSignals = []os.Signal{os.Interrupt}

var terminalForeground = func() bool { return false }

func forwardable(sig os.Signal, fromTerminal bool) bool {
	return false
}

func exitStatus(state *os.ProcessState) (int, string) {
	return state.ExitCode(), ""
}

// Exec is unavailable; callers fall back to Run.
func Exec(c Command) error {
	return ErrExecUnsupported
}
