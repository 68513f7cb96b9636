package report

// The target owns the outcome. The delegator only writes it down.
// Set once, never change.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result is immutable delegation truth: what ran, how, and how it ended.
type Result struct {
	// Identity
	InvocationID string `json:"invocation_id"`
	Target       string `json:"target"`
	Path         string `json:"path"`
	Mode         string `json:"mode"` // "spawn" or "exec"
	PID          int    `json:"pid"`

	// Timing
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationSeconds float64   `json:"duration_seconds"`

	// Outcome, relayed verbatim as the process exit status
	ExitCode int    `json:"exit_code"`
	Signal   string `json:"signal,omitempty"`
}

// NewResult creates an immutable result
func NewResult(target string, pid int, exitCode int, startTime, endTime time.Time, mode string) *Result {
	return &Result{
		InvocationID:    uuid.NewString(),
		Target:          target,
		PID:             pid,
		Mode:            mode,
		StartTime:       startTime,
		EndTime:         endTime,
		DurationSeconds: endTime.Sub(startTime).Seconds(),
		ExitCode:        exitCode,
	}
}

// Duration returns how long the target ran.
func (r *Result) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// SetSignal records the signal that terminated the target.
func (r *Result) SetSignal(sig string) {
	r.Signal = sig
}

// SetPath records the resolved target path.
func (r *Result) SetPath(path string) {
	r.Path = path
}

// Succeeded reports a zero exit status.
func (r *Result) Succeeded() bool {
	return r.ExitCode == 0
}

// Outcome is the metrics label for this result.
func (r *Result) Outcome() string {
	switch {
	case r.Signal != "":
		return OutcomeSignaled
	case r.Succeeded():
		return OutcomeSuccess
	default:
		return OutcomeFailure
	}
}

// LogSummary emits the one-line summary at info level.
func (r *Result) LogSummary(logger zerolog.Logger) {
	evt := logger.Info().
		Str("invocation_id", r.InvocationID).
		Str("target", r.Target).
		Str("mode", r.Mode).
		Int("pid", r.PID).
		Int("exit", r.ExitCode).
		Dur("runtime", r.Duration())
	if r.Signal != "" {
		evt = evt.Str("signal", r.Signal)
	}
	evt.Msg("delegation finished")
}

// WriteJSON writes the result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the result as JSON to path, creating parent directories.
func (r *Result) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
