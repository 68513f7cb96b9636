package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/ceres-scripts/internal/delegate"
	"github.com/psantana5/ceres-scripts/internal/report"
	"github.com/psantana5/ceres-scripts/internal/targets"
)

// runOptions are the per-invocation extras of `ceres run`.
type runOptions struct {
	reportFile      string
	metricsTextfile string
}

// newTargetCmd exposes one built-in target as `ceres <name> [args...]`.
// Flag parsing is off: every argument, --help included, belongs to the
// target.
func newTargetCmd(a *app, t targets.Target) *cobra.Command {
	return &cobra.Command{
		Use:                t.Name + " [args...]",
		Short:              fmt.Sprintf("Hand off to %s", t.Component),
		Long:               fmt.Sprintf("Hand off to %s at <root>/%s, forwarding every argument.", t.Component, t.Subpath),
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.delegate(cmd, t, args, runOptions{})
		},
	}
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	runCmd := &cobra.Command{
		Use:   "run [flags] <target> [args...]",
		Short: "Hand off to any registered target",
		Long: `Run resolves <target> from the built-in targets and the workspace manifest
(.ceres/targets.toml), then transfers control to it. Flags placed after
<target> are forwarded to it untouched.

Example:
  ceres run log_event --kind deploy --message "rolled out v2"
  ceres run --report /tmp/preflight.json preflight --strict
  ceres --mode exec run sync_notes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			return a.delegate(cmd, t, args[1:], opts)
		},
	}

	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringVar(&opts.reportFile, "report", "", "write the delegation result as JSON to this file (spawn mode)")
	runCmd.Flags().StringVar(&opts.metricsTextfile, "metrics-textfile", "", "write Prometheus textfile metrics for this run (overrides metrics_textfile)")
	return runCmd
}

// delegate runs t and turns its outcome into the command's exit status.
func (a *app) delegate(cmd *cobra.Command, t targets.Target, args []string, opts runOptions) error {
	mode, err := delegate.ParseMode(a.cfg.Mode)
	if err != nil {
		return err
	}

	metricsFile := a.cfg.MetricsTextfile
	if opts.metricsTextfile != "" {
		metricsFile = opts.metricsTextfile
	}

	d := delegate.New(a.root, t)
	d.Mode = mode
	d.Interpreter = a.cfg.Interpreter
	d.Stdin = cmd.InOrStdin()
	d.Stdout = cmd.OutOrStdout()
	d.Stderr = cmd.ErrOrStderr()
	d.Logger = a.log
	d.ReportFile = opts.reportFile
	if metricsFile != "" {
		d.Metrics = report.NewMetrics()
	}
	if mode == delegate.ModeExec && (opts.reportFile != "" || metricsFile != "") {
		a.log.Warn().Msg("exec mode replaces this process; no report or metrics will be written")
	}

	code := d.Run(cmd.Context(), args)

	if d.Metrics != nil {
		if err := d.Metrics.WriteTextfile(metricsFile); err != nil {
			a.log.Warn().Err(err).Str("file", metricsFile).Msg("failed to write metrics")
		}
	}
	return exitWith(code)
}
