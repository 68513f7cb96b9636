package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/ceres-scripts/internal/config"
	"github.com/psantana5/ceres-scripts/internal/logging"
	"github.com/psantana5/ceres-scripts/internal/targets"
	"github.com/psantana5/ceres-scripts/internal/workspace"
)

// ExitError carries a process exit code whose diagnostic, if any, has
// already been printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// exitWith returns nil for 0 so cobra treats it as success.
func exitWith(code int) error {
	if code == 0 {
		return nil
	}
	return &ExitError{Code: code}
}

// app is the state shared by every subcommand once the root has loaded
// configuration and located the workspace.
type app struct {
	v       *viper.Viper
	cfgFile string

	cfg      config.Config
	root     string
	registry *targets.Registry
	log      zerolog.Logger
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the full ceres command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "ceres",
		Short: "Run and inspect CERES core scripts for this workspace",
		Long: `ceres hands off to the scripts of the workspace's CERES core installation
(.ceres/core/scripts) and reports on the workspace layout.

The workspace root is the parent of the directory holding this binary
(for <root>/scripts/ceres that is <root>), unless --root or CERES_ROOT says
otherwise.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		TraverseChildren:  true,
		PersistentPreRunE: a.setup,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.ceres/config.yaml)")
	flags.String("root", "", "workspace root (default: parent of this binary's directory)")
	flags.String("mode", "", "launch mode: spawn or exec")
	flags.String("interpreter", "", "interpreter for .py targets without their own (default python3, then python); other files run directly")
	flags.String("log-level", "", "log level: debug, info, warn, error, off")

	a.v.BindPFlag("root", flags.Lookup("root"))
	a.v.BindPFlag("mode", flags.Lookup("mode"))
	a.v.BindPFlag("interpreter", flags.Lookup("interpreter"))
	a.v.BindPFlag("log_level", flags.Lookup("log-level"))

	for _, t := range targets.Builtins() {
		rootCmd.AddCommand(newTargetCmd(a, t))
	}
	rootCmd.AddCommand(
		newRunCmd(a),
		newTargetsCmd(a),
		newWhichCmd(a),
		newDoctorCmd(a),
	)
	return rootCmd
}

// setup reads config and env, configures logging, and locates the workspace.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.log = logging.Configure(logging.Options{
		Level:     level,
		JSON:      cfg.LogJSON,
		Output:    cmd.ErrOrStderr(),
		Component: "ceres",
	})

	root, err := workspace.Locate(cfg.Root)
	if err != nil {
		return err
	}
	a.root = root

	registry, err := targets.Load(root)
	if err != nil {
		return err
	}
	a.registry = registry

	a.log.Debug().Str("root", root).Strs("targets", registry.Names()).Msg("workspace located")
	return nil
}
