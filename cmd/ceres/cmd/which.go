package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/psantana5/ceres-scripts/internal/delegate"
)

func newWhichCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "which <target>",
		Short: "Print the path a target resolves to",
		Long:  `Print the path <target> resolves to in this workspace. Exits 1 with the same diagnostic as the delegator when the script is missing.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.registry.Lookup(args[0])
			if err != nil {
				return err
			}
			d := delegate.New(a.root, t)
			if err := d.Verify(); err != nil {
				var missing *delegate.MissingTargetError
				if !errors.As(err, &missing) {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return exitWith(delegate.ExitCode(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.ResolveTarget())
			return nil
		},
	}
}
