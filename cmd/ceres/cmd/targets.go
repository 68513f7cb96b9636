package cmd

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/psantana5/ceres-scripts/internal/delegate"
	"github.com/psantana5/ceres-scripts/internal/targets"
)

// targetStatus is one row of `ceres targets`.
type targetStatus struct {
	targets.Target `yaml:",inline"`
	Resolved       string `json:"resolved" yaml:"resolved"`
	Present        bool   `json:"present" yaml:"present"`
}

func (a *app) targetStatuses() []targetStatus {
	all := a.registry.All()
	out := make([]targetStatus, 0, len(all))
	for _, t := range all {
		d := delegate.New(a.root, t)
		out = append(out, targetStatus{
			Target:   t,
			Resolved: d.ResolveTarget(),
			Present:  d.Verify() == nil,
		})
	}
	return out
}

func newTargetsCmd(a *app) *cobra.Command {
	var output string

	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "List registered targets and whether they exist",
		Long:  `List the built-in targets and those declared in .ceres/targets.toml, with the path each resolves to in this workspace.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			statuses := a.targetStatuses()
			if output != outputTable {
				return writeStructured(cmd.OutOrStdout(), output, statuses)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Name", "Component", "Path", "Present", "Source")
			for _, s := range statuses {
				source := "manifest"
				if s.Builtin {
					source = "builtin"
				}
				table.Append(s.Name, s.Component, s.Resolved, boolToYesNo(s.Present), source)
			}
			return table.Render()
		},
	}

	targetsCmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return targetsCmd
}
