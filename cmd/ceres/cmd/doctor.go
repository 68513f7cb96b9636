package cmd

import (
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/psantana5/ceres-scripts/internal/delegate"
)

// DoctorReport describes the workspace as the delegators would see it.
type DoctorReport struct {
	Root    string         `json:"root" yaml:"root"`
	Mode    string         `json:"mode" yaml:"mode"`
	Targets []targetStatus `json:"targets" yaml:"targets"`
	Launch  []LaunchCheck  `json:"launch" yaml:"launch"`
	Host    HostInfo       `json:"host" yaml:"host"`
	Healthy bool           `json:"healthy" yaml:"healthy"`
}

// LaunchCheck records whether a target's command line can be built.
type LaunchCheck struct {
	Target     string `json:"target" yaml:"target"`
	Executable string `json:"executable,omitempty" yaml:"executable,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HostInfo is best effort; fields stay empty when the platform hides them.
type HostInfo struct {
	Hostname        string `json:"hostname" yaml:"hostname"`
	OS              string `json:"os" yaml:"os"`
	Platform        string `json:"platform" yaml:"platform"`
	PlatformVersion string `json:"platform_version" yaml:"platform_version"`
	KernelVersion   string `json:"kernel_version" yaml:"kernel_version"`
	Architecture    string `json:"architecture" yaml:"architecture"`
	MemoryTotal     uint64 `json:"memory_total_bytes" yaml:"memory_total_bytes"`
	MemoryAvailable uint64 `json:"memory_available_bytes" yaml:"memory_available_bytes"`
}

func (a *app) detectHost() HostInfo {
	info := HostInfo{OS: runtime.GOOS, Architecture: runtime.GOARCH}

	if h, err := host.Info(); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.PlatformVersion = h.PlatformVersion
		info.KernelVersion = h.KernelVersion
	} else {
		a.log.Debug().Err(err).Msg("host info unavailable")
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		info.MemoryTotal = vm.Total
		info.MemoryAvailable = vm.Available
	} else {
		a.log.Debug().Err(err).Msg("memory info unavailable")
	}
	return info
}

func (a *app) doctor() DoctorReport {
	rep := DoctorReport{
		Root:    a.root,
		Mode:    a.cfg.Mode,
		Targets: a.targetStatuses(),
		Host:    a.detectHost(),
		Healthy: true,
	}

	for _, s := range rep.Targets {
		if !s.Present {
			rep.Healthy = false
		}
		d := delegate.New(a.root, s.Target)
		d.Interpreter = a.cfg.Interpreter
		check := LaunchCheck{Target: s.Name}
		if c, err := d.Command(nil); err != nil {
			check.Error = err.Error()
			rep.Healthy = false
		} else {
			check.Executable = c.Path
		}
		rep.Launch = append(rep.Launch, check)
	}
	return rep
}

func newDoctorCmd(a *app) *cobra.Command {
	var output string

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the workspace layout and target launchers",
		Long: `Doctor checks that every registered target exists and that its launcher
(interpreter or the script itself) can be found, and prints basic host
details. It exits 1 when anything is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			rep := a.doctor()

			if output != outputTable {
				if err := writeStructured(cmd.OutOrStdout(), output, rep); err != nil {
					return err
				}
			} else if err := writeDoctorTables(cmd, rep); err != nil {
				return err
			}

			if !rep.Healthy {
				return exitWith(delegate.ExitFailure)
			}
			return nil
		},
	}

	doctorCmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table, json or yaml")
	return doctorCmd
}

func writeDoctorTables(cmd *cobra.Command, rep DoctorReport) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Workspace:")
	fmt.Fprintf(out, "  Root: %s\n", rep.Root)
	fmt.Fprintf(out, "  Mode: %s\n", rep.Mode)
	fmt.Fprintln(out)

	table := tablewriter.NewWriter(out)
	table.Header("Target", "Present", "Launcher", "Problem")
	for i, s := range rep.Targets {
		check := rep.Launch[i]
		table.Append(s.Name, boolToYesNo(s.Present), check.Executable, check.Error)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Host:")
	fmt.Fprintf(out, "  Hostname: %s\n", rep.Host.Hostname)
	fmt.Fprintf(out, "  OS: %s/%s (%s %s)\n", rep.Host.OS, rep.Host.Architecture, rep.Host.Platform, rep.Host.PlatformVersion)
	fmt.Fprintf(out, "  Kernel: %s\n", rep.Host.KernelVersion)
	fmt.Fprintf(out, "  Memory: %d MiB available of %d MiB\n", rep.Host.MemoryAvailable>>20, rep.Host.MemoryTotal>>20)
	fmt.Fprintln(out)

	if rep.Healthy {
		fmt.Fprintln(out, "Status: OK")
	} else {
		fmt.Fprintln(out, "Status: PROBLEMS FOUND")
	}
	return nil
}
