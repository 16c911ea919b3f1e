package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"squeeze/internal/command"
	"squeeze/internal/deps"
	"squeeze/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that ffprobe and ffmpeg are installed and the working directory is usable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.DetectVersions(cmd.Context(), command.OS{}, preflight.CheckSystemDeps(cfg))
			rows := make([][]string, 0, len(statuses)+2)
			for _, status := range statuses {
				detail := status.Path
				if status.Version != "" {
					detail = strings.TrimSpace(detail + " " + status.Version)
				}
				if !status.Available || status.Detail != "" {
					detail = strings.TrimSpace(detail + " " + status.Detail)
				}
				rows = append(rows, []string{status.Name, checkLabel(status.Available), detail})
			}

			if wd, err := os.Getwd(); err == nil {
				for _, check := range []preflight.Result{
					preflight.CheckDirectoryAccess("Working directory", wd),
					preflight.CheckFreeSpace("Free space", wd, 0),
				} {
					rows = append(rows, []string{check.Name, checkLabel(check.Passed), check.Detail})
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			missing := deps.Missing(statuses)
			if len(missing) == 0 {
				fmt.Fprintln(out, renderStatusLine("Dependencies", statusOK, "all required tools found", shouldColorize(out)))
				return nil
			}
			names := make([]string, 0, len(missing))
			for _, status := range missing {
				names = append(names, status.Command)
			}
			return fmt.Errorf("missing dependencies: %s", strings.Join(names, ", "))
		},
	}
}

func checkLabel(passed bool) string {
	if passed {
		return "OK"
	}
	return "FAIL"
}
