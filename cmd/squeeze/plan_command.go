package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"squeeze/internal/bitrate"
	"squeeze/internal/compress"
	"squeeze/internal/logging"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var sizing sizingFlags
	var inPlace bool

	cmd := &cobra.Command{
		Use:   "plan <input> [output]",
		Short: "Show the bitrate budget and ffmpeg command without encoding",
		Long: "Probe the input, compute the bitrate budget and print the ffmpeg invocation " +
			"compress (or inplace with --in-place) would run. The output path is required " +
			"unless --in-place is set.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := ctx.newToolchain(cmd)
			if err != nil {
				return err
			}
			target, audio, err := sizing.resolve(cmd, tools.cfg, inPlace)
			if err != nil {
				return err
			}

			req := compress.Request{
				Input:     args[0],
				Mode:      compress.ModeOutput,
				TargetMB:  target,
				AudioKbps: audio,
			}
			switch {
			case inPlace:
				req.Mode = compress.ModeInPlace
			case len(args) < 2:
				return errors.New("output path required unless --in-place is set")
			default:
				req.Output = args[1]
			}

			budget, err := tools.service.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}

			rows := planRows(req, budget)
			if info, err := tools.prober.Inspect(cmd.Context(), req.Input); err != nil {
				tools.logger.Debug("media inspect unavailable", logging.Error(err))
			} else {
				rows = append(rows,
					[]string{"Source size", humanize.IBytes(uint64(max(info.SizeBytes(), 0)))},
					[]string{"Streams", fmt.Sprintf("%d video, %d audio", info.VideoStreamCount(), info.AudioStreamCount())},
				)
				if video, ok := info.PrimaryVideo(); ok {
					rows = append(rows, []string{"Video", fmt.Sprintf("%s %dx%d", video.CodecName, video.Width, video.Height)})
				}
				tools.logger.Debug("media inspected", slog.Int64("bit_rate", info.BitRate()))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

			colorize := shouldColorize(out)
			if budget.VideoKbps <= 0 {
				fmt.Fprintln(out, renderStatusLine("Budget", statusError, "audio alone fills the target; raise --target or lower --audio", colorize))
				return nil
			}

			job := compress.Job(req, budget)
			if req.Mode == compress.ModeInPlace {
				job.Output = "<temp file beside " + req.Input + ">"
			}
			fmt.Fprintln(out, renderStatusLine("Command", statusInfo, tools.encoder.Spec(job).String(), colorize))
			return nil
		},
	}
	sizing.register(cmd, "100, or 99 with --in-place")
	cmd.Flags().BoolVar(&inPlace, "in-place", false, "Plan an in-place replacement")
	return cmd
}

func planRows(req compress.Request, budget bitrate.Budget) [][]string {
	duration := time.Duration(budget.DurationSeconds * float64(time.Second)).Round(time.Millisecond)
	return [][]string{
		{"Input", req.Input},
		{"Mode", req.Mode.String()},
		{"Duration", fmt.Sprintf("%s (%.3fs)", duration, budget.DurationSeconds)},
		{"Target", fmt.Sprintf("%d MB (%s bytes)", req.TargetMB, humanize.Comma(budget.TargetBytes))},
		{"Audio bitrate", strconv.Itoa(budget.AudioKbps) + " kbps"},
		{"Audio bytes", humanize.Comma(int64(budget.AudioBytes))},
		{"Video bytes", humanize.Comma(int64(budget.VideoBytes))},
		{"Video bitrate", strconv.Itoa(budget.VideoKbps) + " kbps"},
	}
}
