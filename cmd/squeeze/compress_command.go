package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"squeeze/internal/compress"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var sizing sizingFlags

	cmd := &cobra.Command{
		Use:   "compress <input> <output>",
		Short: "Compress a video into a new file near the target size",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := ctx.newToolchain(cmd)
			if err != nil {
				return err
			}
			target, audio, err := sizing.resolve(cmd, tools.cfg, false)
			if err != nil {
				return err
			}
			return runCompression(cmd, tools, compress.Request{
				Input:     args[0],
				Output:    args[1],
				Mode:      compress.ModeOutput,
				TargetMB:  target,
				AudioKbps: audio,
			})
		},
	}
	sizing.register(cmd, "100")
	return cmd
}

func newInPlaceCommand(ctx *commandContext) *cobra.Command {
	var sizing sizingFlags
	var keepTemp bool

	cmd := &cobra.Command{
		Use:   "inplace <input>",
		Short: "Compress a video and atomically replace the original",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tools, err := ctx.newToolchain(cmd)
			if err != nil {
				return err
			}
			target, audio, err := sizing.resolve(cmd, tools.cfg, true)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("keep-temp") {
				keepTemp = tools.cfg.InPlace.KeepTempOnFailure
			}
			return runCompression(cmd, tools, compress.Request{
				Input:     args[0],
				Mode:      compress.ModeInPlace,
				TargetMB:  target,
				AudioKbps: audio,
				KeepTemp:  keepTemp,
			})
		},
	}
	sizing.register(cmd, "99")
	cmd.Flags().BoolVar(&keepTemp, "keep-temp", false, "Keep the temporary encode when ffmpeg fails")
	return cmd
}

func runCompression(cmd *cobra.Command, tools *toolchain, req compress.Request) error {
	result, err := tools.service.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(result, shouldColorize(cmd.OutOrStdout())))
	return nil
}

func renderSummary(result compress.Result, colorize bool) string {
	message := fmt.Sprintf("%s -> %s, %s -> %s (video %d kbps, audio %d kbps)",
		filepath.Base(result.Input),
		filepath.Base(result.Output),
		humanize.IBytes(uint64(max(result.InputBytes, 0))),
		humanize.IBytes(uint64(max(result.OutputBytes, 0))),
		result.Budget.VideoKbps,
		result.Budget.AudioKbps,
	)
	kind := statusOK
	if result.OutputBytes > result.Budget.TargetBytes {
		kind = statusWarn
		message += fmt.Sprintf(", over target by %s", humanize.IBytes(uint64(result.OutputBytes-result.Budget.TargetBytes)))
	}
	return renderStatusLine("Compressed", kind, message, colorize)
}
