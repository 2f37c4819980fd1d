// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package main

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/vcompress/internal/ffmpeg"
)

func newSampleCommand(ctx *commandContext) *cobra.Command {
	var duration int
	var size string
	var rate int

	cmd := &cobra.Command{
		Use:   "sample <output>",
		Short: "Generate a synthetic test clip with the lavfi testsrc source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			binary, err := ffmpeg.Find(cfg.FFmpeg.Path)
			if err != nil {
				return err
			}

			src := fmt.Sprintf("testsrc=duration=%d:size=%s:rate=%d", duration, size, rate)
			gen := exec.Command(binary,
				"-y",
				"-f", "lavfi",
				"-i", src,
				"-c:v", cfg.Defaults.VideoCodec,
				"-t", strconv.Itoa(duration),
				args[0],
			)
			gen.Env = []string{}

			if out, err := gen.CombinedOutput(); err != nil {
				return fmt.Errorf("generate sample: %w\n%s", err, out)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %ds sample to %s\n", duration, args[0])
			return nil
		},
	}

	cmd.Flags().IntVar(&duration, "duration", 10, "Clip duration in seconds")
	cmd.Flags().StringVar(&size, "size", "1280x720", "Frame size")
	cmd.Flags().IntVar(&rate, "rate", 30, "Frame rate")

	return cmd
}
