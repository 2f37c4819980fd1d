// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/vcompress/internal/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <input>",
		Short: "Print the duration of a media file in seconds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if _, err := os.Stat(args[0]); err != nil {
				return fmt.Errorf("input file not found: %s", args[0])
			}

			seconds, err := ffprobe.New(cfg.FFprobe.Path).Duration(args[0])
			if err != nil {
				return fmt.Errorf("could not read duration: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", seconds)
			return nil
		},
	}
}
