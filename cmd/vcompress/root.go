// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package main

import (
	"github.com/spf13/cobra"

	"github.com/ZSC714725/vcompress/internal/config"
	"github.com/ZSC714725/vcompress/internal/logger"
)

// commandContext carries the shared flags and the lazily loaded config.
type commandContext struct {
	configPath string
	ffmpegBin  string
	ffprobeBin string
	verbose    bool

	cfg *config.Config
}

// ensureConfig loads the config once and applies flag overrides.
func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}

	cfg := config.Default()
	if c.configPath != "" {
		var err error
		cfg, err = config.Load(c.configPath)
		if err != nil {
			return nil, err
		}
	}

	if c.ffmpegBin != "" {
		cfg.FFmpeg.Path = c.ffmpegBin
	}
	if c.ffprobeBin != "" {
		cfg.FFprobe.Path = c.ffprobeBin
	}

	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) logger() logger.Logger {
	return logger.New("vcompress: ", c.verbose)
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "vcompress",
		Short:         "Compress video files with FFmpeg",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&ctx.ffmpegBin, "ffmpeg", "", "FFmpeg binary path (overrides config)")
	rootCmd.PersistentFlags().StringVar(&ctx.ffprobeBin, "ffprobe", "", "FFprobe binary path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(newCompressCommand(ctx))
	rootCmd.AddCommand(newProbeCommand(ctx))
	rootCmd.AddCommand(newSampleCommand(ctx))
	rootCmd.AddCommand(newSkillsCommand(ctx))

	return rootCmd
}
