// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ZSC714725/vcompress/internal/api"
	"github.com/ZSC714725/vcompress/internal/encode"
	"github.com/ZSC714725/vcompress/internal/ffmpeg"
	"github.com/ZSC714725/vcompress/internal/ffmpeg/skills"
	"github.com/ZSC714725/vcompress/internal/ffprobe"
	"github.com/ZSC714725/vcompress/internal/progress"
)

func newCompressCommand(ctx *commandContext) *cobra.Command {
	var crf int
	var preset string
	var codec string
	var listen string
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "compress <input> <output>",
		Short: "Re-encode a video at a target CRF quality",
		Long: `Re-encode a video with FFmpeg at a target CRF quality while showing
a live progress bar. Lower CRF values mean higher quality and larger
files; the practical range is roughly 18-28. Audio is copied verbatim.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			log := ctx.logger()

			input, output := args[0], args[1]

			if !cmd.Flags().Changed("crf") {
				crf = cfg.Defaults.CRF
			}
			if !cmd.Flags().Changed("preset") {
				preset = cfg.Defaults.Preset
			}
			if !cmd.Flags().Changed("codec") {
				codec = cfg.Defaults.VideoCodec
			}

			validator, err := ffmpeg.NewValidator(cfg.Output.Allow, cfg.Output.Block)
			if err != nil {
				return err
			}

			var newSink encode.SinkFactory
			if noProgress {
				newSink = func(float64, string) progress.Sink { return progress.Null() }
			}

			sup := encode.New(encode.Config{
				Binary:    cfg.FFmpeg.Path,
				Prober:    ffprobe.New(cfg.FFprobe.Path),
				Validator: validator,
				NewSink:   newSink,
				LogLines:  100,
				Logger:    log,
			})

			if listen != "" {
				go api.Serve(listen, sup, log)
			}

			// 预检：确认所选编码器已编译进 ffmpeg
			if binary, err := ffmpeg.Find(cfg.FFmpeg.Path); err == nil {
				if sk, err := skills.New(binary); err == nil && !sk.HasEncoder(codec) {
					log.Error("encoder %s not available in %s, the encode will likely fail", codec, binary)
				}
			}

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			job := encode.NewJob(input, output, crf, preset, codec)
			outcome, err := sup.Run(sigCtx, job)
			if err != nil {
				return err
			}

			switch outcome.State {
			case encode.StateSuccess:
				printSummary(cmd, input, output, outcome)
				return nil
			case encode.StateKilled:
				return fmt.Errorf("encode interrupted before completion")
			default:
				printLogTail(cmd, sup, 10)
				return fmt.Errorf("ffmpeg exited with code %d", outcome.ExitCode)
			}
		},
	}

	cmd.Flags().IntVar(&crf, "crf", 28, "Constant Rate Factor (lower = higher quality)")
	cmd.Flags().StringVar(&preset, "preset", "slow", "Encoding preset")
	cmd.Flags().StringVar(&codec, "codec", "libx264", "Video encoder")
	cmd.Flags().StringVar(&listen, "listen", "", "Serve a live status API on this address while encoding")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	return cmd
}

func printSummary(cmd *cobra.Command, input, output string, outcome encode.Outcome) {
	line := fmt.Sprintf("compressed %s -> %s in %s", input, output, outcome.Elapsed.Round(time.Millisecond))
	if in, err := os.Stat(input); err == nil {
		if out, err := os.Stat(output); err == nil && in.Size() > 0 {
			line += fmt.Sprintf(" (%.1f%% of original size)", float64(out.Size())/float64(in.Size())*100)
		}
	}
	if outcome.Usage.PeakRSS > 0 {
		line += fmt.Sprintf(", peak rss %d MiB", outcome.Usage.PeakRSS/(1024*1024))
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}

// printLogTail shows the last lines of the encoder log after a failure.
func printLogTail(cmd *cobra.Command, sup *encode.Supervisor, n int) {
	lines := sup.Log()
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	for _, l := range lines {
		fmt.Fprintln(cmd.ErrOrStderr(), l.Data)
	}
}
