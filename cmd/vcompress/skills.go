// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ZSC714725/vcompress/internal/ffmpeg"
	"github.com/ZSC714725/vcompress/internal/ffmpeg/skills"
)

func newSkillsCommand(ctx *commandContext) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "skills",
		Short: "Show the detected FFmpeg version and available encoders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			binary, err := ffmpeg.Find(cfg.FFmpeg.Path)
			if err != nil {
				return err
			}

			sk, err := skills.New(binary)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ffmpeg %s (%s)\n", sk.FFmpeg.Version, binary)

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Encoder", "Type", "Description"})
			for _, e := range sk.Encoders {
				if !all && e.Type != "video" {
					continue
				}
				t.AppendRow(table.Row{e.Id, e.Type, e.Name})
			}
			t.Render()

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List audio and subtitle encoders too")

	return cmd
}
