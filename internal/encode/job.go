// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package encode

import (
	"strconv"

	"github.com/lithammer/shortuuid/v4"
)

// Job describes one compression run.
type Job struct {
	ID         string
	Input      string
	Output     string
	CRF        int
	Preset     string
	VideoCodec string
}

// NewJob creates a Job with a fresh ID and defaults filled in. CRF is
// deliberately not range-checked here; ffmpeg rejects impossible values
// itself.
func NewJob(input, output string, crf int, preset, videoCodec string) Job {
	if preset == "" {
		preset = "slow"
	}
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	return Job{
		ID:         shortuuid.New(),
		Input:      input,
		Output:     output,
		CRF:        crf,
		Preset:     preset,
		VideoCodec: videoCodec,
	}
}

// Args builds the FFmpeg argument list: overwrite the output if it
// exists, re-encode video at the requested CRF, copy audio verbatim.
func (j Job) Args() []string {
	return []string{
		"-y",
		"-i", j.Input,
		"-c:v", j.VideoCodec,
		"-crf", strconv.Itoa(j.CRF),
		"-preset", j.Preset,
		"-c:a", "copy",
		j.Output,
	}
}
