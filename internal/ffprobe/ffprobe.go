// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package ffprobe reads container metadata with the ffprobe binary.

package ffprobe

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Prober wraps a ffprobe binary.
type Prober struct {
	binary string
}

// New creates a Prober. The binary is resolved lazily so a missing
// ffprobe only surfaces when a probe is attempted.
func New(binary string) *Prober {
	if binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary}
}

// Duration returns the container duration of the file in seconds.
//
// It runs ffprobe requesting only the format.duration field, unwrapped
// and unlabeled, so stdout is a single float. Any failure (binary not
// found, nonzero exit, unparseable output) is returned as an error;
// callers treat it as "duration unknown", never as a fatal condition.
func (p *Prober) Duration(path string) (float64, error) {
	cmd := exec.Command(p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	cmd.Env = []string{}

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("probe %s: parse duration %q: %w", path, strings.TrimSpace(string(out)), err)
	}
	if seconds < 0 {
		return 0, fmt.Errorf("probe %s: negative duration %f", path, seconds)
	}

	return seconds, nil
}
