// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package ffmpeg locates and validates the FFmpeg toolchain.

package ffmpeg

import (
	"fmt"
	"os/exec"
)

// Find resolves the ffmpeg binary in PATH (or verifies an explicit path).
func Find(binary string) (string, error) {
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", fmt.Errorf("invalid ffmpeg binary: %w", err)
	}
	return path, nil
}
