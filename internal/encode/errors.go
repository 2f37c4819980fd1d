// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package encode

import "errors"

var (
	ErrInputNotFound    = errors.New("input file not found")
	ErrToolNotFound     = errors.New("ffmpeg not found")
	ErrOutputNotAllowed = errors.New("output path not allowed")
)
