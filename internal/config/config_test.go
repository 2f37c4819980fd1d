// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "ffprobe", cfg.FFprobe.Path)
	assert.Equal(t, 28, cfg.Defaults.CRF)
	assert.Equal(t, "slow", cfg.Defaults.Preset)
	assert.Equal(t, "libx264", cfg.Defaults.VideoCodec)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadBackfillsEmptyFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ffmpeg:
  path: /opt/ffmpeg/bin/ffmpeg
defaults:
  crf: 20
output:
  block:
    - "^/etc/"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpeg.Path)
	assert.Equal(t, "ffprobe", cfg.FFprobe.Path)
	assert.Equal(t, 20, cfg.Defaults.CRF)
	assert.Equal(t, "slow", cfg.Defaults.Preset)
	assert.Equal(t, []string{"^/etc/"}, cfg.Output.Block)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ffmpeg: ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
