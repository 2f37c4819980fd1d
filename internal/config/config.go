// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	FFprobe  FFprobeConfig  `yaml:"ffprobe"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Output   OutputConfig   `yaml:"output"`
}

// FFmpegConfig FFmpeg 配置
type FFmpegConfig struct {
	Path string `yaml:"path"`
}

// FFprobeConfig FFprobe 配置
type FFprobeConfig struct {
	Path string `yaml:"path"`
}

// DefaultsConfig holds the encoding defaults applied when no flag overrides them.
type DefaultsConfig struct {
	CRF        int    `yaml:"crf"`
	Preset     string `yaml:"preset"`
	VideoCodec string `yaml:"video_codec"`
}

// OutputConfig restricts where compressed files may be written.
// Empty lists allow everything.
type OutputConfig struct {
	Allow []string `yaml:"allow"`
	Block []string `yaml:"block"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		FFmpeg:  FFmpegConfig{Path: "ffmpeg"},
		FFprobe: FFprobeConfig{Path: "ffprobe"},
		Defaults: DefaultsConfig{
			CRF:        28,
			Preset:     "slow",
			VideoCodec: "libx264",
		},
	}
}

// Load 从 YAML 文件加载配置
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// 填充空值
	if cfg.FFmpeg.Path == "" {
		cfg.FFmpeg.Path = "ffmpeg"
	}
	if cfg.FFprobe.Path == "" {
		cfg.FFprobe.Path = "ffprobe"
	}
	if cfg.Defaults.CRF == 0 {
		cfg.Defaults.CRF = 28
	}
	if cfg.Defaults.Preset == "" {
		cfg.Defaults.Preset = "slow"
	}
	if cfg.Defaults.VideoCodec == "" {
		cfg.Defaults.VideoCodec = "libx264"
	}

	return cfg, nil
}
