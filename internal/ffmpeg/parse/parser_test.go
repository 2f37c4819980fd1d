// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTime(t *testing.T) {
	tests := []struct {
		line    string
		want    float64
		wantOK  bool
	}{
		{"time=00:01:30.50", 90.5, true},
		{"time=00:00:00.00", 0, true},
		{"time=01:00:00.00", 3600, true},
		{"time=99:59:59.99", 99*3600 + 59*60 + 59 + 0.99, true},
		{"frame=  120 fps= 30 q=28.0 size=    1024KiB time=00:00:10.00 bitrate= 838.9kbits/s speed=2.01x", 10, true},
		{"", 0, false},
		{"Press [q] to stop, [?] for help", 0, false},
		{"frame=  120 fps= 30", 0, false},
		{"time=0:01:30.50", 0, false},  // hours not zero-padded
		{"time=00:01:30", 0, false},    // no centiseconds
	}

	for _, tt := range tests {
		got, ok := ExtractTime(tt.line)
		assert.Equal(t, tt.wantOK, ok, "line %q", tt.line)
		assert.InDelta(t, tt.want, got, 1e-9, "line %q", tt.line)
	}
}

func TestParserStats(t *testing.T) {
	p := New(Config{LogLines: 10})

	seconds, ok := p.Parse("ffmpeg version 6.1.1 Copyright (c) 2000-2023 the FFmpeg developers")
	require.False(t, ok)
	require.Zero(t, seconds)

	seconds, ok = p.Parse("frame=  120 fps= 30 q=28.0 size=    1024KiB time=00:00:10.00 bitrate= 838.9kbits/s speed=2.01x")
	require.True(t, ok)
	require.Equal(t, 10.0, seconds)

	progress := p.Progress()
	assert.Equal(t, uint64(120), progress.Frame)
	assert.Equal(t, uint64(1024*1024), progress.Size)
	assert.Equal(t, 10.0, progress.Time)
	assert.Equal(t, 2.01, progress.Speed)
	assert.Equal(t, 28.0, progress.Quantizer)
}

func TestParserLogRing(t *testing.T) {
	p := New(Config{LogLines: 3})

	p.Parse("one")
	p.Parse("two")
	p.Parse("three")
	p.Parse("four")

	log := p.Log()
	require.Len(t, log, 3)
	assert.Equal(t, "two", log[0].Data)
	assert.Equal(t, "four", log[2].Data)
}

func TestParserReset(t *testing.T) {
	p := New(Config{LogLines: 10})
	p.Parse("time=00:00:05.00")
	p.Reset()

	assert.Zero(t, p.Progress().Time)
	assert.Empty(t, p.Log())
}
