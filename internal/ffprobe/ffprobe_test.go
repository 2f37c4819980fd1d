// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package ffprobe

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProbe writes a shell script standing in for ffprobe.
func fakeProbe(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestDuration(t *testing.T) {
	bin := fakeProbe(t, `echo "125.640000"`)

	seconds, err := New(bin).Duration("whatever.mp4")
	require.NoError(t, err)
	assert.Equal(t, 125.64, seconds)
}

func TestDurationNonZeroExit(t *testing.T) {
	bin := fakeProbe(t, "exit 1")

	_, err := New(bin).Duration("whatever.mp4")
	assert.Error(t, err)
}

func TestDurationGarbageOutput(t *testing.T) {
	bin := fakeProbe(t, `echo "N/A"`)

	_, err := New(bin).Duration("whatever.mp4")
	assert.Error(t, err)
}

func TestDurationBinaryMissing(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-ffprobe")).Duration("whatever.mp4")
	assert.Error(t, err)
}
