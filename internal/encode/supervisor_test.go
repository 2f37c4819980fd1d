// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package encode

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSC714725/vcompress/internal/ffmpeg"
	"github.com/ZSC714725/vcompress/internal/progress"
)

// fakeFFmpeg writes a shell script standing in for the encoder binary.
func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a unix shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

type stubProber struct {
	seconds float64
	err     error
	calls   int
}

func (p *stubProber) Duration(path string) (float64, error) {
	p.calls++
	return p.seconds, p.err
}

type recordingSink struct {
	advances []float64
	total    float64
	finished bool
}

func (s *recordingSink) Advance(delta float64) {
	s.advances = append(s.advances, delta)
	s.total += delta
}

func (s *recordingSink) Finish() { s.finished = true }

// testSupervisor wires a supervisor with test doubles and returns the
// sink so progress can be asserted.
func testSupervisor(t *testing.T, binary string, prober DurationProber) (*Supervisor, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	sup := New(Config{
		Binary:  binary,
		Prober:  prober,
		Sampler: NewNullSampler(),
		NewSink: func(total float64, description string) progress.Sink { return sink },
	})
	return sup, sink
}

func existingInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mov")
	require.NoError(t, os.WriteFile(path, []byte("not really a video"), 0o644))
	return path
}

func TestRunInputNotFound(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "launched")
	bin := fakeFFmpeg(t, "echo launched > "+marker)
	prober := &stubProber{seconds: 10}
	sup, _ := testSupervisor(t, bin, prober)

	job := NewJob(filepath.Join(t.TempDir(), "missing.mov"), "out.mp4", 28, "", "")
	_, err := sup.Run(context.Background(), job)

	require.ErrorIs(t, err, ErrInputNotFound)
	assert.Zero(t, prober.calls, "probe must not run for a missing input")
	assert.NoFileExists(t, marker, "no subprocess may be spawned for a missing input")
}

func TestRunSuccessRoundTrip(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "time=00:00:05.00" 1>&2
echo "frame=120 time=00:00:10.00 bitrate=N/A" 1>&2
echo "time=00:00:10.00" 1>&2
exit 0`)
	sup, sink := testSupervisor(t, bin, &stubProber{seconds: 30})

	outcome, err := sup.Run(context.Background(), NewJob(existingInput(t), "out.mp4", 28, "", ""))

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
	assert.Zero(t, outcome.ExitCode)
	assert.Equal(t, 10.0, sink.total, "duplicate readings advance by zero")
	assert.True(t, sink.finished)
	assert.Equal(t, "success", sup.Status().State)
}

func TestRunProbeFailureIsNotFatal(t *testing.T) {
	bin := fakeFFmpeg(t, "exit 0")
	sup := New(Config{
		Binary:  bin,
		Prober:  &stubProber{err: os.ErrNotExist},
		Sampler: NewNullSampler(),
		NewSink: func(total float64, description string) progress.Sink {
			assert.Zero(t, total, "failed probe degrades to an unknown total")
			return progress.Null()
		},
	})

	outcome, err := sup.Run(context.Background(), NewJob(existingInput(t), "out.mp4", 28, "", ""))

	require.NoError(t, err)
	assert.Equal(t, StateSuccess, outcome.State)
}

func TestRunNonZeroExit(t *testing.T) {
	bin := fakeFFmpeg(t, `echo "out.mp4: Invalid argument" 1>&2
exit 1`)
	sup, _ := testSupervisor(t, bin, &stubProber{seconds: 10})

	outcome, err := sup.Run(context.Background(), NewJob(existingInput(t), "out.mp4", 28, "", ""))

	require.NoError(t, err)
	assert.Equal(t, StateFailed, outcome.State)
	assert.Equal(t, 1, outcome.ExitCode)

	// 失败日志保留下来供诊断
	log := sup.Log()
	require.NotEmpty(t, log)
	assert.Contains(t, log[len(log)-1].Data, "Invalid argument")
}

func TestRunToolNotFound(t *testing.T) {
	sup, _ := testSupervisor(t, filepath.Join(t.TempDir(), "no-such-ffmpeg"), &stubProber{seconds: 10})

	_, err := sup.Run(context.Background(), NewJob(existingInput(t), "out.mp4", 28, "", ""))

	require.ErrorIs(t, err, ErrToolNotFound)
}

func TestRunOutputNotAllowed(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "launched")
	bin := fakeFFmpeg(t, "echo launched > "+marker)
	validator, err := ffmpeg.NewValidator(nil, []string{`\.avi$`})
	require.NoError(t, err)

	sup := New(Config{
		Binary:    bin,
		Prober:    &stubProber{seconds: 10},
		Validator: validator,
		Sampler:   NewNullSampler(),
		NewSink:   func(total float64, description string) progress.Sink { return progress.Null() },
	})

	_, err = sup.Run(context.Background(), NewJob(existingInput(t), "out.avi", 28, "", ""))

	require.ErrorIs(t, err, ErrOutputNotAllowed)
	assert.NoFileExists(t, marker)
}

func TestRunCanceled(t *testing.T) {
	bin := fakeFFmpeg(t, `PATH=/bin:/usr/bin
exec sleep 5`)
	sup, _ := testSupervisor(t, bin, &stubProber{seconds: 10})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	outcome, err := sup.Run(ctx, NewJob(existingInput(t), "out.mp4", 28, "", ""))

	require.NoError(t, err)
	assert.Equal(t, StateKilled, outcome.State)
	assert.Less(t, time.Since(start), 3*time.Second, "cancellation must not wait for the encoder to finish")
}
