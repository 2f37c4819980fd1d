// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package encode launches FFmpeg as a child process and supervises it:
// it drains the diagnostic stream line by line, drives the progress
// pipeline and classifies the exit.

package encode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/ZSC714725/vcompress/internal/ffmpeg"
	"github.com/ZSC714725/vcompress/internal/ffmpeg/parse"
	"github.com/ZSC714725/vcompress/internal/logger"
	"github.com/ZSC714725/vcompress/internal/progress"
)

// killGrace is how long an interrupted encoder gets to shut down
// cleanly before it is killed.
const killGrace = 5 * time.Second

// State classifies a finished run.
type State string

const (
	StateSuccess State = "success"
	StateFailed  State = "failed"
	StateKilled  State = "killed"
)

// Outcome is the terminal result of one run.
type Outcome struct {
	State    State
	ExitCode int
	Elapsed  time.Duration
	Usage    Usage
}

// DurationProber probes media duration. Probe failures degrade the
// progress bar, they never abort the encode.
type DurationProber interface {
	Duration(path string) (float64, error)
}

// SinkFactory builds the progress sink for a run; total is 0 when the
// duration is unknown.
type SinkFactory func(total float64, description string) progress.Sink

// Config for a Supervisor
type Config struct {
	Binary    string // ffmpeg binary name or path
	Prober    DurationProber
	Validator ffmpeg.Validator // optional output path validation
	Sampler   Sampler
	NewSink   SinkFactory
	LogLines  int
	Logger    logger.Logger
}

// Status is a live view of the current run, for the status API.
type Status struct {
	JobID    string         `json:"job_id"`
	State    string         `json:"state"`
	Command  []string       `json:"command"`
	Duration float64        `json:"duration_seconds"`
	Runtime  float64        `json:"runtime_seconds"`
	Progress parse.Progress `json:"progress"`
	Usage    Usage          `json:"usage"`
	LastLine string         `json:"last_logline"`
}

// Supervisor runs one encode at a time.
type Supervisor struct {
	binary    string
	prober    DurationProber
	validator ffmpeg.Validator
	sampler   Sampler
	newSink   SinkFactory
	logger    logger.Logger
	parser    *parse.Parser

	mu       sync.RWMutex
	jobID    string
	state    string
	command  []string
	total    float64
	started  time.Time
	lastLine string
}

// New creates a Supervisor
func New(config Config) *Supervisor {
	s := &Supervisor{
		binary:    config.Binary,
		prober:    config.Prober,
		validator: config.Validator,
		sampler:   config.Sampler,
		newSink:   config.NewSink,
		logger:    config.Logger,
		parser:    parse.New(parse.Config{LogLines: config.LogLines}),
		state:     "idle",
	}
	if s.binary == "" {
		s.binary = "ffmpeg"
	}
	if s.sampler == nil {
		s.sampler = NewSysSampler()
	}
	if s.newSink == nil {
		s.newSink = func(total float64, description string) progress.Sink {
			return progress.NewBar(total, description)
		}
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	return s
}

// Log returns the retained stderr lines of the last run.
func (s *Supervisor) Log() []parse.Line {
	return s.parser.Log()
}

// Status returns a snapshot of the current run.
func (s *Supervisor) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{
		JobID:    s.jobID,
		State:    s.state,
		Command:  s.command,
		Duration: s.total,
		Progress: s.parser.Progress(),
		Usage:    s.sampler.Usage(),
		LastLine: s.lastLine,
	}
	if !s.started.IsZero() {
		st.Runtime = time.Since(s.started).Seconds()
	}
	return st
}

// Run executes one compression job and blocks until the encoder exits.
//
// A non-nil error means the run never produced a classifiable exit:
// missing input, missing ffmpeg binary, rejected output path, or an
// unexpected launch/stream failure. Otherwise the Outcome carries the
// exit classification. Cancelling ctx interrupts the encoder and yields
// StateKilled. A partial output file of a failed run is left in place;
// the -y flag overwrites it on retry.
func (s *Supervisor) Run(ctx context.Context, job Job) (Outcome, error) {
	if _, err := os.Stat(job.Input); err != nil {
		if os.IsNotExist(err) {
			return Outcome{}, fmt.Errorf("%w: %s", ErrInputNotFound, job.Input)
		}
		return Outcome{}, fmt.Errorf("stat input: %w", err)
	}

	if s.validator != nil && !s.validator.IsValid(job.Output) {
		return Outcome{}, fmt.Errorf("%w: %s", ErrOutputNotAllowed, job.Output)
	}

	// Duration is a progress-bar convenience. Without it the bar runs
	// in indeterminate mode.
	total := 0.0
	if s.prober != nil {
		d, err := s.prober.Duration(job.Input)
		if err != nil {
			s.logger.Error("job %s: could not probe duration, progress will be indeterminate: %v", job.ID, err)
		} else {
			total = d
		}
	}

	binary, err := ffmpeg.Find(s.binary)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}

	args := job.Args()
	s.logger.Info("job %s: %s %v", job.ID, binary, args)

	cmd := exec.Command(binary, args...)
	cmd.Env = []string{}

	// Only the diagnostic channel is captured; stdout stays untouched.
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return Outcome{}, fmt.Errorf("open stderr pipe: %w", err)
	}

	s.parser.Reset()

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return Outcome{}, fmt.Errorf("%w: %v", ErrToolNotFound, err)
		}
		return Outcome{}, fmt.Errorf("start ffmpeg: %w", err)
	}

	started := time.Now()
	s.setRunning(job.ID, append([]string{binary}, args...), total, started)

	if err := s.sampler.Start(cmd.Process.Pid); err != nil {
		s.logger.Debug("job %s: usage sampling unavailable: %v", job.ID, err)
	}
	defer s.sampler.Stop()

	// Interrupt on cancellation, hard kill if the encoder lingers.
	watchDone := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info("job %s: interrupt requested", job.ID)
			_ = cmd.Process.Signal(os.Interrupt)
			killTimer := time.AfterFunc(killGrace, func() {
				_ = cmd.Process.Kill()
			})
			<-watchDone
			killTimer.Stop()
		case <-watchDone:
		}
	}()

	tracker := progress.NewTracker(s.newSink(total, "compressing"), total)

	// Drain stderr in this goroutine, one line at a time, so readings
	// reach the tracker in emission order and the pipe never fills up
	// while the child is still writing.
	scanner := bufio.NewScanner(stderr)
	scanner.Split(scanDiagnosticLine)
	for scanner.Scan() {
		line := scanner.Text()
		s.setLastLine(line)
		if seconds, ok := s.parser.Parse(line); ok {
			tracker.Observe(seconds)
		}
	}
	readErr := scanner.Err()

	waitErr := cmd.Wait()
	close(watchDone)
	tracker.Finish()

	usage := s.sampler.Usage()
	elapsed := time.Since(started)

	if readErr != nil {
		// The child is reaped; the run still failed in an unexpected way.
		s.setState("failed")
		return Outcome{}, fmt.Errorf("read encoder output: %w", readErr)
	}

	outcome := Outcome{State: StateSuccess, Elapsed: elapsed, Usage: usage}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			s.setState("failed")
			return Outcome{}, fmt.Errorf("wait for ffmpeg: %w", waitErr)
		}
		outcome.ExitCode = exitErr.ExitCode()
		if outcome.ExitCode < 0 || ctx.Err() != nil {
			outcome.State = StateKilled
		} else {
			outcome.State = StateFailed
		}
	}

	s.setState(string(outcome.State))
	s.logger.Info("job %s: %s after %s (exit code %d)", job.ID, outcome.State, elapsed.Round(time.Millisecond), outcome.ExitCode)

	return outcome, nil
}

func (s *Supervisor) setRunning(jobID string, command []string, total float64, started time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobID = jobID
	s.state = "running"
	s.command = command
	s.total = total
	s.started = started
	s.lastLine = ""
}

func (s *Supervisor) setState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

func (s *Supervisor) setLastLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLine = line
}
