// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package progress

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// barSink renders a terminal progress bar. Internally it tracks seconds
// in centisecond ticks, matching the resolution of the encoder's
// time=HH:MM:SS.CC output.
type barSink struct {
	bar     *progressbar.ProgressBar
	elapsed float64
}

// NewBar creates a terminal Sink. total is the media duration in seconds;
// pass 0 for an indeterminate spinner. When stderr is not a terminal the
// bar would only smear control characters into logs, so Null() is
// returned instead.
func NewBar(total float64, description string) Sink {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return Null()
	}

	ticks := int64(-1) // spinner
	if total > 0 {
		ticks = int64(total * 100)
	}

	bar := progressbar.NewOptions64(ticks,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionClearOnFinish(),
	)

	return &barSink{bar: bar}
}

func (s *barSink) Advance(delta float64) {
	s.elapsed += delta
	// Set 而不是 Add，避免累积舍入误差
	_ = s.bar.Set64(int64(s.elapsed * 100))
}

func (s *barSink) Finish() {
	_ = s.bar.Finish()
}
