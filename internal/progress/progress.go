// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package progress converts elapsed-time readings from the encoder into
// incremental advances on a rendering sink.

package progress

// Sink renders completion. Implementations must tolerate an unknown total.
type Sink interface {
	// Advance moves the indicator forward by delta seconds.
	Advance(delta float64)
	// Finish completes the rendering and releases the terminal line.
	Finish()
}

// Null returns a Sink that discards everything.
func Null() Sink {
	return &nullSink{}
}

type nullSink struct{}

func (s *nullSink) Advance(delta float64) {}
func (s *nullSink) Finish()               {}

// Tracker feeds successive elapsed-seconds readings to a Sink as deltas.
//
// Readings must arrive in emission order. A reading below the previous
// accepted one is ignored outright: the sink is not advanced and the
// previous reading is kept, so accepted readings are monotonically
// non-decreasing and the sum of forwarded deltas always equals the last
// accepted reading.
type Tracker struct {
	sink  Sink
	total float64
	prev  float64
}

// NewTracker creates a Tracker. total is the media duration in seconds;
// pass 0 when unknown. A nil sink is replaced with Null().
func NewTracker(sink Sink, total float64) *Tracker {
	if sink == nil {
		sink = Null()
	}
	return &Tracker{sink: sink, total: total}
}

// Observe processes one elapsed-seconds reading.
func (t *Tracker) Observe(seconds float64) {
	delta := seconds - t.prev
	if delta < 0 {
		return
	}
	if t.total > 0 && seconds > t.total {
		// 编码器偶尔会报告略超出容器时长的时间戳
		delta = t.total - t.prev
		seconds = t.total
	}
	t.sink.Advance(delta)
	t.prev = seconds
}

// Elapsed returns the last accepted reading.
func (t *Tracker) Elapsed() float64 {
	return t.prev
}

// Finish completes the sink.
func (t *Tracker) Finish() {
	t.sink.Finish()
}
