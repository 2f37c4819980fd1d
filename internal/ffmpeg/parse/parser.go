// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具
//
// Package parse extracts progress information from FFmpeg stderr.

package parse

import (
	"container/ring"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FFmpeg emits the time field as fixed two-digit groups
// (hours:minutes:seconds.centiseconds). A single run therefore tops out
// at 99:59:59.99; longer media would need a different token shape on
// the encoder's side.
var reTime = regexp.MustCompile(`time=(\d{2}):(\d{2}):(\d{2})\.(\d{2})`)

// ExtractTime scans one stderr line for a time=HH:MM:SS.CC token and
// converts it to elapsed seconds. Lines without the token report ok=false
// and are otherwise ignored.
func ExtractTime(line string) (seconds float64, ok bool) {
	m := reTime.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	s, _ := strconv.Atoi(m[3])
	cc, _ := strconv.Atoi(m[4])
	return float64(h*3600+mm*60+s) + float64(cc)/100, true
}

// Progress holds FFmpeg progress info parsed from stderr
type Progress struct {
	Frame     uint64  `json:"frame"`
	Size      uint64  `json:"size_bytes"`
	Time      float64 `json:"time_seconds"`
	Speed     float64 `json:"speed"`
	Quantizer float64 `json:"q"`
}

// Line is a timestamped log line
type Line struct {
	Timestamp time.Time
	Data      string
}

// Parser accumulates progress stats and keeps a bounded log of stderr lines.
type Parser struct {
	re struct {
		frame     *regexp.Regexp
		quantizer *regexp.Regexp
		size      *regexp.Regexp
		speed     *regexp.Regexp
	}

	log      *ring.Ring
	logLines int

	progress Progress
	lock     sync.RWMutex
}

// Config for the parser
type Config struct {
	LogLines int
}

// New creates a Parser
func New(config Config) *Parser {
	p := &Parser{
		logLines: config.LogLines,
	}
	if p.logLines <= 0 {
		p.logLines = 100
	}
	p.re.frame = regexp.MustCompile(`frame=\s*([0-9]+)`)
	p.re.quantizer = regexp.MustCompile(`q=\s*([0-9\.]+)`)
	p.re.size = regexp.MustCompile(`size=\s*([0-9]+)[kK]i?B`)
	p.re.speed = regexp.MustCompile(`speed=\s*([0-9\.]+)x`)

	p.log = ring.New(p.logLines)
	return p
}

// Parse consumes one stderr line. It returns the elapsed seconds carried
// by the line and whether a time token was found.
func (p *Parser) Parse(line string) (float64, bool) {
	now := time.Now()

	p.lock.Lock()
	defer p.lock.Unlock()

	// progress 行也计入日志，便于失败时排查
	p.log.Value = Line{Timestamp: now, Data: line}
	p.log = p.log.Next()

	isProgress := strings.Contains(line, "frame=") || strings.Contains(line, "time=")
	if !isProgress {
		return 0, false
	}

	if m := p.re.frame.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			p.progress.Frame = x
		}
	}
	if m := p.re.quantizer.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.progress.Quantizer = x
		}
	}
	if m := p.re.size.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseUint(m[1], 10, 64); err == nil {
			p.progress.Size = x * 1024
		}
	}
	if m := p.re.speed.FindStringSubmatch(line); m != nil {
		if x, err := strconv.ParseFloat(m[1], 64); err == nil {
			p.progress.Speed = x
		}
	}

	seconds, ok := ExtractTime(line)
	if ok {
		p.progress.Time = seconds
	}
	return seconds, ok
}

// Progress returns a copy of the accumulated stats.
func (p *Parser) Progress() Progress {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.progress
}

// Log returns the retained stderr lines, oldest first.
func (p *Parser) Log() []Line {
	var out []Line
	p.lock.RLock()
	p.log.Do(func(v interface{}) {
		if v != nil {
			out = append(out, v.(Line))
		}
	})
	p.lock.RUnlock()
	return out
}

// Reset clears stats and the retained log.
func (p *Parser) Reset() {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.progress = Progress{}
	p.log = ring.New(p.logLines)
}
