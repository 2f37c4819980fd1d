// Copyright (c) 2026 Kevin Zang (kevinzang). All rights reserved.
// Use of this source code is governed by the MIT License.
//
// vcompress - FFmpeg 视频压缩命令行工具

package encode

import (
	"sync"

	gopsutilprocess "github.com/shirou/gopsutil/v3/process"
)

// Usage is a resource snapshot of the encoder process.
type Usage struct {
	CPU     float64 `json:"cpu_usage"`
	RSS     uint64  `json:"memory_bytes"`
	PeakRSS uint64  `json:"peak_memory_bytes"`
}

// Sampler observes resource usage of a running encoder process.
type Sampler interface {
	Start(pid int) error
	Stop()
	// Usage samples live when the process is attached, otherwise it
	// returns the last values seen before Stop.
	Usage() Usage
}

// NewNullSampler returns a no-op sampler
func NewNullSampler() Sampler {
	return &nullSampler{}
}

type nullSampler struct{}

func (s *nullSampler) Start(pid int) error { return nil }
func (s *nullSampler) Stop()               {}
func (s *nullSampler) Usage() Usage        { return Usage{} }

// sysSampler 使用 gopsutil 采集进程 CPU 和内存
type sysSampler struct {
	mu   sync.Mutex
	proc *gopsutilprocess.Process
	last Usage
}

// NewSysSampler creates a sampler backed by system calls.
func NewSysSampler() Sampler {
	return &sysSampler{}
}

func (s *sysSampler) Start(pid int) error {
	proc, err := gopsutilprocess.NewProcess(int32(pid))
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.proc = proc
	s.last = Usage{}
	s.mu.Unlock()
	return nil
}

func (s *sysSampler) Stop() {
	s.mu.Lock()
	s.proc = nil
	s.mu.Unlock()
}

func (s *sysSampler) Usage() Usage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.proc == nil {
		return s.last
	}
	if cpu, err := s.proc.CPUPercent(); err == nil {
		s.last.CPU = cpu
	}
	if mem, err := s.proc.MemoryInfo(); err == nil && mem != nil {
		s.last.RSS = mem.RSS
		if mem.RSS > s.last.PeakRSS {
			s.last.PeakRSS = mem.RSS
		}
	}
	return s.last
}
