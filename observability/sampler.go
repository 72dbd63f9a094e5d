package observability

import (
	"os"
	goruntime "runtime"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ProcessSampler reads the resource usage of the current process.
type ProcessSampler struct {
	proc *process.Process
}

func NewProcessSampler() (*ProcessSampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &ProcessSampler{proc: p}, nil
}

func (s *ProcessSampler) Sample() (ProcessStats, error) {
	memInfo, err := s.proc.MemoryInfo()
	if err != nil {
		return ProcessStats{}, err
	}
	cpuPercent, err := s.proc.CPUPercent()
	if err != nil {
		return ProcessStats{}, err
	}
	return ProcessStats{
		PID:        s.proc.Pid,
		RSSBytes:   memInfo.RSS,
		CPUPercent: cpuPercent,
		Goroutines: goruntime.NumGoroutine(),
		SampledAt:  time.Now().UTC(),
	}, nil
}
