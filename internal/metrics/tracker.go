// Package metrics samples the running process's resource usage and keeps a
// bounded in-memory history. State is held by an explicitly constructed
// Tracker passed to the HTTP layer; nothing survives a restart.
package metrics

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/habla-dev/habla/pkg/logger"
)

// DefaultHistorySize is the ring buffer capacity.
const DefaultHistorySize = 60

// Sample is one resource-usage measurement.
type Sample struct {
	Timestamp  time.Time `json:"timestamp"`
	CPUPercent float64   `json:"cpu_percent"`
	MemoryMB   float64   `json:"memory_mb"`
}

// Snapshot is the full stats payload returned to clients.
type Snapshot struct {
	CPUPercent     float64  `json:"cpu_percent"`
	MemoryMB       float64  `json:"memory_mb"`
	MemUsedMB      uint64   `json:"mem_used_mb"`
	MemTotalMB     uint64   `json:"mem_total_mb"`
	PeakCPUPercent float64  `json:"peak_cpu_percent"`
	PeakMemoryMB   float64  `json:"peak_memory_mb"`
	History        []Sample `json:"history"`
}

// Tracker holds the performance history ring buffer and running peaks.
type Tracker struct {
	mu       sync.Mutex
	proc     *process.Process
	history  []Sample
	head     int
	count    int
	capacity int
	peakCPU  float64
	peakMem  float64
	logger   *logger.Logger
}

// NewTracker creates a tracker for the current process.
func NewTracker(capacity int, log *logger.Logger) (*Tracker, error) {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open process handle: %w", err)
	}

	return &Tracker{
		proc:     proc,
		history:  make([]Sample, capacity),
		capacity: capacity,
		logger:   log.Named("metrics"),
	}, nil
}

// Sample measures current usage, records it in the history, updates peaks
// and returns the full snapshot.
func (t *Tracker) Sample() (*Snapshot, error) {
	cpuPercent, err := t.proc.CPUPercent()
	if err != nil {
		return nil, fmt.Errorf("failed to read process CPU usage: %w", err)
	}

	memInfo, err := t.proc.MemoryInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to read process memory usage: %w", err)
	}
	memoryMB := float64(memInfo.RSS) / (1024 * 1024)

	var memUsedMB, memTotalMB uint64
	if vm, err := mem.VirtualMemory(); err != nil {
		t.logger.Debug("Failed to read system memory stats", logger.Error(err))
	} else {
		memUsedMB = vm.Used / (1024 * 1024)
		memTotalMB = vm.Total / (1024 * 1024)
	}

	sample := Sample{
		Timestamp:  time.Now().UTC(),
		CPUPercent: cpuPercent,
		MemoryMB:   memoryMB,
	}

	t.mu.Lock()
	t.record(sample)
	snapshot := &Snapshot{
		CPUPercent:     cpuPercent,
		MemoryMB:       memoryMB,
		MemUsedMB:      memUsedMB,
		MemTotalMB:     memTotalMB,
		PeakCPUPercent: t.peakCPU,
		PeakMemoryMB:   t.peakMem,
		History:        t.historyLocked(),
	}
	t.mu.Unlock()

	return snapshot, nil
}

// record appends a sample, evicting the oldest once the buffer is full.
// Callers must hold the lock.
func (t *Tracker) record(s Sample) {
	t.history[(t.head+t.count)%t.capacity] = s
	if t.count < t.capacity {
		t.count++
	} else {
		t.head = (t.head + 1) % t.capacity
	}

	if s.CPUPercent > t.peakCPU {
		t.peakCPU = s.CPUPercent
	}
	if s.MemoryMB > t.peakMem {
		t.peakMem = s.MemoryMB
	}
}

// historyLocked returns the retained samples oldest-first. Callers must
// hold the lock.
func (t *Tracker) historyLocked() []Sample {
	out := make([]Sample, 0, t.count)
	for i := 0; i < t.count; i++ {
		out = append(out, t.history[(t.head+i)%t.capacity])
	}
	return out
}

// History returns the retained samples oldest-first.
func (t *Tracker) History() []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.historyLocked()
}

// Peaks returns the running peak CPU percentage and memory in MB.
func (t *Tracker) Peaks() (cpuPercent, memoryMB float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.peakCPU, t.peakMem
}

// Reset clears the history and peak values.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.head = 0
	t.count = 0
	t.peakCPU = 0
	t.peakMem = 0
	t.logger.Info("Performance history reset")
}
