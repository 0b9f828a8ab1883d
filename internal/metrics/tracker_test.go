package metrics

import (
	"testing"
	"time"

	"github.com/habla-dev/habla/pkg/logger"
)

func newTestTracker(t *testing.T, capacity int) *Tracker {
	t.Helper()
	tracker, err := NewTracker(capacity, logger.NewNop())
	if err != nil {
		t.Fatalf("NewTracker failed: %v", err)
	}
	return tracker
}

func TestHistoryEvictsOldest(t *testing.T) {
	tracker := newTestTracker(t, 3)

	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tracker.mu.Lock()
		tracker.record(Sample{
			Timestamp:  base.Add(time.Duration(i) * time.Second),
			CPUPercent: float64(i),
		})
		tracker.mu.Unlock()
	}

	history := tracker.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 retained samples, got %d", len(history))
	}
	for i, want := range []float64{2, 3, 4} {
		if history[i].CPUPercent != want {
			t.Errorf("history[%d].CPUPercent = %v, want %v", i, history[i].CPUPercent, want)
		}
	}
	if !history[0].Timestamp.Before(history[2].Timestamp) {
		t.Error("expected history ordered oldest-first")
	}
}

func TestPeaksTrackMaxima(t *testing.T) {
	tracker := newTestTracker(t, 4)

	for _, s := range []Sample{
		{CPUPercent: 10, MemoryMB: 100},
		{CPUPercent: 55, MemoryMB: 80},
		{CPUPercent: 20, MemoryMB: 250},
	} {
		tracker.mu.Lock()
		tracker.record(s)
		tracker.mu.Unlock()
	}

	cpu, mem := tracker.Peaks()
	if cpu != 55 {
		t.Errorf("peak CPU = %v, want 55", cpu)
	}
	if mem != 250 {
		t.Errorf("peak memory = %v, want 250", mem)
	}
}

func TestResetClearsHistoryAndPeaks(t *testing.T) {
	tracker := newTestTracker(t, 4)

	tracker.mu.Lock()
	tracker.record(Sample{CPUPercent: 90, MemoryMB: 500})
	tracker.mu.Unlock()

	tracker.Reset()

	if got := tracker.History(); len(got) != 0 {
		t.Errorf("expected empty history after reset, got %d samples", len(got))
	}
	cpu, mem := tracker.Peaks()
	if cpu != 0 || mem != 0 {
		t.Errorf("expected zero peaks after reset, got cpu=%v mem=%v", cpu, mem)
	}
}

func TestSampleRecordsMeasurement(t *testing.T) {
	tracker := newTestTracker(t, 4)

	snapshot, err := tracker.Sample()
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if snapshot.MemoryMB <= 0 {
		t.Errorf("expected positive process memory, got %v", snapshot.MemoryMB)
	}
	if len(snapshot.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(snapshot.History))
	}
	if snapshot.PeakMemoryMB < snapshot.MemoryMB {
		t.Errorf("peak memory %v below current %v", snapshot.PeakMemoryMB, snapshot.MemoryMB)
	}
}
