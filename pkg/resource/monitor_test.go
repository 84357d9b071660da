package resource

import (
	"context"
	"runtime"
	"testing"
	"time"
)

func TestMonitor_Sample_WithinLimit(t *testing.T) {
	m := NewMonitor(1<<20, time.Second)

	if err := m.Sample(); err != nil {
		t.Errorf("Sample() under a huge limit failed: %v", err)
	}
	if m.MemoryUsageMB() < 0 {
		t.Errorf("memory usage = %d, want >= 0", m.MemoryUsageMB())
	}
}

func TestMonitor_Sample_OverLimit(t *testing.T) {
	m := NewMonitor(0, time.Second)

	// A zero limit trips as soon as the process holds a megabyte of
	// live heap. Allocate enough to make sure.
	waste := make([]byte, 8<<20)
	waste[len(waste)-1] = 1

	err := m.Sample()
	runtime.KeepAlive(waste)
	if err == nil {
		t.Error("Sample() over the limit must return an error")
	}
}

func TestMonitor_StartTwiceFails(t *testing.T) {
	m := NewMonitor(512, 10*time.Millisecond)

	if err := m.Start(); err != nil {
		t.Fatalf("first Start() failed: %v", err)
	}
	defer m.Stop(context.Background())

	if err := m.Start(); err == nil {
		t.Error("second Start() must fail")
	}
}

func TestMonitor_StopWaitsForLoop(t *testing.T) {
	m := NewMonitor(512, 10*time.Millisecond)
	if err := m.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.Stop(ctx); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}

	// Stopping again is a no-op.
	if err := m.Stop(ctx); err != nil {
		t.Errorf("second Stop() failed: %v", err)
	}
}

func TestMonitor_Stats(t *testing.T) {
	m := NewMonitor(512, time.Second)
	m.Sample()

	stats := m.Stats()
	if stats.MaxMemoryMB != 512 {
		t.Errorf("MaxMemoryMB = %d, want 512", stats.MaxMemoryMB)
	}
	if stats.Goroutines < 1 {
		t.Errorf("Goroutines = %d, want >= 1", stats.Goroutines)
	}
}
