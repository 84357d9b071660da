// Package resource watches process-level resources during long
// headless runs. The monitor samples memory and goroutine counts on an
// interval, logs when limits are crossed, and feeds the readiness
// probes.
package resource

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arvheim/boxsim/pkg/logging"
)

// Monitor samples process resource usage on a fixed interval.
type Monitor struct {
	maxMemoryMB int64
	interval    time.Duration

	memoryUsageMB int64

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	running bool
	logger  *logging.Logger
}

// Stats is a point-in-time snapshot of resource usage.
type Stats struct {
	MemoryUsageMB int64 `json:"memory_usage_mb"`
	MaxMemoryMB   int64 `json:"max_memory_mb"`
	Goroutines    int   `json:"goroutines"`
}

// NewMonitor creates a monitor that flags memory usage above
// maxMemoryMB, sampling every interval.
func NewMonitor(maxMemoryMB int64, interval time.Duration) *Monitor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Monitor{
		maxMemoryMB: maxMemoryMB,
		interval:    interval,
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
		logger:      logging.NewLogger(),
	}
}

// Start begins the sampling loop.
func (m *Monitor) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("resource monitor already running")
	}
	m.running = true
	m.mu.Unlock()

	go m.loop()

	m.logger.Info(m.ctx, "resource monitor started",
		"max_memory_mb", m.maxMemoryMB,
		"interval", m.interval.String(),
	)
	return nil
}

// Sample takes one measurement immediately and returns an error when
// memory usage exceeds the configured limit.
func (m *Monitor) Sample() error {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	currentMB := int64(ms.Alloc / 1024 / 1024)
	atomic.StoreInt64(&m.memoryUsageMB, currentMB)

	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}

// MemoryUsageMB returns the memory usage from the latest sample.
func (m *Monitor) MemoryUsageMB() int64 {
	return atomic.LoadInt64(&m.memoryUsageMB)
}

// Stats returns the current resource snapshot.
func (m *Monitor) Stats() Stats {
	return Stats{
		MemoryUsageMB: m.MemoryUsageMB(),
		MaxMemoryMB:   m.maxMemoryMB,
		Goroutines:    runtime.NumGoroutine(),
	}
}

// Stop ends the sampling loop, waiting for it to finish or the context
// to expire.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = false
	m.mu.Unlock()

	m.cancel()

	select {
	case <-m.done:
		return nil
	case <-ctx.Done():
		m.logger.Warn(ctx, "resource monitor did not stop before deadline")
		return ctx.Err()
	}
}

func (m *Monitor) loop() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.Sample(); err != nil {
				m.logger.Error(m.ctx, "memory limit exceeded", err)
			}
			m.logger.Debug(m.ctx, "resource sample",
				"memory_mb", m.MemoryUsageMB(),
				"goroutines", runtime.NumGoroutine(),
			)
		case <-m.ctx.Done():
			return
		}
	}
}
