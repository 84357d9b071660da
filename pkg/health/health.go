// Package health provides liveness and readiness probes for headless
// boxsim runs. The HTTP endpoints let orchestrators watch a long-lived
// simulation the same way they would any other service.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health status of the process.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the health status of an individual component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// AddCheck registers a health check. A check with the same name
// replaces the existing one.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered checks and aggregates the result.
// The overall status is "healthy" only if every check passes.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: "healthy",
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = "unhealthy"
			status.Checks[name] = ComponentHealth{
				Status:  "unhealthy",
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: "healthy",
			}
		}
	}

	return status
}

// LivenessHandler returns 200 OK whenever the process can handle
// requests at all.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := map[string]string{"status": "alive"}
	json.NewEncoder(w).Encode(response)
}

// ReadinessHandler executes all health checks and returns 200 OK when
// every one passes, 503 otherwise.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := hc.CheckHealth(ctx)

	w.Header().Set("Content-Type", "application/json")

	if health.Status == "healthy" {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(health)
}

// SimulatorHealthCheck reports unhealthy while the simulation loop is
// not running.
type SimulatorHealthCheck struct {
	running func() bool
}

// NewSimulatorHealthCheck creates a health check over the simulator's
// run state.
func NewSimulatorHealthCheck(running func() bool) *SimulatorHealthCheck {
	return &SimulatorHealthCheck{
		running: running,
	}
}

// Name returns the name of this health check.
func (s *SimulatorHealthCheck) Name() string {
	return "simulator"
}

// Check verifies that the simulation loop is running.
func (s *SimulatorHealthCheck) Check(ctx context.Context) error {
	if !s.running() {
		return fmt.Errorf("simulation loop is not running")
	}
	return nil
}

// FrameAdvanceHealthCheck reports unhealthy when the frame counter
// stops moving between probes, which means the host clock stalled.
type FrameAdvanceHealthCheck struct {
	frameCount func() uint64

	mu       sync.Mutex
	lastSeen uint64
	probed   bool
}

// NewFrameAdvanceHealthCheck creates a health check over the frame
// counter.
func NewFrameAdvanceHealthCheck(frameCount func() uint64) *FrameAdvanceHealthCheck {
	return &FrameAdvanceHealthCheck{
		frameCount: frameCount,
	}
}

// Name returns the name of this health check.
func (f *FrameAdvanceHealthCheck) Name() string {
	return "frame_advance"
}

// Check verifies that at least one frame rendered since the previous
// probe. The first probe always passes to avoid flapping at startup.
func (f *FrameAdvanceHealthCheck) Check(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.frameCount()
	if f.probed && current == f.lastSeen {
		return fmt.Errorf("frame counter stalled at %d", current)
	}
	f.lastSeen = current
	f.probed = true
	return nil
}

// MemoryHealthCheck implements HealthCheck for memory usage monitoring.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within acceptable limits.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
