package observability

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Check is one named readiness probe
type Check struct {
	Name string
	// Required failures make the whole status unhealthy; others only degrade it
	Required bool
	Run      func(ctx context.Context) error
}

// DefaultMaxParallel bounds the number of probes running at once
const DefaultMaxParallel = 4

// HealthChecker runs readiness probes against the local toolchain
type HealthChecker struct {
	checks []Check

	// MaxParallel defaults to DefaultMaxParallel
	MaxParallel int
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(checks ...Check) *HealthChecker {
	return &HealthChecker{checks: checks}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status       string                      `json:"status"`
	Timestamp    time.Time                   `json:"timestamp"`
	Dependencies map[string]DependencyStatus `json:"dependencies,omitempty"`
}

// DependencyStatus represents the health of a single dependency
type DependencyStatus struct {
	Status    string        `json:"status"`
	Required  bool          `json:"required"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency_ms,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Check runs the probes concurrently, at most MaxParallel at a time
func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	deps := make([]DependencyStatus, len(h.checks))

	var eg errgroup.Group
	eg.SetLimit(h.parallel())
	for i, c := range h.checks {
		eg.Go(func() error {
			deps[i] = probe(ctx, c)
			return nil
		})
	}
	_ = eg.Wait()

	status := HealthStatus{
		Status:       StatusHealthy,
		Timestamp:    time.Now(),
		Dependencies: make(map[string]DependencyStatus, len(h.checks)),
	}
	for i, c := range h.checks {
		dep := deps[i]
		switch {
		case dep.Status == StatusUnhealthy:
			status.Status = StatusUnhealthy
		case dep.Status == StatusDegraded && status.Status != StatusUnhealthy:
			status.Status = StatusDegraded
		}
		status.Dependencies[c.Name] = dep
	}
	return status
}

func (h *HealthChecker) parallel() int {
	if h.MaxParallel > 0 {
		return h.MaxParallel
	}
	return DefaultMaxParallel
}

func probe(ctx context.Context, c Check) DependencyStatus {
	start := time.Now()
	dep := DependencyStatus{
		Status:    StatusHealthy,
		Required:  c.Required,
		Timestamp: start,
	}
	err := c.Run(ctx)
	dep.Latency = time.Since(start)

	if err != nil {
		dep.Message = err.Error()
		dep.Status = StatusDegraded
		if c.Required {
			dep.Status = StatusUnhealthy
		}
	}
	return dep
}

// Names returns the dependency names in sorted order
func (s HealthStatus) Names() []string {
	names := make([]string, 0, len(s.Dependencies))
	for name := range s.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
