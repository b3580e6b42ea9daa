package health

import (
	"context"
	"sync"
	"time"

	"github.com/tair/inventory-dashboard/pkg/logger"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// Dependency is a named component probed by the checker. Critical
// dependencies make the service unhealthy when they fail.
type Dependency struct {
	Name     string
	Critical bool
	Check    func(ctx context.Context) error
}

// DependencyHealth represents the health status of one dependency
type DependencyHealth struct {
	Name      string        `json:"name"`
	Status    string        `json:"status"`
	Latency   time.Duration `json:"-"`
	LatencyMs int64         `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// ServiceHealth represents the overall service health
type ServiceHealth struct {
	Service      string                      `json:"service"`
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyHealth `json:"dependencies"`
	Breaker      map[string]interface{}      `json:"circuit_breaker,omitempty"`
	Uptime       time.Duration               `json:"-"`
	UptimeSecs   float64                     `json:"uptime_seconds"`
}

// BreakerStats reports circuit breaker state
type BreakerStats interface {
	Stats() map[string]interface{}
}

// Checker checks the health of the dashboard's dependencies
type Checker struct {
	service      string
	dependencies []Dependency
	breaker      BreakerStats
	timeout      time.Duration
	startTime    time.Time
}

// NewChecker creates a new health checker. breaker may be nil.
func NewChecker(service string, breaker BreakerStats, dependencies ...Dependency) *Checker {
	return &Checker{
		service:      service,
		dependencies: dependencies,
		breaker:      breaker,
		timeout:      5 * time.Second,
		startTime:    time.Now(),
	}
}

// CheckDependency probes a single dependency
func (h *Checker) CheckDependency(ctx context.Context, dep Dependency) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	result := DependencyHealth{Name: dep.Name, Status: StatusHealthy, Timestamp: start}
	if err := dep.Check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.Latency = time.Since(start)
	result.LatencyMs = result.Latency.Milliseconds()
	return result
}

// Check probes every dependency concurrently
func (h *Checker) Check(ctx context.Context) ServiceHealth {
	results := make(map[string]DependencyHealth, len(h.dependencies))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, dep := range h.dependencies {
		wg.Add(1)
		go func(d Dependency) {
			defer wg.Done()
			result := h.CheckDependency(ctx, d)

			mu.Lock()
			results[d.Name] = result
			mu.Unlock()

			if result.Status == StatusHealthy {
				logger.Debug(ctx).
					Str("dependency", d.Name).
					Dur("latency", result.Latency).
					Msg("Dependency health check")
			} else {
				logger.Warn(ctx).
					Str("dependency", d.Name).
					Str("error", result.Error).
					Msg("Dependency health check failed")
			}
		}(dep)
	}
	wg.Wait()

	out := ServiceHealth{
		Service:      h.service,
		Status:       h.overallStatus(results),
		Dependencies: results,
		Uptime:       time.Since(h.startTime),
	}
	out.UptimeSecs = out.Uptime.Seconds()
	if h.breaker != nil {
		out.Breaker = h.breaker.Stats()
	}
	return out
}

// overallStatus is unhealthy when a critical dependency fails and degraded
// when only non-critical ones do
func (h *Checker) overallStatus(results map[string]DependencyHealth) string {
	status := StatusHealthy
	for _, dep := range h.dependencies {
		if results[dep.Name].Status == StatusHealthy {
			continue
		}
		if dep.Critical {
			return StatusUnhealthy
		}
		status = StatusDegraded
	}
	return status
}

// QuickCheck reports liveness without probing dependencies
func (h *Checker) QuickCheck() map[string]interface{} {
	return map[string]interface{}{
		"status":    StatusHealthy,
		"service":   h.service,
		"uptime":    time.Since(h.startTime).Seconds(),
		"timestamp": time.Now(),
	}
}
