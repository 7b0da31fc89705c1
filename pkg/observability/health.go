package observability

import (
	"context"
	"sort"
	"sync"
	"time"
)

// HealthStatus is the state of one component or of the whole process.
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// severity orders statuses so the worst one wins.
func (s HealthStatus) severity() int {
	switch s {
	case HealthStatusUnhealthy:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}

// HealthCheckResult is the outcome of one check.
type HealthCheckResult struct {
	Status    HealthStatus  `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker checks one component.
type HealthChecker func(ctx context.Context) HealthCheckResult

// HealthRegistry runs the registered checks. The database is registered as
// critical; broker, cache and delivery failures only degrade the process
// because checkins keep working without them.
type HealthRegistry struct {
	mu       sync.RWMutex
	checkers map[string]HealthChecker
	results  map[string]HealthCheckResult
}

func NewHealthRegistry() *HealthRegistry {
	return &HealthRegistry{
		checkers: make(map[string]HealthChecker),
		results:  make(map[string]HealthCheckResult),
	}
}

// Register adds or replaces the checker for name.
func (r *HealthRegistry) Register(name string, checker HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[name] = checker
}

// Names lists the registered components in order.
func (r *HealthRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checkers))
	for name := range r.checkers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check runs every checker concurrently and caches the results.
func (r *HealthRegistry) Check(ctx context.Context) map[string]HealthCheckResult {
	r.mu.RLock()
	checkers := make(map[string]HealthChecker, len(r.checkers))
	for name, checker := range r.checkers {
		checkers[name] = checker
	}
	r.mu.RUnlock()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]HealthCheckResult, len(checkers))
	)
	for name, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			result := checker(ctx)
			result.Duration = time.Since(start)
			result.Timestamp = time.Now().UTC()
			mu.Lock()
			results[name] = result
			mu.Unlock()
		}()
	}
	wg.Wait()

	r.mu.Lock()
	r.results = results
	r.mu.Unlock()
	return results
}

// OverallStatus is the worst status of the last Check.
func (r *HealthRegistry) OverallStatus() HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return worst(r.results)
}

func worst(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, result := range results {
		if result.Status.severity() > status.severity() {
			status = result.Status
		}
	}
	return status
}

// OverallHealth is the /readyz payload.
type OverallHealth struct {
	Status    HealthStatus                 `json:"status"`
	Timestamp time.Time                    `json:"timestamp"`
	Checks    map[string]HealthCheckResult `json:"checks"`
}

// GetOverallHealth runs all checks.
func (r *HealthRegistry) GetOverallHealth(ctx context.Context) OverallHealth {
	checks := r.Check(ctx)
	return OverallHealth{
		Status:    worst(checks),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}

// PingChecker reports failed as the status when ping returns an error.
func PingChecker(component string, failed HealthStatus, ping func(ctx context.Context) error) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		if err := ping(ctx); err != nil {
			return HealthCheckResult{Status: failed, Message: component + " unreachable: " + err.Error()}
		}
		return HealthCheckResult{Status: HealthStatusHealthy, Message: component + " reachable"}
	}
}

// DatabaseHealthChecker marks the process unhealthy when the store is down.
func DatabaseHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return PingChecker("database", HealthStatusUnhealthy, ping)
}

// RedisHealthChecker degrades the process when the sent-set cache is down.
func RedisHealthChecker(ping func(ctx context.Context) error) HealthChecker {
	return PingChecker("redis", HealthStatusDegraded, ping)
}

// RabbitMQHealthChecker degrades the process when the broker is down.
func RabbitMQHealthChecker(check func(ctx context.Context) error) HealthChecker {
	return PingChecker("rabbitmq", HealthStatusDegraded, check)
}

// BreakerHealthChecker degrades the process while the reminder circuit is
// not closed.
func BreakerHealthChecker(state func() string) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		s := state()
		if s == "closed" {
			return HealthCheckResult{Status: HealthStatusHealthy, Message: "reminder delivery circuit closed"}
		}
		return HealthCheckResult{Status: HealthStatusDegraded, Message: "reminder delivery circuit " + s}
	}
}

// SweepHealthChecker degrades the process when a running scheduler has not
// finished a correction sweep within maxAge.
func SweepHealthChecker(lastSweep func() (running bool, at *time.Time), maxAge time.Duration) HealthChecker {
	return func(ctx context.Context) HealthCheckResult {
		running, at := lastSweep()
		switch {
		case !running:
			return HealthCheckResult{Status: HealthStatusHealthy, Message: "scheduler not running in this process"}
		case at == nil:
			return HealthCheckResult{Status: HealthStatusHealthy, Message: "waiting for first sweep"}
		case time.Since(*at) > maxAge:
			return HealthCheckResult{Status: HealthStatusDegraded, Message: "last sweep at " + at.UTC().Format(time.RFC3339)}
		default:
			return HealthCheckResult{Status: HealthStatusHealthy, Message: "last sweep at " + at.UTC().Format(time.RFC3339)}
		}
	}
}
