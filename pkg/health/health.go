package health

import (
	"time"
)

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{}
}

// RegisterCheck registers a health check. Registering a name twice replaces
// the earlier check in place.
func (hc *HealthChecker) RegisterCheck(name string, check CheckFunc) {
	hc.mu.Lock()
	defer hc.mu.Unlock()

	for i := range hc.checks {
		if hc.checks[i].name == name {
			hc.checks[i].fn = check
			return
		}
	}
	hc.checks = append(hc.checks, namedCheck{name: name, fn: check})
}

// Check performs all health checks. The worst status wins.
func (hc *HealthChecker) Check() Response {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make([]Check, 0, len(hc.checks)),
	}

	for _, nc := range hc.checks {
		start := time.Now()
		check := nc.fn()
		check.Name = nc.name
		check.Duration = time.Since(start)
		check.LastChecked = start

		response.Checks = append(response.Checks, check)

		if check.Status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if check.Status == StatusDegraded && response.Status != StatusUnhealthy {
			response.Status = StatusDegraded
		}
	}

	return response
}

// Healthy reports whether no check is unhealthy
func (r Response) Healthy() bool {
	return r.Status != StatusUnhealthy
}
