package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

// HealthCheck reports nil when a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type healthUsecase struct {
	checks map[string]HealthCheck
}

// NewHealthUsecase takes named dependency checks, e.g. "database" and "redis".
// A nil check is reported as "disabled".
func NewHealthUsecase(checks map[string]HealthCheck) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	result := map[string]string{"status": "ok"}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for name, check := range u.checks {
		switch {
		case check == nil:
			result[name] = "disabled"
		case check(ctx) != nil:
			result[name] = "unavailable"
			result["status"] = "degraded"
		default:
			result[name] = "ok"
		}
	}
	return result
}
