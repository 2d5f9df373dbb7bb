package entitlements

import (
	"fmt"
	"strings"

	"lectern/internal/config"
)

// Result is the outcome of checking one input against a plan allowance.
type Result struct {
	Allowed         bool
	Plan            string
	DurationSeconds float64
	DurationMinutes float64
	AllowedMinutes  int
	Message         string
}

// ResolvePlan returns the canonical plan name the allowance is read from.
// Empty and unknown names resolve to the default plan.
func ResolvePlan(cfg *config.Config, plan string) string {
	name := strings.ToLower(strings.TrimSpace(plan))
	if name == "" {
		return cfg.Plans.DefaultPlan
	}
	if _, ok := cfg.Plans.MaxDurationMinutes[name]; ok {
		return name
	}
	return cfg.Plans.DefaultPlan
}

// CheckDuration decides whether a probed input duration fits within the
// plan's allowance. A non-positive duration means probing failed and the
// input is rejected. Durations exactly at the limit pass.
func CheckDuration(cfg *config.Config, plan string, durationSeconds float64) Result {
	resolved := ResolvePlan(cfg, plan)
	allowed := cfg.PlanLimitMinutes(resolved)

	result := Result{
		Plan:            resolved,
		DurationSeconds: durationSeconds,
		AllowedMinutes:  allowed,
	}

	if durationSeconds <= 0 {
		result.Message = "Unable to determine media duration. Please ensure the file is valid."
		return result
	}

	result.DurationMinutes = durationSeconds / 60
	if result.DurationMinutes <= float64(allowed) {
		result.Allowed = true
		result.Message = fmt.Sprintf("Media approved. Duration: %.1f minutes (limit: %d minutes)",
			result.DurationMinutes, allowed)
		return result
	}

	result.Message = fmt.Sprintf(
		"Media duration (%.1f minutes) exceeds your plan limit of %d minutes. Please upgrade your plan or submit shorter media.",
		result.DurationMinutes, allowed)
	return result
}
