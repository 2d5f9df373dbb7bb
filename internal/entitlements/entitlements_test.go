package entitlements_test

import (
	"strings"
	"testing"

	"lectern/internal/config"
	"lectern/internal/entitlements"
)

func TestCheckDurationPerPlan(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		plan    string
		minutes float64
		allowed bool
	}{
		{plan: "free", minutes: 29.5, allowed: true},
		{plan: "free", minutes: 30, allowed: true},
		{plan: "free", minutes: 30.1, allowed: false},
		{plan: "student", minutes: 45, allowed: true},
		{plan: "student", minutes: 61, allowed: false},
		{plan: "researcher", minutes: 120, allowed: true},
		{plan: "expert", minutes: 299, allowed: true},
		{plan: "expert", minutes: 301, allowed: false},
	}

	for _, tc := range cases {
		result := entitlements.CheckDuration(&cfg, tc.plan, tc.minutes*60)
		if result.Allowed != tc.allowed {
			t.Errorf("plan %s at %.1f min: allowed = %v, want %v",
				tc.plan, tc.minutes, result.Allowed, tc.allowed)
		}
		if result.Plan != tc.plan {
			t.Errorf("plan %s resolved to %q", tc.plan, result.Plan)
		}
	}
}

func TestCheckDurationUnknownPlanFallsBack(t *testing.T) {
	cfg := config.Default()

	result := entitlements.CheckDuration(&cfg, "Platinum", 45*60)
	if result.Plan != "free" {
		t.Fatalf("resolved plan = %q, want free", result.Plan)
	}
	if result.AllowedMinutes != 30 {
		t.Fatalf("allowed minutes = %d, want 30", result.AllowedMinutes)
	}
	if result.Allowed {
		t.Fatal("45 minutes must not pass the free limit")
	}
}

func TestCheckDurationEmptyPlanUsesDefault(t *testing.T) {
	cfg := config.Default()

	result := entitlements.CheckDuration(&cfg, "", 10*60)
	if !result.Allowed {
		t.Fatalf("10 minutes should pass the default plan: %s", result.Message)
	}
	if result.Plan != "free" {
		t.Fatalf("resolved plan = %q, want free", result.Plan)
	}
}

func TestCheckDurationRejectsUnprobedInput(t *testing.T) {
	cfg := config.Default()

	result := entitlements.CheckDuration(&cfg, "free", 0)
	if result.Allowed {
		t.Fatal("unprobed duration must be rejected")
	}
	if !strings.Contains(result.Message, "Unable to determine media duration") {
		t.Fatalf("message = %q", result.Message)
	}
}

func TestCheckDurationMessages(t *testing.T) {
	cfg := config.Default()

	approved := entitlements.CheckDuration(&cfg, "student", 45*60)
	if approved.Message != "Media approved. Duration: 45.0 minutes (limit: 60 minutes)" {
		t.Fatalf("approved message = %q", approved.Message)
	}

	rejected := entitlements.CheckDuration(&cfg, "free", 90*60)
	if !strings.Contains(rejected.Message, "exceeds your plan limit of 30 minutes") {
		t.Fatalf("rejected message = %q", rejected.Message)
	}
	if !strings.Contains(rejected.Message, "upgrade your plan") {
		t.Fatalf("rejected message should suggest an upgrade: %q", rejected.Message)
	}
}

func TestResolvePlanNormalizesCase(t *testing.T) {
	cfg := config.Default()

	if got := entitlements.ResolvePlan(&cfg, "  Student "); got != "student" {
		t.Fatalf("ResolvePlan = %q, want student", got)
	}
}
