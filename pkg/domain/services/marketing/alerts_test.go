package marketing

import (
	"fmt"
	"testing"
	"time"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

func fixedChecker(target Target) *AlertChecker {
	fixed := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	counter := 0
	return NewAlertChecker(target,
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string {
			counter++
			return fmt.Sprintf("alert-%d", counter)
		}),
	)
}

func TestDetermineAlertSeverity(t *testing.T) {
	config := DefaultTarget()

	tests := []struct {
		name          string
		current       float64
		target        float64
		expectedAlert bool
		expected      entities.Severity
	}{
		{"under_target", 40, 50, false, entities.SeverityInfo},
		{"at_target", 50, 50, false, entities.SeverityInfo},
		{"zero_target", 80, 0, false, entities.SeverityInfo},
		{"slightly_over_is_info", 55, 50, true, entities.SeverityInfo},
		{"warning_boundary", 57.5, 50, true, entities.SeverityWarning},
		{"warning", 60, 50, true, entities.SeverityWarning},
		{"critical_boundary", 65, 50, true, entities.SeverityCritical},
		{"critical", 100, 50, true, entities.SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity, ok := DetermineAlertSeverity(tt.current, tt.target, config)
			if ok != tt.expectedAlert {
				t.Fatalf("Expected alert=%v, got %v", tt.expectedAlert, ok)
			}
			if ok && severity != tt.expected {
				t.Errorf("Expected severity %s, got %s", tt.expected, severity)
			}
		})
	}
}

func TestAlertChecker_ChannelOverride(t *testing.T) {
	target := DefaultTarget()
	target.GlobalTarget = 100
	target.ChannelTargets["email"] = 50
	checker := fixedChecker(target)

	alert := checker.Check(CACResult{ChannelID: "email", PeriodID: "2025-02", CAC: 80})
	if alert == nil {
		t.Fatal("Expected an alert for email CAC 80 against target 50")
	}
	if alert.Severity != entities.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", alert.Severity)
	}
	if alert.TargetCAC != 50 {
		t.Errorf("Expected channel target 50, got %v", alert.TargetCAC)
	}
	if alert.PercentOverTarget != 60 {
		t.Errorf("Expected 60%% over target, got %v", alert.PercentOverTarget)
	}
	if alert.ID != "alert-1" {
		t.Errorf("Expected injected id, got %s", alert.ID)
	}
	if !alert.CreatedAt.Equal(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected injected timestamp, got %v", alert.CreatedAt)
	}
	if alert.Message == "" {
		t.Error("Expected a message")
	}

	// Same CAC on a channel using the global target is fine
	if alert := checker.Check(CACResult{ChannelID: "meta", PeriodID: "2025-02", CAC: 80}); alert != nil {
		t.Errorf("Expected no alert against global target 100, got %+v", alert)
	}
}

func TestAlertChecker_ZeroCACNeverAlerts(t *testing.T) {
	target := DefaultTarget()
	target.GlobalTarget = 0.01

	if alert := CheckCACTarget(CACResult{ChannelID: "email", CAC: 0}, target); alert != nil {
		t.Errorf("Expected zero CAC to be skipped, got %+v", alert)
	}
}

func TestAlertChecker_DefaultIDAndClock(t *testing.T) {
	before := time.Now()
	alert := CheckCACTarget(CACResult{ChannelID: "meta", CAC: 90}, DefaultTarget())
	if alert == nil {
		t.Fatal("Expected alert")
	}
	if len(alert.ID) != 36 {
		t.Errorf("Expected a UUID id, got %q", alert.ID)
	}
	if alert.CreatedAt.Before(before) {
		t.Errorf("Expected timestamp after %v, got %v", before, alert.CreatedAt)
	}
}

func TestAlertChecker_CheckAllSortsBySeverity(t *testing.T) {
	checker := fixedChecker(DefaultTarget())
	results := []CACResult{
		{ChannelID: "a", CAC: 52},  // info
		{ChannelID: "b", CAC: 40},  // none
		{ChannelID: "c", CAC: 90},  // critical
		{ChannelID: "d", CAC: 60},  // warning
		{ChannelID: "e", CAC: 0},   // none
		{ChannelID: "f", CAC: 200}, // critical
	}

	alerts := checker.CheckAll(results)
	if len(alerts) != 4 {
		t.Fatalf("Expected 4 alerts, got %d", len(alerts))
	}

	expected := []string{"c", "f", "d", "a"}
	for i, alert := range alerts {
		if alert.ChannelID != expected[i] {
			t.Errorf("Position %d: expected %s, got %s (%s)", i, expected[i], alert.ChannelID, alert.Severity)
		}
	}

	if got := CheckCACTargets(nil, DefaultTarget()); len(got) != 0 {
		t.Errorf("Expected no alerts for empty batch, got %d", len(got))
	}
}

func TestCalculateCACEfficiency(t *testing.T) {
	tests := []struct {
		name     string
		cac      float64
		target   float64
		expected float64
	}{
		{"free_acquisition", 0, 50, 100},
		{"half_target", 25, 50, 100},
		{"at_target", 50, 50, 50},
		{"one_and_quarter", 62.5, 50, 25},
		{"one_and_half", 75, 50, 0},
		{"far_over", 500, 50, 0},
		{"no_target", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateCACEfficiency(tt.cac, tt.target); got != tt.expected {
				t.Errorf("CalculateCACEfficiency(%v, %v) = %v, want %v", tt.cac, tt.target, got, tt.expected)
			}
		})
	}
}
