package inventory

import (
	"errors"
	"testing"
)

func TestCalculateReorderPoint(t *testing.T) {
	tests := []struct {
		name         string
		dailyRate    float64
		leadTimeDays int
		safetyDays   int
		expected     int
	}{
		{"whole_units", 10, 90, 30, 1200},
		{"fractional_rate", 10000.0 / 365, 90, 30, 3288},
		{"no_safety_stock", 2.5, 7, 0, 18},
		{"no_lead_time", 2.5, 0, 3, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateReorderPoint(tt.dailyRate, tt.leadTimeDays, tt.safetyDays)
			if got != tt.expected {
				t.Errorf("CalculateReorderPoint(%v, %d, %d) = %d, want %d",
					tt.dailyRate, tt.leadTimeDays, tt.safetyDays, got, tt.expected)
			}
		})
	}
}

func TestCalculateOrderQuantity(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		current  float64
		moq      int
		expected int
	}{
		{"rounds_up_to_two_batches", 2500, 1000, 1000, 2000},
		{"exact_multiple", 3000, 1000, 1000, 2000},
		{"already_at_target", 2500, 2500, 1000, 0},
		{"above_target", 2500, 3000, 1000, 0},
		{"fractional_current", 1000, 999.5, 100, 100},
		{"lot_for_lot_without_moq", 1000, 750.2, 0, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateOrderQuantity(tt.target, tt.current, tt.moq)
			if got != tt.expected {
				t.Errorf("CalculateOrderQuantity(%v, %v, %d) = %d, want %d",
					tt.target, tt.current, tt.moq, got, tt.expected)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
	}{
		{"zero_moq", Config{MOQ: 0, UnitCost: 1}},
		{"negative_unit_cost", Config{MOQ: 1, UnitCost: -1}},
		{"negative_lead_time", Config{MOQ: 1, LeadTimeDays: -1}},
		{"negative_safety_days", Config{MOQ: 1, SafetyDays: -1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.config.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Expected default config to be valid: %v", err)
	}
}
