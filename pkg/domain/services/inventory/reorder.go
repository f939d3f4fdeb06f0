// Package inventory simulates day-by-day stock levels under a reorder-point
// policy with minimum order quantities and supplier lead times.
package inventory

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DaysPerYear is the simulated year length
	DaysPerYear = 365
	// MonthsPerYear is used to bucket simulated days into calendar months
	MonthsPerYear = 12
	// MaxYears bounds the simulated horizon
	MaxYears = 50
)

// ErrInvalidConfig is wrapped by every configuration validation failure
var ErrInvalidConfig = errors.New("invalid inventory config")

// Config holds the replenishment policy for a single SKU
type Config struct {
	MOQ          int     `json:"moq" yaml:"moq"`
	UnitCost     float64 `json:"unitCost" yaml:"unit_cost"`
	LeadTimeDays int     `json:"leadTimeDays" yaml:"lead_time_days"`
	SafetyDays   int     `json:"safetyDays" yaml:"safety_days"`
}

// DefaultConfig returns the standard replenishment policy
func DefaultConfig() Config {
	return Config{
		MOQ:          1000,
		UnitCost:     96,
		LeadTimeDays: 90,
		SafetyDays:   30,
	}
}

// Validate checks the policy values
func (c Config) Validate() error {
	if c.MOQ <= 0 {
		return fmt.Errorf("%w: MOQ must be positive, got %d", ErrInvalidConfig, c.MOQ)
	}
	if math.IsNaN(c.UnitCost) || math.IsInf(c.UnitCost, 0) {
		return fmt.Errorf("%w: unit cost must be finite, got %v", ErrInvalidConfig, c.UnitCost)
	}
	if c.UnitCost < 0 {
		return fmt.Errorf("%w: unit cost cannot be negative, got %v", ErrInvalidConfig, c.UnitCost)
	}
	if c.LeadTimeDays < 0 {
		return fmt.Errorf("%w: lead time cannot be negative, got %d", ErrInvalidConfig, c.LeadTimeDays)
	}
	if c.SafetyDays < 0 {
		return fmt.Errorf("%w: safety days cannot be negative, got %d", ErrInvalidConfig, c.SafetyDays)
	}
	return nil
}

// CalculateReorderPoint returns the on-hand level that triggers a new order:
// lead-time demand plus safety stock, each rounded up to whole units
func CalculateReorderPoint(dailyRate float64, leadTimeDays, safetyDays int) int {
	safetyStock := math.Ceil(dailyRate * float64(safetyDays))
	return int(math.Ceil(dailyRate*float64(leadTimeDays) + safetyStock))
}

// CalculateOrderQuantity returns the units needed to lift current up to
// target, rounded up to a whole multiple of moq. A non-positive moq orders
// the exact shortfall.
func CalculateOrderQuantity(target, current float64, moq int) int {
	needed := target - current
	if needed <= 0 {
		return 0
	}
	if moq <= 0 {
		return int(math.Ceil(needed))
	}
	batches := math.Ceil(needed / float64(moq))
	return int(batches) * moq
}
