// Package cogs decomposes per-unit cost of goods sold into its categories and
// projects how scale reduces those costs year over year.
package cogs

import (
	"errors"
	"fmt"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

// DefaultAnnualReductionRate is the per-year scale saving applied by ProjectBreakdown
const DefaultAnnualReductionRate = 0.05

var (
	// ErrInvalidVolume is returned for a volume that is zero or negative
	ErrInvalidVolume = errors.New("Volume must be greater than 0")
	// ErrNegativeCost is returned when a category cost is below zero
	ErrNegativeCost = errors.New("COGS category costs cannot be negative")
	// ErrInvalidReductionRate is returned for a rate outside [0, 1)
	ErrInvalidReductionRate = errors.New("annual reduction rate must be in [0, 1)")
)

// BreakdownConfig holds per-unit dollar costs for each category
type BreakdownConfig struct {
	ManufacturingCost float64 `json:"manufacturingCost" yaml:"manufacturing_cost"`
	FreightCost       float64 `json:"freightCost" yaml:"freight_cost"`
	PackagingCost     float64 `json:"packagingCost" yaml:"packaging_cost"`
	DutiesCost        float64 `json:"dutiesCost" yaml:"duties_cost"`
}

// ConfigOverrides replaces individual fields of the default config. Nil
// fields keep their default.
type ConfigOverrides struct {
	ManufacturingCost *float64 `json:"manufacturingCost,omitempty"`
	FreightCost       *float64 `json:"freightCost,omitempty"`
	PackagingCost     *float64 `json:"packagingCost,omitempty"`
	DutiesCost        *float64 `json:"dutiesCost,omitempty"`
}

// DefaultConfig returns the $200/unit default split 70/17.5/7.5/5
func DefaultConfig() BreakdownConfig {
	return BreakdownConfig{
		ManufacturingCost: 140,
		FreightCost:       35,
		PackagingCost:     15,
		DutiesCost:        10,
	}
}

// WithOverrides returns a copy of c with every set override applied
func (c BreakdownConfig) WithOverrides(o ConfigOverrides) BreakdownConfig {
	if o.ManufacturingCost != nil {
		c.ManufacturingCost = *o.ManufacturingCost
	}
	if o.FreightCost != nil {
		c.FreightCost = *o.FreightCost
	}
	if o.PackagingCost != nil {
		c.PackagingCost = *o.PackagingCost
	}
	if o.DutiesCost != nil {
		c.DutiesCost = *o.DutiesCost
	}
	return c
}

// Cost returns the per-unit cost of one category
func (c BreakdownConfig) Cost(category entities.COGSCategory) float64 {
	switch category {
	case entities.Manufacturing:
		return c.ManufacturingCost
	case entities.Freight:
		return c.FreightCost
	case entities.Packaging:
		return c.PackagingCost
	case entities.Duties:
		return c.DutiesCost
	default:
		return 0
	}
}

// TotalPerUnit returns the summed per-unit cost
func (c BreakdownConfig) TotalPerUnit() float64 {
	return c.ManufacturingCost + c.FreightCost + c.PackagingCost + c.DutiesCost
}

// Validate rejects negative category costs
func (c BreakdownConfig) Validate() error {
	for _, category := range entities.COGSCategories {
		if cost := c.Cost(category); cost < 0 {
			return fmt.Errorf("%w: %s is %v", ErrNegativeCost, category, cost)
		}
	}
	return nil
}

// LineItem is one category's share of the breakdown
type LineItem struct {
	Category   entities.COGSCategory `json:"category" yaml:"category"`
	Label      string                `json:"label" yaml:"label"`
	PerUnit    float64               `json:"perUnit" yaml:"per_unit"`
	Total      float64               `json:"total" yaml:"total"`
	Percentage float64               `json:"percentage" yaml:"percentage"`
}

// BreakdownResult is the full decomposition at one volume
type BreakdownResult struct {
	Volume       float64                           `json:"volume" yaml:"volume"`
	LineItems    []LineItem                        `json:"lineItems" yaml:"line_items"`
	TotalPerUnit float64                           `json:"totalPerUnit" yaml:"total_per_unit"`
	TotalCost    float64                           `json:"totalCost" yaml:"total_cost"`
	Summary      map[entities.COGSCategory]float64 `json:"summary" yaml:"summary"`
}

// CalculateBreakdown merges overrides onto the default config and decomposes
// the cost at volume
func CalculateBreakdown(volume float64, overrides ConfigOverrides) (BreakdownResult, error) {
	return CalculateBreakdownWithConfig(volume, DefaultConfig().WithOverrides(overrides))
}

// CalculateBreakdownWithConfig decomposes the cost at volume for a complete config
func CalculateBreakdownWithConfig(volume float64, config BreakdownConfig) (BreakdownResult, error) {
	if volume <= 0 {
		return BreakdownResult{}, ErrInvalidVolume
	}
	if err := config.Validate(); err != nil {
		return BreakdownResult{}, err
	}

	totalPerUnit := config.TotalPerUnit()
	result := BreakdownResult{
		Volume:       volume,
		LineItems:    make([]LineItem, 0, len(entities.COGSCategories)),
		TotalPerUnit: money.Cents(totalPerUnit),
		Summary:      make(map[entities.COGSCategory]float64, len(entities.COGSCategories)),
	}

	totals := make([]float64, 0, len(entities.COGSCategories))
	for _, category := range entities.COGSCategories {
		perUnit := config.Cost(category)
		percentage := 0.0
		if totalPerUnit > 0 {
			percentage = perUnit / totalPerUnit * 100
		}

		item := LineItem{
			Category:   category,
			Label:      category.Label(),
			PerUnit:    money.Cents(perUnit),
			Total:      money.Cents(perUnit * volume),
			Percentage: percentage,
		}
		result.LineItems = append(result.LineItems, item)
		result.Summary[category] = item.Total
		totals = append(totals, item.Total)
	}

	// Total is the sum of the rounded lines so the items always reconcile
	result.TotalCost = money.Sum(totals...)

	return result, nil
}

// ApplyCostReduction scales the scalable categories by (1 - rate). Duties are
// not reduced by volume.
func ApplyCostReduction(config BreakdownConfig, rate float64) BreakdownConfig {
	factor := 1 - rate
	return BreakdownConfig{
		ManufacturingCost: money.Cents(config.ManufacturingCost * factor),
		FreightCost:       money.Cents(config.FreightCost * factor),
		PackagingCost:     money.Cents(config.PackagingCost * factor),
		DutiesCost:        config.DutiesCost,
	}
}

// YearBreakdown is one year of a multi-year COGS projection
type YearBreakdown struct {
	Year      int             `json:"year" yaml:"year"`
	Config    BreakdownConfig `json:"config" yaml:"config"`
	Breakdown BreakdownResult `json:"breakdown" yaml:"breakdown"`
}

// ProjectBreakdown computes one breakdown per year. Year one uses the base
// config; every later year reduces the previous year's config once, so
// reductions compound.
func ProjectBreakdown(volumesByYear []float64, base BreakdownConfig, annualReductionRate float64) ([]YearBreakdown, error) {
	if annualReductionRate < 0 || annualReductionRate >= 1 {
		return nil, fmt.Errorf("%w, got %v", ErrInvalidReductionRate, annualReductionRate)
	}

	projections := make([]YearBreakdown, 0, len(volumesByYear))
	config := base
	for i, volume := range volumesByYear {
		if i > 0 {
			config = ApplyCostReduction(config, annualReductionRate)
		}

		breakdown, err := CalculateBreakdownWithConfig(volume, config)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", i+1, err)
		}

		projections = append(projections, YearBreakdown{
			Year:      i + 1,
			Config:    config,
			Breakdown: breakdown,
		})
	}

	return projections, nil
}
