package cogs

import (
	"errors"
	"math"
	"testing"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

func floatPtr(v float64) *float64 {
	return &v
}

func TestCalculateBreakdown_Defaults(t *testing.T) {
	result, err := CalculateBreakdown(1000, ConfigOverrides{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.TotalPerUnit != 200 {
		t.Errorf("Expected total per unit 200, got %v", result.TotalPerUnit)
	}
	if result.TotalCost != 200000 {
		t.Errorf("Expected total cost 200000, got %v", result.TotalCost)
	}
	if len(result.LineItems) != 4 {
		t.Fatalf("Expected 4 line items, got %d", len(result.LineItems))
	}

	manufacturing := result.LineItems[0]
	if manufacturing.Category != entities.Manufacturing {
		t.Fatalf("Expected manufacturing first, got %s", manufacturing.Category)
	}
	if manufacturing.PerUnit != 140 || manufacturing.Total != 140000 {
		t.Errorf("Expected manufacturing 140/140000, got %v/%v", manufacturing.PerUnit, manufacturing.Total)
	}
	if math.Abs(manufacturing.Percentage-70) > 1e-9 {
		t.Errorf("Expected manufacturing 70%%, got %v", manufacturing.Percentage)
	}

	expectedPercentages := map[entities.COGSCategory]float64{
		entities.Manufacturing: 70,
		entities.Freight:       17.5,
		entities.Packaging:     7.5,
		entities.Duties:        5,
	}
	percentSum := 0.0
	for _, item := range result.LineItems {
		if math.Abs(item.Percentage-expectedPercentages[item.Category]) > 1e-9 {
			t.Errorf("%s: expected %v%%, got %v", item.Category, expectedPercentages[item.Category], item.Percentage)
		}
		if result.Summary[item.Category] != item.Total {
			t.Errorf("%s: summary %v does not match line total %v", item.Category, result.Summary[item.Category], item.Total)
		}
		percentSum += item.Percentage
	}
	if math.Abs(percentSum-100) > 1e-9 {
		t.Errorf("Expected percentages to sum to 100, got %v", percentSum)
	}
}

func TestCalculateBreakdown_Overrides(t *testing.T) {
	result, err := CalculateBreakdown(10, ConfigOverrides{
		FreightCost: floatPtr(20),
		DutiesCost:  floatPtr(0),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 140 + 20 + 15 + 0
	if result.TotalPerUnit != 175 {
		t.Errorf("Expected 175 per unit, got %v", result.TotalPerUnit)
	}
	if result.Summary[entities.Manufacturing] != 1400 {
		t.Errorf("Expected unset manufacturing to keep default, got %v", result.Summary[entities.Manufacturing])
	}
	if result.Summary[entities.Duties] != 0 {
		t.Errorf("Expected explicit zero duties, got %v", result.Summary[entities.Duties])
	}
}

func TestCalculateBreakdown_LineItemsReconcile(t *testing.T) {
	configs := []BreakdownConfig{
		DefaultConfig(),
		{ManufacturingCost: 33.333, FreightCost: 7.777, PackagingCost: 1.111, DutiesCost: 0.999},
		{ManufacturingCost: 0.01, FreightCost: 0, PackagingCost: 0, DutiesCost: 0.02},
	}
	volumes := []float64{1, 3, 777, 1234.5, 50000}

	for _, config := range configs {
		for _, volume := range volumes {
			result, err := CalculateBreakdownWithConfig(volume, config)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			sum := 0.0
			for _, item := range result.LineItems {
				sum += item.Total
			}
			if math.Abs(sum-result.TotalCost) > 0.005 {
				t.Errorf("Config %+v volume %v: line items sum %v, total %v", config, volume, sum, result.TotalCost)
			}
		}
	}
}

func TestCalculateBreakdown_ZeroTotal(t *testing.T) {
	result, err := CalculateBreakdownWithConfig(100, BreakdownConfig{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, item := range result.LineItems {
		if item.Percentage != 0 {
			t.Errorf("%s: expected 0%% when total is 0, got %v", item.Category, item.Percentage)
		}
	}
}

func TestCalculateBreakdown_Validation(t *testing.T) {
	_, err := CalculateBreakdown(0, ConfigOverrides{})
	if !errors.Is(err, ErrInvalidVolume) {
		t.Errorf("Expected ErrInvalidVolume, got %v", err)
	}

	_, err = CalculateBreakdown(100, ConfigOverrides{PackagingCost: floatPtr(-1)})
	if !errors.Is(err, ErrNegativeCost) {
		t.Errorf("Expected ErrNegativeCost, got %v", err)
	}
}

func TestApplyCostReduction(t *testing.T) {
	reduced := ApplyCostReduction(DefaultConfig(), 0.1)

	if reduced.ManufacturingCost != 126 {
		t.Errorf("Expected manufacturing 126, got %v", reduced.ManufacturingCost)
	}
	if reduced.FreightCost != 31.5 {
		t.Errorf("Expected freight 31.5, got %v", reduced.FreightCost)
	}
	if reduced.PackagingCost != 13.5 {
		t.Errorf("Expected packaging 13.5, got %v", reduced.PackagingCost)
	}
	if reduced.DutiesCost != 10 {
		t.Errorf("Expected duties untouched at 10, got %v", reduced.DutiesCost)
	}
}

func TestProjectBreakdown_CompoundsFromPreviousYear(t *testing.T) {
	projections, err := ProjectBreakdown([]float64{1000, 2000, 4000}, DefaultConfig(), DefaultAnnualReductionRate)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(projections) != 3 {
		t.Fatalf("Expected 3 years, got %d", len(projections))
	}

	if projections[0].Config != DefaultConfig() {
		t.Errorf("Expected year 1 to use base config, got %+v", projections[0].Config)
	}

	year2 := projections[1].Config
	if year2.ManufacturingCost != 133 || year2.FreightCost != 33.25 || year2.PackagingCost != 14.25 {
		t.Errorf("Unexpected year 2 config %+v", year2)
	}

	year3 := projections[2].Config
	if year3.ManufacturingCost != 126.35 || year3.FreightCost != 31.59 || year3.PackagingCost != 13.54 {
		t.Errorf("Unexpected year 3 config %+v", year3)
	}
	if year3.DutiesCost != 10 {
		t.Errorf("Expected duties constant, got %v", year3.DutiesCost)
	}

	if projections[2].Year != 3 || projections[2].Breakdown.Volume != 4000 {
		t.Errorf("Unexpected year 3 metadata: year %d volume %v", projections[2].Year, projections[2].Breakdown.Volume)
	}
}

func TestProjectBreakdown_Validation(t *testing.T) {
	if _, err := ProjectBreakdown([]float64{100}, DefaultConfig(), 1); !errors.Is(err, ErrInvalidReductionRate) {
		t.Errorf("Expected ErrInvalidReductionRate, got %v", err)
	}
	if _, err := ProjectBreakdown([]float64{100, 0}, DefaultConfig(), 0.05); !errors.Is(err, ErrInvalidVolume) {
		t.Errorf("Expected ErrInvalidVolume for year 2, got %v", err)
	}
}
