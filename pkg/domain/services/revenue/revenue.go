// Package revenue projects scenario revenue and tooling amortization.
package revenue

import (
	"errors"
	"fmt"
	"math"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

// ErrInvalidInput is wrapped by every revenue or tooling validation failure
var ErrInvalidInput = errors.New("invalid revenue input")

// MaxYears bounds every projection horizon
const MaxYears = 50

// CalculateRevenue returns net revenue after the blended discount
func CalculateRevenue(units, price, discountRate float64) (float64, error) {
	if units < 0 || price < 0 {
		return 0, fmt.Errorf("%w: units and price cannot be negative", ErrInvalidInput)
	}
	if discountRate < 0 || discountRate > 1 {
		return 0, fmt.Errorf("%w: discount rate must be between 0 and 1, got %v", ErrInvalidInput, discountRate)
	}
	return money.Cents(units * price * (1 - discountRate)), nil
}

// Options configures a multi-year revenue projection
type Options struct {
	Years            int     `json:"years" yaml:"years"`
	UnitPrice        float64 `json:"unitPrice" yaml:"unit_price"`
	DiscountRate     float64 `json:"discountRate" yaml:"discount_rate"`
	AnnualGrowthRate float64 `json:"annualGrowthRate" yaml:"annual_growth_rate"`
}

// YearRevenue is one projected year
type YearRevenue struct {
	Year         int     `json:"year" yaml:"year"`
	Units        int     `json:"units" yaml:"units"`
	GrossRevenue float64 `json:"grossRevenue" yaml:"gross_revenue"`
	Discounts    float64 `json:"discounts" yaml:"discounts"`
	NetRevenue   float64 `json:"netRevenue" yaml:"net_revenue"`
}

// ProjectedUnits returns the scenario's unit volume per year, compounding
// the annual growth rate from year two on
func ProjectedUnits(scenario entities.Scenario, years int, growthRate float64) []int {
	units := make([]int, 0, years)
	for y := 0; y < years; y++ {
		units = append(units, int(math.Round(float64(scenario.AnnualUnits())*math.Pow(1+growthRate, float64(y)))))
	}
	return units
}

// ProjectScenarioRevenue projects gross and net revenue per year
func ProjectScenarioRevenue(scenario entities.Scenario, opts Options) ([]YearRevenue, error) {
	if opts.Years <= 0 || opts.Years > MaxYears {
		return nil, fmt.Errorf("%w: years must be between 1 and %d, got %d", ErrInvalidInput, MaxYears, opts.Years)
	}
	if opts.AnnualGrowthRate <= -1 {
		return nil, fmt.Errorf("%w: growth rate must be greater than -1, got %v", ErrInvalidInput, opts.AnnualGrowthRate)
	}

	rows := make([]YearRevenue, 0, opts.Years)
	for i, units := range ProjectedUnits(scenario, opts.Years, opts.AnnualGrowthRate) {
		net, err := CalculateRevenue(float64(units), opts.UnitPrice, opts.DiscountRate)
		if err != nil {
			return nil, err
		}
		gross := money.Cents(float64(units) * opts.UnitPrice)
		rows = append(rows, YearRevenue{
			Year:         i + 1,
			Units:        units,
			GrossRevenue: gross,
			Discounts:    money.Sum(gross, -net),
			NetRevenue:   net,
		})
	}
	return rows, nil
}
