package revenue

import (
	"fmt"
	"math"

	"github.com/sportsprod/erp/pkg/domain/money"
)

// ToolingInput configures a tooling amortization schedule. UnitVolumes is
// optional and indexed by year.
type ToolingInput struct {
	ToolingCost    float64 `json:"toolingCost" yaml:"tooling_cost"`
	RetoolingYears int     `json:"retoolingYears" yaml:"retooling_years"`
	Years          int     `json:"years" yaml:"years"`
	UnitVolumes    []int   `json:"unitVolumes,omitempty" yaml:"unit_volumes,omitempty"`
}

// ToolingYearProjection is one year of the schedule
type ToolingYearProjection struct {
	Year                   int     `json:"year" yaml:"year"`
	Amortization           float64 `json:"amortization" yaml:"amortization"`
	Retooling              bool    `json:"retooling" yaml:"retooling"`
	Investment             float64 `json:"investment" yaml:"investment"`
	CumulativeInvestment   float64 `json:"cumulativeInvestment" yaml:"cumulative_investment"`
	CumulativeAmortization float64 `json:"cumulativeAmortization" yaml:"cumulative_amortization"`
	AmortizationPerUnit    float64 `json:"amortizationPerUnit" yaml:"amortization_per_unit"`
}

// ToolingProjection is the full schedule. The initial tooling purchase is
// counted in cumulative investment from year one.
type ToolingProjection struct {
	ToolingCost        float64                 `json:"toolingCost" yaml:"tooling_cost"`
	RetoolingYears     int                     `json:"retoolingYears" yaml:"retooling_years"`
	AnnualAmortization float64                 `json:"annualAmortization" yaml:"annual_amortization"`
	Years              []ToolingYearProjection `json:"years" yaml:"years"`
	TotalInvestment    float64                 `json:"totalInvestment" yaml:"total_investment"`
	TotalAmortization  float64                 `json:"totalAmortization" yaml:"total_amortization"`
}

// GenerateToolingProjections amortizes tooling straight-line over its cycle
// and reinvests at the end of every full cycle, never in year one
func GenerateToolingProjections(input ToolingInput) (ToolingProjection, error) {
	if math.IsNaN(input.ToolingCost) || math.IsInf(input.ToolingCost, 0) || input.ToolingCost < 0 {
		return ToolingProjection{}, fmt.Errorf("%w: tooling cost must be a non-negative number, got %v", ErrInvalidInput, input.ToolingCost)
	}
	if input.RetoolingYears <= 0 {
		return ToolingProjection{}, fmt.Errorf("%w: retooling cycle must be positive, got %d", ErrInvalidInput, input.RetoolingYears)
	}
	if input.Years <= 0 || input.Years > MaxYears {
		return ToolingProjection{}, fmt.Errorf("%w: years must be between 1 and %d, got %d", ErrInvalidInput, MaxYears, input.Years)
	}

	amortization := money.Cents(input.ToolingCost / float64(input.RetoolingYears))
	projection := ToolingProjection{
		ToolingCost:        input.ToolingCost,
		RetoolingYears:     input.RetoolingYears,
		AnnualAmortization: amortization,
		Years:              make([]ToolingYearProjection, 0, input.Years),
	}

	cumulativeInvestment := input.ToolingCost
	cumulativeAmortization := 0.0
	for i := 0; i < input.Years; i++ {
		row := ToolingYearProjection{
			Year:         i + 1,
			Amortization: amortization,
			Retooling:    i > 0 && (i+1)%input.RetoolingYears == 0,
		}
		if row.Retooling {
			row.Investment = input.ToolingCost
			cumulativeInvestment = money.Sum(cumulativeInvestment, input.ToolingCost)
		}
		cumulativeAmortization = money.Sum(cumulativeAmortization, amortization)
		row.CumulativeInvestment = cumulativeInvestment
		row.CumulativeAmortization = cumulativeAmortization
		if i < len(input.UnitVolumes) && input.UnitVolumes[i] > 0 {
			row.AmortizationPerUnit = money.Cents(amortization / float64(input.UnitVolumes[i]))
		}
		projection.Years = append(projection.Years, row)
	}

	projection.TotalInvestment = cumulativeInvestment
	projection.TotalAmortization = cumulativeAmortization
	return projection, nil
}
