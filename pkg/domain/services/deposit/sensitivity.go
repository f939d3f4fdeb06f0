package deposit

import (
	"fmt"
	"math"

	"github.com/sportsprod/erp/pkg/domain/money"
)

// searchGap is the dollar width at which the deposit search stops
const searchGap = 10

// SensitivityRow summarizes one full simulation at a given deposit
type SensitivityRow struct {
	DepositAmount     float64 `json:"depositAmount" yaml:"deposit_amount"`
	PercentOfPrice    float64 `json:"percentOfPrice" yaml:"percent_of_price"`
	PeakCapital       float64 `json:"peakCapital" yaml:"peak_capital"`
	CapitalReduction  float64 `json:"capitalReduction" yaml:"capital_reduction"`
	BreakEvenMonth    *int    `json:"breakEvenMonth" yaml:"break_even_month"`
	FinalCashPosition float64 `json:"finalCashPosition" yaml:"final_cash_position"`
}

// DefaultSensitivityDeposits returns the deposit amounts shown by default
func DefaultSensitivityDeposits() []float64 {
	return []float64{0, 25, 50, 75, 100, 150, 200}
}

// BuildSensitivityTable re-runs the simulation once per deposit amount.
// Amounts above the full price are skipped.
func BuildSensitivityTable(input Input, depositAmounts []float64) ([]SensitivityRow, error) {
	rows := make([]SensitivityRow, 0, len(depositAmounts))
	for _, amount := range depositAmounts {
		if amount > input.FullPrice {
			continue
		}

		result, err := CalculateImpact(input.WithDeposit(amount))
		if err != nil {
			return nil, fmt.Errorf("deposit %v: %w", amount, err)
		}

		percent := 0.0
		if input.FullPrice > 0 {
			percent = money.Round(amount/input.FullPrice*100, 1)
		}
		rows = append(rows, SensitivityRow{
			DepositAmount:     amount,
			PercentOfPrice:    percent,
			PeakCapital:       result.PeakCapitalWithDeposits,
			CapitalReduction:  result.CapitalReduction,
			BreakEvenMonth:    result.BreakEvenMonth,
			FinalCashPosition: result.FinalCashPosition,
		})
	}
	return rows, nil
}

// OptimalDeposit is the outcome of a deposit search
type OptimalDeposit struct {
	DepositAmount float64 `json:"depositAmount" yaml:"deposit_amount"`
	PeakCapital   float64 `json:"peakCapital" yaml:"peak_capital"`
	MaxCapital    float64 `json:"maxCapital" yaml:"max_capital"`
	Feasible      bool    `json:"feasible" yaml:"feasible"`
	Iterations    int     `json:"iterations" yaml:"iterations"`
}

// FindOptimalDeposit binary-searches [0, full price] for the smallest deposit
// whose peak capital need stays within maxCapital. The search stops once the
// bracket is no wider than $10 and reports the upper bound rounded up to a
// whole dollar.
func FindOptimalDeposit(input Input, maxCapital float64) (OptimalDeposit, error) {
	if maxCapital < 0 {
		return OptimalDeposit{}, fmt.Errorf("%w: max capital cannot be negative, got %v", ErrInvalidInput, maxCapital)
	}

	peakAt := func(amount float64) (float64, error) {
		result, err := CalculateImpact(input.WithDeposit(amount))
		if err != nil {
			return 0, err
		}
		return result.PeakCapitalWithDeposits, nil
	}

	low, high := 0.0, input.FullPrice
	highPeak, err := peakAt(high)
	if err != nil {
		return OptimalDeposit{}, err
	}
	if highPeak > maxCapital {
		// Even a full-price deposit needs more capital than is available
		return OptimalDeposit{DepositAmount: high, PeakCapital: highPeak, MaxCapital: maxCapital}, nil
	}

	lowPeak, err := peakAt(low)
	if err != nil {
		return OptimalDeposit{}, err
	}
	if lowPeak <= maxCapital {
		return OptimalDeposit{DepositAmount: 0, PeakCapital: lowPeak, MaxCapital: maxCapital, Feasible: true}, nil
	}

	iterations := 0
	for high-low > searchGap {
		iterations++
		mid := (low + high) / 2
		peak, err := peakAt(mid)
		if err != nil {
			return OptimalDeposit{}, err
		}
		if peak <= maxCapital {
			high = mid
			highPeak = peak
		} else {
			low = mid
		}
	}

	amount := math.Ceil(high)
	if amount > input.FullPrice {
		amount = high
	}
	peak, err := peakAt(amount)
	if err != nil {
		return OptimalDeposit{}, err
	}
	if peak > highPeak {
		amount, peak = high, highPeak
	}

	return OptimalDeposit{
		DepositAmount: money.Cents(amount),
		PeakCapital:   peak,
		MaxCapital:    maxCapital,
		Feasible:      true,
		Iterations:    iterations,
	}, nil
}

// SelfFundingDeposit is the deposit at which deposits alone pay for production
type SelfFundingDeposit struct {
	DepositAmount       float64 `json:"depositAmount" yaml:"deposit_amount"`
	PercentOfPrice      float64 `json:"percentOfPrice" yaml:"percent_of_price"`
	TotalProductionCost float64 `json:"totalProductionCost" yaml:"total_production_cost"`
	Achievable          bool    `json:"achievable" yaml:"achievable"`
}

// CalculateSelfFundingDeposit returns the per-order deposit whose total
// collection across all pre-orders covers the production cost of the
// converted units, capped at the full price
func CalculateSelfFundingDeposit(input Input) (SelfFundingDeposit, error) {
	if err := input.Validate(); err != nil {
		return SelfFundingDeposit{}, err
	}

	productionCost := money.Cents(float64(input.ConvertedUnits()) * input.UnitProductionCost)
	result := SelfFundingDeposit{TotalProductionCost: productionCost}
	if input.PreOrderCount == 0 {
		return result, nil
	}

	required := money.Cents(math.Ceil(productionCost/float64(input.PreOrderCount)*100) / 100)
	result.Achievable = required <= input.FullPrice
	if !result.Achievable {
		required = input.FullPrice
	}
	result.DepositAmount = required
	if input.FullPrice > 0 {
		result.PercentOfPrice = money.Round(required/input.FullPrice*100, 1)
	}
	return result, nil
}
