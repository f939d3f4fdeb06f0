// Package raise models the dilution and runway trade-off of a capital raise.
package raise

import (
	"errors"
	"fmt"
	"math"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

var (
	// ErrInvalidValuation is returned when the pre-money valuation is not positive
	ErrInvalidValuation = errors.New("Pre-money valuation must be greater than 0")
	// ErrNegativeAmount is returned for negative raise, cash or burn figures
	ErrNegativeAmount = errors.New("Amounts cannot be negative")
	// ErrInvalidTerms is returned for out-of-range instrument terms or ownership
	ErrInvalidTerms = errors.New("invalid raise terms")
)

// discountWeight scales the instrument discount into extra dilution
const discountWeight = 0.5

// per100k normalizes metrics to each $100,000 raised
const per100k = 100000

// DilutionResult is the priced-round view of a raise
type DilutionResult struct {
	RaiseAmount        float64 `json:"raiseAmount" yaml:"raise_amount"`
	PreMoneyValuation  float64 `json:"preMoneyValuation" yaml:"pre_money_valuation"`
	PostMoneyValuation float64 `json:"postMoneyValuation" yaml:"post_money_valuation"`
	DilutionPercent    float64 `json:"dilutionPercent" yaml:"dilution_percent"`
}

// CalculateDilution returns post-money valuation and the fraction of the
// company sold
func CalculateDilution(raiseAmount, preMoney float64) (DilutionResult, error) {
	if raiseAmount < 0 {
		return DilutionResult{}, fmt.Errorf("%w: raise amount %v", ErrNegativeAmount, raiseAmount)
	}
	if preMoney <= 0 {
		return DilutionResult{}, fmt.Errorf("%w: got %v", ErrInvalidValuation, preMoney)
	}

	postMoney := preMoney + raiseAmount
	return DilutionResult{
		RaiseAmount:        raiseAmount,
		PreMoneyValuation:  preMoney,
		PostMoneyValuation: postMoney,
		DilutionPercent:    raiseAmount / postMoney,
	}, nil
}

// CalculateRunway returns whole months of runway. A zero burn never runs out.
func CalculateRunway(currentCash, raiseAmount, monthlyBurn float64) (months int, unlimited bool, err error) {
	if currentCash < 0 || raiseAmount < 0 || monthlyBurn < 0 {
		return 0, false, fmt.Errorf("%w: cash %v, raise %v, burn %v", ErrNegativeAmount, currentCash, raiseAmount, monthlyBurn)
	}
	if monthlyBurn == 0 {
		return 0, true, nil
	}
	return int(math.Floor((currentCash + raiseAmount) / monthlyBurn)), false, nil
}

// RunwayRiskFor buckets a runway into a risk level
func RunwayRiskFor(months int, unlimited bool) entities.RunwayRisk {
	switch {
	case unlimited:
		return entities.RunwayExtended
	case months < 6:
		return entities.RunwayCritical
	case months < 12:
		return entities.RunwayLow
	case months < 18:
		return entities.RunwayModerate
	case months < 24:
		return entities.RunwayComfortable
	default:
		return entities.RunwayExtended
	}
}

// Terms are the instrument-specific conversion terms
type Terms struct {
	DiscountRate float64 `json:"discountRate,omitempty" yaml:"discount_rate,omitempty"`
	ValuationCap float64 `json:"valuationCap,omitempty" yaml:"valuation_cap,omitempty"`
	InterestRate float64 `json:"interestRate,omitempty" yaml:"interest_rate,omitempty"`
}

// Input describes one candidate raise
type Input struct {
	RaiseAmount       float64             `json:"raiseAmount" yaml:"raise_amount"`
	PreMoneyValuation float64             `json:"preMoneyValuation" yaml:"pre_money_valuation"`
	Instrument        entities.Instrument `json:"instrument" yaml:"instrument"`
	Terms             Terms               `json:"terms" yaml:"terms"`
	CurrentCash       float64             `json:"currentCash" yaml:"current_cash"`
	MonthlyBurn       float64             `json:"monthlyBurn" yaml:"monthly_burn"`
	FounderOwnership  float64             `json:"founderOwnership" yaml:"founder_ownership"`
}

// Validate checks terms and ownership ranges
func (in Input) Validate() error {
	for _, v := range []float64{in.RaiseAmount, in.PreMoneyValuation, in.CurrentCash, in.MonthlyBurn, in.FounderOwnership,
		in.Terms.DiscountRate, in.Terms.ValuationCap, in.Terms.InterestRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: amounts and rates must be finite, got %v", ErrInvalidTerms, v)
		}
	}
	if in.FounderOwnership < 0 || in.FounderOwnership > 1 {
		return fmt.Errorf("%w: founder ownership must be between 0 and 1, got %v", ErrInvalidTerms, in.FounderOwnership)
	}
	if in.Terms.DiscountRate < 0 || in.Terms.DiscountRate >= 1 {
		return fmt.Errorf("%w: discount rate must be in [0, 1), got %v", ErrInvalidTerms, in.Terms.DiscountRate)
	}
	if in.Terms.ValuationCap < 0 || in.Terms.InterestRate < 0 {
		return fmt.Errorf("%w: valuation cap and interest rate cannot be negative", ErrInvalidTerms)
	}
	return nil
}

// Result is the evaluated outcome of one raise
type Result struct {
	Input               Input               `json:"input" yaml:"input"`
	PostMoneyValuation  float64             `json:"postMoneyValuation" yaml:"post_money_valuation"`
	DilutionPercent     float64             `json:"dilutionPercent" yaml:"dilution_percent"`
	EffectiveDilution   float64             `json:"effectiveDilution" yaml:"effective_dilution"`
	RunwayMonths        int                 `json:"runwayMonths" yaml:"runway_months"`
	UnlimitedRunway     bool                `json:"unlimitedRunway" yaml:"unlimited_runway"`
	RunwayRisk          entities.RunwayRisk `json:"runwayRiskLevel" yaml:"runway_risk_level"`
	FounderOwnership    float64             `json:"founderOwnership" yaml:"founder_ownership"`
	InvestorOwnership   float64             `json:"investorOwnership" yaml:"investor_ownership"`
	DilutionPer100k     float64             `json:"dilutionPer100k" yaml:"dilution_per_100k"`
	RunwayMonthsPer100k float64             `json:"runwayMonthsPer100k" yaml:"runway_months_per_100k"`
}

// CalculateRaiseScenario evaluates one raise. SAFE and convertible debt with
// a discount carry extra dilution proportional to the discount; the cap and
// interest terms are carried on the input but do not change the dilution.
func CalculateRaiseScenario(input Input) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	dilution, err := CalculateDilution(input.RaiseAmount, input.PreMoneyValuation)
	if err != nil {
		return Result{}, err
	}

	effective := dilution.DilutionPercent
	if input.Instrument.HasDiscountTerms() && input.Terms.DiscountRate > 0 {
		effective *= 1 + input.Terms.DiscountRate*discountWeight
	}
	if effective > 1 {
		effective = 1
	}

	months, unlimited, err := CalculateRunway(input.CurrentCash, input.RaiseAmount, input.MonthlyBurn)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		Input:              input,
		PostMoneyValuation: dilution.PostMoneyValuation,
		DilutionPercent:    money.Round(dilution.DilutionPercent, 4),
		EffectiveDilution:  money.Round(effective, 4),
		RunwayMonths:       months,
		UnlimitedRunway:    unlimited,
		RunwayRisk:         RunwayRiskFor(months, unlimited),
		FounderOwnership:   money.Round(input.FounderOwnership*(1-effective), 4),
		InvestorOwnership:  money.Round(effective, 4),
	}

	if input.RaiseAmount > 0 {
		units := input.RaiseAmount / per100k
		result.DilutionPer100k = money.Round(effective/units, 4)
		if !unlimited {
			result.RunwayMonthsPer100k = money.Round(float64(months)/units, 2)
		}
	}

	return result, nil
}
