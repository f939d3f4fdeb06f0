// Package deposit projects month-by-month cash flow for a pre-order campaign
// that collects deposits up front, produces, then ships and collects balances.
package deposit

import (
	"errors"
	"fmt"
	"math"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

// bufferMonths is appended after the last active month of the campaign
const bufferMonths = 2

// MaxMonthOffset bounds every month offset and duration (50 years)
const MaxMonthOffset = 600

// ErrInvalidInput is wrapped by every input validation failure
var ErrInvalidInput = errors.New("invalid deposit impact input")

// Input describes a pre-order campaign. Month offsets are zero-based.
type Input struct {
	DepositType               entities.DepositType `json:"depositType" yaml:"deposit_type"`
	DepositAmount             float64              `json:"depositAmount" yaml:"deposit_amount"`
	ConversionRate            float64              `json:"conversionRate" yaml:"conversion_rate"`
	PreOrderCount             int                  `json:"preOrderCount" yaml:"pre_order_count"`
	PreOrderStartMonth        int                  `json:"preOrderStartMonth" yaml:"pre_order_start_month"`
	PreOrderDurationMonths    int                  `json:"preOrderDurationMonths" yaml:"pre_order_duration_months"`
	ProductionStartMonth      int                  `json:"productionStartMonth" yaml:"production_start_month"`
	FulfillmentStartMonth     int                  `json:"fulfillmentStartMonth" yaml:"fulfillment_start_month"`
	FulfillmentDurationMonths int                  `json:"fulfillmentDurationMonths" yaml:"fulfillment_duration_months"`
	UnitProductionCost        float64              `json:"unitProductionCost" yaml:"unit_production_cost"`
	FulfillmentCostPerUnit    float64              `json:"fulfillmentCostPerUnit" yaml:"fulfillment_cost_per_unit"`
	FullPrice                 float64              `json:"fullPrice" yaml:"full_price"`
}

// DefaultInput returns a representative 2,000 unit pre-order campaign
func DefaultInput() Input {
	return Input{
		DepositType:               entities.FixedDeposit,
		DepositAmount:             100,
		ConversionRate:            0.9,
		PreOrderCount:             2000,
		PreOrderStartMonth:        0,
		PreOrderDurationMonths:    3,
		ProductionStartMonth:      2,
		FulfillmentStartMonth:     5,
		FulfillmentDurationMonths: 2,
		UnitProductionCost:        96,
		FulfillmentCostPerUnit:    12,
		FullPrice:                 299,
	}
}

// EffectiveDeposit returns the dollar deposit per pre-order
func (in Input) EffectiveDeposit() float64 {
	switch in.DepositType {
	case entities.PercentageDeposit:
		return money.Cents(in.FullPrice * in.DepositAmount)
	case entities.FixedDeposit:
		return in.DepositAmount
	default:
		return in.DepositAmount
	}
}

// WithDeposit returns a copy of the input with a fixed dollar deposit
func (in Input) WithDeposit(amount float64) Input {
	in.DepositType = entities.FixedDeposit
	in.DepositAmount = amount
	return in
}

// Validate checks the campaign parameters
func (in Input) Validate() error {
	for _, v := range []float64{in.DepositAmount, in.ConversionRate, in.FullPrice, in.UnitProductionCost, in.FulfillmentCostPerUnit} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: amounts and rates must be finite, got %v", ErrInvalidInput, v)
		}
	}
	if in.DepositAmount < 0 {
		return fmt.Errorf("%w: deposit amount cannot be negative, got %v", ErrInvalidInput, in.DepositAmount)
	}
	if in.FullPrice < 0 || in.UnitProductionCost < 0 || in.FulfillmentCostPerUnit < 0 {
		return fmt.Errorf("%w: prices and costs cannot be negative", ErrInvalidInput)
	}
	if in.DepositType == entities.PercentageDeposit && in.DepositAmount > 1 {
		return fmt.Errorf("%w: percentage deposit must be between 0 and 1, got %v", ErrInvalidInput, in.DepositAmount)
	}
	if deposit := in.EffectiveDeposit(); deposit > in.FullPrice {
		return fmt.Errorf("%w: deposit %v exceeds full price %v", ErrInvalidInput, deposit, in.FullPrice)
	}
	if in.ConversionRate < 0 || in.ConversionRate > 1 {
		return fmt.Errorf("%w: conversion rate must be between 0 and 1, got %v", ErrInvalidInput, in.ConversionRate)
	}
	if in.PreOrderCount < 0 {
		return fmt.Errorf("%w: pre-order count cannot be negative, got %d", ErrInvalidInput, in.PreOrderCount)
	}
	if in.PreOrderStartMonth < 0 || in.ProductionStartMonth < 0 || in.FulfillmentStartMonth < 0 {
		return fmt.Errorf("%w: month offsets cannot be negative", ErrInvalidInput)
	}
	if in.PreOrderDurationMonths <= 0 || in.FulfillmentDurationMonths <= 0 {
		return fmt.Errorf("%w: pre-order and fulfillment durations must be positive", ErrInvalidInput)
	}
	for _, months := range []int{in.PreOrderStartMonth, in.PreOrderDurationMonths, in.ProductionStartMonth, in.FulfillmentStartMonth, in.FulfillmentDurationMonths} {
		if months > MaxMonthOffset {
			return fmt.Errorf("%w: month offsets and durations cannot exceed %d, got %d", ErrInvalidInput, MaxMonthOffset, months)
		}
	}
	if in.ProductionStartMonth > in.FulfillmentStartMonth {
		return fmt.Errorf("%w: production must start by fulfillment month %d, got %d",
			ErrInvalidInput, in.FulfillmentStartMonth, in.ProductionStartMonth)
	}
	return nil
}

// TimelineMonths returns the number of simulated months including the buffer
func (in Input) TimelineMonths() int {
	preOrderEnd := in.PreOrderStartMonth + in.PreOrderDurationMonths
	fulfillmentEnd := in.FulfillmentStartMonth + in.FulfillmentDurationMonths
	if preOrderEnd > fulfillmentEnd {
		return preOrderEnd + bufferMonths
	}
	return fulfillmentEnd + bufferMonths
}

// ConvertedUnits returns the pre-orders that complete their purchase
func (in Input) ConvertedUnits() int {
	return int(math.Round(float64(in.PreOrderCount) * in.ConversionRate))
}

// MonthlyCashFlow is one month of the campaign's cash movements
type MonthlyCashFlow struct {
	Month              int     `json:"month" yaml:"month"`
	Label              string  `json:"label" yaml:"label"`
	PreOrders          int     `json:"preOrders" yaml:"pre_orders"`
	UnitsProduced      int     `json:"unitsProduced" yaml:"units_produced"`
	UnitsDelivered     int     `json:"unitsDelivered" yaml:"units_delivered"`
	DepositsReceived   float64 `json:"depositsReceived" yaml:"deposits_received"`
	BalancePayments    float64 `json:"balancePayments" yaml:"balance_payments"`
	TotalInflows       float64 `json:"totalInflows" yaml:"total_inflows"`
	ProductionCost     float64 `json:"productionCost" yaml:"production_cost"`
	FulfillmentCost    float64 `json:"fulfillmentCost" yaml:"fulfillment_cost"`
	Refunds            float64 `json:"refunds" yaml:"refunds"`
	TotalOutflows      float64 `json:"totalOutflows" yaml:"total_outflows"`
	NetCashFlow        float64 `json:"netCashFlow" yaml:"net_cash_flow"`
	CumulativeCashFlow float64 `json:"cumulativeCashFlow" yaml:"cumulative_cash_flow"`
	DepositsHeld       float64 `json:"depositsHeld" yaml:"deposits_held"`
}

// Result is the full projection and its headline metrics
type Result struct {
	Input                      Input             `json:"input" yaml:"input"`
	Timeline                   []MonthlyCashFlow `json:"timeline" yaml:"timeline"`
	ConvertedUnits             int               `json:"convertedUnits" yaml:"converted_units"`
	CancelledOrders            int               `json:"cancelledOrders" yaml:"cancelled_orders"`
	TotalDepositsCollected     float64           `json:"totalDepositsCollected" yaml:"total_deposits_collected"`
	TotalRefunds               float64           `json:"totalRefunds" yaml:"total_refunds"`
	FinalCashPosition          float64           `json:"finalCashPosition" yaml:"final_cash_position"`
	PeakCapitalWithDeposits    float64           `json:"peakCapitalWithDeposits" yaml:"peak_capital_with_deposits"`
	PeakCapitalWithoutDeposits float64           `json:"peakCapitalWithoutDeposits" yaml:"peak_capital_without_deposits"`
	CapitalReduction           float64           `json:"capitalReduction" yaml:"capital_reduction"`
	BreakEvenMonth             *int              `json:"breakEvenMonth" yaml:"break_even_month"`
}

// Distribute spreads total evenly over months, giving any remainder to the
// earliest months
func Distribute(total, months int) []int {
	if months <= 0 {
		return nil
	}
	out := make([]int, months)
	base := total / months
	remainder := total % months
	for i := range out {
		out[i] = base
		if i < remainder {
			out[i]++
		}
	}
	return out
}

// spread places a distribution onto a timeline starting at offset
func spread(timeline []int, total, start, months int) {
	for i, qty := range Distribute(total, months) {
		if m := start + i; m < len(timeline) {
			timeline[m] += qty
		}
	}
}

// CalculateImpact runs the month-by-month simulation
func CalculateImpact(input Input) (Result, error) {
	if err := input.Validate(); err != nil {
		return Result{}, err
	}

	months := input.TimelineMonths()
	deposit := input.EffectiveDeposit()
	balanceDue := input.FullPrice - deposit
	converted := input.ConvertedUnits()
	cancelled := input.PreOrderCount - converted

	preOrders := make([]int, months)
	produced := make([]int, months)
	delivered := make([]int, months)

	spread(preOrders, input.PreOrderCount, input.PreOrderStartMonth, input.PreOrderDurationMonths)

	// Production runs up to fulfillment; a zero-length window builds everything at once
	productionMonths := input.FulfillmentStartMonth - input.ProductionStartMonth
	if productionMonths <= 0 {
		productionMonths = 1
	}
	spread(produced, converted, input.ProductionStartMonth, productionMonths)
	spread(delivered, converted, input.FulfillmentStartMonth, input.FulfillmentDurationMonths)

	result := Result{
		Input:           input,
		Timeline:        make([]MonthlyCashFlow, 0, months),
		ConvertedUnits:  converted,
		CancelledOrders: cancelled,
	}

	cumulative := 0.0
	depositsHeld := 0.0
	totalProduction, totalFulfillment := 0.0, 0.0

	for m := 0; m < months; m++ {
		row := MonthlyCashFlow{
			Month:          m,
			Label:          fmt.Sprintf("Month %d", m+1),
			PreOrders:      preOrders[m],
			UnitsProduced:  produced[m],
			UnitsDelivered: delivered[m],
		}

		row.DepositsReceived = money.Cents(float64(preOrders[m]) * deposit)
		row.BalancePayments = money.Cents(float64(delivered[m]) * balanceDue)
		row.ProductionCost = money.Cents(float64(produced[m]) * input.UnitProductionCost)
		row.FulfillmentCost = money.Cents(float64(delivered[m]) * input.FulfillmentCostPerUnit)
		if m == input.FulfillmentStartMonth {
			row.Refunds = money.Cents(float64(cancelled) * deposit)
		}

		row.TotalInflows = money.Sum(row.DepositsReceived, row.BalancePayments)
		row.TotalOutflows = money.Sum(row.ProductionCost, row.FulfillmentCost, row.Refunds)
		row.NetCashFlow = money.Sum(row.TotalInflows, -row.TotalOutflows)
		cumulative = money.Sum(cumulative, row.NetCashFlow)
		row.CumulativeCashFlow = cumulative

		// Deposits are a liability until the unit ships or the order is refunded
		depositsHeld += row.DepositsReceived
		if m >= input.FulfillmentStartMonth {
			depositsHeld -= float64(delivered[m]) * deposit
		}
		depositsHeld -= row.Refunds
		if depositsHeld < 0 {
			depositsHeld = 0
		}
		depositsHeld = money.Cents(depositsHeld)
		row.DepositsHeld = depositsHeld

		result.TotalDepositsCollected += row.DepositsReceived
		result.TotalRefunds += row.Refunds
		totalProduction += row.ProductionCost
		totalFulfillment += row.FulfillmentCost

		result.Timeline = append(result.Timeline, row)
	}

	result.TotalDepositsCollected = money.Cents(result.TotalDepositsCollected)
	result.TotalRefunds = money.Cents(result.TotalRefunds)
	result.FinalCashPosition = cumulative
	result.PeakCapitalWithDeposits = peakCapital(result.Timeline)
	result.PeakCapitalWithoutDeposits = money.Sum(totalProduction, totalFulfillment, result.TotalRefunds)
	result.CapitalReduction = money.Sum(result.PeakCapitalWithoutDeposits, -result.PeakCapitalWithDeposits)
	result.BreakEvenMonth = breakEvenMonth(result.Timeline)

	return result, nil
}

// peakCapital is the depth of the lowest cumulative cash point, zero when
// cash never goes negative
func peakCapital(timeline []MonthlyCashFlow) float64 {
	lowest := 0.0
	for _, row := range timeline {
		if row.CumulativeCashFlow < lowest {
			lowest = row.CumulativeCashFlow
		}
	}
	return money.Cents(math.Abs(lowest))
}

// breakEvenMonth returns the first month cumulative cash recovers to zero or
// above after having been negative
func breakEvenMonth(timeline []MonthlyCashFlow) *int {
	wasNegative := false
	for _, row := range timeline {
		if row.CumulativeCashFlow < 0 {
			wasNegative = true
			continue
		}
		if wasNegative {
			month := row.Month
			return &month
		}
	}
	return nil
}
