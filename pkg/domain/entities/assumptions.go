package entities

import (
	"errors"
	"fmt"
)

// ErrInvalidScenario is wrapped by every assumption validation failure
var ErrInvalidScenario = errors.New("invalid scenario")

// MaxScenarioYears bounds the projection horizon of a scenario
const MaxScenarioYears = 50

// CostPointAssumption is a stored volume → unit cost anchor
type CostPointAssumption struct {
	Volume      float64 `yaml:"volume" json:"volume"`
	CostPerUnit float64 `yaml:"cost_per_unit" json:"costPerUnit"`
}

// CostCurveAssumptions holds the unit-cost calibration for a scenario
type CostCurveAssumptions struct {
	Points       []CostPointAssumption `yaml:"points,omitempty" json:"points,omitempty"`
	MinCostFloor *float64              `yaml:"min_cost_floor,omitempty" json:"minCostFloor,omitempty"`
}

// COGSAssumptions overrides the default per-unit cost lines. Nil fields keep
// the defaults.
type COGSAssumptions struct {
	ManufacturingCost   *float64 `yaml:"manufacturing_cost,omitempty" json:"manufacturingCost,omitempty"`
	FreightCost         *float64 `yaml:"freight_cost,omitempty" json:"freightCost,omitempty"`
	PackagingCost       *float64 `yaml:"packaging_cost,omitempty" json:"packagingCost,omitempty"`
	DutiesCost          *float64 `yaml:"duties_cost,omitempty" json:"dutiesCost,omitempty"`
	AnnualReductionRate *float64 `yaml:"annual_reduction_rate,omitempty" json:"annualReductionRate,omitempty"`
}

// InventoryAssumptions configures the reorder simulation. A nil UnitCost is
// derived from the cost curve at the scenario's annual volume.
type InventoryAssumptions struct {
	MOQ          int      `yaml:"moq" json:"moq"`
	UnitCost     *float64 `yaml:"unit_cost,omitempty" json:"unitCost,omitempty"`
	LeadTimeDays int      `yaml:"lead_time_days" json:"leadTimeDays"`
	SafetyDays   int      `yaml:"safety_days" json:"safetyDays"`
}

// ToolingAssumptions configures tooling amortization
type ToolingAssumptions struct {
	Cost           float64 `yaml:"cost" json:"cost"`
	RetoolingYears int     `yaml:"retooling_years" json:"retoolingYears"`
}

// DepositAssumptions configures the pre-order deposit cash-flow model
type DepositAssumptions struct {
	Type                      DepositType `yaml:"type" json:"type"`
	Amount                    float64     `yaml:"amount" json:"amount"`
	ConversionRate            float64     `yaml:"conversion_rate" json:"conversionRate"`
	PreOrderCount             int         `yaml:"pre_order_count" json:"preOrderCount"`
	PreOrderStartMonth        int         `yaml:"pre_order_start_month" json:"preOrderStartMonth"`
	PreOrderDurationMonths    int         `yaml:"pre_order_duration_months" json:"preOrderDurationMonths"`
	ProductionStartMonth      int         `yaml:"production_start_month" json:"productionStartMonth"`
	FulfillmentStartMonth     int         `yaml:"fulfillment_start_month" json:"fulfillmentStartMonth"`
	FulfillmentDurationMonths int         `yaml:"fulfillment_duration_months" json:"fulfillmentDurationMonths"`
	UnitProductionCost        *float64    `yaml:"unit_production_cost,omitempty" json:"unitProductionCost,omitempty"`
	FulfillmentCostPerUnit    float64     `yaml:"fulfillment_cost_per_unit" json:"fulfillmentCostPerUnit"`
}

// RaiseAssumptions configures the capital-raise scenario matrix
type RaiseAssumptions struct {
	RaiseAmounts      []float64  `yaml:"raise_amounts,omitempty" json:"raiseAmounts,omitempty"`
	PreMoneyValuation float64    `yaml:"pre_money_valuation" json:"preMoneyValuation"`
	Instrument        Instrument `yaml:"instrument" json:"instrument"`
	DiscountRate      float64    `yaml:"discount_rate,omitempty" json:"discountRate,omitempty"`
	ValuationCap      float64    `yaml:"valuation_cap,omitempty" json:"valuationCap,omitempty"`
	InterestRate      float64    `yaml:"interest_rate,omitempty" json:"interestRate,omitempty"`
	CurrentCash       float64    `yaml:"current_cash" json:"currentCash"`
	MonthlyBurn       float64    `yaml:"monthly_burn" json:"monthlyBurn"`
	FounderOwnership  float64    `yaml:"founder_ownership" json:"founderOwnership"`
}

// ScenarioAssumptions is the full set of named inputs a caller stores for a
// planning scenario. Calculators never read it directly; the planning service
// maps it onto each calculator's input.
type ScenarioAssumptions struct {
	Name             string               `yaml:"name" json:"name"`
	VolumeTier       *Scenario            `yaml:"volume_tier,omitempty" json:"volumeTier,omitempty"`
	Years            int                  `yaml:"years" json:"years"`
	UnitPrice        float64              `yaml:"unit_price" json:"unitPrice"`
	DiscountRate     float64              `yaml:"discount_rate" json:"discountRate"`
	AnnualGrowthRate float64              `yaml:"annual_growth_rate" json:"annualGrowthRate"`
	CostCurve        CostCurveAssumptions `yaml:"cost_curve" json:"costCurve"`
	COGS             COGSAssumptions      `yaml:"cogs" json:"cogs"`
	Inventory        InventoryAssumptions `yaml:"inventory" json:"inventory"`
	Tooling          ToolingAssumptions   `yaml:"tooling" json:"tooling"`
	Deposit          DepositAssumptions   `yaml:"deposit" json:"deposit"`
	Raise            RaiseAssumptions     `yaml:"raise" json:"raise"`
}

// Tier returns the volume tier, defaulting to the tier named like the scenario
func (a ScenarioAssumptions) Tier() Scenario {
	if a.VolumeTier != nil {
		return *a.VolumeTier
	}
	return ParseScenario(a.Name)
}

// Validate checks the fields every projection depends on
func (a ScenarioAssumptions) Validate() error {
	if a.Name == "" {
		return fmt.Errorf("%w: scenario name cannot be empty", ErrInvalidScenario)
	}
	if a.Years <= 0 {
		return fmt.Errorf("%w: scenario %s: years must be positive, got %d", ErrInvalidScenario, a.Name, a.Years)
	}
	if a.Years > MaxScenarioYears {
		return fmt.Errorf("%w: scenario %s: years cannot exceed %d, got %d", ErrInvalidScenario, a.Name, MaxScenarioYears, a.Years)
	}
	if a.UnitPrice < 0 {
		return fmt.Errorf("%w: scenario %s: unit price cannot be negative, got %v", ErrInvalidScenario, a.Name, a.UnitPrice)
	}
	if a.DiscountRate < 0 || a.DiscountRate > 1 {
		return fmt.Errorf("%w: scenario %s: discount rate must be between 0 and 1, got %v", ErrInvalidScenario, a.Name, a.DiscountRate)
	}
	if a.Inventory.MOQ <= 0 {
		return fmt.Errorf("%w: scenario %s: inventory MOQ must be positive, got %d", ErrInvalidScenario, a.Name, a.Inventory.MOQ)
	}
	if a.Inventory.LeadTimeDays < 0 || a.Inventory.SafetyDays < 0 {
		return fmt.Errorf("%w: scenario %s: lead time and safety days cannot be negative", ErrInvalidScenario, a.Name)
	}
	if a.Tooling.Cost < 0 || a.Tooling.RetoolingYears <= 0 {
		return fmt.Errorf("%w: scenario %s: tooling needs a non-negative cost and a positive retooling cycle", ErrInvalidScenario, a.Name)
	}
	if a.Deposit.PreOrderDurationMonths <= 0 || a.Deposit.FulfillmentDurationMonths <= 0 {
		return fmt.Errorf("%w: scenario %s: deposit pre-order and fulfillment durations must be positive", ErrInvalidScenario, a.Name)
	}
	if a.Raise.PreMoneyValuation <= 0 {
		return fmt.Errorf("%w: scenario %s: raise pre-money valuation must be positive, got %v", ErrInvalidScenario, a.Name, a.Raise.PreMoneyValuation)
	}
	return nil
}

// DefaultScenarioAssumptions returns the stock planning inputs for a tier
func DefaultScenarioAssumptions(tier Scenario) ScenarioAssumptions {
	return ScenarioAssumptions{
		Name:             tier.String(),
		Years:            3,
		UnitPrice:        299,
		DiscountRate:     0.1,
		AnnualGrowthRate: 0.15,
		Inventory: InventoryAssumptions{
			MOQ:          1000,
			LeadTimeDays: 90,
			SafetyDays:   30,
		},
		Tooling: ToolingAssumptions{
			Cost:           150000,
			RetoolingYears: 3,
		},
		Deposit: DepositAssumptions{
			Type:                      FixedDeposit,
			Amount:                    100,
			ConversionRate:            0.9,
			PreOrderCount:             tier.AnnualUnits() / 5,
			PreOrderStartMonth:        0,
			PreOrderDurationMonths:    3,
			ProductionStartMonth:      2,
			FulfillmentStartMonth:     5,
			FulfillmentDurationMonths: 2,
			FulfillmentCostPerUnit:    12,
		},
		Raise: RaiseAssumptions{
			PreMoneyValuation: 4000000,
			Instrument:        SAFE,
			DiscountRate:      0.2,
			ValuationCap:      6000000,
			CurrentCash:       150000,
			MonthlyBurn:       45000,
			FounderOwnership:  0.85,
		},
	}
}
