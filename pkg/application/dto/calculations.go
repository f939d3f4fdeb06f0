package dto

import (
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
)

// CostRequest prices one or more volumes. Nil Points selects the default
// anchors.
type CostRequest struct {
	Volumes      []float64           `json:"volumes" yaml:"volumes"`
	Points       []costing.CostPoint `json:"points,omitempty" yaml:"points,omitempty"`
	MinCostFloor *float64            `json:"minCostFloor,omitempty" yaml:"min_cost_floor,omitempty"`
}

// CostCurve is the priced volumes plus the anchors and floor used
type CostCurve struct {
	Points  []costing.CostPoint             `json:"points" yaml:"points"`
	Floor   float64                         `json:"floor" yaml:"floor"`
	Results []costing.CostCalculationResult `json:"results" yaml:"results"`
}

// COGSRequest projects the breakdown for one volume per year
type COGSRequest struct {
	Volumes             []float64            `json:"volumes" yaml:"volumes"`
	Overrides           cogs.ConfigOverrides `json:"overrides" yaml:"overrides"`
	AnnualReductionRate *float64             `json:"annualReductionRate,omitempty" yaml:"annual_reduction_rate,omitempty"`
}

// InventoryRequest simulates a scenario tier. A nil Config uses the
// standard policy.
type InventoryRequest struct {
	Scenario        string            `json:"scenario" yaml:"scenario"`
	Config          *inventory.Config `json:"config,omitempty" yaml:"config,omitempty"`
	Years           int               `json:"years" yaml:"years"`
	IncludeTimeline bool              `json:"includeTimeline,omitempty" yaml:"include_timeline,omitempty"`
}

// InventoryProjection is a simulated policy and its outcome. Timeline is
// only filled when requested.
type InventoryProjection struct {
	Scenario string                    `json:"scenario" yaml:"scenario"`
	Config   inventory.Config          `json:"config" yaml:"config"`
	Policy   inventory.Policy          `json:"policy" yaml:"policy"`
	Summary  inventory.TimelineSummary `json:"summary" yaml:"summary"`
	Timeline []inventory.TimelineEntry `json:"timeline,omitempty" yaml:"timeline,omitempty"`
}

// DepositSensitivityRequest sweeps deposit amounts for a campaign. Empty
// Deposits uses the default sweep; MaxCapital enables the optimal search.
type DepositSensitivityRequest struct {
	Input      deposit.Input `json:"input" yaml:"input"`
	Deposits   []float64     `json:"deposits,omitempty" yaml:"deposits,omitempty"`
	MaxCapital *float64      `json:"maxCapital,omitempty" yaml:"max_capital,omitempty"`
}

// DepositSensitivity is the sweep plus the derived deposit levels
type DepositSensitivity struct {
	Table       []deposit.SensitivityRow   `json:"table" yaml:"table"`
	Optimal     *deposit.OptimalDeposit    `json:"optimal,omitempty" yaml:"optimal,omitempty"`
	SelfFunding deposit.SelfFundingDeposit `json:"selfFunding" yaml:"self_funding"`
}

// RaiseRequest evaluates a base raise at several amounts
type RaiseRequest struct {
	Base    raise.Input `json:"base" yaml:"base"`
	Amounts []float64   `json:"amounts,omitempty" yaml:"amounts,omitempty"`
}
