package dto

import (
	"time"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

// ScenarioReport is every projection for one named scenario
type ScenarioReport struct {
	Scenario        string                        `json:"scenario" yaml:"scenario"`
	Tier            entities.Scenario             `json:"tier" yaml:"tier"`
	Years           int                           `json:"years" yaml:"years"`
	AnnualUnits     int                           `json:"annualUnits" yaml:"annual_units"`
	UnitCost        costing.CostCalculationResult `json:"unitCost" yaml:"unit_cost"`
	COGS            []cogs.YearBreakdown          `json:"cogs" yaml:"cogs"`
	InventoryPolicy inventory.Policy              `json:"inventoryPolicy" yaml:"inventory_policy"`
	Inventory       inventory.TimelineSummary     `json:"inventory" yaml:"inventory"`
	Revenue         []revenue.YearRevenue         `json:"revenue" yaml:"revenue"`
	Tooling         revenue.ToolingProjection     `json:"tooling" yaml:"tooling"`
	Deposit         deposit.Result                `json:"deposit" yaml:"deposit"`
	Raise           raise.Matrix                  `json:"raise" yaml:"raise"`
	Summary         ScenarioSummary               `json:"summary" yaml:"summary"`
	GeneratedAt     time.Time                     `json:"generatedAt" yaml:"generated_at"`
}

// ScenarioSummary holds the headline figures across the horizon
type ScenarioSummary struct {
	TotalUnits         int     `json:"totalUnits" yaml:"total_units"`
	TotalNetRevenue    float64 `json:"totalNetRevenue" yaml:"total_net_revenue"`
	TotalCOGS          float64 `json:"totalCogs" yaml:"total_cogs"`
	GrossProfit        float64 `json:"grossProfit" yaml:"gross_profit"`
	GrossMarginPercent float64 `json:"grossMarginPercent" yaml:"gross_margin_percent"`
	ToolingInvestment  float64 `json:"toolingInvestment" yaml:"tooling_investment"`
	PeakDepositCapital float64 `json:"peakDepositCapital" yaml:"peak_deposit_capital"`
	RecommendedRaise   float64 `json:"recommendedRaise" yaml:"recommended_raise"`
}

// ScenarioComparison holds reports in the order they were requested
type ScenarioComparison struct {
	Reports     []*ScenarioReport `json:"reports" yaml:"reports"`
	GeneratedAt time.Time         `json:"generatedAt" yaml:"generated_at"`
}
