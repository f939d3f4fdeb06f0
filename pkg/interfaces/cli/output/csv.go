package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

func renderCSV(w io.Writer, result interface{}) error {
	records, err := csvRecords(result)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func csvRecords(result interface{}) ([][]string, error) {
	switch r := result.(type) {
	case *dto.ScenarioReport:
		return reportRecords(r), nil
	case *dto.ScenarioComparison:
		return comparisonRecords(r), nil
	case []*entities.ScenarioAssumptions:
		return scenarioRecords(r), nil
	case *dto.CostCurve:
		return costRecords(r), nil
	case []cogs.YearBreakdown:
		return cogsRecords(r), nil
	case *dto.InventoryProjection:
		return inventoryRecords(r), nil
	case *dto.MarketingAnalysis:
		return marketingRecords(r), nil
	case deposit.Result:
		return depositRecords(r), nil
	case *dto.DepositSensitivity:
		return sensitivityRecords(r), nil
	case raise.Matrix:
		return raiseRecords(r), nil
	case revenue.ToolingProjection:
		return toolingRecords(r), nil
	default:
		return nil, fmt.Errorf("csv output not supported for %T", result)
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func reportRecords(r *dto.ScenarioReport) [][]string {
	records := [][]string{{"year", "units", "gross_revenue", "discounts", "net_revenue", "cogs", "tooling_amortization"}}
	for i, row := range r.Revenue {
		cogsTotal, amortization := 0.0, 0.0
		if i < len(r.COGS) {
			cogsTotal = r.COGS[i].Breakdown.TotalCost
		}
		if i < len(r.Tooling.Years) {
			amortization = r.Tooling.Years[i].Amortization
		}
		records = append(records, []string{
			strconv.Itoa(row.Year),
			strconv.Itoa(row.Units),
			num(row.GrossRevenue),
			num(row.Discounts),
			num(row.NetRevenue),
			num(cogsTotal),
			num(amortization),
		})
	}
	return records
}

func comparisonRecords(c *dto.ScenarioComparison) [][]string {
	records := [][]string{{
		"scenario", "tier", "total_units", "unit_cost", "total_net_revenue", "total_cogs",
		"gross_profit", "gross_margin_percent", "tooling_investment", "peak_deposit_capital", "recommended_raise",
	}}
	for _, r := range c.Reports {
		s := r.Summary
		records = append(records, []string{
			r.Scenario,
			r.Tier.String(),
			strconv.Itoa(s.TotalUnits),
			num(r.UnitCost.CostPerUnit),
			num(s.TotalNetRevenue),
			num(s.TotalCOGS),
			num(s.GrossProfit),
			num(s.GrossMarginPercent),
			num(s.ToolingInvestment),
			num(s.PeakDepositCapital),
			num(s.RecommendedRaise),
		})
	}
	return records
}

func scenarioRecords(scenarios []*entities.ScenarioAssumptions) [][]string {
	records := [][]string{{"name", "tier", "years", "unit_price", "discount_rate", "annual_growth_rate"}}
	for _, s := range scenarios {
		records = append(records, []string{
			s.Name,
			s.Tier().String(),
			strconv.Itoa(s.Years),
			num(s.UnitPrice),
			num(s.DiscountRate),
			num(s.AnnualGrowthRate),
		})
	}
	return records
}

func costRecords(c *dto.CostCurve) [][]string {
	records := [][]string{{"volume", "cost_per_unit", "total_cost", "at_floor"}}
	for _, r := range c.Results {
		records = append(records, []string{num(r.Volume), num(r.CostPerUnit), num(r.TotalCost), strconv.FormatBool(r.AtFloor)})
	}
	return records
}

func cogsRecords(years []cogs.YearBreakdown) [][]string {
	records := [][]string{{"year", "volume", "category", "per_unit", "total", "percentage"}}
	for _, year := range years {
		for _, item := range year.Breakdown.LineItems {
			records = append(records, []string{
				strconv.Itoa(year.Year),
				num(year.Breakdown.Volume),
				item.Category.String(),
				num(item.PerUnit),
				num(item.Total),
				strconv.FormatFloat(item.Percentage, 'f', 2, 64),
			})
		}
	}
	return records
}

func inventoryRecords(p *dto.InventoryProjection) [][]string {
	records := [][]string{{
		"day", "month", "year", "inventory_level", "reorder_event",
		"order_placed", "order_arrived", "cash_outflow", "cumulative_cash_outflow",
	}}
	for _, e := range p.Timeline {
		records = append(records, []string{
			strconv.Itoa(e.Day),
			strconv.Itoa(e.Month),
			strconv.Itoa(e.Year),
			num(e.InventoryLevel),
			strconv.FormatBool(e.ReorderEvent),
			strconv.Itoa(e.OrderPlaced),
			strconv.Itoa(e.OrderArrived),
			num(e.CashOutflow),
			num(e.CumulativeCashOutflow),
		})
	}
	return records
}

// marketingRecords relies on ChannelROAS being built in the same order as
// Channels
func marketingRecords(m *dto.MarketingAnalysis) [][]string {
	records := [][]string{{"period_id", "channel_id", "spend", "new_customers", "cac", "revenue", "roas"}}
	for i, c := range m.Channels {
		rev, roas := "", ""
		if i < len(m.ChannelROAS) {
			rev = num(m.ChannelROAS[i].Revenue)
			roas = num(m.ChannelROAS[i].ROAS)
		}
		records = append(records, []string{
			c.PeriodID,
			c.ChannelID,
			num(c.Spend),
			strconv.Itoa(c.NewCustomers),
			num(c.CAC),
			rev,
			roas,
		})
	}
	return records
}

func depositRecords(r deposit.Result) [][]string {
	records := [][]string{{
		"month", "label", "pre_orders", "units_produced", "units_delivered", "deposits_received",
		"balance_payments", "production_cost", "fulfillment_cost", "refunds", "net_cash_flow",
		"cumulative_cash_flow", "deposits_held",
	}}
	for _, m := range r.Timeline {
		records = append(records, []string{
			strconv.Itoa(m.Month),
			m.Label,
			strconv.Itoa(m.PreOrders),
			strconv.Itoa(m.UnitsProduced),
			strconv.Itoa(m.UnitsDelivered),
			num(m.DepositsReceived),
			num(m.BalancePayments),
			num(m.ProductionCost),
			num(m.FulfillmentCost),
			num(m.Refunds),
			num(m.NetCashFlow),
			num(m.CumulativeCashFlow),
			num(m.DepositsHeld),
		})
	}
	return records
}

func sensitivityRecords(s *dto.DepositSensitivity) [][]string {
	records := [][]string{{"deposit_amount", "percent_of_price", "peak_capital", "capital_reduction", "break_even_month", "final_cash_position"}}
	for _, row := range s.Table {
		breakEven := ""
		if row.BreakEvenMonth != nil {
			breakEven = strconv.Itoa(*row.BreakEvenMonth)
		}
		records = append(records, []string{
			num(row.DepositAmount),
			num(row.PercentOfPrice),
			num(row.PeakCapital),
			num(row.CapitalReduction),
			breakEven,
			num(row.FinalCashPosition),
		})
	}
	return records
}

func raiseRecords(m raise.Matrix) [][]string {
	records := [][]string{{
		"raise_amount", "post_money_valuation", "dilution", "effective_dilution", "runway_months",
		"runway_risk", "founder_ownership", "investor_ownership", "score", "recommended",
	}}
	for _, s := range m.Scenarios {
		runway := strconv.Itoa(s.RunwayMonths)
		if s.UnlimitedRunway {
			runway = "unlimited"
		}
		recommended := m.RecommendedScenario != nil && s.Input.RaiseAmount == m.RecommendedScenario.Input.RaiseAmount
		records = append(records, []string{
			num(s.Input.RaiseAmount),
			num(s.PostMoneyValuation),
			num(s.DilutionPercent),
			num(s.EffectiveDilution),
			runway,
			s.RunwayRisk.String(),
			num(s.FounderOwnership),
			num(s.InvestorOwnership),
			strconv.Itoa(s.Score),
			strconv.FormatBool(recommended),
		})
	}
	return records
}

func toolingRecords(p revenue.ToolingProjection) [][]string {
	records := [][]string{{
		"year", "amortization", "retooling", "investment",
		"cumulative_investment", "cumulative_amortization", "amortization_per_unit",
	}}
	for _, y := range p.Years {
		records = append(records, []string{
			strconv.Itoa(y.Year),
			num(y.Amortization),
			strconv.FormatBool(y.Retooling),
			num(y.Investment),
			num(y.CumulativeInvestment),
			num(y.CumulativeAmortization),
			num(y.AmortizationPerUnit),
		})
	}
	return records
}
