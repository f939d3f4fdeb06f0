package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

// textWriter collects the first write error so renderers can print freely
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) printf(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (t *textWriter) heading(title string) {
	t.printf("%s\n%s\n\n", title, strings.Repeat("=", len([]rune(title))))
}

func renderText(w io.Writer, result interface{}) error {
	t := &textWriter{w: w}
	switch r := result.(type) {
	case *dto.ScenarioReport:
		textReport(t, r)
	case *dto.ScenarioComparison:
		textComparison(t, r)
	case []*entities.ScenarioAssumptions:
		textScenarios(t, r)
	case *dto.CostCurve:
		textCostCurve(t, r)
	case []cogs.YearBreakdown:
		textCOGS(t, r)
	case *dto.InventoryProjection:
		textInventory(t, r)
	case *dto.MarketingAnalysis:
		textMarketing(t, r)
	case deposit.Result:
		textDeposit(t, r)
	case *dto.DepositSensitivity:
		textSensitivity(t, r)
	case raise.Matrix:
		textRaise(t, r)
	case revenue.ToolingProjection:
		textTooling(t, r)
	default:
		return fmt.Errorf("text output not supported for %T", result)
	}
	return t.err
}

func textReport(t *textWriter, r *dto.ScenarioReport) {
	t.heading(fmt.Sprintf("📊 Scenario Report: %s", r.Scenario))

	t.printf("Tier: %s (%d units/year)\n", r.Tier, r.AnnualUnits)
	t.printf("Horizon: %d years\n", r.Years)
	t.printf("Unit Cost: $%.2f", r.UnitCost.CostPerUnit)
	if r.UnitCost.AtFloor {
		t.printf(" (at floor)")
	}
	t.printf("\n\n")

	s := r.Summary
	t.printf("Total Units:        %d\n", s.TotalUnits)
	t.printf("Net Revenue:        $%.2f\n", s.TotalNetRevenue)
	t.printf("COGS:               $%.2f\n", s.TotalCOGS)
	t.printf("Gross Profit:       $%.2f (%.1f%%)\n", s.GrossProfit, s.GrossMarginPercent)
	t.printf("Tooling Investment: $%.2f\n", s.ToolingInvestment)
	t.printf("Peak Deposit Need:  $%.2f\n", s.PeakDepositCapital)
	t.printf("Recommended Raise:  %s\n\n", raise.FormatAmount(s.RecommendedRaise))

	t.printf("📈 Revenue:\n")
	textRevenueRows(t, r.Revenue)

	t.printf("📦 Inventory:\n")
	t.printf("  Reorder point %d, target %d, %d orders, %d stockout days, $%.2f cash out\n\n",
		r.InventoryPolicy.ReorderPoint, r.InventoryPolicy.TargetInventory,
		r.Inventory.OrdersPlaced, r.Inventory.StockoutDays, r.Inventory.TotalCashOutflow)

	t.printf("💰 Raise:\n")
	if r.Raise.Reason != "" {
		t.printf("  %s\n", r.Raise.Reason)
	}
	t.printf("\n")
}

func textRevenueRows(t *textWriter, rows []revenue.YearRevenue) {
	t.printf("%-6s %-10s %-15s %-15s %-15s\n", "Year", "Units", "Gross", "Discounts", "Net")
	t.printf("%-6s %-10s %-15s %-15s %-15s\n", "------", "----------", "---------------", "---------------", "---------------")
	for _, row := range rows {
		t.printf("%-6d %-10d %-15.2f %-15.2f %-15.2f\n", row.Year, row.Units, row.GrossRevenue, row.Discounts, row.NetRevenue)
	}
	t.printf("\n")
}

func textComparison(t *textWriter, c *dto.ScenarioComparison) {
	t.heading("📊 Scenario Comparison")
	t.printf("%-15s %-10s %-10s %-15s %-15s %-8s %-12s\n",
		"Scenario", "Units", "Unit Cost", "Net Revenue", "Gross Profit", "Margin", "Raise")
	t.printf("%-15s %-10s %-10s %-15s %-15s %-8s %-12s\n",
		"---------------", "----------", "----------", "---------------", "---------------", "--------", "------------")
	for _, r := range c.Reports {
		t.printf("%-15s %-10d %-10.2f %-15.2f %-15.2f %-8s %-12s\n",
			r.Scenario,
			r.Summary.TotalUnits,
			r.UnitCost.CostPerUnit,
			r.Summary.TotalNetRevenue,
			r.Summary.GrossProfit,
			fmt.Sprintf("%.1f%%", r.Summary.GrossMarginPercent),
			raise.FormatAmount(r.Summary.RecommendedRaise))
	}
	t.printf("\n")
}

func textScenarios(t *textWriter, scenarios []*entities.ScenarioAssumptions) {
	t.heading("📋 Scenarios")
	t.printf("%-15s %-14s %-6s %-10s\n", "Name", "Tier", "Years", "Price")
	for _, s := range scenarios {
		t.printf("%-15s %-14s %-6d %-10.2f\n", s.Name, s.Tier(), s.Years, s.UnitPrice)
	}
	t.printf("\n")
}

func textCostCurve(t *textWriter, c *dto.CostCurve) {
	t.heading("🏭 Unit Cost")
	t.printf("Floor: $%.2f over %d anchors\n\n", c.Floor, len(c.Points))
	t.printf("%-12s %-12s %-15s %-8s\n", "Volume", "Per Unit", "Total", "Floor")
	for _, r := range c.Results {
		t.printf("%-12.0f %-12.2f %-15.2f %-8t\n", r.Volume, r.CostPerUnit, r.TotalCost, r.AtFloor)
	}
	t.printf("\n")
}

func textCOGS(t *textWriter, years []cogs.YearBreakdown) {
	t.heading("🧾 COGS Breakdown")
	for _, year := range years {
		b := year.Breakdown
		t.printf("Year %d: %.0f units, $%.2f/unit, $%.2f total\n", year.Year, b.Volume, b.TotalPerUnit, b.TotalCost)
		for _, item := range b.LineItems {
			t.printf("  %-14s %10.2f %14.2f %6.1f%%\n", item.Label, item.PerUnit, item.Total, item.Percentage)
		}
		t.printf("\n")
	}
}

func textInventory(t *textWriter, p *dto.InventoryProjection) {
	t.heading(fmt.Sprintf("📦 Inventory: %s", p.Scenario))
	t.printf("Daily Demand:     %.2f\n", p.Policy.DailyRate)
	t.printf("Reorder Point:    %d\n", p.Policy.ReorderPoint)
	t.printf("Target Inventory: %d\n", p.Policy.TargetInventory)
	t.printf("MOQ:              %d\n\n", p.Config.MOQ)

	s := p.Summary
	t.printf("Days Simulated:   %d\n", s.Days)
	t.printf("Orders Placed:    %d (%d units)\n", s.OrdersPlaced, s.UnitsOrdered)
	t.printf("Cash Outflow:     $%.2f\n", s.TotalCashOutflow)
	t.printf("Min / Avg Level:  %.2f / %.2f\n", s.MinInventoryLevel, s.AverageInventoryLevel)
	t.printf("Stockout Days:    %d\n\n", s.StockoutDays)

	if len(p.Timeline) > 0 {
		t.printf("%-6s %-6s %-12s %-10s %-10s %-15s\n", "Day", "Month", "Level", "Ordered", "Arrived", "Cumulative $")
		for _, e := range p.Timeline {
			if !e.ReorderEvent && e.OrderArrived == 0 {
				continue
			}
			t.printf("%-6d %-6d %-12.2f %-10d %-10d %-15.2f\n",
				e.Day, e.Month, e.InventoryLevel, e.OrderPlaced, e.OrderArrived, e.CumulativeCashOutflow)
		}
		t.printf("\n")
	}
}

func textMarketing(t *textWriter, m *dto.MarketingAnalysis) {
	t.heading("📣 Marketing CAC")
	t.printf("%-10s %-12s %-10s %-10s %-10s\n", "Period", "Spend", "Customers", "CAC", "Change")
	for _, point := range m.Trend {
		t.printf("%-10s %-12.2f %-10d %-10.2f %-10s\n",
			point.PeriodID, point.TotalSpend, point.TotalCustomers, point.CAC, fmt.Sprintf("%.1f%%", point.ChangePercent))
	}
	t.printf("\n")

	t.printf("%-10s %-15s %-10s %-10s %-8s\n", "Period", "Channel", "CAC", "Target", "Score")
	for _, e := range m.Efficiency {
		t.printf("%-10s %-15s %-10.2f %-10.2f %-8.2f\n", e.PeriodID, e.ChannelID, e.CAC, e.Target, e.Score)
	}
	t.printf("\n")

	if len(m.Alerts) == 0 {
		t.printf("✅ No CAC alerts\n\n")
		return
	}
	t.printf("⚠️  Alerts:\n")
	for _, alert := range m.Alerts {
		t.printf("  [%s] %s\n", alert.Severity, alert.Message)
	}
	t.printf("\n")
}

func textDeposit(t *textWriter, r deposit.Result) {
	t.heading("🏦 Deposit Impact")
	t.printf("Deposit: $%.2f per pre-order, %d converted, %d cancelled\n",
		r.Input.EffectiveDeposit(), r.ConvertedUnits, r.CancelledOrders)
	t.printf("Peak Capital:  $%.2f with deposits, $%.2f without (saves $%.2f)\n",
		r.PeakCapitalWithDeposits, r.PeakCapitalWithoutDeposits, r.CapitalReduction)
	if r.BreakEvenMonth != nil {
		t.printf("Break-even:    month %d\n", *r.BreakEvenMonth+1)
	} else {
		t.printf("Break-even:    never negative\n")
	}
	t.printf("Final Cash:    $%.2f\n\n", r.FinalCashPosition)

	t.printf("%-9s %-10s %-10s %-12s %-12s %-12s %-14s\n",
		"Month", "PreOrders", "Produced", "Inflows", "Outflows", "Net", "Cumulative")
	for _, m := range r.Timeline {
		t.printf("%-9s %-10d %-10d %-12.2f %-12.2f %-12.2f %-14.2f\n",
			m.Label, m.PreOrders, m.UnitsProduced, m.TotalInflows, m.TotalOutflows, m.NetCashFlow, m.CumulativeCashFlow)
	}
	t.printf("\n")
}

func textSensitivity(t *textWriter, s *dto.DepositSensitivity) {
	t.heading("🏦 Deposit Sensitivity")
	t.printf("%-10s %-8s %-14s %-14s %-10s\n", "Deposit", "% Price", "Peak Capital", "Reduction", "Break-even")
	for _, row := range s.Table {
		breakEven := "-"
		if row.BreakEvenMonth != nil {
			breakEven = fmt.Sprintf("month %d", *row.BreakEvenMonth+1)
		}
		t.printf("%-10.2f %-8.1f %-14.2f %-14.2f %-10s\n",
			row.DepositAmount, row.PercentOfPrice, row.PeakCapital, row.CapitalReduction, breakEven)
	}
	t.printf("\n")

	if s.Optimal != nil {
		if s.Optimal.Feasible {
			t.printf("Optimal deposit: $%.2f keeps peak capital at $%.2f (limit $%.2f)\n",
				s.Optimal.DepositAmount, s.Optimal.PeakCapital, s.Optimal.MaxCapital)
		} else {
			t.printf("No deposit up to full price keeps peak capital under $%.2f\n", s.Optimal.MaxCapital)
		}
	}
	self := s.SelfFunding
	t.printf("Self-funding deposit: $%.2f (%.1f%% of price) covers $%.2f production", self.DepositAmount, self.PercentOfPrice, self.TotalProductionCost)
	if !self.Achievable {
		t.printf(" (not achievable)")
	}
	t.printf("\n\n")
}

func textRaise(t *textWriter, m raise.Matrix) {
	t.heading("💰 Raise Scenarios")
	t.printf("%-8s %-10s %-10s %-12s %-10s %-10s %-6s\n",
		"Raise", "Dilution", "Effective", "Runway", "Risk", "Founders", "Score")
	for _, s := range m.Scenarios {
		runway := fmt.Sprintf("%d mo", s.RunwayMonths)
		if s.UnlimitedRunway {
			runway = "unlimited"
		}
		marker := ""
		if m.RecommendedScenario != nil && s.Input.RaiseAmount == m.RecommendedScenario.Input.RaiseAmount {
			marker = " ⭐"
		}
		t.printf("%-8s %-10s %-10s %-12s %-10s %-10s %-6d%s\n",
			raise.FormatAmount(s.Input.RaiseAmount),
			percent(s.DilutionPercent),
			percent(s.EffectiveDilution),
			runway,
			s.RunwayRisk,
			percent(s.FounderOwnership),
			s.Score,
			marker)
	}
	t.printf("\n")
	if m.Reason != "" {
		t.printf("%s\n\n", m.Reason)
	}
}

func textTooling(t *textWriter, p revenue.ToolingProjection) {
	t.heading("🔧 Tooling")
	t.printf("Cost $%.2f amortized over %d years ($%.2f/year)\n\n", p.ToolingCost, p.RetoolingYears, p.AnnualAmortization)
	t.printf("%-6s %-14s %-10s %-14s %-14s %-10s\n", "Year", "Amortization", "Retool", "Cum. Invest", "Cum. Amort", "Per Unit")
	for _, y := range p.Years {
		t.printf("%-6d %-14.2f %-10t %-14.2f %-14.2f %-10.2f\n",
			y.Year, y.Amortization, y.Retooling, y.CumulativeInvestment, y.CumulativeAmortization, y.AmortizationPerUnit)
	}
	t.printf("\nTotal investment $%.2f, total amortization $%.2f\n\n", p.TotalInvestment, p.TotalAmortization)
}

func percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}
