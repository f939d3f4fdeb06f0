package inventory

import (
	"fmt"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

// TimelineEntry is the simulated state at the end of one day
type TimelineEntry struct {
	Day                   int     `json:"day" yaml:"day"`
	Month                 int     `json:"month" yaml:"month"`
	Year                  int     `json:"year" yaml:"year"`
	InventoryLevel        float64 `json:"inventoryLevel" yaml:"inventory_level"`
	ReorderEvent          bool    `json:"reorderEvent" yaml:"reorder_event"`
	OrderPlaced           int     `json:"orderPlaced" yaml:"order_placed"`
	OrderArrived          int     `json:"orderArrived" yaml:"order_arrived"`
	CashOutflow           float64 `json:"cashOutflow" yaml:"cash_outflow"`
	CumulativeCashOutflow float64 `json:"cumulativeCashOutflow" yaml:"cumulative_cash_outflow"`
}

// PendingOrder is a placed order that has not yet been received
type PendingOrder struct {
	OrderDate   int     `json:"orderDate" yaml:"order_date"`
	ArrivalDate int     `json:"arrivalDate" yaml:"arrival_date"`
	Units       int     `json:"units" yaml:"units"`
	Cost        float64 `json:"cost" yaml:"cost"`
}

// Policy holds the constants derived from a scenario and config
type Policy struct {
	AnnualUnits     int     `json:"annualUnits" yaml:"annual_units"`
	DailyRate       float64 `json:"dailyRate" yaml:"daily_rate"`
	ReorderPoint    int     `json:"reorderPoint" yaml:"reorder_point"`
	TargetInventory int     `json:"targetInventory" yaml:"target_inventory"`
}

// DerivePolicy computes the daily demand, reorder point and target level
func DerivePolicy(scenario entities.Scenario, config Config) Policy {
	annualUnits := scenario.AnnualUnits()
	dailyRate := float64(annualUnits) / DaysPerYear
	reorderPoint := CalculateReorderPoint(dailyRate, config.LeadTimeDays, config.SafetyDays)
	return Policy{
		AnnualUnits:     annualUnits,
		DailyRate:       dailyRate,
		ReorderPoint:    reorderPoint,
		TargetInventory: reorderPoint + config.MOQ,
	}
}

// ProjectTimeline simulates years*365 days of demand and replenishment for
// the named scenario. Unknown scenario names simulate the moderate tier.
func ProjectTimeline(scenarioName string, config Config, years int) ([]TimelineEntry, error) {
	return ProjectScenarioTimeline(entities.ParseScenario(scenarioName), config, years)
}

// ProjectScenarioTimeline simulates years*365 days for a scenario tier.
// Only one order is ever outstanding.
func ProjectScenarioTimeline(scenario entities.Scenario, config Config, years int) ([]TimelineEntry, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if years <= 0 || years > MaxYears {
		return nil, fmt.Errorf("%w: years must be between 1 and %d, got %d", ErrInvalidConfig, MaxYears, years)
	}

	policy := DerivePolicy(scenario, config)
	totalDays := years * DaysPerYear

	// Opening stock is bought up front but not logged as an order
	currentInventory := float64(policy.TargetInventory)
	cumulativeCashOutflow := money.Cents(float64(policy.TargetInventory) * config.UnitCost)

	var pending *PendingOrder
	timeline := make([]TimelineEntry, 0, totalDays)

	for day := 0; day < totalDays; day++ {
		entry := TimelineEntry{
			Day:   day + 1,
			Month: monthOfYear(day),
			Year:  day/DaysPerYear + 1,
		}

		// Step 1: receive the outstanding order
		if pending != nil && pending.ArrivalDate <= day {
			currentInventory += float64(pending.Units)
			entry.OrderArrived = pending.Units
			pending = nil
		}

		// Step 2: reorder when the effective position reaches the reorder point
		effectiveInventory := currentInventory
		if pending != nil {
			effectiveInventory += float64(pending.Units)
		}
		if pending == nil && effectiveInventory <= float64(policy.ReorderPoint) {
			units := CalculateOrderQuantity(float64(policy.TargetInventory), effectiveInventory, config.MOQ)
			if units > 0 {
				cost := money.Cents(float64(units) * config.UnitCost)
				pending = &PendingOrder{
					OrderDate:   day,
					ArrivalDate: day + config.LeadTimeDays,
					Units:       units,
					Cost:        cost,
				}
				entry.ReorderEvent = true
				entry.OrderPlaced = units
				entry.CashOutflow = cost
				cumulativeCashOutflow = money.Cents(cumulativeCashOutflow + cost)
			}
		}

		// Step 3: consume the day's demand
		currentInventory -= policy.DailyRate
		if currentInventory < 0 {
			currentInventory = 0
		}

		entry.InventoryLevel = money.Cents(currentInventory)
		entry.CumulativeCashOutflow = cumulativeCashOutflow
		timeline = append(timeline, entry)
	}

	return timeline, nil
}

// monthOfYear maps a zero-based simulation day to a 1-12 calendar month
func monthOfYear(day int) int {
	return (day%DaysPerYear)*MonthsPerYear/DaysPerYear + 1
}

// TimelineSummary aggregates a simulated timeline
type TimelineSummary struct {
	Days                  int     `json:"days" yaml:"days"`
	OrdersPlaced          int     `json:"ordersPlaced" yaml:"orders_placed"`
	UnitsOrdered          int     `json:"unitsOrdered" yaml:"units_ordered"`
	TotalCashOutflow      float64 `json:"totalCashOutflow" yaml:"total_cash_outflow"`
	MinInventoryLevel     float64 `json:"minInventoryLevel" yaml:"min_inventory_level"`
	AverageInventoryLevel float64 `json:"averageInventoryLevel" yaml:"average_inventory_level"`
	StockoutDays          int     `json:"stockoutDays" yaml:"stockout_days"`
}

// SummarizeTimeline reduces a timeline to its headline figures
func SummarizeTimeline(timeline []TimelineEntry) TimelineSummary {
	summary := TimelineSummary{Days: len(timeline)}
	if len(timeline) == 0 {
		return summary
	}

	summary.MinInventoryLevel = timeline[0].InventoryLevel
	levelSum := 0.0
	for _, entry := range timeline {
		if entry.ReorderEvent {
			summary.OrdersPlaced++
			summary.UnitsOrdered += entry.OrderPlaced
		}
		if entry.InventoryLevel < summary.MinInventoryLevel {
			summary.MinInventoryLevel = entry.InventoryLevel
		}
		if entry.InventoryLevel == 0 {
			summary.StockoutDays++
		}
		levelSum += entry.InventoryLevel
	}

	summary.TotalCashOutflow = timeline[len(timeline)-1].CumulativeCashOutflow
	summary.AverageInventoryLevel = money.Cents(levelSum / float64(len(timeline)))
	return summary
}
