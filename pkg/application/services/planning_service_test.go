package services

import (
	"context"
	"errors"
	"testing"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/infrastructure/events"
	"github.com/sportsprod/erp/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/sportsprod/erp/pkg/infrastructure/testing"
	"github.com/sportsprod/erp/pkg/logging"
)

// Helper to create a planning service over the default scenarios
func newTestPlanningService() (*PlanningService, *events.InMemoryEventStore) {
	store := events.NewInMemoryEventStore(nil)
	service := NewPlanningService(
		memory.NewDefaultScenarioRepository(),
		store,
		logging.Discard(),
		WithClock(testhelpers.FixedClock),
		WithIDGenerator(testhelpers.SequentialIDs()),
		WithAlertTarget(testhelpers.MarketingTarget()),
	)
	return service, store
}

func TestPlanningService_BuildScenarioReport(t *testing.T) {
	service, store := newTestPlanningService()

	report, err := service.BuildScenarioReport(context.Background(), "moderate")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if report.AnnualUnits != 10000 {
		t.Errorf("Expected 10000 annual units, got %d", report.AnnualUnits)
	}
	if report.UnitCost.CostPerUnit != 82 || !report.UnitCost.AtFloor {
		t.Errorf("Expected floor cost 82 at 10000 units, got %+v", report.UnitCost)
	}
	if report.Deposit.Input.UnitProductionCost != 82 {
		t.Errorf("Expected deposit model to use interpolated cost, got %v", report.Deposit.Input.UnitProductionCost)
	}
	if report.Deposit.Input.FullPrice != 299 {
		t.Errorf("Expected deposit full price 299, got %v", report.Deposit.Input.FullPrice)
	}
	if len(report.COGS) != 3 || len(report.Revenue) != 3 || len(report.Tooling.Years) != 3 {
		t.Errorf("Expected 3 years of projections, got %d/%d/%d", len(report.COGS), len(report.Revenue), len(report.Tooling.Years))
	}
	if report.COGS[0].Breakdown.Volume != 10000 || report.COGS[1].Breakdown.Volume != 11500 {
		t.Errorf("Expected COGS volumes to follow revenue growth, got %v and %v",
			report.COGS[0].Breakdown.Volume, report.COGS[1].Breakdown.Volume)
	}
	if report.Tooling.Years[0].AmortizationPerUnit != 5 {
		t.Errorf("Expected $5 tooling per unit in year 1, got %v", report.Tooling.Years[0].AmortizationPerUnit)
	}
	if report.Inventory.Days != 3*365 {
		t.Errorf("Expected %d inventory days, got %d", 3*365, report.Inventory.Days)
	}
	if report.InventoryPolicy.ReorderPoint <= 0 {
		t.Errorf("Expected positive reorder point, got %d", report.InventoryPolicy.ReorderPoint)
	}
	if report.Summary.RecommendedRaise != 750000 {
		t.Errorf("Expected $750K recommended raise, got %v", report.Summary.RecommendedRaise)
	}
	if report.Summary.TotalUnits != 10000+11500+13225 {
		t.Errorf("Expected total units 34725, got %d", report.Summary.TotalUnits)
	}
	if report.Summary.GrossProfit != report.Summary.TotalNetRevenue-report.Summary.TotalCOGS {
		t.Errorf("Expected gross profit to reconcile, got %+v", report.Summary)
	}
	if !report.GeneratedAt.Equal(testhelpers.FixedTime) {
		t.Errorf("Expected fixed clock timestamp, got %v", report.GeneratedAt)
	}

	recorded, _ := store.ReadEvents("moderate", 1)
	if len(recorded) != 1 || recorded[0].Type() != events.ScenarioCalculatedEvent {
		t.Fatalf("Expected one scenario.calculated event, got %v", recorded)
	}
	payload := recorded[0].Data().(events.ScenarioCalculated)
	if payload.UnitCost != 82 || payload.RecommendedRaise != 750000 {
		t.Errorf("Unexpected event payload: %+v", payload)
	}
}

func TestPlanningService_BuildScenarioReport_Overrides(t *testing.T) {
	service, _ := newTestPlanningService()

	unitCost := 90.0
	floor := 75.0
	tier := entities.Conservative
	custom := entities.DefaultScenarioAssumptions(tier)
	custom.Name = "custom"
	custom.VolumeTier = &tier
	custom.Inventory.UnitCost = &unitCost
	custom.CostCurve = entities.CostCurveAssumptions{
		Points: []entities.CostPointAssumption{
			{Volume: 1000, CostPerUnit: 100},
			{Volume: 9000, CostPerUnit: 60},
		},
		MinCostFloor: &floor,
	}
	custom.Deposit.UnitProductionCost = &unitCost

	report, err := service.BuildReport(context.Background(), custom)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 5000 units sits halfway: 80, above the 75 floor
	if report.UnitCost.CostPerUnit != 80 || report.UnitCost.AtFloor {
		t.Errorf("Expected interpolated cost 80, got %+v", report.UnitCost)
	}
	if report.Deposit.Input.UnitProductionCost != 90 {
		t.Errorf("Expected deposit override 90, got %v", report.Deposit.Input.UnitProductionCost)
	}
	if report.Tier != entities.Conservative || report.AnnualUnits != 5000 {
		t.Errorf("Expected explicit conservative tier, got %s at %d units", report.Tier, report.AnnualUnits)
	}
}

func TestPlanningService_BuildScenarioReport_NotFound(t *testing.T) {
	service, _ := newTestPlanningService()

	_, err := service.BuildScenarioReport(context.Background(), "bullish")
	if !errors.Is(err, repositories.ErrScenarioNotFound) {
		t.Errorf("Expected ErrScenarioNotFound, got %v", err)
	}
}

func TestPlanningService_BuildScenarioReport_InvalidStep(t *testing.T) {
	service, _ := newTestPlanningService()

	broken := entities.DefaultScenarioAssumptions(entities.Moderate)
	broken.Tooling.RetoolingYears = 0

	_, err := service.BuildReport(context.Background(), broken)
	if !errors.Is(err, entities.ErrInvalidScenario) {
		t.Fatalf("Expected ErrInvalidScenario for a zero retooling cycle, got %v", err)
	}

	// Passes assumption validation but fails inside the deposit projection
	badDeposit := entities.DefaultScenarioAssumptions(entities.Moderate)
	badDeposit.Deposit.ConversionRate = 2

	_, err = service.BuildReport(context.Background(), badDeposit)
	if !errors.Is(err, deposit.ErrInvalidInput) {
		t.Errorf("Expected deposit.ErrInvalidInput, got %v", err)
	}
	if !IsValidationError(err) {
		t.Errorf("Expected step failure to count as a validation error, got %v", err)
	}
}

func TestPlanningService_BuildScenarioReport_Cancelled(t *testing.T) {
	service, _ := newTestPlanningService()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := service.BuildScenarioReport(ctx, "moderate"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPlanningService_CompareScenarios(t *testing.T) {
	service, store := newTestPlanningService()

	names := []string{"aggressive", "conservative", "moderate"}
	comparison, err := service.CompareScenarios(context.Background(), names)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(comparison.Reports) != len(names) {
		t.Fatalf("Expected %d reports, got %d", len(names), len(comparison.Reports))
	}
	for i, name := range names {
		if comparison.Reports[i].Scenario != name {
			t.Errorf("Expected report %d to be %s, got %s", i, name, comparison.Reports[i].Scenario)
		}
	}
	if comparison.Reports[0].AnnualUnits <= comparison.Reports[1].AnnualUnits {
		t.Error("Expected aggressive volume above conservative")
	}

	compared, _ := store.ReadEvents("comparisons", 1)
	if len(compared) != 1 {
		t.Errorf("Expected one comparison event, got %d", len(compared))
	}

	if _, err := service.CompareScenarios(context.Background(), []string{"moderate", "bullish"}); !errors.Is(err, repositories.ErrScenarioNotFound) {
		t.Errorf("Expected ErrScenarioNotFound, got %v", err)
	}
	if _, err := service.CompareScenarios(context.Background(), nil); err == nil {
		t.Error("Expected error for empty comparison")
	}
}

func TestPlanningService_AnalyzeMarketing(t *testing.T) {
	service, store := newTestPlanningService()
	alertLog := events.NewAlertLog(0)
	if _, err := store.Subscribe([]string{events.CACAlertRaisedEvent}, alertLog); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	analysis, err := service.AnalyzeMarketing(context.Background(), dto.MarketingRequest{
		Spend:       testhelpers.MarketingSpend(),
		Conversions: testhelpers.MarketingConversions(),
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(analysis.Periods) != 2 || analysis.Periods[0] != "2024-01" {
		t.Errorf("Expected sorted periods, got %v", analysis.Periods)
	}
	if len(analysis.Trend) != 2 {
		t.Errorf("Expected 2 trend points, got %d", len(analysis.Trend))
	}
	if len(analysis.Channels) != 5 {
		t.Errorf("Expected 5 channel-period results, got %d", len(analysis.Channels))
	}
	if len(analysis.Efficiency) != 4 {
		t.Errorf("Expected efficiency for the 4 channels with customers, got %d", len(analysis.Efficiency))
	}

	if len(analysis.Alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d", len(analysis.Alerts))
	}
	alert := analysis.Alerts[0]
	if alert.ChannelID != "email" || alert.PeriodID != "2024-02" || alert.Severity != entities.SeverityCritical {
		t.Errorf("Expected critical email alert in 2024-02, got %+v", alert)
	}
	if alert.ID != "alert-1" || !alert.CreatedAt.Equal(testhelpers.FixedTime) {
		t.Errorf("Expected injected id and clock, got %s at %v", alert.ID, alert.CreatedAt)
	}

	for _, roas := range analysis.ChannelROAS {
		if roas.ChannelID == "paid_social" && roas.PeriodID == "2024-02" && roas.ROAS != 3 {
			t.Errorf("Expected paid social ROAS 3, got %v", roas.ROAS)
		}
	}

	if got := alertLog.Alerts(); len(got) != 1 || got[0].ChannelID != "email" {
		t.Errorf("Expected the alert to be published, got %v", got)
	}
}

func TestPlanningService_AnalyzeMarketing_RequestTarget(t *testing.T) {
	service, _ := newTestPlanningService()

	target := testhelpers.MarketingTarget()
	target.GlobalTarget = 30
	target.ChannelTargets = nil

	analysis, err := service.AnalyzeMarketing(context.Background(), dto.MarketingRequest{
		Spend:       testhelpers.MarketingSpend(),
		Conversions: testhelpers.MarketingConversions(),
		Periods:     []string{"2024-02"},
		Target:      &target,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(analysis.Alerts) != 2 {
		t.Fatalf("Expected email and paid social over a $30 target, got %d alerts", len(analysis.Alerts))
	}
	for _, alert := range analysis.Alerts {
		if alert.Severity != entities.SeverityCritical || alert.PeriodID != "2024-02" {
			t.Errorf("Expected critical 2024-02 alert, got %+v", alert)
		}
	}
}

func TestPlanningService_AnalyzeMarketing_NoSpend(t *testing.T) {
	service, _ := newTestPlanningService()

	if _, err := service.AnalyzeMarketing(context.Background(), dto.MarketingRequest{}); !errors.Is(err, ErrNoMarketingData) {
		t.Errorf("Expected ErrNoMarketingData, got %v", err)
	}
}

func TestPlanningService_SaveScenario(t *testing.T) {
	service, store := newTestPlanningService()

	custom := entities.DefaultScenarioAssumptions(entities.Aggressive)
	custom.Name = "retail-push"
	if err := service.SaveScenario(context.Background(), &custom); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	all, _ := service.ListScenarios(context.Background())
	if len(all) != 4 {
		t.Errorf("Expected 4 scenarios, got %d", len(all))
	}
	saved, _ := store.ReadEvents("retail-push", 1)
	if len(saved) != 1 || saved[0].Type() != events.ScenarioSavedEvent {
		t.Errorf("Expected scenario.saved event, got %v", saved)
	}
}
