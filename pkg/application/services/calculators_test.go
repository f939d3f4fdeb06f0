package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

func TestPlanningService_PriceVolumes(t *testing.T) {
	service, _ := newTestPlanningService()

	curve, err := service.PriceVolumes(context.Background(), dto.CostRequest{Volumes: []float64{500, 3000, 10000}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []float64{96, 89, 82}
	for i, want := range expected {
		if curve.Results[i].CostPerUnit != want {
			t.Errorf("Expected cost %v at volume %v, got %v", want, curve.Results[i].Volume, curve.Results[i].CostPerUnit)
		}
	}
	if !curve.Results[2].AtFloor {
		t.Error("Expected volume above the last anchor to sit at the floor")
	}
	if curve.Floor != 82 || len(curve.Points) != 2 {
		t.Errorf("Expected default anchors with floor 82, got %d points and floor %v", len(curve.Points), curve.Floor)
	}
}

func TestPlanningService_PriceVolumes_Invalid(t *testing.T) {
	service, _ := newTestPlanningService()

	testCases := []struct {
		name     string
		req      dto.CostRequest
		sentinel error
	}{
		{"no_volumes", dto.CostRequest{}, ErrInvalidRequest},
		{"zero_volume", dto.CostRequest{Volumes: []float64{0}}, costing.ErrInvalidVolume},
		{"single_point", dto.CostRequest{
			Volumes: []float64{100},
			Points:  []costing.CostPoint{{Volume: 1000, CostPerUnit: 90}},
		}, costing.ErrInsufficientPoints},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.PriceVolumes(context.Background(), tc.req)
			if !errors.Is(err, tc.sentinel) {
				t.Errorf("Expected %v, got %v", tc.sentinel, err)
			}
			if !IsValidationError(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestPlanningService_ProjectCOGS(t *testing.T) {
	service, _ := newTestPlanningService()

	rate := 0.1
	years, err := service.ProjectCOGS(context.Background(), dto.COGSRequest{
		Volumes:             []float64{1000, 2000},
		AnnualReductionRate: &rate,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if years[0].Breakdown.TotalCost != 200000 {
		t.Errorf("Expected year 1 total 200000, got %v", years[0].Breakdown.TotalCost)
	}
	// 126 + 31.50 + 13.50 + 10 duties (never reduced)
	if years[1].Breakdown.TotalPerUnit != 181 || years[1].Breakdown.TotalCost != 362000 {
		t.Errorf("Expected year 2 at 181/unit and 362000, got %v and %v",
			years[1].Breakdown.TotalPerUnit, years[1].Breakdown.TotalCost)
	}

	bad := 1.0
	if _, err := service.ProjectCOGS(context.Background(), dto.COGSRequest{Volumes: []float64{1}, AnnualReductionRate: &bad}); !IsValidationError(err) {
		t.Errorf("Expected validation error for rate 1, got %v", err)
	}
}

func TestPlanningService_ProjectInventory(t *testing.T) {
	service, _ := newTestPlanningService()

	projection, err := service.ProjectInventory(context.Background(), dto.InventoryRequest{
		Scenario:        "conservative",
		Years:           1,
		IncludeTimeline: true,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if projection.Policy.ReorderPoint != 1644 || projection.Policy.TargetInventory != 2644 {
		t.Errorf("Expected reorder point 1644 and target 2644, got %+v", projection.Policy)
	}
	if len(projection.Timeline) != 365 || projection.Summary.Days != 365 {
		t.Errorf("Expected 365 days, got %d entries and %d summarized", len(projection.Timeline), projection.Summary.Days)
	}
	if projection.Config != inventory.DefaultConfig() {
		t.Errorf("Expected default config, got %+v", projection.Config)
	}

	bare, err := service.ProjectInventory(context.Background(), dto.InventoryRequest{Scenario: "unknown", Years: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if bare.Timeline != nil || bare.Scenario != "moderate" {
		t.Errorf("Expected moderate fallback without timeline, got %s with %d entries", bare.Scenario, len(bare.Timeline))
	}

	_, err = service.ProjectInventory(context.Background(), dto.InventoryRequest{Scenario: "moderate"})
	if !errors.Is(err, inventory.ErrInvalidConfig) || !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected invalid config request error, got %v", err)
	}
}

func TestPlanningService_DepositAnalysis(t *testing.T) {
	service, _ := newTestPlanningService()

	result, err := service.ProjectDeposit(context.Background(), deposit.DefaultInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(result.Timeline) != 9 || result.ConvertedUnits != 1800 {
		t.Errorf("Expected 9 months and 1800 converted units, got %d and %d", len(result.Timeline), result.ConvertedUnits)
	}

	maxCapital := 50000.0
	sensitivity, err := service.AnalyzeDepositSensitivity(context.Background(), dto.DepositSensitivityRequest{
		Input:      deposit.DefaultInput(),
		MaxCapital: &maxCapital,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(sensitivity.Table) != len(deposit.DefaultSensitivityDeposits()) {
		t.Errorf("Expected default sweep, got %d rows", len(sensitivity.Table))
	}
	if sensitivity.Optimal == nil || !sensitivity.Optimal.Feasible {
		t.Errorf("Expected a feasible optimal deposit, got %+v", sensitivity.Optimal)
	}
	if sensitivity.SelfFunding.DepositAmount != 86.4 {
		t.Errorf("Expected self-funding deposit 86.4, got %v", sensitivity.SelfFunding.DepositAmount)
	}

	broken := deposit.DefaultInput()
	broken.ConversionRate = 2
	if _, err := service.ProjectDeposit(context.Background(), broken); !errors.Is(err, deposit.ErrInvalidInput) || !IsValidationError(err) {
		t.Errorf("Expected invalid deposit input, got %v", err)
	}
}

func TestPlanningService_EvaluateRaise(t *testing.T) {
	service, _ := newTestPlanningService()

	base := RaiseInput(entities.DefaultScenarioAssumptions(entities.Moderate).Raise)
	matrix, err := service.EvaluateRaise(context.Background(), dto.RaiseRequest{Base: base})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(matrix.Scenarios) != 5 {
		t.Errorf("Expected 5 default candidates, got %d", len(matrix.Scenarios))
	}
	if matrix.RecommendedScenario == nil || matrix.RecommendedScenario.Input.RaiseAmount != 750000 {
		t.Errorf("Expected $750K recommendation, got %+v", matrix.RecommendedScenario)
	}

	base.PreMoneyValuation = 0
	if _, err := service.EvaluateRaise(context.Background(), dto.RaiseRequest{Base: base}); !IsValidationError(err) {
		t.Errorf("Expected validation error for zero valuation, got %v", err)
	}
}

func TestPlanningService_ProjectTooling(t *testing.T) {
	service, _ := newTestPlanningService()

	projection, err := service.ProjectTooling(context.Background(), revenue.ToolingInput{
		ToolingCost:    150000,
		RetoolingYears: 3,
		Years:          6,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if projection.TotalInvestment != 450000 {
		t.Errorf("Expected total investment 450000, got %v", projection.TotalInvestment)
	}

	if _, err := service.ProjectTooling(context.Background(), revenue.ToolingInput{Years: 1}); !errors.Is(err, revenue.ErrInvalidInput) {
		t.Errorf("Expected revenue.ErrInvalidInput, got %v", err)
	}
}

func TestIsValidationError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"request", invalid(errors.New("bad")), true},
		{"scenario", fmt.Errorf("wrapped: %w", entities.ErrInvalidScenario), true},
		{"no_marketing", ErrNoMarketingData, true},
		{"cancelled", context.Canceled, false},
		{"other", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidationError(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
