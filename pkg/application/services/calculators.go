package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

// ErrInvalidRequest wraps every calculator rejection of caller input
var ErrInvalidRequest = errors.New("invalid request")

// IsValidationError reports whether err was caused by caller input rather
// than a failure inside the service
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, entities.ErrInvalidScenario) ||
		errors.Is(err, ErrNoMarketingData)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

// PriceVolumes interpolates the unit cost at each requested volume
func (s *PlanningService) PriceVolumes(ctx context.Context, req dto.CostRequest) (*dto.CostCurve, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Volumes) == 0 {
		return nil, invalid(errors.New("at least one volume is required"))
	}

	interpolator, err := costing.NewInterpolator(costing.InterpolatorConfig{
		Points:       req.Points,
		MinCostFloor: req.MinCostFloor,
	})
	if err != nil {
		return nil, invalid(err)
	}

	curve := &dto.CostCurve{
		Points:  interpolator.Points(),
		Floor:   interpolator.Floor(),
		Results: make([]costing.CostCalculationResult, 0, len(req.Volumes)),
	}
	for _, volume := range req.Volumes {
		result, err := interpolator.Calculate(volume)
		if err != nil {
			return nil, invalid(err)
		}
		curve.Results = append(curve.Results, result)
	}
	return curve, nil
}

// ProjectCOGS decomposes the cost of goods for each year's volume
func (s *PlanningService) ProjectCOGS(ctx context.Context, req dto.COGSRequest) ([]cogs.YearBreakdown, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Volumes) == 0 {
		return nil, invalid(errors.New("at least one volume is required"))
	}

	rate := cogs.DefaultAnnualReductionRate
	if req.AnnualReductionRate != nil {
		rate = *req.AnnualReductionRate
	}
	years, err := cogs.ProjectBreakdown(req.Volumes, cogs.DefaultConfig().WithOverrides(req.Overrides), rate)
	if err != nil {
		return nil, invalid(err)
	}
	return years, nil
}

// ProjectInventory simulates the reorder policy for a scenario tier
func (s *PlanningService) ProjectInventory(ctx context.Context, req dto.InventoryRequest) (*dto.InventoryProjection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := inventory.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}
	tier := entities.ParseScenario(req.Scenario)

	timeline, err := inventory.ProjectScenarioTimeline(tier, cfg, req.Years)
	if err != nil {
		return nil, invalid(err)
	}

	projection := &dto.InventoryProjection{
		Scenario: tier.String(),
		Config:   cfg,
		Policy:   inventory.DerivePolicy(tier, cfg),
		Summary:  inventory.SummarizeTimeline(timeline),
	}
	if req.IncludeTimeline {
		projection.Timeline = timeline
	}

	s.logger.WithFields(logrus.Fields{
		"scenario":      projection.Scenario,
		"years":         req.Years,
		"orders":        projection.Summary.OrdersPlaced,
		"stockout_days": projection.Summary.StockoutDays,
	}).Debug("inventory simulated")

	return projection, nil
}

// ProjectDeposit runs the month-by-month deposit cash-flow model
func (s *PlanningService) ProjectDeposit(ctx context.Context, input deposit.Input) (deposit.Result, error) {
	if err := ctx.Err(); err != nil {
		return deposit.Result{}, err
	}
	result, err := deposit.CalculateImpact(input)
	if err != nil {
		return deposit.Result{}, invalid(err)
	}
	return result, nil
}

// AnalyzeDepositSensitivity sweeps deposit levels and derives the
// self-funding deposit, plus the optimal deposit when a capital ceiling is set
func (s *PlanningService) AnalyzeDepositSensitivity(ctx context.Context, req dto.DepositSensitivityRequest) (*dto.DepositSensitivity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deposits := req.Deposits
	if len(deposits) == 0 {
		deposits = deposit.DefaultSensitivityDeposits()
	}
	table, err := deposit.BuildSensitivityTable(req.Input, deposits)
	if err != nil {
		return nil, invalid(err)
	}

	selfFunding, err := deposit.CalculateSelfFundingDeposit(req.Input)
	if err != nil {
		return nil, invalid(err)
	}

	analysis := &dto.DepositSensitivity{Table: table, SelfFunding: selfFunding}
	if req.MaxCapital != nil {
		optimal, err := deposit.FindOptimalDeposit(req.Input, *req.MaxCapital)
		if err != nil {
			return nil, invalid(err)
		}
		analysis.Optimal = &optimal
	}
	return analysis, nil
}

// EvaluateRaise scores a base raise at each candidate amount
func (s *PlanningService) EvaluateRaise(ctx context.Context, req dto.RaiseRequest) (raise.Matrix, error) {
	if err := ctx.Err(); err != nil {
		return raise.Matrix{}, err
	}
	matrix, err := raise.BuildRaiseScenarioMatrix(req.Base, req.Amounts)
	if err != nil {
		return raise.Matrix{}, invalid(err)
	}
	return matrix, nil
}

// ProjectTooling amortizes tooling over its retooling cycle
func (s *PlanningService) ProjectTooling(ctx context.Context, input revenue.ToolingInput) (revenue.ToolingProjection, error) {
	if err := ctx.Err(); err != nil {
		return revenue.ToolingProjection{}, err
	}
	projection, err := revenue.GenerateToolingProjections(input)
	if err != nil {
		return revenue.ToolingProjection{}, invalid(err)
	}
	return projection, nil
}
