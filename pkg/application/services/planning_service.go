package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/marketing"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
	"github.com/sportsprod/erp/pkg/infrastructure/events"
)

// maxConcurrentScenarios bounds CompareScenarios fan-out
const maxConcurrentScenarios = 4

// ErrNoMarketingData is returned when a marketing analysis has no spend
var ErrNoMarketingData = errors.New("no marketing spend records")

// PlanningService turns stored scenario assumptions into full projections
type PlanningService struct {
	scenarios repositories.ScenarioRepository
	store     events.EventStore
	logger    logrus.FieldLogger
	target    marketing.Target
	now       func() time.Time
	newID     func() string
}

// Option configures a PlanningService
type Option func(*PlanningService)

// WithAlertTarget sets the CAC target used when a request carries none
func WithAlertTarget(target marketing.Target) Option {
	return func(s *PlanningService) {
		s.target = target
	}
}

// WithClock overrides the clock used for report and alert timestamps
func WithClock(now func() time.Time) Option {
	return func(s *PlanningService) {
		s.now = now
	}
}

// WithIDGenerator overrides the alert id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *PlanningService) {
		s.newID = newID
	}
}

// NewPlanningService creates a planning service. store may be nil when no
// events are wanted.
func NewPlanningService(
	scenarios repositories.ScenarioRepository,
	store events.EventStore,
	logger logrus.FieldLogger,
	opts ...Option,
) *PlanningService {
	s := &PlanningService{
		scenarios: scenarios,
		store:     store,
		logger:    logger,
		target:    marketing.DefaultTarget(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListScenarios returns every stored scenario
func (s *PlanningService) ListScenarios(ctx context.Context) ([]*entities.ScenarioAssumptions, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scenarios.GetAllScenarios()
}

// SaveScenario stores a scenario and records a scenario.saved event
func (s *PlanningService) SaveScenario(ctx context.Context, scenario *entities.ScenarioAssumptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.scenarios.SaveScenario(scenario); err != nil {
		return fmt.Errorf("failed to save scenario: %w", err)
	}
	s.publish(scenario.Name, events.NewScenarioSavedEvent(scenario.Name))
	return nil
}

// BuildScenarioReport runs every calculator for the named scenario
func (s *PlanningService) BuildScenarioReport(ctx context.Context, name string) (*dto.ScenarioReport, error) {
	assumptions, err := s.scenarios.GetScenario(name)
	if err != nil {
		return nil, err
	}
	return s.BuildReport(ctx, *assumptions)
}

// BuildReport runs every calculator for a set of assumptions. The unit cost
// at the scenario's annual volume feeds inventory and deposit projections
// unless they carry their own.
func (s *PlanningService) BuildReport(ctx context.Context, a entities.ScenarioAssumptions) (*dto.ScenarioReport, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	start := s.now()
	tier := a.Tier()
	report := &dto.ScenarioReport{
		Scenario:    a.Name,
		Tier:        tier,
		Years:       a.Years,
		AnnualUnits: tier.AnnualUnits(),
		GeneratedAt: start,
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"cost", func() error { return s.costStep(a, report) }},
		{"cogs", func() error { return s.cogsStep(a, report) }},
		{"inventory", func() error { return s.inventoryStep(a, report) }},
		{"revenue", func() error { return s.revenueStep(a, report) }},
		{"tooling", func() error { return s.toolingStep(a, report) }},
		{"deposit", func() error { return s.depositStep(a, report) }},
		{"raise", func() error { return s.raiseStep(a, report) }},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Steps are pure functions of the assumptions, so any failure is bad input
		if err := step.run(); err != nil {
			return nil, invalid(fmt.Errorf("failed to project %s for %s: %w", step.name, a.Name, err))
		}
	}

	report.Summary = summarize(report)

	s.logger.WithFields(logrus.Fields{
		"scenario":    a.Name,
		"tier":        tier.String(),
		"years":       a.Years,
		"unit_cost":   report.UnitCost.CostPerUnit,
		"net_revenue": report.Summary.TotalNetRevenue,
		"duration":    s.now().Sub(start).String(),
	}).Info("scenario report built")

	s.publish(a.Name, events.NewScenarioCalculatedEvent(events.ScenarioCalculated{
		Scenario:          a.Name,
		Years:             a.Years,
		UnitCost:          report.UnitCost.CostPerUnit,
		TotalNetRevenue:   report.Summary.TotalNetRevenue,
		PeakCapital:       report.Deposit.PeakCapitalWithDeposits,
		RecommendedRaise:  report.Summary.RecommendedRaise,
		InventoryOrders:   report.Inventory.OrdersPlaced,
		InventoryStockout: report.Inventory.StockoutDays,
	}))

	return report, nil
}

func (s *PlanningService) costStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	interpolator, err := costing.NewInterpolator(InterpolatorConfig(a.CostCurve))
	if err != nil {
		return err
	}
	result, err := interpolator.Calculate(float64(report.AnnualUnits))
	if err != nil {
		return err
	}
	report.UnitCost = result
	return nil
}

func (s *PlanningService) cogsStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	rate := cogs.DefaultAnnualReductionRate
	if a.COGS.AnnualReductionRate != nil {
		rate = *a.COGS.AnnualReductionRate
	}
	volumes := make([]float64, 0, a.Years)
	for _, units := range revenue.ProjectedUnits(report.Tier, a.Years, a.AnnualGrowthRate) {
		volumes = append(volumes, float64(units))
	}

	years, err := cogs.ProjectBreakdown(volumes, cogs.DefaultConfig().WithOverrides(COGSOverrides(a.COGS)), rate)
	if err != nil {
		return err
	}
	report.COGS = years
	return nil
}

func (s *PlanningService) inventoryStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	cfg := InventoryConfig(a.Inventory, report.UnitCost.CostPerUnit)
	timeline, err := inventory.ProjectScenarioTimeline(report.Tier, cfg, a.Years)
	if err != nil {
		return err
	}
	report.InventoryPolicy = inventory.DerivePolicy(report.Tier, cfg)
	report.Inventory = inventory.SummarizeTimeline(timeline)
	return nil
}

func (s *PlanningService) revenueStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	rows, err := revenue.ProjectScenarioRevenue(report.Tier, revenue.Options{
		Years:            a.Years,
		UnitPrice:        a.UnitPrice,
		DiscountRate:     a.DiscountRate,
		AnnualGrowthRate: a.AnnualGrowthRate,
	})
	if err != nil {
		return err
	}
	report.Revenue = rows
	return nil
}

func (s *PlanningService) toolingStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	volumes := make([]int, 0, len(report.Revenue))
	for _, row := range report.Revenue {
		volumes = append(volumes, row.Units)
	}
	projection, err := revenue.GenerateToolingProjections(revenue.ToolingInput{
		ToolingCost:    a.Tooling.Cost,
		RetoolingYears: a.Tooling.RetoolingYears,
		Years:          a.Years,
		UnitVolumes:    volumes,
	})
	if err != nil {
		return err
	}
	report.Tooling = projection
	return nil
}

func (s *PlanningService) depositStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	result, err := deposit.CalculateImpact(DepositInput(a, report.UnitCost.CostPerUnit))
	if err != nil {
		return err
	}
	report.Deposit = result
	return nil
}

func (s *PlanningService) raiseStep(a entities.ScenarioAssumptions, report *dto.ScenarioReport) error {
	matrix, err := raise.BuildRaiseScenarioMatrix(RaiseInput(a.Raise), a.Raise.RaiseAmounts)
	if err != nil {
		return err
	}
	report.Raise = matrix
	return nil
}

func summarize(report *dto.ScenarioReport) dto.ScenarioSummary {
	var summary dto.ScenarioSummary

	netRevenue := make([]float64, 0, len(report.Revenue))
	for _, row := range report.Revenue {
		summary.TotalUnits += row.Units
		netRevenue = append(netRevenue, row.NetRevenue)
	}
	summary.TotalNetRevenue = money.Sum(netRevenue...)

	cogsTotals := make([]float64, 0, len(report.COGS))
	for _, year := range report.COGS {
		cogsTotals = append(cogsTotals, year.Breakdown.TotalCost)
	}
	summary.TotalCOGS = money.Sum(cogsTotals...)
	summary.GrossProfit = money.Sum(summary.TotalNetRevenue, -summary.TotalCOGS)
	if summary.TotalNetRevenue > 0 {
		summary.GrossMarginPercent = money.Round(summary.GrossProfit/summary.TotalNetRevenue*100, 1)
	}

	summary.ToolingInvestment = report.Tooling.TotalInvestment
	summary.PeakDepositCapital = report.Deposit.PeakCapitalWithDeposits
	if report.Raise.RecommendedScenario != nil {
		summary.RecommendedRaise = report.Raise.RecommendedScenario.Input.RaiseAmount
	}
	return summary
}

// CompareScenarios builds reports for several scenarios concurrently and
// returns them in the requested order
func (s *PlanningService) CompareScenarios(ctx context.Context, names []string) (*dto.ScenarioComparison, error) {
	if len(names) == 0 {
		return nil, errors.New("at least one scenario is required")
	}

	reports := make([]*dto.ScenarioReport, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScenarios)
	for i, name := range names {
		g.Go(func() error {
			report, err := s.BuildScenarioReport(gctx, name)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.publish("comparisons", events.NewScenariosComparedEvent(names))
	return &dto.ScenarioComparison{Reports: reports, GeneratedAt: s.now()}, nil
}

// AnalyzeMarketing computes blended and per-channel CAC and ROAS for each
// period and raises alerts for channels over target. Every alert is
// published as a cac.alert.raised event.
func (s *PlanningService) AnalyzeMarketing(ctx context.Context, req dto.MarketingRequest) (*dto.MarketingAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Spend) == 0 {
		return nil, ErrNoMarketingData
	}

	target := s.target
	if req.Target != nil {
		target = *req.Target
	}

	periods := req.Periods
	if len(periods) == 0 {
		periods = periodsOf(req.Spend, req.Conversions)
	}

	analysis := &dto.MarketingAnalysis{
		Periods: periods,
		Trend:   marketing.CalculateCACTrend(req.Spend, req.Conversions, periods),
		Target:  target,
	}

	for _, period := range periods {
		blended := marketing.CalculateBlendedCAC(req.Spend, req.Conversions, period)
		analysis.Blended = append(analysis.Blended, blended)
		analysis.BlendedROAS = append(analysis.BlendedROAS, marketing.CalculateBlendedROAS(req.Spend, req.Conversions, period))
		analysis.Channels = append(analysis.Channels, blended.Channels...)

		revenueByChannel := make(map[string]float64)
		for _, c := range req.Conversions {
			if c.PeriodID == period {
				revenueByChannel[c.ChannelID] += c.Revenue
			}
		}
		for _, channel := range blended.Channels {
			roas, err := marketing.CalculateChannelROAS(
				marketing.Spend{ChannelID: channel.ChannelID, PeriodID: period, Amount: channel.Spend},
				marketing.Conversions{
					ChannelID:    channel.ChannelID,
					PeriodID:     period,
					NewCustomers: channel.NewCustomers,
					Revenue:      revenueByChannel[channel.ChannelID],
				},
			)
			if err != nil {
				return nil, err
			}
			analysis.ChannelROAS = append(analysis.ChannelROAS, roas)
		}
	}

	checkerOpts := []marketing.AlertCheckerOption{marketing.WithClock(s.now)}
	if s.newID != nil {
		checkerOpts = append(checkerOpts, marketing.WithIDGenerator(s.newID))
	}
	checker := marketing.NewAlertChecker(target, checkerOpts...)

	for _, channel := range analysis.Channels {
		if channel.CAC <= 0 {
			continue
		}
		channelTarget := target.EffectiveTarget(channel.ChannelID)
		analysis.Efficiency = append(analysis.Efficiency, dto.ChannelEfficiency{
			ChannelID: channel.ChannelID,
			PeriodID:  channel.PeriodID,
			CAC:       channel.CAC,
			Target:    channelTarget,
			Score:     marketing.CalculateCACEfficiency(channel.CAC, channelTarget),
		})
	}

	analysis.Alerts = checker.CheckAll(analysis.Channels)
	for _, alert := range analysis.Alerts {
		s.publish(events.MarketingStream, events.NewCACAlertRaisedEvent(alert))
	}

	s.logger.WithFields(logrus.Fields{
		"periods":  len(periods),
		"channels": len(analysis.Channels),
		"alerts":   len(analysis.Alerts),
	}).Info("marketing analysis complete")

	return analysis, nil
}

func (s *PlanningService) publish(streamID string, event events.Event) {
	if s.store == nil {
		return
	}
	if err := s.store.AppendEvent(streamID, event); err != nil {
		s.logger.WithError(err).WithField("event_type", event.Type()).Warn("failed to record event")
	}
}

// periodsOf returns every period id in the data, sorted
func periodsOf(spend []marketing.Spend, conversions []marketing.Conversions) []string {
	seen := make(map[string]bool)
	for _, s := range spend {
		seen[s.PeriodID] = true
	}
	for _, c := range conversions {
		seen[c.PeriodID] = true
	}
	periods := make([]string, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	return periods
}
