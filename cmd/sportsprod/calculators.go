package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/application/services"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/marketing"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
	"github.com/sportsprod/erp/pkg/interfaces/cli/commands"
)

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [scenario]",
		Short: "Build the full financial report for a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			name := cfg.DefaultScenario
			if len(argv) == 1 {
				name = argv[0]
			}
			return commands.NewReportCommand(app).Execute(cmd.Context(), name)
		},
	}
}

func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare [scenario...]",
		Short: "Compare scenarios side by side (all when none are named)",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return commands.NewReportCommand(app).Compare(cmd.Context(), argv)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return commands.NewReportCommand(app).List(cmd.Context())
		},
	}
}

func newCostCmd() *cobra.Command {
	var (
		volumes []float64
		floor   float64
	)
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Interpolate unit cost on the volume curve",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			req := dto.CostRequest{Volumes: volumes}
			if cmd.Flags().Changed("floor") {
				req.MinCostFloor = &floor
			}
			return commands.NewCalculatorCommand(app).Cost(cmd.Context(), req)
		},
	}
	cmd.Flags().Float64SliceVar(&volumes, "volumes", []float64{500, 1000, 5000, 10000, 50000}, "Volumes to price")
	cmd.Flags().Float64Var(&floor, "floor", 0, "Minimum unit cost")
	return cmd
}

func newCOGSCmd() *cobra.Command {
	var (
		volumes       []float64
		reductionRate float64
		manufacturing float64
	)
	cmd := &cobra.Command{
		Use:   "cogs",
		Short: "Project the cost of goods breakdown per year",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			req := dto.COGSRequest{Volumes: volumes}
			if cmd.Flags().Changed("reduction") {
				req.AnnualReductionRate = &reductionRate
			}
			if cmd.Flags().Changed("manufacturing") {
				req.Overrides = cogs.ConfigOverrides{ManufacturingCost: &manufacturing}
			}
			return commands.NewCalculatorCommand(app).COGS(cmd.Context(), req)
		},
	}
	cmd.Flags().Float64SliceVar(&volumes, "volumes", []float64{10000, 11500, 13225}, "Unit volume per year")
	cmd.Flags().Float64Var(&reductionRate, "reduction", cogs.DefaultAnnualReductionRate, "Annual cost reduction rate")
	cmd.Flags().Float64Var(&manufacturing, "manufacturing", 0, "Manufacturing cost per unit override")
	return cmd
}

func newInventoryCmd() *cobra.Command {
	var (
		years    int
		timeline bool
	)
	cmd := &cobra.Command{
		Use:   "inventory [scenario]",
		Short: "Simulate the reorder policy for a volume tier",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			name := cfg.DefaultScenario
			if len(argv) == 1 {
				name = argv[0]
			}
			return commands.NewCalculatorCommand(app).Inventory(cmd.Context(), dto.InventoryRequest{
				Scenario:        name,
				Years:           years,
				IncludeTimeline: timeline,
			})
		},
	}
	cmd.Flags().IntVar(&years, "years", 1, "Simulation horizon in years")
	cmd.Flags().BoolVar(&timeline, "timeline", false, "Include the daily timeline")
	return cmd
}

func newMarketingCmd() *cobra.Command {
	var (
		spendFile       string
		conversionsFile string
		periods         []string
		target          float64
	)
	cmd := &cobra.Command{
		Use:   "marketing",
		Short: "Analyze channel CAC, ROAS and alerts from CSV exports",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			mc := commands.MarketingConfig{
				SpendFile:       firstNonEmpty(spendFile, cfg.SpendFile),
				ConversionsFile: firstNonEmpty(conversionsFile, cfg.ConversionsFile),
				Periods:         periods,
			}
			if cmd.Flags().Changed("target") {
				t := marketing.DefaultTarget()
				t.GlobalTarget = target
				mc.Target = &t
			}
			return commands.NewMarketingCommand(app, mc).Execute(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&spendFile, "spend", "", "Spend CSV (default SPORTSPROD_SPEND_FILE)")
	cmd.Flags().StringVar(&conversionsFile, "conversions", "", "Conversions CSV (default SPORTSPROD_CONVERSIONS_FILE)")
	cmd.Flags().StringSliceVar(&periods, "period", nil, "Periods to analyze (default all)")
	cmd.Flags().Float64Var(&target, "target", 0, "Global CAC target")
	return cmd
}

func newDepositCmd() *cobra.Command {
	var (
		input       = deposit.DefaultInput()
		depositType string
		sensitivity bool
		maxCapital  float64
	)
	cmd := &cobra.Command{
		Use:   "deposit",
		Short: "Project pre-order deposit cash flow",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := input.DepositType.UnmarshalText([]byte(depositType)); err != nil {
				return err
			}

			calc := commands.NewCalculatorCommand(app)
			if !sensitivity {
				return calc.Deposit(cmd.Context(), input)
			}
			req := dto.DepositSensitivityRequest{Input: input}
			if cmd.Flags().Changed("max-capital") {
				req.MaxCapital = &maxCapital
			}
			return calc.DepositSensitivity(cmd.Context(), req)
		},
	}
	f := cmd.Flags()
	f.StringVar(&depositType, "type", input.DepositType.String(), "Deposit type: fixed or percentage")
	f.Float64Var(&input.DepositAmount, "amount", input.DepositAmount, "Deposit amount, or fraction of price for percentage deposits")
	f.Float64Var(&input.ConversionRate, "conversion", input.ConversionRate, "Deposit to order conversion rate")
	f.IntVar(&input.PreOrderCount, "preorders", input.PreOrderCount, "Pre-order count")
	f.Float64Var(&input.UnitProductionCost, "unit-cost", input.UnitProductionCost, "Production cost per unit")
	f.Float64Var(&input.FullPrice, "price", input.FullPrice, "Full retail price")
	f.BoolVar(&sensitivity, "sensitivity", false, "Sweep deposit levels instead of a single projection")
	f.Float64Var(&maxCapital, "max-capital", 0, "Capital ceiling for the optimal deposit search")
	return cmd
}

func newRaiseCmd() *cobra.Command {
	var (
		assumptions = entities.DefaultScenarioAssumptions(entities.Moderate).Raise
		instrument  string
		amounts     []float64
	)
	cmd := &cobra.Command{
		Use:   "raise",
		Short: "Score candidate raise amounts",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			if err := assumptions.Instrument.UnmarshalText([]byte(instrument)); err != nil {
				return err
			}
			return commands.NewCalculatorCommand(app).Raise(cmd.Context(), dto.RaiseRequest{
				Base:    services.RaiseInput(assumptions),
				Amounts: amounts,
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&instrument, "instrument", assumptions.Instrument.String(), "Instrument: equity, safe or convertible_debt")
	f.Float64Var(&assumptions.PreMoneyValuation, "pre-money", assumptions.PreMoneyValuation, "Pre-money valuation")
	f.Float64Var(&assumptions.CurrentCash, "cash", assumptions.CurrentCash, "Current cash")
	f.Float64Var(&assumptions.MonthlyBurn, "burn", assumptions.MonthlyBurn, "Monthly burn")
	f.Float64Var(&assumptions.FounderOwnership, "ownership", assumptions.FounderOwnership, "Founder ownership before the raise")
	f.Float64SliceVar(&amounts, "amounts", nil, "Raise amounts (default ladder when empty)")
	return cmd
}

func newToolingCmd() *cobra.Command {
	input := revenue.ToolingInput{ToolingCost: 150000, RetoolingYears: 3, Years: 5}
	cmd := &cobra.Command{
		Use:   "tooling",
		Short: "Project tooling amortization and retooling",
		RunE: func(cmd *cobra.Command, argv []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			return commands.NewCalculatorCommand(app).Tooling(cmd.Context(), input)
		},
	}
	cmd.Flags().Float64Var(&input.ToolingCost, "cost", input.ToolingCost, "Tooling cost")
	cmd.Flags().IntVar(&input.RetoolingYears, "retool", input.RetoolingYears, "Years between retooling")
	cmd.Flags().IntVar(&input.Years, "years", input.Years, "Projection horizon in years")
	cmd.Flags().IntSliceVar(&input.UnitVolumes, "volumes", nil, "Unit volume per year")
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var gc commands.GenerateConfig
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write demo scenarios and marketing CSVs",
		RunE: func(cmd *cobra.Command, argv []string) error {
			gc.OutputDir = firstNonEmpty(gc.OutputDir, flags.outputDir)
			gc.Verbose = flags.verbose
			if gc.OutputDir == "" {
				return fmt.Errorf("--output is required")
			}
			return commands.NewGenerateCommand(gc, cmd.OutOrStdout()).Execute(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&gc.Channels, "channels", 5, "Number of marketing channels")
	cmd.Flags().IntVar(&gc.Periods, "periods", 6, "Number of monthly periods")
	cmd.Flags().StringVar(&gc.StartPeriod, "start", "2024-01", "First period (YYYY-MM)")
	cmd.Flags().Float64Var(&gc.UnitPrice, "price", 299, "Unit price used for conversion revenue")
	cmd.Flags().Int64Var(&gc.Seed, "seed", 0, "Random seed (0 for time based)")
	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
