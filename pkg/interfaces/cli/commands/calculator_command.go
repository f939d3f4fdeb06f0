package commands

import (
	"context"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

// CalculatorCommand runs one calculator on explicit inputs and prints the
// result
type CalculatorCommand struct {
	app *App
}

// NewCalculatorCommand creates a calculator command over app
func NewCalculatorCommand(app *App) *CalculatorCommand {
	return &CalculatorCommand{app: app}
}

// Cost prices each volume on the cost curve
func (c *CalculatorCommand) Cost(ctx context.Context, req dto.CostRequest) error {
	curve, err := c.app.service.PriceVolumes(ctx, req)
	if err != nil {
		return err
	}
	return c.app.emit(curve, "cost")
}

// COGS projects the cost of goods breakdown per year
func (c *CalculatorCommand) COGS(ctx context.Context, req dto.COGSRequest) error {
	years, err := c.app.service.ProjectCOGS(ctx, req)
	if err != nil {
		return err
	}
	return c.app.emit(years, "cogs")
}

// Inventory simulates the reorder policy. CSV output always carries the
// daily timeline.
func (c *CalculatorCommand) Inventory(ctx context.Context, req dto.InventoryRequest) error {
	if c.app.config.Format == "csv" {
		req.IncludeTimeline = true
	}
	projection, err := c.app.service.ProjectInventory(ctx, req)
	if err != nil {
		return err
	}
	return c.app.emit(projection, "inventory")
}

// Deposit projects the deposit cash flow
func (c *CalculatorCommand) Deposit(ctx context.Context, input deposit.Input) error {
	result, err := c.app.service.ProjectDeposit(ctx, input)
	if err != nil {
		return err
	}
	return c.app.emit(result, "deposit")
}

// DepositSensitivity sweeps deposit levels
func (c *CalculatorCommand) DepositSensitivity(ctx context.Context, req dto.DepositSensitivityRequest) error {
	analysis, err := c.app.service.AnalyzeDepositSensitivity(ctx, req)
	if err != nil {
		return err
	}
	return c.app.emit(analysis, "deposit_sensitivity")
}

// Raise scores the raise candidates
func (c *CalculatorCommand) Raise(ctx context.Context, req dto.RaiseRequest) error {
	matrix, err := c.app.service.EvaluateRaise(ctx, req)
	if err != nil {
		return err
	}
	return c.app.emit(matrix, "raise")
}

// Tooling projects the tooling amortization schedule
func (c *CalculatorCommand) Tooling(ctx context.Context, input revenue.ToolingInput) error {
	projection, err := c.app.service.ProjectTooling(ctx, input)
	if err != nil {
		return err
	}
	return c.app.emit(projection, "tooling")
}
