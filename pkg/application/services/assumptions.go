package services

import (
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/services/cogs"
	"github.com/sportsprod/erp/pkg/domain/services/costing"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/inventory"
	"github.com/sportsprod/erp/pkg/domain/services/raise"
)

// InterpolatorConfig maps stored cost curve assumptions onto the interpolator
func InterpolatorConfig(curve entities.CostCurveAssumptions) costing.InterpolatorConfig {
	cfg := costing.InterpolatorConfig{MinCostFloor: curve.MinCostFloor}
	if len(curve.Points) > 0 {
		cfg.Points = make([]costing.CostPoint, 0, len(curve.Points))
		for _, p := range curve.Points {
			cfg.Points = append(cfg.Points, costing.CostPoint{Volume: p.Volume, CostPerUnit: p.CostPerUnit})
		}
	}
	return cfg
}

// COGSOverrides maps stored COGS assumptions onto breakdown overrides
func COGSOverrides(a entities.COGSAssumptions) cogs.ConfigOverrides {
	return cogs.ConfigOverrides{
		ManufacturingCost: a.ManufacturingCost,
		FreightCost:       a.FreightCost,
		PackagingCost:     a.PackagingCost,
		DutiesCost:        a.DutiesCost,
	}
}

// InventoryConfig maps stored inventory assumptions, using unitCost when the
// scenario does not fix one
func InventoryConfig(a entities.InventoryAssumptions, unitCost float64) inventory.Config {
	cfg := inventory.Config{
		MOQ:          a.MOQ,
		UnitCost:     unitCost,
		LeadTimeDays: a.LeadTimeDays,
		SafetyDays:   a.SafetyDays,
	}
	if a.UnitCost != nil {
		cfg.UnitCost = *a.UnitCost
	}
	return cfg
}

// DepositInput maps stored deposit assumptions, priced at the scenario's unit
// price and costed at unitCost when the scenario does not fix one
func DepositInput(a entities.ScenarioAssumptions, unitCost float64) deposit.Input {
	d := a.Deposit
	input := deposit.Input{
		DepositType:               d.Type,
		DepositAmount:             d.Amount,
		ConversionRate:            d.ConversionRate,
		PreOrderCount:             d.PreOrderCount,
		PreOrderStartMonth:        d.PreOrderStartMonth,
		PreOrderDurationMonths:    d.PreOrderDurationMonths,
		ProductionStartMonth:      d.ProductionStartMonth,
		FulfillmentStartMonth:     d.FulfillmentStartMonth,
		FulfillmentDurationMonths: d.FulfillmentDurationMonths,
		UnitProductionCost:        unitCost,
		FulfillmentCostPerUnit:    d.FulfillmentCostPerUnit,
		FullPrice:                 a.UnitPrice,
	}
	if d.UnitProductionCost != nil {
		input.UnitProductionCost = *d.UnitProductionCost
	}
	return input
}

// RaiseInput maps stored raise assumptions onto a matrix base input
func RaiseInput(a entities.RaiseAssumptions) raise.Input {
	return raise.Input{
		PreMoneyValuation: a.PreMoneyValuation,
		Instrument:        a.Instrument,
		Terms: raise.Terms{
			DiscountRate: a.DiscountRate,
			ValuationCap: a.ValuationCap,
			InterestRate: a.InterestRate,
		},
		CurrentCash:      a.CurrentCash,
		MonthlyBurn:      a.MonthlyBurn,
		FounderOwnership: a.FounderOwnership,
	}
}
