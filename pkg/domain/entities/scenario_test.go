package entities

import (
	"encoding/json"
	"errors"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestScenario_AnnualUnits(t *testing.T) {
	testCases := []struct {
		name     string
		expected int
	}{
		{"conservative", 5000},
		{"moderate", 10000},
		{"aggressive", 20000},
		{"unknown", 10000},
		{"", 10000},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseScenario(tc.name).AnnualUnits(); got != tc.expected {
				t.Errorf("Expected %d units, got %d", tc.expected, got)
			}
		})
	}
}

func TestScenario_UnmarshalRejectsUnknown(t *testing.T) {
	var s Scenario
	if err := s.UnmarshalText([]byte("aggressive")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s != Aggressive {
		t.Errorf("Expected aggressive, got %s", s)
	}
	if err := s.UnmarshalText([]byte("bullish")); err == nil {
		t.Error("Expected error for unknown scenario name")
	}
}

func TestEnums_JSONWireNames(t *testing.T) {
	payload := struct {
		Severity   Severity     `json:"severity"`
		Instrument Instrument   `json:"instrument"`
		Risk       RunwayRisk   `json:"risk"`
		Deposit    DepositType  `json:"deposit"`
		Category   COGSCategory `json:"category"`
	}{SeverityCritical, ConvertibleDebt, RunwayComfortable, PercentageDeposit, Freight}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := `{"severity":"critical","instrument":"convertible_debt","risk":"comfortable","deposit":"percentage","category":"freight"}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}

	var decoded struct {
		Instrument Instrument `json:"instrument"`
	}
	if err := json.Unmarshal([]byte(`{"instrument":"warrant"}`), &decoded); err == nil {
		t.Error("Expected error for unknown instrument")
	}
}

func TestSeverity_Rank(t *testing.T) {
	if !(SeverityCritical.Rank() < SeverityWarning.Rank() && SeverityWarning.Rank() < SeverityInfo.Rank()) {
		t.Error("Expected critical to rank before warning before info")
	}
}

func TestInstrument_HasDiscountTerms(t *testing.T) {
	if Equity.HasDiscountTerms() {
		t.Error("Expected equity to have no discount terms")
	}
	if !SAFE.HasDiscountTerms() || !ConvertibleDebt.HasDiscountTerms() {
		t.Error("Expected SAFE and convertible debt to carry discount terms")
	}
}

func TestScenarioAssumptions_YAML(t *testing.T) {
	doc := `
name: launch-plan
volume_tier: aggressive
years: 5
unit_price: 249
discount_rate: 0.05
annual_growth_rate: 0.2
cost_curve:
  points:
    - {volume: 1000, cost_per_unit: 96}
    - {volume: 5000, cost_per_unit: 82}
  min_cost_floor: 80
cogs:
  manufacturing_cost: 120
deposit:
  type: percentage
  amount: 0.25
raise:
  instrument: safe
  pre_money_valuation: 5000000
`
	var a ScenarioAssumptions
	if err := yaml.Unmarshal([]byte(doc), &a); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a.Tier() != Aggressive {
		t.Errorf("Expected aggressive tier, got %s", a.Tier())
	}
	if len(a.CostCurve.Points) != 2 || a.CostCurve.MinCostFloor == nil || *a.CostCurve.MinCostFloor != 80 {
		t.Errorf("Unexpected cost curve: %+v", a.CostCurve)
	}
	if a.COGS.ManufacturingCost == nil || *a.COGS.ManufacturingCost != 120 {
		t.Errorf("Expected manufacturing override 120, got %v", a.COGS.ManufacturingCost)
	}
	if a.COGS.FreightCost != nil {
		t.Errorf("Expected unset freight override, got %v", *a.COGS.FreightCost)
	}
	if a.Deposit.Type != PercentageDeposit {
		t.Errorf("Expected percentage deposit, got %s", a.Deposit.Type)
	}
	if a.Raise.Instrument != SAFE {
		t.Errorf("Expected SAFE instrument, got %s", a.Raise.Instrument)
	}
	if err := a.Validate(); err != nil {
		t.Errorf("Expected valid assumptions, got %v", err)
	}
}

func TestScenarioAssumptions_TierFromName(t *testing.T) {
	if got := DefaultScenarioAssumptions(Conservative).Tier(); got != Conservative {
		t.Errorf("Expected conservative tier, got %s", got)
	}
	if got := (ScenarioAssumptions{Name: "custom"}).Tier(); got != Moderate {
		t.Errorf("Expected unknown name to fall back to moderate, got %s", got)
	}
}

func TestScenarioAssumptions_Validate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*ScenarioAssumptions)
	}{
		{"empty_name", func(a *ScenarioAssumptions) { a.Name = "" }},
		{"zero_years", func(a *ScenarioAssumptions) { a.Years = 0 }},
		{"negative_price", func(a *ScenarioAssumptions) { a.UnitPrice = -1 }},
		{"discount_above_one", func(a *ScenarioAssumptions) { a.DiscountRate = 1.1 }},
		{"years_above_limit", func(a *ScenarioAssumptions) { a.Years = MaxScenarioYears + 1 }},
		{"missing_inventory", func(a *ScenarioAssumptions) { a.Inventory = InventoryAssumptions{} }},
		{"missing_tooling", func(a *ScenarioAssumptions) { a.Tooling = ToolingAssumptions{} }},
		{"missing_deposit", func(a *ScenarioAssumptions) { a.Deposit = DepositAssumptions{} }},
		{"missing_raise", func(a *ScenarioAssumptions) { a.Raise = RaiseAssumptions{} }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := DefaultScenarioAssumptions(Moderate)
			tc.mutate(&a)
			if err := a.Validate(); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Expected ErrInvalidScenario, got %v", err)
			}
		})
	}
}
