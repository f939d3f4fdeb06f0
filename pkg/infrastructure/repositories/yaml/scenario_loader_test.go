package yaml

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

const scenariosDoc = `
scenarios:
  - name: conservative
    unit_price: 279
  - name: retail-push
    volume_tier: aggressive
    years: 5
    cogs:
      manufacturing_cost: 125
    raise:
      instrument: equity
      raise_amounts: [500000, 1000000]
`

func TestLoader_DecodeScenarios(t *testing.T) {
	scenarios, err := NewLoader().DecodeScenarios(strings.NewReader(scenariosDoc))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("Expected 2 scenarios, got %d", len(scenarios))
	}

	conservative := scenarios[0]
	if conservative.UnitPrice != 279 {
		t.Errorf("Expected overridden price 279, got %v", conservative.UnitPrice)
	}
	if conservative.Years != 3 {
		t.Errorf("Expected default horizon of 3 years, got %d", conservative.Years)
	}
	if conservative.Deposit.PreOrderCount != 1000 {
		t.Errorf("Expected conservative default of 1000 pre-orders, got %d", conservative.Deposit.PreOrderCount)
	}

	push := scenarios[1]
	if push.Tier() != entities.Aggressive {
		t.Errorf("Expected aggressive tier, got %s", push.Tier())
	}
	if push.Deposit.PreOrderCount != 4000 {
		t.Errorf("Expected aggressive default of 4000 pre-orders, got %d", push.Deposit.PreOrderCount)
	}
	if push.COGS.ManufacturingCost == nil || *push.COGS.ManufacturingCost != 125 {
		t.Errorf("Expected manufacturing override 125, got %v", push.COGS.ManufacturingCost)
	}
	if push.Raise.Instrument != entities.Equity {
		t.Errorf("Expected equity instrument, got %s", push.Raise.Instrument)
	}
	if push.Raise.PreMoneyValuation != 4000000 {
		t.Errorf("Expected default pre-money to survive partial override, got %v", push.Raise.PreMoneyValuation)
	}
	if len(push.Raise.RaiseAmounts) != 2 {
		t.Errorf("Expected 2 raise amounts, got %v", push.Raise.RaiseAmounts)
	}
}

func TestLoader_DecodeScenarios_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		doc         string
		expectError string
	}{
		{"duplicate_name", "scenarios:\n  - name: a\n  - name: a\n", "duplicate name"},
		{"missing_name", "scenarios:\n  - years: 2\n", "name is required"},
		{"unknown_field", "scenarios:\n  - name: a\n    colour: red\n", "colour"},
		{"empty", "scenarios: []\n", "at least one scenario"},
		{"unknown_tier", "scenarios:\n  - name: a\n    volume_tier: bullish\n", "bullish"},
		{"invalid_years", "scenarios:\n  - name: a\n    years: 0\n", "years must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().DecodeScenarios(strings.NewReader(tc.doc))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %v", tc.expectError, err)
			}
		})
	}
}

func TestLoader_RoundTripFile(t *testing.T) {
	loader := NewLoader()
	moderate := entities.DefaultScenarioAssumptions(entities.Moderate)

	var buf bytes.Buffer
	if err := loader.WriteScenarios(&buf, []*entities.ScenarioAssumptions{&moderate}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	loaded, err := loader.LoadScenarios(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(loaded) != 1 || loaded[0].Name != "moderate" {
		t.Fatalf("Expected moderate scenario, got %+v", loaded)
	}
	if loaded[0].Raise.Instrument != entities.SAFE {
		t.Errorf("Expected SAFE instrument, got %s", loaded[0].Raise.Instrument)
	}
}

func TestLoader_LoadScenarios_MissingFile(t *testing.T) {
	if _, err := NewLoader().LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
