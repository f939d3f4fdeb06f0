package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sportsprod/erp/pkg/application/dto"
	csvrepo "github.com/sportsprod/erp/pkg/infrastructure/repositories/csv"
	yamlrepo "github.com/sportsprod/erp/pkg/infrastructure/repositories/yaml"
	"github.com/sportsprod/erp/pkg/logging"
)

// Helper to generate a reproducible demo data directory
func generateDemoData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cmd := NewGenerateCommand(GenerateConfig{
		Channels:    3,
		Periods:     2,
		StartPeriod: "2024-11",
		OutputDir:   dir,
		Seed:        42,
	}, &bytes.Buffer{})
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return dir
}

func newTestApp(t *testing.T, scenarioFile, format string) (*App, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	app, err := NewApp(Config{ScenarioFile: scenarioFile, Format: format}, logging.Discard(), &buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return app, &buf
}

func TestGenerateCommand(t *testing.T) {
	dir := generateDemoData(t)

	scenarios, err := yamlrepo.NewLoader().LoadScenarios(filepath.Join(dir, "scenarios.yaml"))
	if err != nil {
		t.Fatalf("Expected generated scenarios to load: %v", err)
	}
	if len(scenarios) != 3 {
		t.Errorf("Expected 3 scenarios, got %d", len(scenarios))
	}

	spend, err := csvrepo.NewLoader().LoadSpend(filepath.Join(dir, "spend.csv"))
	if err != nil {
		t.Fatalf("Expected generated spend to load: %v", err)
	}
	if len(spend) != 6 {
		t.Errorf("Expected 6 spend records, got %d", len(spend))
	}
	if spend[0].PeriodID != "2024-11" || spend[len(spend)-1].PeriodID != "2024-12" {
		t.Errorf("Expected periods 2024-11 to 2024-12, got %s to %s", spend[0].PeriodID, spend[len(spend)-1].PeriodID)
	}

	conversions, err := csvrepo.NewLoader().LoadConversions(filepath.Join(dir, "conversions.csv"))
	if err != nil {
		t.Fatalf("Expected generated conversions to load: %v", err)
	}
	if len(conversions) != len(spend) {
		t.Errorf("Expected one conversion row per spend row, got %d", len(conversions))
	}
}

func TestGenerateCommand_Validation(t *testing.T) {
	testCases := []struct {
		name   string
		config GenerateConfig
	}{
		{"no_output", GenerateConfig{Channels: 1, Periods: 1, StartPeriod: "2024-01"}},
		{"too_many_channels", GenerateConfig{Channels: 9, Periods: 1, StartPeriod: "2024-01", OutputDir: "x"}},
		{"no_periods", GenerateConfig{Channels: 1, StartPeriod: "2024-01", OutputDir: "x"}},
		{"bad_start", GenerateConfig{Channels: 1, Periods: 1, StartPeriod: "Jan 2024", OutputDir: "x"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := NewGenerateCommand(tc.config, &bytes.Buffer{}).Execute(context.Background()); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestReportCommand(t *testing.T) {
	dir := generateDemoData(t)
	app, buf := newTestApp(t, filepath.Join(dir, "scenarios.yaml"), "json")

	if err := NewReportCommand(app).Execute(context.Background(), "moderate"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"scenario": "moderate"`) {
		t.Errorf("Expected moderate report, got:\n%s", buf.String())
	}

	if err := NewReportCommand(app).Execute(context.Background(), "bullish"); err == nil {
		t.Error("Expected error for unknown scenario")
	}
}

func TestReportCommand_CompareAndList(t *testing.T) {
	app, buf := newTestApp(t, filepath.Join(t.TempDir(), "missing.yaml"), "csv")
	cmd := NewReportCommand(app)

	if err := cmd.List(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Errorf("Expected header plus 3 stock scenarios, got %d lines", len(lines))
	}

	buf.Reset()
	if err := cmd.Compare(context.Background(), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lines = strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 || !strings.HasPrefix(lines[1], "conservative,") {
		t.Errorf("Expected every scenario in stored order, got:\n%s", buf.String())
	}

	events, _ := app.Events().ReadAllEvents(0)
	if len(events) != 4 {
		t.Errorf("Expected 3 calculated events and 1 comparison event, got %d", len(events))
	}
}

func TestNewApp_EventRetention(t *testing.T) {
	var buf bytes.Buffer
	app, err := NewApp(Config{Format: "json", EventRetention: 2}, logging.Discard(), &buf)
	if err != nil {
		t.Fatalf("Failed to create app: %v", err)
	}

	if err := NewReportCommand(app).Compare(context.Background(), nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	events, _ := app.Events().ReadAllEvents(0)
	if len(events) != 2 {
		t.Errorf("Expected 2 retained events, got %d", len(events))
	}
}

func TestMarketingCommand(t *testing.T) {
	dir := generateDemoData(t)
	app, buf := newTestApp(t, "", "json")

	cmd := NewMarketingCommand(app, MarketingConfig{
		SpendFile:       filepath.Join(dir, "spend.csv"),
		ConversionsFile: filepath.Join(dir, "conversions.csv"),
		Periods:         []string{"2024-12"},
	})
	if err := cmd.Execute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"2024-12"`) || strings.Contains(buf.String(), `"periodId": "2024-11"`) {
		t.Errorf("Expected only 2024-12 in the analysis, got:\n%s", buf.String())
	}

	missing := NewMarketingCommand(app, MarketingConfig{SpendFile: filepath.Join(dir, "spend.csv")})
	if err := missing.Execute(context.Background()); err == nil {
		t.Error("Expected error without a conversions file")
	}
}

func TestCalculatorCommand_InventoryCSV(t *testing.T) {
	app, buf := newTestApp(t, "", "csv")

	err := NewCalculatorCommand(app).Inventory(context.Background(), dto.InventoryRequest{Scenario: "moderate", Years: 1})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 366 {
		t.Errorf("Expected header plus 365 days, got %d lines", len(lines))
	}
}

func TestCalculatorCommand_OutputDir(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	app, err := NewApp(Config{Format: "yaml", OutputDir: dir, Verbose: true}, logging.Discard(), &buf)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := NewCalculatorCommand(app).Cost(context.Background(), dto.CostRequest{Volumes: []float64{2500}}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), filepath.Join(dir, "cost.yaml")) {
		t.Errorf("Expected saved path to be reported, got %q", buf.String())
	}
}
