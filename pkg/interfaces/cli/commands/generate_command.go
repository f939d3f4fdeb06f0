package commands

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sportsprod/erp/pkg/domain/entities"
	yamlrepo "github.com/sportsprod/erp/pkg/infrastructure/repositories/yaml"
)

// demoChannels are the acquisition channels generated data draws from, with
// the CAC each one is centred on
var demoChannels = []struct {
	id      string
	baseCAC float64
}{
	{"paid_social", 45},
	{"search", 55},
	{"email", 30},
	{"influencer", 70},
	{"referral", 25},
}

// GenerateConfig holds configuration for demo data generation
type GenerateConfig struct {
	Channels    int    // Number of channels, at most len(demoChannels)
	Periods     int    // Number of monthly periods
	StartPeriod string // First period, YYYY-MM
	UnitPrice   float64
	OutputDir   string // Output directory for generated files
	Seed        int64  // Random seed for reproducible generation
	Verbose     bool
}

// GenerateCommand writes a scenarios file and matching marketing CSVs
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	out    io.Writer
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, out io.Writer) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if config.UnitPrice <= 0 {
		config.UnitPrice = 299
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		out:    out,
	}
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	start, err := time.Parse("2006-01", cmd.config.StartPeriod)
	if err != nil {
		return fmt.Errorf("invalid start period %q: %w", cmd.config.StartPeriod, err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "🔧 Generating %d periods of data for %d channels from %s\n",
			cmd.config.Periods, cmd.config.Channels, cmd.config.StartPeriod)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	// Create output directory
	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📋 Generating scenarios.yaml...")
	}
	if err := cmd.generateScenarios(); err != nil {
		return fmt.Errorf("failed to generate scenarios: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "📣 Generating spend.csv and conversions.csv...")
	}
	if err := cmd.generateMarketing(start); err != nil {
		return fmt.Errorf("failed to generate marketing data: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "✅ Demo data generated in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cmd.config.Channels <= 0 || cmd.config.Channels > len(demoChannels) {
		return fmt.Errorf("channels must be between 1 and %d, got %d", len(demoChannels), cmd.config.Channels)
	}
	if cmd.config.Periods <= 0 {
		return fmt.Errorf("periods must be positive, got %d", cmd.config.Periods)
	}
	return nil
}

// generateScenarios writes the three stock tiers
func (cmd *GenerateCommand) generateScenarios() error {
	file, err := os.Create(filepath.Join(cmd.config.OutputDir, "scenarios.yaml"))
	if err != nil {
		return err
	}
	defer file.Close()

	scenarios := make([]*entities.ScenarioAssumptions, 0, 3)
	for _, tier := range []entities.Scenario{entities.Conservative, entities.Moderate, entities.Aggressive} {
		s := entities.DefaultScenarioAssumptions(tier)
		s.UnitPrice = cmd.config.UnitPrice
		scenarios = append(scenarios, &s)
	}
	return yamlrepo.NewLoader().WriteScenarios(file, scenarios)
}

// generateMarketing writes spend.csv and conversions.csv. Each channel's CAC
// wanders between 80% and 130% of its base.
func (cmd *GenerateCommand) generateMarketing(start time.Time) error {
	spendFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "spend.csv"))
	if err != nil {
		return err
	}
	defer spendFile.Close()

	conversionsFile, err := os.Create(filepath.Join(cmd.config.OutputDir, "conversions.csv"))
	if err != nil {
		return err
	}
	defer conversionsFile.Close()

	// Write headers
	fmt.Fprintln(spendFile, "channel_id,period_id,amount")
	fmt.Fprintln(conversionsFile, "channel_id,period_id,new_customers,revenue")

	for p := 0; p < cmd.config.Periods; p++ {
		period := start.AddDate(0, p, 0).Format("2006-01")
		for _, channel := range demoChannels[:cmd.config.Channels] {
			spend := float64(1000 + cmd.rand.Intn(50)*100)
			cac := channel.baseCAC * (0.8 + 0.5*cmd.rand.Float64())
			customers := int(math.Round(spend / cac))
			revenue := float64(customers) * cmd.config.UnitPrice

			fmt.Fprintf(spendFile, "%s,%s,%.2f\n", channel.id, period, spend)
			fmt.Fprintf(conversionsFile, "%s,%s,%d,%.2f\n", channel.id, period, customers, revenue)
		}
	}
	return nil
}
