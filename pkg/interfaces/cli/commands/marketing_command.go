package commands

import (
	"context"
	"fmt"

	"github.com/sportsprod/erp/pkg/application/services"
	"github.com/sportsprod/erp/pkg/domain/services/marketing"
	csvrepo "github.com/sportsprod/erp/pkg/infrastructure/repositories/csv"
	"github.com/sportsprod/erp/pkg/infrastructure/repositories/memory"
)

// MarketingConfig holds the inputs of a CAC analysis
type MarketingConfig struct {
	SpendFile       string
	ConversionsFile string
	Periods         []string
	// Target overrides the stock CAC target when set
	Target *marketing.Target
}

// MarketingCommand analyzes channel CAC and ROAS from CSV exports
type MarketingCommand struct {
	app    *App
	config MarketingConfig
}

// NewMarketingCommand creates a marketing command over app
func NewMarketingCommand(app *App, config MarketingConfig) *MarketingCommand {
	return &MarketingCommand{app: app, config: config}
}

// Execute loads the CSV files and prints the analysis
func (c *MarketingCommand) Execute(ctx context.Context) error {
	if c.config.SpendFile == "" || c.config.ConversionsFile == "" {
		return fmt.Errorf("validation error: both spend and conversions files are required")
	}

	repo, err := LoadMarketingData(c.config.SpendFile, c.config.ConversionsFile)
	if err != nil {
		return err
	}

	req, err := services.MarketingRequestFrom(repo, c.config.Periods)
	if err != nil {
		return err
	}
	req.Target = c.config.Target

	analysis, err := c.app.service.AnalyzeMarketing(ctx, req)
	if err != nil {
		return fmt.Errorf("error analyzing marketing data: %w", err)
	}
	return c.app.emit(analysis, "marketing")
}

// LoadMarketingData reads spend and conversion CSVs into a repository
func LoadMarketingData(spendFile, conversionsFile string) (*memory.MarketingRepository, error) {
	loader := csvrepo.NewLoader()

	spend, err := loader.LoadSpend(spendFile)
	if err != nil {
		return nil, fmt.Errorf("error loading spend: %w", err)
	}
	conversions, err := loader.LoadConversions(conversionsFile)
	if err != nil {
		return nil, fmt.Errorf("error loading conversions: %w", err)
	}

	repo := memory.NewMarketingRepository()
	if err := repo.LoadSpend(spend); err != nil {
		return nil, fmt.Errorf("failed to load spend into repository: %w", err)
	}
	if err := repo.LoadConversions(conversions); err != nil {
		return nil, fmt.Errorf("failed to load conversions into repository: %w", err)
	}
	return repo, nil
}
