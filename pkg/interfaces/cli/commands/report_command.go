package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// ReportCommand builds, compares and lists stored scenarios
type ReportCommand struct {
	app *App
}

// NewReportCommand creates a report command over app
func NewReportCommand(app *App) *ReportCommand {
	return &ReportCommand{app: app}
}

// Execute builds the full report for one scenario
func (c *ReportCommand) Execute(ctx context.Context, name string) error {
	startTime := time.Now()
	report, err := c.app.service.BuildScenarioReport(ctx, name)
	if err != nil {
		return fmt.Errorf("error building report: %w", err)
	}

	c.app.logger.WithFields(logrus.Fields{
		"scenario": name,
		"duration": time.Since(startTime).String(),
	}).Debug("report complete")

	return c.app.emit(report, "report_"+name)
}

// Compare builds reports for several scenarios side by side. No names
// compares every stored scenario.
func (c *ReportCommand) Compare(ctx context.Context, names []string) error {
	if len(names) == 0 {
		all, err := c.app.service.ListScenarios(ctx)
		if err != nil {
			return fmt.Errorf("error listing scenarios: %w", err)
		}
		for _, s := range all {
			names = append(names, s.Name)
		}
	}

	comparison, err := c.app.service.CompareScenarios(ctx, names)
	if err != nil {
		return fmt.Errorf("error comparing scenarios: %w", err)
	}
	return c.app.emit(comparison, "comparison")
}

// List prints the stored scenarios
func (c *ReportCommand) List(ctx context.Context) error {
	scenarios, err := c.app.service.ListScenarios(ctx)
	if err != nil {
		return fmt.Errorf("error listing scenarios: %w", err)
	}
	return c.app.emit(scenarios, "scenarios")
}
