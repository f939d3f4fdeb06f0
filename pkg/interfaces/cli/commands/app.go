// Package commands implements the sportsprod CLI subcommands on top of the
// planning service.
package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/sportsprod/erp/pkg/application/services"
	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/infrastructure/events"
	"github.com/sportsprod/erp/pkg/infrastructure/repositories/memory"
	yamlrepo "github.com/sportsprod/erp/pkg/infrastructure/repositories/yaml"
	"github.com/sportsprod/erp/pkg/interfaces/cli/output"
)

// Config holds settings shared by every command
type Config struct {
	ScenarioFile   string
	OutputDir      string
	Format         string
	Verbose        bool
	// EventRetention caps the events kept in memory; 0 keeps every event
	EventRetention int
}

// App wires the planning service and output settings for one CLI run
type App struct {
	config  Config
	logger  *logrus.Logger
	store   *events.InMemoryEventStore
	service *services.PlanningService
	out     io.Writer
}

// NewApp loads the scenario file, falling back to the stock scenarios when
// the file does not exist, and builds the planning service
func NewApp(config Config, logger *logrus.Logger, out io.Writer) (*App, error) {
	repo, err := loadScenarios(config.ScenarioFile, logger)
	if err != nil {
		return nil, err
	}

	store := events.NewInMemoryEventStore(logger, events.WithRetention(config.EventRetention))
	return &App{
		config:  config,
		logger:  logger,
		store:   store,
		service: services.NewPlanningService(repo, store, logger),
		out:     out,
	}, nil
}

// Service returns the planning service the commands run against
func (a *App) Service() *services.PlanningService {
	return a.service
}

// Events returns the store recording this run's planning events
func (a *App) Events() *events.InMemoryEventStore {
	return a.store
}

func loadScenarios(filename string, logger *logrus.Logger) (repositories.ScenarioRepository, error) {
	if filename == "" {
		return memory.NewDefaultScenarioRepository(), nil
	}

	scenarios, err := yamlrepo.NewLoader().LoadScenarios(filename)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WithField("file", filename).Debug("scenario file not found, using stock scenarios")
		return memory.NewDefaultScenarioRepository(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading scenarios: %w", err)
	}

	repo := memory.NewScenarioRepository(len(scenarios))
	if err := repo.LoadScenarios(scenarios); err != nil {
		return nil, fmt.Errorf("failed to load scenarios into repository: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"file":      filename,
		"scenarios": len(scenarios),
	}).Debug("scenarios loaded")
	return repo, nil
}

// emit renders a result with the configured format and destination
func (a *App) emit(result interface{}, name string) error {
	return output.GenerateTo(a.out, result, output.Config{
		Format:    a.config.Format,
		OutputDir: a.config.OutputDir,
		Verbose:   a.config.Verbose,
		Name:      name,
	})
}
