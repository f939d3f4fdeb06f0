package repositories

import (
	"errors"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

// ErrScenarioNotFound is returned when no scenario has the requested name
var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioRepository provides access to stored scenario assumptions
type ScenarioRepository interface {
	GetScenario(name string) (*entities.ScenarioAssumptions, error)
	GetAllScenarios() ([]*entities.ScenarioAssumptions, error)
	SaveScenario(scenario *entities.ScenarioAssumptions) error
	LoadScenarios(scenarios []*entities.ScenarioAssumptions) error
}
