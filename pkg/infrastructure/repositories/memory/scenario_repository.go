package memory

import (
	"fmt"
	"sync"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/repositories"
)

// ScenarioRepository provides in-memory scenario storage. Scenarios are kept
// in insertion order; saving an existing name replaces it in place.
type ScenarioRepository struct {
	mu        sync.RWMutex
	scenarios []entities.ScenarioAssumptions
	byName    map[string]int
}

// NewScenarioRepository creates a new in-memory scenario repository
func NewScenarioRepository(expectedScenarios int) *ScenarioRepository {
	return &ScenarioRepository{
		scenarios: make([]entities.ScenarioAssumptions, 0, expectedScenarios),
		byName:    make(map[string]int, expectedScenarios),
	}
}

// NewDefaultScenarioRepository returns a repository seeded with the stock
// conservative, moderate and aggressive scenarios
func NewDefaultScenarioRepository() *ScenarioRepository {
	r := NewScenarioRepository(3)
	for _, tier := range []entities.Scenario{entities.Conservative, entities.Moderate, entities.Aggressive} {
		defaults := entities.DefaultScenarioAssumptions(tier)
		r.put(defaults)
	}
	return r
}

// Verify interface compliance
var _ repositories.ScenarioRepository = (*ScenarioRepository)(nil)

// LoadScenarios loads scenarios into the repository
func (r *ScenarioRepository) LoadScenarios(scenarios []*entities.ScenarioAssumptions) error {
	for _, scenario := range scenarios {
		if err := r.SaveScenario(scenario); err != nil {
			return err
		}
	}
	return nil
}

// SaveScenario validates and stores a scenario
func (r *ScenarioRepository) SaveScenario(scenario *entities.ScenarioAssumptions) error {
	if scenario == nil {
		return fmt.Errorf("scenario cannot be nil")
	}
	if err := scenario.Validate(); err != nil {
		return err
	}
	r.put(*scenario)
	return nil
}

func (r *ScenarioRepository) put(scenario entities.ScenarioAssumptions) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.byName[scenario.Name]; exists {
		r.scenarios[index] = scenario
		return
	}
	r.byName[scenario.Name] = len(r.scenarios)
	r.scenarios = append(r.scenarios, scenario)
}

// GetScenario returns a copy of the named scenario
func (r *ScenarioRepository) GetScenario(name string) (*entities.ScenarioAssumptions, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrScenarioNotFound, name)
	}
	scenario := r.scenarios[index]
	return &scenario, nil
}

// GetAllScenarios returns copies of every scenario in insertion order
func (r *ScenarioRepository) GetAllScenarios() ([]*entities.ScenarioAssumptions, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenarios := make([]*entities.ScenarioAssumptions, 0, len(r.scenarios))
	for i := range r.scenarios {
		scenario := r.scenarios[i]
		scenarios = append(scenarios, &scenario)
	}
	return scenarios, nil
}
