package yaml

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

// scenarioFile is the on-disk layout of a scenarios file
type scenarioFile struct {
	Scenarios []entities.ScenarioAssumptions `yaml:"scenarios"`
}

// scenarioNodes defers decoding each scenario until its tier defaults are known
type scenarioNodes struct {
	Scenarios []yaml.Node `yaml:"scenarios"`
}

// scenarioKey is the part of a scenario needed to pick its defaults
type scenarioKey struct {
	Name       string             `yaml:"name"`
	VolumeTier *entities.Scenario `yaml:"volume_tier"`
}

// Loader reads scenario assumptions from YAML files
type Loader struct{}

// NewLoader creates a new YAML loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenarios loads scenarios from a YAML file
func (l *Loader) LoadScenarios(filename string) ([]*entities.ScenarioAssumptions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenarios file %s: %w", filename, err)
	}

	scenarios, err := l.DecodeScenarios(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("scenarios file %s: %w", filename, err)
	}
	return scenarios, nil
}

// DecodeScenarios reads a scenarios document. Every scenario starts from the
// defaults of its volume tier and the document overrides the fields it sets.
// Unknown fields and duplicate names are errors.
func (l *Loader) DecodeScenarios(r io.Reader) ([]*entities.ScenarioAssumptions, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios: %w", err)
	}

	// Strict pass to reject unknown fields
	var strict scenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&strict); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse scenarios YAML: %w", err)
	}

	var nodes scenarioNodes
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios YAML: %w", err)
	}
	if len(nodes.Scenarios) == 0 {
		return nil, fmt.Errorf("scenarios YAML must define at least one scenario")
	}

	seen := make(map[string]bool, len(nodes.Scenarios))
	scenarios := make([]*entities.ScenarioAssumptions, 0, len(nodes.Scenarios))
	for i := range nodes.Scenarios {
		node := &nodes.Scenarios[i]

		var key scenarioKey
		if err := node.Decode(&key); err != nil {
			return nil, fmt.Errorf("scenario %d: %w", i+1, err)
		}
		if key.Name == "" {
			return nil, fmt.Errorf("scenario %d (line %d): name is required", i+1, node.Line)
		}
		if seen[key.Name] {
			return nil, fmt.Errorf("scenario %d (line %d): duplicate name %q", i+1, node.Line, key.Name)
		}
		seen[key.Name] = true

		tier := entities.ParseScenario(key.Name)
		if key.VolumeTier != nil {
			tier = *key.VolumeTier
		}
		scenario := entities.DefaultScenarioAssumptions(tier)
		if err := node.Decode(&scenario); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", key.Name, err)
		}
		if err := scenario.Validate(); err != nil {
			return nil, err
		}
		scenarios = append(scenarios, &scenario)
	}

	return scenarios, nil
}

// WriteScenarios writes scenarios in the layout LoadScenarios reads
func (l *Loader) WriteScenarios(w io.Writer, scenarios []*entities.ScenarioAssumptions) error {
	file := scenarioFile{Scenarios: make([]entities.ScenarioAssumptions, 0, len(scenarios))}
	for _, s := range scenarios {
		file.Scenarios = append(file.Scenarios, *s)
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to write scenarios YAML: %w", err)
	}
	return encoder.Close()
}
