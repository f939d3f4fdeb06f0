package entities

import "fmt"

// Scenario represents a named sales-volume tier used across projections
type Scenario int

const (
	Conservative Scenario = iota
	Moderate
	Aggressive
)

// String method for Scenario enum
func (s Scenario) String() string {
	switch s {
	case Conservative:
		return "conservative"
	case Moderate:
		return "moderate"
	case Aggressive:
		return "aggressive"
	default:
		return "unknown"
	}
}

// AnnualUnits returns the annual unit volume for the scenario
func (s Scenario) AnnualUnits() int {
	switch s {
	case Conservative:
		return 5000
	case Aggressive:
		return 20000
	default:
		return 10000
	}
}

// ParseScenario maps a scenario name to its tier. Unknown names fall back to
// Moderate without error.
func ParseScenario(name string) Scenario {
	s, err := scenarioFromName(name)
	if err != nil {
		return Moderate
	}
	return s
}

func scenarioFromName(name string) (Scenario, error) {
	switch name {
	case "conservative":
		return Conservative, nil
	case "moderate":
		return Moderate, nil
	case "aggressive":
		return Aggressive, nil
	default:
		return Moderate, fmt.Errorf("unknown scenario %q", name)
	}
}

// MarshalText encodes the scenario by name
func (s Scenario) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a scenario name, rejecting unknown names
func (s *Scenario) UnmarshalText(text []byte) error {
	parsed, err := scenarioFromName(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
