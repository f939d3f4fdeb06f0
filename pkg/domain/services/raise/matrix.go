package raise

import (
	"fmt"
	"strings"

	"github.com/sportsprod/erp/pkg/domain/entities"
)

// DefaultRaiseAmounts returns the candidate raise sizes evaluated by default
func DefaultRaiseAmounts() []float64 {
	return []float64{250000, 500000, 750000, 1000000, 1500000}
}

// ScoredScenario is a matrix row with its additive score
type ScoredScenario struct {
	Result
	Score int `json:"score" yaml:"score"`
}

// Matrix is the evaluated set of raise candidates with a recommendation
type Matrix struct {
	Scenarios           []ScoredScenario `json:"scenarios" yaml:"scenarios"`
	RecommendedScenario *ScoredScenario  `json:"recommendedScenario" yaml:"recommended_scenario"`
	Reason              string           `json:"reason" yaml:"reason"`
}

// BuildRaiseScenarioMatrix evaluates base at every raise amount and
// recommends the highest scoring candidate. The first candidate wins ties.
// An empty amount list uses DefaultRaiseAmounts.
func BuildRaiseScenarioMatrix(base Input, amounts []float64) (Matrix, error) {
	if len(amounts) == 0 {
		amounts = DefaultRaiseAmounts()
	}

	matrix := Matrix{Scenarios: make([]ScoredScenario, 0, len(amounts))}
	best := -1
	for _, amount := range amounts {
		input := base
		input.RaiseAmount = amount

		result, err := CalculateRaiseScenario(input)
		if err != nil {
			return Matrix{}, fmt.Errorf("raise of %v: %w", amount, err)
		}

		row := ScoredScenario{Result: result, Score: ScoreScenario(result)}
		matrix.Scenarios = append(matrix.Scenarios, row)
		if best < 0 || row.Score > matrix.Scenarios[best].Score {
			best = len(matrix.Scenarios) - 1
		}
	}

	recommended := matrix.Scenarios[best]
	matrix.RecommendedScenario = &recommended
	matrix.Reason = recommendationReason(recommended)
	return matrix, nil
}

// ScoreScenario adds the runway, dilution and founder ownership band scores
func ScoreScenario(r Result) int {
	return runwayScore(r) + dilutionScore(r.EffectiveDilution) + ownershipScore(r.FounderOwnership)
}

func runwayScore(r Result) int {
	switch r.RunwayRisk {
	case entities.RunwayCritical:
		return 0
	case entities.RunwayLow:
		return 10
	case entities.RunwayModerate:
		return 25
	case entities.RunwayComfortable:
		return 35
	case entities.RunwayExtended:
		return 40
	default:
		return 0
	}
}

func dilutionScore(dilution float64) int {
	switch {
	case dilution < 0.10:
		return 30
	case dilution < 0.15:
		return 25
	case dilution < 0.20:
		return 20
	case dilution < 0.25:
		return 10
	default:
		return 0
	}
}

func ownershipScore(ownership float64) int {
	switch {
	case ownership >= 0.70:
		return 30
	case ownership >= 0.60:
		return 20
	case ownership >= 0.50:
		return 10
	default:
		return 0
	}
}

func recommendationReason(s ScoredScenario) string {
	runway := "unlimited runway"
	if !s.UnlimitedRunway {
		runway = fmt.Sprintf("%d months of runway", s.RunwayMonths)
	}
	return fmt.Sprintf("Raising %s provides %s (%s risk) for %.1f%% dilution, leaving founders with %.1f%% ownership",
		FormatAmount(s.Input.RaiseAmount), runway, s.RunwayRisk, s.EffectiveDilution*100, s.FounderOwnership*100)
}

// FormatAmount renders a raise size the way founders say it: $750K, $1.5M
func FormatAmount(amount float64) string {
	switch {
	case amount >= 1000000:
		return "$" + trimZeros(fmt.Sprintf("%.2f", amount/1000000)) + "M"
	case amount >= 1000:
		return "$" + trimZeros(fmt.Sprintf("%.1f", amount/1000)) + "K"
	default:
		return fmt.Sprintf("$%.0f", amount)
	}
}

func trimZeros(s string) string {
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
