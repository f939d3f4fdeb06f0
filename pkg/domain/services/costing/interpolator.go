// Package costing converts order volume into a per-unit manufacturing cost by
// piecewise-linear interpolation over calibrated volume/cost anchors.
package costing

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/sportsprod/erp/pkg/domain/money"
)

var (
	// ErrInvalidVolume is returned for a volume that is zero, negative or not finite
	ErrInvalidVolume = errors.New("Volume must be greater than 0")
	// ErrInsufficientPoints is returned when fewer than two anchors are supplied
	ErrInsufficientPoints = errors.New("at least 2 cost points are required for interpolation")
	// ErrInvalidPoint is returned for an anchor or floor that is not a finite number
	ErrInvalidPoint = errors.New("cost points must be finite")
)

// MaxCurveSteps bounds the samples Curve will produce
const MaxCurveSteps = 10000

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// CostPoint is a calibration anchor: the unit cost quoted at a volume
type CostPoint struct {
	Volume      float64 `json:"volume" yaml:"volume"`
	CostPerUnit float64 `json:"costPerUnit" yaml:"cost_per_unit"`
}

// CostCalculationResult is the interpolated cost for one volume
type CostCalculationResult struct {
	Volume      float64 `json:"volume" yaml:"volume"`
	CostPerUnit float64 `json:"costPerUnit" yaml:"cost_per_unit"`
	TotalCost   float64 `json:"totalCost" yaml:"total_cost"`
	AtFloor     bool    `json:"atFloor" yaml:"at_floor"`
}

// InterpolatorConfig configures an Interpolator. Nil Points selects the default
// anchors; nil MinCostFloor uses the lowest anchor cost.
type InterpolatorConfig struct {
	Points       []CostPoint
	MinCostFloor *float64
}

// DefaultCostPoints returns the built-in anchor table
func DefaultCostPoints() []CostPoint {
	return []CostPoint{
		{Volume: 1000, CostPerUnit: 96},
		{Volume: 5000, CostPerUnit: 82},
	}
}

// Interpolator is an immutable volume → unit cost lookup over a sorted anchor set
type Interpolator struct {
	points []CostPoint
	floor  float64
}

// NewInterpolator creates an Interpolator from the given configuration
func NewInterpolator(config InterpolatorConfig) (*Interpolator, error) {
	points := config.Points
	if points == nil {
		points = DefaultCostPoints()
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("%w, got %d", ErrInsufficientPoints, len(points))
	}

	for _, p := range points {
		if !finite(p.Volume) || !finite(p.CostPerUnit) {
			return nil, fmt.Errorf("%w, got %v at volume %v", ErrInvalidPoint, p.CostPerUnit, p.Volume)
		}
	}
	if config.MinCostFloor != nil && !finite(*config.MinCostFloor) {
		return nil, fmt.Errorf("%w, got floor %v", ErrInvalidPoint, *config.MinCostFloor)
	}

	sorted := make([]CostPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Volume < sorted[j].Volume
	})

	floor := sorted[0].CostPerUnit
	for _, p := range sorted[1:] {
		if p.CostPerUnit < floor {
			floor = p.CostPerUnit
		}
	}
	if config.MinCostFloor != nil {
		floor = *config.MinCostFloor
	}

	return &Interpolator{points: sorted, floor: floor}, nil
}

// MustNewInterpolator is like NewInterpolator but panics on an invalid configuration
func MustNewInterpolator(config InterpolatorConfig) *Interpolator {
	interp, err := NewInterpolator(config)
	if err != nil {
		panic(err)
	}
	return interp
}

// Points returns a copy of the sorted anchors
func (i *Interpolator) Points() []CostPoint {
	out := make([]CostPoint, len(i.points))
	copy(out, i.points)
	return out
}

// Floor returns the effective minimum unit cost
func (i *Interpolator) Floor() float64 {
	return i.floor
}

// Calculate returns the unit and total cost for a volume
func (i *Interpolator) Calculate(volume float64) (CostCalculationResult, error) {
	if !finite(volume) || volume <= 0 {
		return CostCalculationResult{}, ErrInvalidVolume
	}

	first := i.points[0]
	last := i.points[len(i.points)-1]

	var cost float64
	atFloor := false

	switch {
	case volume <= first.Volume:
		// No extrapolation below the calibrated range
		cost = first.CostPerUnit
	case volume >= last.Volume:
		cost = i.floor
		atFloor = true
	default:
		lower, upper := i.bracket(volume)
		cost = lower.CostPerUnit
		if span := upper.Volume - lower.Volume; span > 0 {
			cost += (upper.CostPerUnit - lower.CostPerUnit) * (volume - lower.Volume) / span
		}
		if cost < i.floor {
			cost = i.floor
			atFloor = true
		}
	}

	return CostCalculationResult{
		Volume:      volume,
		CostPerUnit: money.Cents(cost),
		TotalCost:   money.Cents(cost * volume),
		AtFloor:     atFloor,
	}, nil
}

// bracket finds the anchors surrounding a volume strictly inside the range
func (i *Interpolator) bracket(volume float64) (CostPoint, CostPoint) {
	idx := sort.Search(len(i.points), func(k int) bool {
		return i.points[k].Volume >= volume
	})
	return i.points[idx-1], i.points[idx]
}

// Curve samples the cost curve at evenly spaced volumes between from and to
func (i *Interpolator) Curve(from, to float64, steps int) ([]CostCalculationResult, error) {
	if !finite(from) || from <= 0 || !finite(to) {
		return nil, ErrInvalidVolume
	}
	if to < from {
		return nil, fmt.Errorf("curve end volume %v is below start volume %v", to, from)
	}
	if steps < 2 || steps > MaxCurveSteps {
		return nil, fmt.Errorf("curve requires between 2 and %d steps, got %d", MaxCurveSteps, steps)
	}

	results := make([]CostCalculationResult, 0, steps)
	stepSize := (to - from) / float64(steps-1)
	for s := 0; s < steps; s++ {
		volume := from + stepSize*float64(s)
		if s == steps-1 {
			volume = to
		}
		result, err := i.Calculate(volume)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// CalculateCost interpolates a single volume. Nil points selects the default
// anchors; nil minCostFloor uses the lowest anchor cost.
func CalculateCost(volume float64, points []CostPoint, minCostFloor *float64) (CostCalculationResult, error) {
	if volume <= 0 {
		return CostCalculationResult{}, ErrInvalidVolume
	}
	interp, err := NewInterpolator(InterpolatorConfig{Points: points, MinCostFloor: minCostFloor})
	if err != nil {
		return CostCalculationResult{}, err
	}
	return interp.Calculate(volume)
}
