package marketing

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/money"
)

// Target holds the CAC ceilings and the drift thresholds that grade alerts.
// Thresholds are fractions over target (0.30 = 30% over).
type Target struct {
	GlobalTarget      float64            `json:"globalTarget" yaml:"global_target"`
	ChannelTargets    map[string]float64 `json:"channelTargets,omitempty" yaml:"channel_targets,omitempty"`
	WarningThreshold  float64            `json:"warningThreshold" yaml:"warning_threshold"`
	CriticalThreshold float64            `json:"criticalThreshold" yaml:"critical_threshold"`
}

// DefaultTarget returns a $50 global CAC target with 15%/30% thresholds
func DefaultTarget() Target {
	return Target{
		GlobalTarget:      50,
		ChannelTargets:    map[string]float64{},
		WarningThreshold:  0.15,
		CriticalThreshold: 0.30,
	}
}

// EffectiveTarget returns the channel override if one exists, else the global target
func (t Target) EffectiveTarget(channelID string) float64 {
	if target, ok := t.ChannelTargets[channelID]; ok {
		return target
	}
	return t.GlobalTarget
}

// Alert reports a channel whose CAC exceeded its target
type Alert struct {
	ID                string            `json:"id" yaml:"id"`
	ChannelID         string            `json:"channelId" yaml:"channel_id"`
	PeriodID          string            `json:"periodId" yaml:"period_id"`
	CurrentCAC        float64           `json:"currentCac" yaml:"current_cac"`
	TargetCAC         float64           `json:"targetCac" yaml:"target_cac"`
	PercentOverTarget float64           `json:"percentOverTarget" yaml:"percent_over_target"`
	Severity          entities.Severity `json:"severity" yaml:"severity"`
	Message           string            `json:"message" yaml:"message"`
	CreatedAt         time.Time         `json:"createdAt" yaml:"created_at"`
}

// DetermineAlertSeverity grades how far current is over target. The second
// return value is false when no alert applies.
func DetermineAlertSeverity(current, target float64, config Target) (entities.Severity, bool) {
	if target <= 0 || current <= target {
		return entities.SeverityInfo, false
	}

	percentOver := (current - target) / target
	switch {
	case percentOver >= config.CriticalThreshold:
		return entities.SeverityCritical, true
	case percentOver >= config.WarningThreshold:
		return entities.SeverityWarning, true
	default:
		return entities.SeverityInfo, true
	}
}

// CalculateCACEfficiency scores CAC against target on a 0-100 scale: 50 at
// target, 0 at 1.5x target, capped at 100
func CalculateCACEfficiency(cac, target float64) float64 {
	if target <= 0 {
		return 0
	}
	ratio := cac / target
	score := 100 - (ratio-0.5)*100
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return money.Round(score, 2)
}

// AlertChecker evaluates CAC results against a target
type AlertChecker struct {
	target Target
	now    func() time.Time
	newID  func() string
}

// AlertCheckerOption customizes an AlertChecker
type AlertCheckerOption func(*AlertChecker)

// WithClock overrides the alert timestamp source
func WithClock(now func() time.Time) AlertCheckerOption {
	return func(c *AlertChecker) {
		c.now = now
	}
}

// WithIDGenerator overrides the alert id source
func WithIDGenerator(newID func() string) AlertCheckerOption {
	return func(c *AlertChecker) {
		c.newID = newID
	}
}

// NewAlertChecker creates an AlertChecker for the given target
func NewAlertChecker(target Target, opts ...AlertCheckerOption) *AlertChecker {
	checker := &AlertChecker{
		target: target,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(checker)
	}
	return checker
}

// Target returns the checker's target configuration
func (c *AlertChecker) Target() Target {
	return c.target
}

// Check returns an alert when the result's CAC is over its effective target.
// Results with no CAC (zero customers) never alert.
func (c *AlertChecker) Check(result CACResult) *Alert {
	if result.CAC <= 0 {
		return nil
	}

	target := c.target.EffectiveTarget(result.ChannelID)
	severity, ok := DetermineAlertSeverity(result.CAC, target, c.target)
	if !ok {
		return nil
	}

	percentOver := money.Round((result.CAC-target)/target*100, 1)
	return &Alert{
		ID:                c.newID(),
		ChannelID:         result.ChannelID,
		PeriodID:          result.PeriodID,
		CurrentCAC:        result.CAC,
		TargetCAC:         target,
		PercentOverTarget: percentOver,
		Severity:          severity,
		Message:           alertMessage(severity, result, target, percentOver),
		CreatedAt:         c.now(),
	}
}

// CheckAll returns the alerts for a batch, most severe first
func (c *AlertChecker) CheckAll(results []CACResult) []Alert {
	alerts := make([]Alert, 0)
	for _, result := range results {
		if alert := c.Check(result); alert != nil {
			alerts = append(alerts, *alert)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() < alerts[j].Severity.Rank()
	})
	return alerts
}

func alertMessage(severity entities.Severity, result CACResult, target, percentOver float64) string {
	switch severity {
	case entities.SeverityCritical:
		return fmt.Sprintf("Critical: %s CAC of $%.2f is %.1f%% over the $%.2f target for %s. Pause or rework this channel.",
			result.ChannelID, result.CAC, percentOver, target, result.PeriodID)
	case entities.SeverityWarning:
		return fmt.Sprintf("Warning: %s CAC of $%.2f is %.1f%% over the $%.2f target for %s. Review spend allocation.",
			result.ChannelID, result.CAC, percentOver, target, result.PeriodID)
	case entities.SeverityInfo:
		return fmt.Sprintf("%s CAC of $%.2f is slightly above the $%.2f target (%.1f%%) for %s.",
			result.ChannelID, result.CAC, target, percentOver, result.PeriodID)
	default:
		return fmt.Sprintf("%s CAC of $%.2f exceeds the $%.2f target.", result.ChannelID, result.CAC, target)
	}
}

// CheckCACTarget checks one result with a default-clock checker
func CheckCACTarget(result CACResult, target Target) *Alert {
	return NewAlertChecker(target).Check(result)
}

// CheckCACTargets checks a batch with a default-clock checker
func CheckCACTargets(results []CACResult, target Target) []Alert {
	return NewAlertChecker(target).CheckAll(results)
}
