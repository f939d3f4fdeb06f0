package events

import (
	"sync"

	"github.com/sportsprod/erp/pkg/domain/services/marketing"
)

const (
	ScenarioSavedEvent      = "scenario.saved"
	ScenarioCalculatedEvent = "scenario.calculated"
	ScenariosComparedEvent  = "scenario.compared"

	CACAlertRaisedEvent = "cac.alert.raised"
)

// MarketingStream is the stream every CAC alert is appended to
const MarketingStream = "marketing"

type ScenarioSaved struct {
	Scenario string `json:"scenario"`
}

type ScenarioCalculated struct {
	Scenario          string  `json:"scenario"`
	Years             int     `json:"years"`
	UnitCost          float64 `json:"unit_cost"`
	TotalNetRevenue   float64 `json:"total_net_revenue"`
	PeakCapital       float64 `json:"peak_capital"`
	RecommendedRaise  float64 `json:"recommended_raise"`
	InventoryOrders   int     `json:"inventory_orders"`
	InventoryStockout int     `json:"inventory_stockout_days"`
}

type ScenariosCompared struct {
	Scenarios []string `json:"scenarios"`
}

type CACAlertRaised struct {
	Alert marketing.Alert `json:"alert"`
}

func NewScenarioSavedEvent(name string) Event {
	return NewEvent(ScenarioSavedEvent, name, ScenarioSaved{Scenario: name})
}

func NewScenarioCalculatedEvent(calculated ScenarioCalculated) Event {
	return NewEvent(ScenarioCalculatedEvent, calculated.Scenario, calculated)
}

func NewScenariosComparedEvent(names []string) Event {
	return NewEvent(ScenariosComparedEvent, "comparisons", ScenariosCompared{Scenarios: names})
}

func NewCACAlertRaisedEvent(alert marketing.Alert) Event {
	return NewEvent(CACAlertRaisedEvent, MarketingStream, CACAlertRaised{Alert: alert})
}

// AlertLog is a subscriber that keeps the most recent CAC alerts
type AlertLog struct {
	mu     sync.RWMutex
	limit  int
	alerts []marketing.Alert
}

// NewAlertLog keeps at most limit alerts; limit <= 0 keeps everything
func NewAlertLog(limit int) *AlertLog {
	return &AlertLog{limit: limit}
}

func (l *AlertLog) CanHandle(eventType string) bool {
	return eventType == CACAlertRaisedEvent
}

func (l *AlertLog) Handle(event Event) error {
	raised, ok := event.Data().(CACAlertRaised)
	if !ok {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.alerts = append(l.alerts, raised.Alert)
	if l.limit > 0 && len(l.alerts) > l.limit {
		l.alerts = l.alerts[len(l.alerts)-l.limit:]
	}
	return nil
}

// Alerts returns the retained alerts, oldest first
func (l *AlertLog) Alerts() []marketing.Alert {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]marketing.Alert, len(l.alerts))
	copy(out, l.alerts)
	return out
}
