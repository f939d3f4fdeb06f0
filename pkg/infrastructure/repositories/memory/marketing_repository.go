package memory

import (
	"sort"
	"sync"

	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/domain/services/marketing"
)

// MarketingRepository provides in-memory channel spend and conversion storage
type MarketingRepository struct {
	mu          sync.RWMutex
	spend       []marketing.Spend
	conversions []marketing.Conversions
}

// NewMarketingRepository creates a new in-memory marketing repository
func NewMarketingRepository() *MarketingRepository {
	return &MarketingRepository{}
}

// Verify interface compliance
var _ repositories.MarketingRepository = (*MarketingRepository)(nil)

// LoadSpend appends spend records
func (r *MarketingRepository) LoadSpend(spend []marketing.Spend) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spend = append(r.spend, spend...)
	return nil
}

// LoadConversions appends conversion records
func (r *MarketingRepository) LoadConversions(conversions []marketing.Conversions) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conversions = append(r.conversions, conversions...)
	return nil
}

// GetSpend returns the spend records for a period, or all records when
// periodID is empty
func (r *MarketingRepository) GetSpend(periodID string) ([]marketing.Spend, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var spend []marketing.Spend
	for _, s := range r.spend {
		if periodID == "" || s.PeriodID == periodID {
			spend = append(spend, s)
		}
	}
	return spend, nil
}

// GetConversions returns the conversion records for a period, or all records
// when periodID is empty
func (r *MarketingRepository) GetConversions(periodID string) ([]marketing.Conversions, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var conversions []marketing.Conversions
	for _, c := range r.conversions {
		if periodID == "" || c.PeriodID == periodID {
			conversions = append(conversions, c)
		}
	}
	return conversions, nil
}

// GetPeriods returns every period id seen in spend or conversions, sorted
func (r *MarketingRepository) GetPeriods() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, s := range r.spend {
		seen[s.PeriodID] = true
	}
	for _, c := range r.conversions {
		seen[c.PeriodID] = true
	}

	periods := make([]string, 0, len(seen))
	for period := range seen {
		periods = append(periods, period)
	}
	sort.Strings(periods)
	return periods, nil
}
