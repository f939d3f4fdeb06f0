package repositories

import "github.com/sportsprod/erp/pkg/domain/services/marketing"

// MarketingRepository provides access to channel spend and conversion records
type MarketingRepository interface {
	LoadSpend(spend []marketing.Spend) error
	LoadConversions(conversions []marketing.Conversions) error
	GetSpend(periodID string) ([]marketing.Spend, error)
	GetConversions(periodID string) ([]marketing.Conversions, error)
	GetPeriods() ([]string, error)
}
