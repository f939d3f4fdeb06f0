package testing

import (
	"strconv"
	"time"

	"github.com/sportsprod/erp/pkg/domain/services/marketing"
	"github.com/sportsprod/erp/pkg/infrastructure/repositories/memory"
)

// FixedTime is the instant returned by FixedClock
var FixedTime = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

// FixedClock returns FixedTime on every call
func FixedClock() time.Time {
	return FixedTime
}

// SequentialIDs returns an id generator yielding alert-1, alert-2, ...
func SequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return "alert-" + strconv.Itoa(n)
	}
}

// MarketingSpend is two months of spend across three channels. In 2024-02
// email costs $80 per customer, paid social $50 and referral acquires nobody.
func MarketingSpend() []marketing.Spend {
	return []marketing.Spend{
		{ChannelID: "paid_social", PeriodID: "2024-01", Amount: 2500},
		{ChannelID: "email", PeriodID: "2024-01", Amount: 400},
		{ChannelID: "paid_social", PeriodID: "2024-02", Amount: 3000},
		{ChannelID: "email", PeriodID: "2024-02", Amount: 800},
		{ChannelID: "referral", PeriodID: "2024-02", Amount: 300},
	}
}

// MarketingConversions pairs with MarketingSpend
func MarketingConversions() []marketing.Conversions {
	return []marketing.Conversions{
		{ChannelID: "paid_social", PeriodID: "2024-01", NewCustomers: 50, Revenue: 14950},
		{ChannelID: "email", PeriodID: "2024-01", NewCustomers: 10, Revenue: 2990},
		{ChannelID: "paid_social", PeriodID: "2024-02", NewCustomers: 60, Revenue: 9000},
		{ChannelID: "email", PeriodID: "2024-02", NewCustomers: 10, Revenue: 2990},
		{ChannelID: "referral", PeriodID: "2024-02", NewCustomers: 0, Revenue: 0},
	}
}

// MarketingTarget is a $50 global target with an explicit $50 email target
func MarketingTarget() marketing.Target {
	target := marketing.DefaultTarget()
	target.ChannelTargets = map[string]float64{"email": 50}
	return target
}

// BuildMarketingTestData returns a repository loaded with the sample data
func BuildMarketingTestData() *memory.MarketingRepository {
	repo := memory.NewMarketingRepository()
	_ = repo.LoadSpend(MarketingSpend())
	_ = repo.LoadConversions(MarketingConversions())
	return repo
}
