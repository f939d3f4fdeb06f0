// Package marketing computes customer acquisition cost and return on ad spend
// per channel and blended across channels, and raises alerts when CAC drifts
// past its target.
package marketing

import (
	"errors"
	"fmt"

	"github.com/sportsprod/erp/pkg/domain/money"
)

// ErrChannelMismatch is returned when paired spend and conversion records
// describe different channels or periods
var ErrChannelMismatch = errors.New("spend and conversion records do not match")

// Spend is the marketing spend for one channel in one period
type Spend struct {
	ChannelID string  `json:"channelId" yaml:"channel_id"`
	PeriodID  string  `json:"periodId" yaml:"period_id"`
	Amount    float64 `json:"amount" yaml:"amount"`
}

// Conversions is the acquisition outcome for one channel in one period
type Conversions struct {
	ChannelID    string  `json:"channelId" yaml:"channel_id"`
	PeriodID     string  `json:"periodId" yaml:"period_id"`
	NewCustomers int     `json:"newCustomers" yaml:"new_customers"`
	Revenue      float64 `json:"revenue" yaml:"revenue"`
}

// CACResult is the acquisition cost for one channel and period. CAC is zero
// when no customers were acquired, meaning "undefined" rather than free.
type CACResult struct {
	ChannelID    string  `json:"channelId" yaml:"channel_id"`
	PeriodID     string  `json:"periodId" yaml:"period_id"`
	Spend        float64 `json:"spend" yaml:"spend"`
	NewCustomers int     `json:"newCustomers" yaml:"new_customers"`
	CAC          float64 `json:"cac" yaml:"cac"`
}

// ROASResult is the revenue returned per dollar of spend
type ROASResult struct {
	ChannelID string  `json:"channelId" yaml:"channel_id"`
	PeriodID  string  `json:"periodId" yaml:"period_id"`
	Spend     float64 `json:"spend" yaml:"spend"`
	Revenue   float64 `json:"revenue" yaml:"revenue"`
	ROAS      float64 `json:"roas" yaml:"roas"`
}

// BlendedCACResult sums every channel in a period before dividing
type BlendedCACResult struct {
	PeriodID       string      `json:"periodId" yaml:"period_id"`
	TotalSpend     float64     `json:"totalSpend" yaml:"total_spend"`
	TotalCustomers int         `json:"totalCustomers" yaml:"total_customers"`
	CAC            float64     `json:"cac" yaml:"cac"`
	Channels       []CACResult `json:"channels" yaml:"channels"`
}

// BlendedROASResult sums every channel in a period before dividing
type BlendedROASResult struct {
	PeriodID     string  `json:"periodId" yaml:"period_id"`
	TotalSpend   float64 `json:"totalSpend" yaml:"total_spend"`
	TotalRevenue float64 `json:"totalRevenue" yaml:"total_revenue"`
	ROAS         float64 `json:"roas" yaml:"roas"`
}

// TrendPoint is one period of a blended CAC trend
type TrendPoint struct {
	PeriodID       string  `json:"periodId" yaml:"period_id"`
	CAC            float64 `json:"cac" yaml:"cac"`
	TotalSpend     float64 `json:"totalSpend" yaml:"total_spend"`
	TotalCustomers int     `json:"totalCustomers" yaml:"total_customers"`
	ChangePercent  float64 `json:"changePercent" yaml:"change_percent"`
}

func checkPair(spend Spend, conversions Conversions) error {
	if spend.ChannelID != conversions.ChannelID || spend.PeriodID != conversions.PeriodID {
		return fmt.Errorf("%w: spend is %s/%s, conversions are %s/%s", ErrChannelMismatch,
			spend.ChannelID, spend.PeriodID, conversions.ChannelID, conversions.PeriodID)
	}
	return nil
}

// CalculateChannelCAC divides spend by new customers for a single channel
func CalculateChannelCAC(spend Spend, conversions Conversions) (CACResult, error) {
	if err := checkPair(spend, conversions); err != nil {
		return CACResult{}, err
	}

	return CACResult{
		ChannelID:    spend.ChannelID,
		PeriodID:     spend.PeriodID,
		Spend:        spend.Amount,
		NewCustomers: conversions.NewCustomers,
		CAC:          divideOrZero(spend.Amount, float64(conversions.NewCustomers)),
	}, nil
}

// CalculateChannelROAS divides attributed revenue by spend for a single channel
func CalculateChannelROAS(spend Spend, conversions Conversions) (ROASResult, error) {
	if err := checkPair(spend, conversions); err != nil {
		return ROASResult{}, err
	}

	return ROASResult{
		ChannelID: spend.ChannelID,
		PeriodID:  spend.PeriodID,
		Spend:     spend.Amount,
		Revenue:   conversions.Revenue,
		ROAS:      divideOrZero(conversions.Revenue, spend.Amount),
	}, nil
}

// CalculateBlendedCAC totals spend and customers across every channel in the
// period, then divides once
func CalculateBlendedCAC(spends []Spend, conversions []Conversions, periodID string) BlendedCACResult {
	result := BlendedCACResult{PeriodID: periodID, Channels: []CACResult{}}

	customersByChannel := make(map[string]int)
	for _, c := range conversions {
		if c.PeriodID != periodID {
			continue
		}
		customersByChannel[c.ChannelID] += c.NewCustomers
		result.TotalCustomers += c.NewCustomers
	}

	spendByChannel := make(map[string]float64)
	var channelOrder []string
	for _, s := range spends {
		if s.PeriodID != periodID {
			continue
		}
		if _, seen := spendByChannel[s.ChannelID]; !seen {
			channelOrder = append(channelOrder, s.ChannelID)
		}
		spendByChannel[s.ChannelID] += s.Amount
		result.TotalSpend += s.Amount
	}

	for _, channel := range channelOrder {
		customers := customersByChannel[channel]
		result.Channels = append(result.Channels, CACResult{
			ChannelID:    channel,
			PeriodID:     periodID,
			Spend:        money.Cents(spendByChannel[channel]),
			NewCustomers: customers,
			CAC:          divideOrZero(spendByChannel[channel], float64(customers)),
		})
	}

	result.CAC = divideOrZero(result.TotalSpend, float64(result.TotalCustomers))
	result.TotalSpend = money.Cents(result.TotalSpend)
	return result
}

// CalculateBlendedROAS totals revenue and spend across every channel in the period
func CalculateBlendedROAS(spends []Spend, conversions []Conversions, periodID string) BlendedROASResult {
	result := BlendedROASResult{PeriodID: periodID}
	for _, s := range spends {
		if s.PeriodID == periodID {
			result.TotalSpend += s.Amount
		}
	}
	for _, c := range conversions {
		if c.PeriodID == periodID {
			result.TotalRevenue += c.Revenue
		}
	}

	// Ratios use the unrounded totals
	result.ROAS = divideOrZero(result.TotalRevenue, result.TotalSpend)
	result.TotalSpend = money.Cents(result.TotalSpend)
	result.TotalRevenue = money.Cents(result.TotalRevenue)
	return result
}

// CalculateCACTrend computes the blended CAC for each period in order
func CalculateCACTrend(spends []Spend, conversions []Conversions, periodIDs []string) []TrendPoint {
	trend := make([]TrendPoint, 0, len(periodIDs))
	for i, period := range periodIDs {
		blended := CalculateBlendedCAC(spends, conversions, period)
		point := TrendPoint{
			PeriodID:       period,
			CAC:            blended.CAC,
			TotalSpend:     blended.TotalSpend,
			TotalCustomers: blended.TotalCustomers,
		}
		if i > 0 {
			if previous := trend[i-1].CAC; previous > 0 {
				point.ChangePercent = money.Round((blended.CAC-previous)/previous*100, 2)
			}
		}
		trend = append(trend, point)
	}
	return trend
}

// divideOrZero returns numerator/denominator rounded to cents, or zero when
// the denominator is not positive
func divideOrZero(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return money.Cents(numerator / denominator)
}
