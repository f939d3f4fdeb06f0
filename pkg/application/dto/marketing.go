package dto

import "github.com/sportsprod/erp/pkg/domain/services/marketing"

// MarketingRequest is the input to a marketing analysis. Periods defaults to
// every period present in the data; Target defaults to the stock target.
type MarketingRequest struct {
	Spend       []marketing.Spend       `json:"spend" yaml:"spend"`
	Conversions []marketing.Conversions `json:"conversions" yaml:"conversions"`
	Periods     []string                `json:"periods,omitempty" yaml:"periods,omitempty"`
	Target      *marketing.Target       `json:"target,omitempty" yaml:"target,omitempty"`
}

// ChannelEfficiency scores one channel-period CAC against its target
type ChannelEfficiency struct {
	ChannelID string  `json:"channelId" yaml:"channel_id"`
	PeriodID  string  `json:"periodId" yaml:"period_id"`
	CAC       float64 `json:"cac" yaml:"cac"`
	Target    float64 `json:"target" yaml:"target"`
	Score     float64 `json:"score" yaml:"score"`
}

// MarketingAnalysis is the CAC/ROAS picture over a set of periods
type MarketingAnalysis struct {
	Periods     []string                      `json:"periods" yaml:"periods"`
	Trend       []marketing.TrendPoint        `json:"trend" yaml:"trend"`
	Blended     []marketing.BlendedCACResult  `json:"blended" yaml:"blended"`
	BlendedROAS []marketing.BlendedROASResult `json:"blendedRoas" yaml:"blended_roas"`
	Channels    []marketing.CACResult         `json:"channels" yaml:"channels"`
	ChannelROAS []marketing.ROASResult        `json:"channelRoas" yaml:"channel_roas"`
	Efficiency  []ChannelEfficiency           `json:"efficiency" yaml:"efficiency"`
	Alerts      []marketing.Alert             `json:"alerts" yaml:"alerts"`
	Target      marketing.Target              `json:"target" yaml:"target"`
}
