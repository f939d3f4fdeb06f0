package services

import (
	"fmt"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/domain/repositories"
)

// MarketingRequestFrom gathers the stored records for the given periods, or
// every stored period when none are given
func MarketingRequestFrom(repo repositories.MarketingRepository, periods []string) (dto.MarketingRequest, error) {
	if len(periods) == 0 {
		stored, err := repo.GetPeriods()
		if err != nil {
			return dto.MarketingRequest{}, fmt.Errorf("failed to list marketing periods: %w", err)
		}
		periods = stored
	}

	req := dto.MarketingRequest{Periods: periods}
	for _, period := range periods {
		spend, err := repo.GetSpend(period)
		if err != nil {
			return dto.MarketingRequest{}, fmt.Errorf("failed to read spend for %s: %w", period, err)
		}
		conversions, err := repo.GetConversions(period)
		if err != nil {
			return dto.MarketingRequest{}, fmt.Errorf("failed to read conversions for %s: %w", period, err)
		}
		req.Spend = append(req.Spend, spend...)
		req.Conversions = append(req.Conversions, conversions...)
	}
	return req, nil
}
