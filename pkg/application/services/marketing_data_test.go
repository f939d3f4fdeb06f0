package services

import (
	"testing"

	testhelpers "github.com/sportsprod/erp/pkg/infrastructure/testing"
)

func TestMarketingRequestFrom(t *testing.T) {
	repo := testhelpers.BuildMarketingTestData()

	testCases := []struct {
		name          string
		periods       []string
		expectPeriods int
		expectSpend   int
	}{
		{"all_periods", nil, 2, 5},
		{"one_period", []string{"2024-02"}, 1, 3},
		{"unknown_period", []string{"2023-12"}, 1, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := MarketingRequestFrom(repo, tc.periods)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(req.Periods) != tc.expectPeriods {
				t.Errorf("Expected %d periods, got %d", tc.expectPeriods, len(req.Periods))
			}
			if len(req.Spend) != tc.expectSpend || len(req.Conversions) != tc.expectSpend {
				t.Errorf("Expected %d spend and conversion records, got %d and %d",
					tc.expectSpend, len(req.Spend), len(req.Conversions))
			}
		})
	}
}
