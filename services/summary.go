package services

import (
	"sort"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

// SummaryService computes run-level analytics from the final outputs
type SummaryService struct {
	logger *utils.Logger
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

// Build assembles the analysis report for one run
func (s *SummaryService) Build(runID string, listings []*models.Listing, edges []*models.CompetitorEdge, recs []*models.PricingRecommendation) *models.AnalysisReport {
	report := &models.AnalysisReport{
		RunID:         runID,
		TotalListings: len(listings),
		EdgesComputed: len(edges),
	}

	if len(recs) == 0 {
		s.logger.Warn("No pricing recommendations to summarize")
		return report
	}

	var optimalSum float64
	var mispriced []*models.PricingRecommendation
	for _, r := range recs {
		if r.Insufficient {
			report.InsufficientData++
			continue
		}
		report.PricedListings++
		optimalSum += r.OptimalPrice
		if r.OutOfBand {
			report.OutOfBand++
		}
		if r.PremiumPct != nil {
			mispriced = append(mispriced, r)
		}
	}

	if report.PricedListings > 0 {
		report.AvgOptimalPrice = optimalSum / float64(report.PricedListings)
	}

	// Most underpriced first (largest discount vs competitors)
	sort.Slice(mispriced, func(i, j int) bool {
		return *mispriced[i].PremiumPct < *mispriced[j].PremiumPct
	})
	report.Underpriced = topSlice(mispriced, 5)

	reversed := make([]*models.PricingRecommendation, len(mispriced))
	copy(reversed, mispriced)
	sort.Slice(reversed, func(i, j int) bool {
		return *reversed[i].PremiumPct > *reversed[j].PremiumPct
	})
	report.Overpriced = topSlice(reversed, 5)

	return report
}

func topSlice(recs []*models.PricingRecommendation, max int) []*models.PricingRecommendation {
	if len(recs) > max {
		return recs[:max]
	}
	return recs
}
