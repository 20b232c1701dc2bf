package pricing

import (
	"math"
	"sort"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

// Quality adjustment is capped at ±15% of the weighted mean price.
const (
	qualityFactorMin = 0.85
	qualityFactorMax = 1.15
)

// Analyzer turns a listing's competitor edges into a price recommendation.
type Analyzer struct {
	logger *utils.Logger
}

// NewAnalyzer creates a new Analyzer
func NewAnalyzer(logger *utils.Logger) *Analyzer {
	return &Analyzer{logger: logger}
}

// Analyze builds the pricing recommendation for one listing from its kept
// competitor edges. byID resolves competitor IDs to their listings. A
// listing with no eligible competitors gets an explicit insufficient-data
// result, never a fabricated price.
func (a *Analyzer) Analyze(listing *models.Listing, edges []*models.CompetitorEdge, byID map[string]*models.Listing) *models.PricingRecommendation {
	rec := &models.PricingRecommendation{ListingID: listing.ID, QualityFactor: 1.0}

	prices := make([]float64, 0, len(edges))
	var weightedAvg float64
	var ratingSum float64
	var ratingCount int
	for _, edge := range edges {
		comp, ok := byID[edge.CompetitorID]
		if !ok || !comp.HasPrice() {
			// Edges are built only from price-comparable pairs; a miss here
			// means the edge set and the listing set are out of sync.
			a.logger.Warn("Listing %s: competitor %s has no usable price, skipping analysis", listing.ID, edge.CompetitorID)
			continue
		}
		prices = append(prices, comp.Price)
		weightedAvg += comp.Price * edge.Weight
		if comp.Rating != nil {
			ratingSum += *comp.Rating
			ratingCount++
		}
	}

	if len(prices) == 0 {
		rec.Insufficient = true
		return rec
	}

	stats := summarize(prices)
	rec.CompetitorCount = len(prices)
	rec.AvgPrice = stats.Mean
	rec.MedianPrice = stats.Median
	rec.MinPrice = stats.Min
	rec.MaxPrice = stats.Max
	rec.P25Price = stats.P25
	rec.P75Price = stats.P75
	rec.WeightedAvg = weightedAvg

	if listing.Rating != nil && ratingCount > 0 {
		avgCompetitorRating := ratingSum / float64(ratingCount)
		if avgCompetitorRating > 0 {
			rec.QualityFactor = clampFactor(*listing.Rating / avgCompetitorRating)
		}
	}

	rec.OptimalPrice = weightedAvg * rec.QualityFactor
	rec.LowerBound = stats.P25 * 0.95
	rec.UpperBound = stats.P75 * 1.05

	// The bounds come from quartiles and the optimal from the weighted mean,
	// so nothing guarantees optimal lands between them. Flag the mismatch
	// instead of hiding it by re-clamping.
	rec.OutOfBand = rec.OptimalPrice < rec.LowerBound || rec.OptimalPrice > rec.UpperBound

	if listing.HasPrice() && weightedAvg > 0 {
		premium := (listing.Price - weightedAvg) / weightedAvg * 100
		rec.PremiumPct = &premium
	}

	return rec
}

// AnalyzeAll produces one recommendation per listing, in ascending listing
// ID order. Listings whose competitor pool came out empty still get a row,
// flagged as insufficient data.
func (a *Analyzer) AnalyzeAll(listings []*models.Listing, grouped map[string][]*models.CompetitorEdge) []*models.PricingRecommendation {
	byID := make(map[string]*models.Listing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	ordered := make([]*models.Listing, len(listings))
	copy(ordered, listings)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	recs := make([]*models.PricingRecommendation, 0, len(ordered))
	insufficient := 0
	for _, l := range ordered {
		rec := a.Analyze(l, grouped[l.ID], byID)
		if rec.Insufficient {
			insufficient++
		}
		recs = append(recs, rec)
	}

	a.logger.Info("Pricing analysis: %d listings, %d with insufficient data", len(recs), insufficient)
	return recs
}

func clampFactor(f float64) float64 {
	return math.Max(qualityFactorMin, math.Min(qualityFactorMax, f))
}
