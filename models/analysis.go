package models

// CompetitorEdge is one retained competitor relationship for a listing.
// Up to 25 edges exist per source listing, ranked 1..N by descending
// overall similarity, with weights normalized to sum to 1 per source.
type CompetitorEdge struct {
	ListingID     string  `json:"listing_id"`
	CompetitorID  string  `json:"competitor_id"`
	Rank          int     `json:"rank"`
	OverallScore  float64 `json:"overall_score"`
	LocationScore float64 `json:"location_score"`
	PropertyScore float64 `json:"property_score"`
	QualityScore  float64 `json:"quality_score"`
	AmenityScore  float64 `json:"amenity_score"`
	PriceScore    float64 `json:"price_score"`
	Weight        float64 `json:"weight"`
}

// PricingRecommendation is the per-listing output of the pricing aggregator.
type PricingRecommendation struct {
	ListingID       string   `json:"listing_id"`
	CompetitorCount int      `json:"competitor_count"`
	AvgPrice        float64  `json:"avg_competitor_price"`
	MedianPrice     float64  `json:"median_competitor_price"`
	MinPrice        float64  `json:"min_competitor_price"`
	MaxPrice        float64  `json:"max_competitor_price"`
	P25Price        float64  `json:"percentile_25_price"`
	P75Price        float64  `json:"percentile_75_price"`
	WeightedAvg     float64  `json:"weighted_avg_price"`
	PremiumPct      *float64 `json:"price_premium_discount"` // nil when the listing's own price is unknown
	QualityFactor   float64  `json:"quality_factor"`
	OptimalPrice    float64  `json:"recommended_optimal_price"`
	LowerBound      float64  `json:"recommended_price_lower"`
	UpperBound      float64  `json:"recommended_price_upper"`

	// OutOfBand marks recommendations whose optimal price fell outside
	// [LowerBound, UpperBound]. Surfaced as a data-quality signal, never
	// corrected by re-clamping.
	OutOfBand bool `json:"out_of_band"`

	// Insufficient marks listings with no eligible competitors. All price
	// fields are zero and must not be read as real values.
	Insufficient bool `json:"insufficient_data"`
}

// AnalysisReport holds run-level figures computed from the final outputs
type AnalysisReport struct {
	RunID            string
	TotalListings    int
	EdgesComputed    int
	PricedListings   int
	InsufficientData int
	OutOfBand        int
	AvgOptimalPrice  float64
	Underpriced      []*PricingRecommendation // most negative premium first
	Overpriced       []*PricingRecommendation // most positive premium first
}
