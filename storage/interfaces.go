package storage

import "airbnb-pricing/models"

// ListingStore defines the interface for reading and persisting listings
type ListingStore interface {
	SaveListings(listings []*models.Listing) error
	ReadListings() ([]*models.Listing, error)
	Close()
}

// AnalysisStore defines the interface for persisting run outputs. A run's
// bridge and pricing relations are written as one replacement set: either
// both land completely or the prior run's data stays untouched.
type AnalysisStore interface {
	ReplaceAnalysis(runID string, edges []*models.CompetitorEdge, recs []*models.PricingRecommendation) error
	Close()
}
