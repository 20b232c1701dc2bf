package similarity

import (
	"fmt"
	"math"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

// Weights holds the component weights of the composite similarity score.
// They must sum to exactly 1.
type Weights struct {
	Location float64
	Property float64
	Quality  float64
	Amenity  float64
	Price    float64
}

// DefaultWeights returns the production weighting: location dominates,
// price and amenities are light touches.
func DefaultWeights() Weights {
	return Weights{
		Location: 0.35,
		Property: 0.25,
		Quality:  0.20,
		Amenity:  0.10,
		Price:    0.10,
	}
}

// Validate checks that the weights sum to 1 within floating tolerance.
func (w Weights) Validate() error {
	sum := w.Location + w.Property + w.Quality + w.Amenity + w.Price
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("similarity weights sum to %v, want 1.0", sum)
	}
	return nil
}

// PairScore holds the component and composite scores for one ordered pair.
// It is transient: computed, ranked, and discarded per source listing.
type PairScore struct {
	CompetitorID string
	Location     float64
	Property     float64
	Quality      float64
	Amenity      float64
	Price        float64
	Overall      float64
}

// Engine computes pairwise similarity and selects top competitors.
type Engine struct {
	weights          Weights
	logger           *utils.Logger
	clusterPrefilter bool
}

// NewEngine creates an Engine. It fails if the weights do not sum to 1.
func NewEngine(w Weights, logger *utils.Logger, clusterPrefilter bool) (*Engine, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Engine{weights: w, logger: logger, clusterPrefilter: clusterPrefilter}, nil
}

// Compare scores listing b as a competitor of listing a. ok is false when
// the pair is non-comparable (no valid price reference) and must be left
// out of a's candidate pool entirely.
func (e *Engine) Compare(a, b *models.Listing) (PairScore, bool) {
	priceScore, ok := PriceScore(a, b)
	if !ok {
		return PairScore{}, false
	}

	p := PairScore{
		CompetitorID: b.ID,
		Location:     LocationScore(a, b),
		Property:     PropertyScore(a, b),
		Quality:      QualityScore(a, b),
		Amenity:      AmenityScore(a, b),
		Price:        priceScore,
	}
	p.Overall = p.Location*e.weights.Location +
		p.Property*e.weights.Property +
		p.Quality*e.weights.Quality +
		p.Amenity*e.weights.Amenity +
		p.Price*e.weights.Price
	return p, true
}
