package similarity

import (
	"math"

	"airbnb-pricing/models"
)

// Each component scorer maps one facet of a listing pair to a 0-100
// similarity score. Missing attributes score 0 on the term that reads them;
// only a missing price reference makes a pair non-comparable (see PriceScore).

// LocationScore combines cluster co-membership with exponential distance
// decay: 50 points for sharing a cluster plus 100*exp(-km/2), clamped to 100.
func LocationScore(a, b *models.Listing) float64 {
	score := 0.0
	if a.ClusterID == b.ClusterID {
		score += 50
	}
	dist := HaversineKm(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	if !math.IsNaN(dist) {
		score += 100 * math.Exp(-dist/2)
	}
	return clamp(score, 0, 100)
}

// PropertyScore compares structural attributes: 40 points for equal bedroom
// counts, 30 for guest capacity within 2, and up to 30 for close bed+bath
// counts. A nil attribute scores 0 on its term.
func PropertyScore(a, b *models.Listing) float64 {
	score := 0.0
	if a.Bedrooms != nil && b.Bedrooms != nil && *a.Bedrooms == *b.Bedrooms {
		score += 40
	}
	if a.Guests != nil && b.Guests != nil && abs(*a.Guests-*b.Guests) <= 2 {
		score += 30
	}
	if a.Beds != nil && b.Beds != nil && a.Baths != nil && b.Baths != nil {
		diff := abs(*a.Beds-*b.Beds) + abs(*a.Baths-*b.Baths)
		score += 30 * math.Max(0, 1-float64(diff)/10)
	}
	return clamp(score, 0, 100)
}

// QualityScore compares ratings on the 0-5 scale plus a 20-point bonus for
// sharing a quality tier, clamped to 100. Missing ratings score 0 on the
// rating term; only non-empty matching tiers earn the bonus.
func QualityScore(a, b *models.Listing) float64 {
	score := 0.0
	if a.Rating != nil && b.Rating != nil {
		score += math.Max(0, 100-math.Abs(*a.Rating-*b.Rating)*20)
	}
	if a.QualityTier != "" && a.QualityTier == b.QualityTier {
		score += 20
	}
	return clamp(score, 0, 100)
}

// AmenityScore is the Jaccard index of the two amenity sets scaled to 0-100.
// Two empty sets score 0: no shared amenity information is no signal.
func AmenityScore(a, b *models.Listing) float64 {
	if len(a.Amenities) == 0 && len(b.Amenities) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a.Amenities))
	for _, am := range a.Amenities {
		set[am] = struct{}{}
	}
	intersection := 0
	union := len(set)
	seen := make(map[string]struct{}, len(b.Amenities))
	for _, am := range b.Amenities {
		if _, dup := seen[am]; dup {
			continue
		}
		seen[am] = struct{}{}
		if _, ok := set[am]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return 100 * float64(intersection) / float64(union)
}

// PriceScore maps the relative price difference to 0-100, losing 2 points
// per percent of difference against the reference (competitor) price.
// A zero or missing reference price makes the pair non-comparable: ok is
// false and the pair must be excluded from ranking, not scored as zero.
func PriceScore(a, b *models.Listing) (score float64, ok bool) {
	if !a.HasPrice() || !b.HasPrice() {
		return 0, false
	}
	diffPct := math.Abs(a.Price-b.Price) / b.Price * 100
	return math.Max(0, 100-diffPct*2), true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
