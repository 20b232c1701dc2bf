package similarity

import (
	"math"
	"testing"

	"airbnb-pricing/models"
)

func intp(n int) *int { return &n }

func fp(f float64) *float64 { return &f }

func baseListing(id string) *models.Listing {
	return &models.Listing{
		ID:        id,
		Latitude:  51.0447,
		Longitude: -114.0719,
		ClusterID: 1,
		Bedrooms:  intp(2),
		Beds:      intp(3),
		Baths:     intp(1),
		Guests:    intp(4),
		Rating:    fp(4.8),
		Amenities: []string{"Wifi", "Kitchen", "Free parking"},
		Price:     120,
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		name        string
		cluster2    int
		lat2, lon2  float64
		expectedMin float64
		expectedMax float64
	}{
		{
			name:     "same point same cluster clamps to 100",
			cluster2: 1,
			lat2:     51.0447, lon2: -114.0719,
			expectedMin: 100, expectedMax: 100,
		},
		{
			name:     "same point different cluster",
			cluster2: 2,
			lat2:     51.0447, lon2: -114.0719,
			expectedMin: 99.99, expectedMax: 100,
		},
		{
			name:     "far away different cluster approaches zero",
			cluster2: 2,
			lat2:     -33.8688, lon2: 151.2093,
			expectedMin: 0, expectedMax: 0.001,
		},
		{
			name:     "far away same cluster keeps only the bonus",
			cluster2: 1,
			lat2:     -33.8688, lon2: 151.2093,
			expectedMin: 49.99, expectedMax: 50.001,
		},
	}

	a := baseListing("a")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := baseListing("b")
			b.ClusterID = tt.cluster2
			b.Latitude = tt.lat2
			b.Longitude = tt.lon2

			got := LocationScore(a, b)
			if got < tt.expectedMin || got > tt.expectedMax {
				t.Errorf("expected score in [%v, %v], got %v", tt.expectedMin, tt.expectedMax, got)
			}
		})
	}
}

func TestPropertyScore(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b *models.Listing)
		expected float64
	}{
		{
			name:     "identical structure scores 100",
			mutate:   func(b *models.Listing) {},
			expected: 100,
		},
		{
			name:     "different bedrooms loses the 40-point term",
			mutate:   func(b *models.Listing) { b.Bedrooms = intp(3) },
			expected: 60,
		},
		{
			name:     "guest capacity gap above 2 loses the 30-point term",
			mutate:   func(b *models.Listing) { b.Guests = intp(8) },
			expected: 70,
		},
		{
			name:     "bed and bath deltas decay the last term",
			mutate:   func(b *models.Listing) { b.Beds = intp(6); b.Baths = intp(3) }, // diff 3+2=5
			expected: 85,
		},
		{
			name:     "missing bedrooms counts as a mismatch",
			mutate:   func(b *models.Listing) { b.Bedrooms = nil },
			expected: 60,
		},
		{
			name: "all attributes missing scores zero",
			mutate: func(b *models.Listing) {
				b.Bedrooms, b.Beds, b.Baths, b.Guests = nil, nil, nil, nil
			},
			expected: 0,
		},
	}

	a := baseListing("a")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := baseListing("b")
			tt.mutate(b)

			got := PropertyScore(a, b)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name     string
		ratingA  *float64
		ratingB  *float64
		tierA    string
		tierB    string
		expected float64
	}{
		{
			name:    "equal ratings same tier clamps to 100",
			ratingA: fp(4.8), ratingB: fp(4.8),
			tierA: "Excellent", tierB: "Excellent",
			expected: 100,
		},
		{
			name:    "equal ratings different tier",
			ratingA: fp(4.8), ratingB: fp(4.8),
			tierA: "Excellent", tierB: "Good",
			expected: 100,
		},
		{
			name:    "one point apart different tier",
			ratingA: fp(4.5), ratingB: fp(3.5),
			tierA: "Excellent", tierB: "Fair",
			expected: 80,
		},
		{
			name:    "maximum rating gap floors the rating term",
			ratingA: fp(5), ratingB: fp(0),
			tierA: "Exceptional", tierB: "Fair",
			expected: 0,
		},
		{
			name:    "missing rating keeps only the tier bonus",
			ratingA: nil, ratingB: fp(4.8),
			tierA: "Good", tierB: "Good",
			expected: 20,
		},
		{
			name:    "empty tiers never earn the bonus",
			ratingA: fp(4.0), ratingB: fp(4.0),
			tierA: "", tierB: "",
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseListing("a")
			b := baseListing("b")
			a.Rating, b.Rating = tt.ratingA, tt.ratingB
			a.QualityTier, b.QualityTier = tt.tierA, tt.tierB

			got := QualityScore(a, b)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestAmenityScore(t *testing.T) {
	tests := []struct {
		name     string
		setA     []string
		setB     []string
		expected float64
	}{
		{
			name:     "identical sets score 100",
			setA:     []string{"Wifi", "Pool"},
			setB:     []string{"Wifi", "Pool"},
			expected: 100,
		},
		{
			name:     "disjoint sets score 0",
			setA:     []string{"Wifi"},
			setB:     []string{"Pool"},
			expected: 0,
		},
		{
			name:     "half overlap",
			setA:     []string{"Wifi", "Pool"},
			setB:     []string{"Wifi"},
			expected: 50,
		},
		{
			name:     "both empty is no signal, not an error",
			setA:     nil,
			setB:     nil,
			expected: 0,
		},
		{
			name:     "one empty set scores 0",
			setA:     []string{"Wifi"},
			setB:     nil,
			expected: 0,
		},
		{
			name:     "duplicates in one set do not inflate the union",
			setA:     []string{"Wifi", "Pool"},
			setB:     []string{"Wifi", "Wifi", "Pool"},
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseListing("a")
			b := baseListing("b")
			a.Amenities, b.Amenities = tt.setA, tt.setB

			got := AmenityScore(a, b)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestPriceScore(t *testing.T) {
	tests := []struct {
		name       string
		priceA     float64
		priceB     float64
		expected   float64
		comparable bool
	}{
		{
			name:   "equal prices score 100",
			priceA: 100, priceB: 100,
			expected: 100, comparable: true,
		},
		{
			name:   "ten percent apart loses 20 points",
			priceA: 110, priceB: 100,
			expected: 80, comparable: true,
		},
		{
			name:   "fifty percent apart floors at zero",
			priceA: 150, priceB: 100,
			expected: 0, comparable: true,
		},
		{
			name:   "missing reference price is non-comparable",
			priceA: 100, priceB: 0,
			comparable: false,
		},
		{
			name:   "missing own price is non-comparable",
			priceA: 0, priceB: 100,
			comparable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := baseListing("a")
			b := baseListing("b")
			a.Price, b.Price = tt.priceA, tt.priceB

			got, ok := PriceScore(a, b)
			if ok != tt.comparable {
				t.Fatalf("expected comparable=%v, got %v", tt.comparable, ok)
			}
			if ok && math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestComponentScoresStayInRange(t *testing.T) {
	// Extreme inputs must never push any component outside [0, 100]
	a := baseListing("a")
	b := baseListing("b")
	b.Latitude, b.Longitude = a.Latitude, a.Longitude // distance 0 plus cluster bonus
	b.Rating = fp(0)
	b.Price = 1

	scores := map[string]float64{
		"location": LocationScore(a, b),
		"property": PropertyScore(a, b),
		"quality":  QualityScore(a, b),
		"amenity":  AmenityScore(a, b),
	}
	if s, ok := PriceScore(a, b); ok {
		scores["price"] = s
	}
	for name, s := range scores {
		if s < 0 || s > 100 {
			t.Errorf("%s score %v out of [0, 100]", name, s)
		}
	}
}
