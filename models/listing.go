package models

import "time"

// RawListing represents one record as returned by the BrightData dataset API,
// before normalization
type RawListing struct {
	PropertyID string   `json:"property_id"`
	Title      string   `json:"name"`
	RawPrice   string   `json:"price"` // e.g. "$71 for 2 nights"
	Currency   string   `json:"currency"`
	Location   string   `json:"location"`
	Latitude   float64  `json:"lat"`
	Longitude  float64  `json:"long"`
	RawRating  string   `json:"ratings"` // e.g. "4.82"
	Guests     string   `json:"guests"`
	Details    []string `json:"details"` // e.g. ["2 bedrooms", "3 beds", "1 bath"]
	Amenities  []string `json:"amenities"`
	RawAvail   string   `json:"availability"`
	FetchedAt  time.Time
}

// Listing represents a cleaned, normalized listing ready for analysis.
// Attributes that may legitimately be absent in the source data are pointers;
// a nil attribute is treated as a mismatch by the scorers, never an error.
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	ClusterID   int       `json:"cluster_id"`
	Bedrooms    *int      `json:"bedrooms"`
	Beds        *int      `json:"beds"`
	Baths       *int      `json:"baths"`
	Guests      *int      `json:"guests"`
	Rating      *float64  `json:"rating"` // 0-5 scale
	QualityTier string    `json:"quality_tier"`
	Amenities   []string  `json:"amenities"`
	Price       float64   `json:"price"` // per night normalized; 0 means unknown
	Currency    string    `json:"currency"`
	Available   bool      `json:"available"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// HasPrice reports whether the listing can serve as a price reference.
func (l *Listing) HasPrice() bool {
	return l.Price > 0
}
