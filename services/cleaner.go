package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

var (
	priceRegex  = regexp.MustCompile(`\$?([\d,]+(?:\.\d{2})?)`)
	nightsRegex = regexp.MustCompile(`for\s+(\d+)\s+night`)
	ratingRegex = regexp.MustCompile(`(\d\.\d{1,2}|\d)`)
	countRegex  = regexp.MustCompile(`(\d+)`)
)

// DataCleaner normalizes raw fetched records into clean Listing records
type DataCleaner struct {
	logger  *utils.Logger
	tracker *utils.IDTracker
}

// NewDataCleaner creates a new DataCleaner
func NewDataCleaner(logger *utils.Logger) *DataCleaner {
	return &DataCleaner{logger: logger, tracker: utils.NewIDTracker()}
}

// Clean converts a slice of RawListings to clean Listings, dropping records
// without a property ID and deduplicating repeat IDs.
func (c *DataCleaner) Clean(raw []*models.RawListing) []*models.Listing {
	var cleaned []*models.Listing

	for _, r := range raw {
		id := strings.TrimSpace(r.PropertyID)
		if id == "" {
			c.logger.Debug("Skipping record with empty property ID")
			continue
		}
		if !c.tracker.Add(id) {
			c.logger.Debug("Skipping duplicate property: %s", id)
			continue
		}

		bedrooms, beds, baths := parseDetails(r.Details)
		rating := parseRating(r.RawRating)

		listing := &models.Listing{
			ID:          id,
			Title:       strings.TrimSpace(r.Title),
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			Bedrooms:    bedrooms,
			Beds:        beds,
			Baths:       baths,
			Guests:      parseCount(r.Guests),
			Rating:      rating,
			QualityTier: ClassifyQualityTier(rating),
			Amenities:   cleanAmenities(r.Amenities),
			Price:       parsePrice(r.RawPrice),
			Currency:    strings.TrimSpace(r.Currency),
			Available:   strings.EqualFold(strings.TrimSpace(r.RawAvail), "true"),
			FetchedAt:   r.FetchedAt,
		}
		if listing.FetchedAt.IsZero() {
			listing.FetchedAt = time.Now()
		}

		cleaned = append(cleaned, listing)
	}

	c.logger.Info("Cleaned %d listings from %d raw records", len(cleaned), len(raw))
	return cleaned
}

// ClassifyQualityTier derives a tier label from a 0-5 rating. Unrated
// listings land in the lowest tier.
func ClassifyQualityTier(rating *float64) string {
	switch {
	case rating == nil:
		return "Fair"
	case *rating > 4.8:
		return "Exceptional"
	case *rating > 4.5:
		return "Excellent"
	case *rating > 4.0:
		return "Good"
	default:
		return "Fair"
	}
}

// parsePrice extracts a per-night price from a raw string like "$71 for 2 nights"
func parsePrice(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.ReplaceAll(raw, ",", "")

	matches := priceRegex.FindStringSubmatch(cleaned)
	if len(matches) < 2 {
		return 0
	}
	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}

	// If "for N nights", divide to get per-night
	if m := nightsRegex.FindStringSubmatch(cleaned); len(m) >= 2 {
		nights, err := strconv.ParseFloat(m[1], 64)
		if err == nil && nights > 0 {
			return val / nights
		}
	}

	return val
}

// parseRating extracts a 0-5 rating from strings like "4.82 out of 5 average rating"
func parseRating(raw string) *float64 {
	if raw == "" {
		return nil
	}
	matches := ratingRegex.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return nil
	}
	val, err := strconv.ParseFloat(matches[1], 64)
	if err != nil || val > 5 {
		return nil
	}
	return &val
}

// parseCount extracts a small integer from strings like "4 guests"
func parseCount(raw string) *int {
	matches := countRegex.FindStringSubmatch(raw)
	if len(matches) < 2 {
		return nil
	}
	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return nil
	}
	return &n
}

// parseDetails pulls bedroom, bed, and bath counts out of detail strings
// like ["2 bedrooms", "3 beds", "1.5 baths"]
func parseDetails(details []string) (bedrooms, beds, baths *int) {
	for _, d := range details {
		lower := strings.ToLower(d)
		switch {
		case strings.Contains(lower, "bedroom"):
			bedrooms = parseCount(d)
		case strings.Contains(lower, "bath"):
			baths = parseCount(d)
		case strings.Contains(lower, "bed"):
			beds = parseCount(d)
		}
	}
	return bedrooms, beds, baths
}

func cleanAmenities(amenities []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(amenities))
	for _, a := range amenities {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		key := strings.ToLower(a)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}
