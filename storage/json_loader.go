package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"airbnb-pricing/models"
)

// LoadListingsFromFile reads pre-cleaned listings from a JSON file. Used
// when the input dataset is prepared outside the database.
func LoadListingsFromFile(path string) ([]*models.Listing, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listings file: %w", err)
	}

	var listings []*models.Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		return nil, fmt.Errorf("unmarshal listings: %w", err)
	}
	return listings, nil
}
