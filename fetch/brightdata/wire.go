package brightdata

import (
	"encoding/json"
	"strings"

	"airbnb-pricing/models"
)

// flexString decodes a JSON value that may arrive as a string, a number,
// or a bool — the dataset API is not consistent across listings.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(b), `"`))
	return nil
}

// wireListing mirrors one record of the snapshot payload
type wireListing struct {
	PropertyID   flexString     `json:"property_id"`
	Name         string         `json:"name"`
	Price        flexString     `json:"price"`
	Currency     string         `json:"currency"`
	Location     string         `json:"location"`
	Lat          json.Number    `json:"lat"`
	Long         json.Number    `json:"long"`
	Ratings      flexString     `json:"ratings"`
	Guests       flexString     `json:"guests"`
	Details      []string       `json:"details"`
	Amenities    []amenityGroup `json:"amenities"`
	Availability flexString     `json:"availability"`
}

type amenityGroup struct {
	GroupName string        `json:"group_name"`
	Items     []amenityItem `json:"items"`
}

type amenityItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (w wireListing) toRawListing() *models.RawListing {
	lat, _ := w.Lat.Float64()
	long, _ := w.Long.Float64()

	var amenities []string
	for _, group := range w.Amenities {
		for _, item := range group.Items {
			if item.Name != "" {
				amenities = append(amenities, item.Name)
			}
		}
	}

	return &models.RawListing{
		PropertyID: string(w.PropertyID),
		Title:      w.Name,
		RawPrice:   string(w.Price),
		Currency:   w.Currency,
		Location:   w.Location,
		Latitude:   lat,
		Longitude:  long,
		RawRating:  string(w.Ratings),
		Guests:     string(w.Guests),
		Details:    w.Details,
		Amenities:  amenities,
		RawAvail:   string(w.Availability),
	}
}
