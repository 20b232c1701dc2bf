package brightdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"airbnb-pricing/config"
	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

const (
	triggerURL  = "https://api.brightdata.com/datasets/v3/trigger"
	snapshotURL = "https://api.brightdata.com/datasets/v3/snapshot/%s"

	airbnbDatasetID = "gd_ld7ll037kqy322v05"
)

// Client fetches Airbnb listings through the BrightData dataset API:
// trigger a discovery snapshot by location, poll until it is built, then
// download the listing records.
type Client struct {
	cfg     *config.Config
	logger  *utils.Logger
	limiter *utils.RateLimiter
	http    *http.Client
}

// NewClient creates a new Client
func NewClient(cfg *config.Config, logger *utils.Logger) *Client {
	return &Client{
		cfg:     cfg,
		logger:  logger,
		limiter: utils.NewRateLimiter(cfg.RateLimitDelay),
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Fetch is the main entry point
func (c *Client) Fetch() ([]*models.RawListing, error) {
	c.logger.Info("Triggering BrightData snapshot for location: %s", c.cfg.FetchLocation)

	var snapshotID string
	err := utils.RetryWithBackoff(c.cfg.MaxRetries, func() error {
		var err error
		snapshotID, err = c.trigger()
		return err
	}, c.logger)
	if err != nil {
		return nil, fmt.Errorf("snapshot trigger failed: %w", err)
	}
	c.logger.Info("Snapshot %s triggered, polling for results...", snapshotID)

	records, err := c.poll(snapshotID)
	if err != nil {
		return nil, err
	}

	listings := make([]*models.RawListing, 0, len(records))
	now := time.Now()
	for _, rec := range records {
		raw := rec.toRawListing()
		raw.FetchedAt = now
		listings = append(listings, raw)
	}

	c.logger.Info("Fetched %d raw listings from snapshot %s", len(listings), snapshotID)
	return listings, nil
}

// trigger starts a discovery run and returns the snapshot ID
func (c *Client) trigger() (string, error) {
	params := url.Values{}
	params.Set("dataset_id", airbnbDatasetID)
	params.Set("include_errors", "false")
	params.Set("type", "discover_new")
	params.Set("discover_by", "location")
	params.Set("limit_per_input", fmt.Sprintf("%d", c.cfg.FetchLimit))

	body := map[string]interface{}{
		"input": []map[string]string{{
			"location": c.cfg.FetchLocation,
			"currency": c.cfg.FetchCurrency,
			"country":  c.cfg.FetchCountry,
		}},
		"custom_output_fields": []string{
			"property_id", "name", "price", "currency", "location",
			"lat", "long", "ratings", "guests", "details",
			"amenities", "availability",
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal trigger payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, triggerURL+"?"+params.Encode(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build trigger request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BrightDataAPIKey)
	req.Header.Set("Content-Type", "application/json")

	c.limiter.Wait()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("trigger request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("trigger returned HTTP %d: %s", resp.StatusCode, msg)
	}

	var out struct {
		SnapshotID string `json:"snapshot_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode trigger response: %w", err)
	}
	if out.SnapshotID == "" {
		return "", fmt.Errorf("trigger response had no snapshot_id")
	}
	return out.SnapshotID, nil
}

// poll checks the snapshot until it stops reporting a processing status or
// the poll budget runs out
func (c *Client) poll(snapshotID string) ([]wireListing, error) {
	processing := map[string]bool{
		"building": true, "running": true, "pending": true, "queued": true,
	}

	for attempt := 1; attempt <= c.cfg.MaxPolls; attempt++ {
		c.logger.Debug("Poll %d/%d: checking snapshot status...", attempt, c.cfg.MaxPolls)

		body, err := c.download(snapshotID)
		if err != nil {
			c.logger.Warn("Snapshot check failed: %v", err)
			time.Sleep(c.cfg.PollInterval)
			continue
		}

		// A bare object with a status field means the snapshot is still
		// being built; the finished payload is an array of listings.
		var status struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &status); err == nil && processing[status.Status] {
			c.logger.Info("Snapshot still processing (status: %s), waiting %v...", status.Status, c.cfg.PollInterval)
			time.Sleep(c.cfg.PollInterval)
			continue
		}

		var records []wireListing
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, fmt.Errorf("decode snapshot payload: %w", err)
		}
		c.logger.Info("Snapshot ready after %d poll(s)", attempt)
		return records, nil
	}

	return nil, fmt.Errorf("snapshot %s not ready after %d polls", snapshotID, c.cfg.MaxPolls)
}

func (c *Client) download(snapshotID string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf(snapshotURL, snapshotID)+"?format=json", nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BrightDataAPIKey)

	c.limiter.Wait()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("snapshot returned HTTP %d: %s", resp.StatusCode, msg)
	}
	return io.ReadAll(resp.Body)
}
