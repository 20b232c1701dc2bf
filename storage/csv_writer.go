package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

// CSVExporter writes run outputs to CSV files for downstream consumers
type CSVExporter struct {
	dir    string
	logger *utils.Logger
}

// NewCSVExporter creates a new CSVExporter targeting the given directory
func NewCSVExporter(dir string, logger *utils.Logger) *CSVExporter {
	return &CSVExporter{dir: dir, logger: logger}
}

// WriteEdges writes competitor edges to competitor_edges.csv
func (e *CSVExporter) WriteEdges(edges []*models.CompetitorEdge) error {
	path := filepath.Join(e.dir, "competitor_edges.csv")
	writer, file, err := e.open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	header := []string{
		"listing_id", "competitor_id", "rank", "overall_score",
		"location_score", "property_score", "quality_score",
		"amenity_score", "price_score", "weight",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, edge := range edges {
		row := []string{
			edge.ListingID,
			edge.CompetitorID,
			strconv.Itoa(edge.Rank),
			num(edge.OverallScore),
			num(edge.LocationScore),
			num(edge.PropertyScore),
			num(edge.QualityScore),
			num(edge.AmenityScore),
			num(edge.PriceScore),
			strconv.FormatFloat(edge.Weight, 'f', 4, 64),
		}
		if err := writer.Write(row); err != nil {
			e.logger.Error("Failed to write CSV row for '%s': %v", edge.ListingID, err)
		}
	}

	e.logger.Info("Competitor edges written to: %s (%d rows)", path, len(edges))
	return nil
}

// WriteRecommendations writes pricing rows to pricing_recommendations.csv
func (e *CSVExporter) WriteRecommendations(runID string, recs []*models.PricingRecommendation) error {
	path := filepath.Join(e.dir, "pricing_recommendations.csv")
	writer, file, err := e.open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	defer writer.Flush()

	header := []string{
		"listing_id", "run_id", "competitor_count",
		"avg_price", "median_price", "min_price", "max_price",
		"p25_price", "p75_price", "weighted_avg_price",
		"premium_discount_pct", "quality_factor",
		"optimal_price", "lower_bound", "upper_bound",
		"out_of_band", "insufficient_data",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range recs {
		premium := ""
		if r.PremiumPct != nil {
			premium = num(*r.PremiumPct)
		}
		row := []string{
			r.ListingID, runID, strconv.Itoa(r.CompetitorCount),
			num(r.AvgPrice), num(r.MedianPrice), num(r.MinPrice), num(r.MaxPrice),
			num(r.P25Price), num(r.P75Price), num(r.WeightedAvg),
			premium, strconv.FormatFloat(r.QualityFactor, 'f', 3, 64),
			num(r.OptimalPrice), num(r.LowerBound), num(r.UpperBound),
			strconv.FormatBool(r.OutOfBand), strconv.FormatBool(r.Insufficient),
		}
		if err := writer.Write(row); err != nil {
			e.logger.Error("Failed to write CSV row for '%s': %v", r.ListingID, err)
		}
	}

	e.logger.Info("Pricing recommendations written to: %s (%d rows)", path, len(recs))
	return nil
}

func (e *CSVExporter) open(path string) (*csv.Writer, *os.File, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create CSV file: %w", err)
	}
	return csv.NewWriter(file), file, nil
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
