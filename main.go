package main

import (
	"fmt"
	"os"

	"airbnb-pricing/config"
	"airbnb-pricing/fetch/brightdata"
	"airbnb-pricing/models"
	"airbnb-pricing/pricing"
	"airbnb-pricing/services"
	"airbnb-pricing/similarity"
	"airbnb-pricing/storage"
	"airbnb-pricing/utils"

	"github.com/google/uuid"
)

func main() {
	// ================== Bootstrap ====================
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Verbose)

	logger.Info("Airbnb Competitor Pricing System")
	logger.Info("Concurrency: %d | Cluster pre-filter: %v", cfg.MaxConcurrency, cfg.ClusterPrefilter)

	// =================== PostgreSQL Setup ========================================
	store, err := storage.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("Cannot connect to PostgreSQL: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.EnsureSchema(); err != nil {
		logger.Error("Failed to prepare DB schema: %v", err)
		os.Exit(1)
	}

	// =============== Optional Fetch ===================================
	if cfg.BrightDataAPIKey != "" && cfg.FetchLocation != "" {
		client := brightdata.NewClient(cfg, logger)
		rawListings, err := client.Fetch()
		if err != nil {
			logger.Error("Fetch failed: %v", err)
			os.Exit(1)
		}

		cleaner := services.NewDataCleaner(logger)
		fetched := cleaner.Clean(rawListings)
		if err := store.SaveListings(fetched); err != nil {
			logger.Error("Failed to store fetched listings: %v", err)
			os.Exit(1)
		}
	}

	// =========== Load Listings ======================
	var listings []*models.Listing
	if cfg.ListingsFile != "" {
		listings, err = storage.LoadListingsFromFile(cfg.ListingsFile)
		if err != nil {
			logger.Error("Failed to load listings file: %v", err)
			os.Exit(1)
		}
		logger.Info("Loaded %d listings from %s", len(listings), cfg.ListingsFile)
	} else {
		listings, err = store.ReadListings()
		if err != nil {
			logger.Error("Failed to read listings: %v", err)
			os.Exit(1)
		}
	}

	if len(listings) == 0 {
		logger.Warn("No listings to analyze — fetch data first or point LISTINGS_FILE at a dataset")
		os.Exit(0)
	}

	// =========== Competitor Similarity ======================
	engine, err := similarity.NewEngine(similarity.DefaultWeights(), logger, cfg.ClusterPrefilter)
	if err != nil {
		logger.Error("Bad similarity weights: %v", err)
		os.Exit(1)
	}

	logger.Info("Computing top-%d competitors for %d listings...", similarity.TopK, len(listings))
	edges := engine.ComputeAll(listings, cfg.MaxConcurrency)
	logger.Info("Computed %d competitor edges", len(edges))

	// =========== Pricing Analysis ======================
	analyzer := pricing.NewAnalyzer(logger)
	recs := analyzer.AnalyzeAll(listings, similarity.GroupEdges(edges))

	// ========= PostgreSQL: store replacement set ============
	runID := uuid.NewString()
	if err := store.ReplaceAnalysis(runID, edges, recs); err != nil {
		logger.Error("Failed to store analysis results: %v", err)
		os.Exit(1)
	}

	// ========= CSV export ===========================
	exporter := storage.NewCSVExporter(cfg.CSVDir, logger)
	if err := exporter.WriteEdges(edges); err != nil {
		logger.Error("Failed to write edges CSV: %v", err)
		// Non-fatal: DB already has the results
	}
	if err := exporter.WriteRecommendations(runID, recs); err != nil {
		logger.Error("Failed to write pricing CSV: %v", err)
	}

	// ==== Summary ============================
	summary := services.NewSummaryService(logger)
	report := summary.Build(runID, listings, edges, recs)
	services.PrintAnalysisReport(report)

	fmt.Println(" Done! CSV output →", cfg.CSVDir)
	fmt.Println(" Results stored in PostgreSQL: bridge_listing_competitors, fact_competitor_pricing_analysis")
}
