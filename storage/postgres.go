package storage

import (
	"database/sql"
	"fmt"
	"time"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"

	"github.com/lib/pq"
)

// PostgresStore reads listings from and writes analysis results to PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *utils.Logger
}

// NewPostgresStore connects to PostgreSQL and pings it
func NewPostgresStore(connStr string, logger *utils.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresStore{db: db, logger: logger}, nil
}

// EnsureSchema creates the listings table and both output tables if absent
func (s *PostgresStore) EnsureSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS listings (
		property_id   TEXT PRIMARY KEY,
		title         TEXT,
		latitude      NUMERIC(10,6),
		longitude     NUMERIC(10,6),
		cluster_id    INT           DEFAULT 0,
		bedrooms      INT,
		beds          INT,
		baths         INT,
		guests        INT,
		rating        NUMERIC(4,2),
		quality_tier  VARCHAR(20),
		amenities     TEXT[],
		price_per_night NUMERIC(10,2),
		currency      VARCHAR(10),
		available     BOOLEAN       DEFAULT TRUE,
		fetched_at    TIMESTAMP     NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS bridge_listing_competitors (
		listing_id             TEXT NOT NULL,
		competitor_listing_id  TEXT NOT NULL,
		similarity_rank        INT  NOT NULL,
		overall_similarity     NUMERIC(6,2),
		location_similarity    NUMERIC(6,2),
		property_similarity    NUMERIC(6,2),
		quality_similarity     NUMERIC(6,2),
		amenity_similarity     NUMERIC(6,2),
		price_similarity       NUMERIC(6,2),
		weight                 NUMERIC(8,6),
		PRIMARY KEY (listing_id, competitor_listing_id)
	);

	CREATE TABLE IF NOT EXISTS fact_competitor_pricing_analysis (
		listing_id                TEXT PRIMARY KEY,
		run_id                    UUID NOT NULL,
		competitor_count          INT,
		avg_competitor_price      NUMERIC(10,2),
		median_competitor_price   NUMERIC(10,2),
		min_competitor_price      NUMERIC(10,2),
		max_competitor_price      NUMERIC(10,2),
		percentile_25_price       NUMERIC(10,2),
		percentile_75_price       NUMERIC(10,2),
		weighted_avg_price        NUMERIC(10,2),
		price_premium_discount    NUMERIC(8,2),
		quality_factor            NUMERIC(5,3),
		recommended_optimal_price NUMERIC(10,2),
		recommended_price_lower   NUMERIC(10,2),
		recommended_price_upper   NUMERIC(10,2),
		out_of_band               BOOLEAN DEFAULT FALSE,
		insufficient_data         BOOLEAN DEFAULT FALSE,
		created_at                TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_listings_cluster ON listings (cluster_id);
	CREATE INDEX IF NOT EXISTS idx_bridge_rank ON bridge_listing_competitors (listing_id, similarity_rank);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("Database schema is ready")
	return nil
}

// SaveListings upserts cleaned listings so re-runs refresh price, rating
// and availability instead of failing on duplicates
func (s *PostgresStore) SaveListings(listings []*models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.Prepare(`
		INSERT INTO listings (
			property_id, title, latitude, longitude, cluster_id,
			bedrooms, beds, baths, guests, rating, quality_tier,
			amenities, price_per_night, currency, available, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (property_id) DO UPDATE SET
			price_per_night = EXCLUDED.price_per_night,
			rating          = EXCLUDED.rating,
			quality_tier    = EXCLUDED.quality_tier,
			available       = EXCLUDED.available,
			fetched_at      = EXCLUDED.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range listings {
		_, err = stmt.Exec(
			l.ID, l.Title, l.Latitude, l.Longitude, l.ClusterID,
			nullInt(l.Bedrooms), nullInt(l.Beds), nullInt(l.Baths), nullInt(l.Guests),
			nullFloat(l.Rating), l.QualityTier,
			pq.Array(l.Amenities), l.Price, l.Currency, l.Available, l.FetchedAt,
		)
		if err != nil {
			s.logger.Warn("Skipping insert for '%s': %v", l.ID, err)
			continue
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Upserted %d/%d listings into PostgreSQL", inserted, len(listings))
	return nil
}

// ReadListings loads all listings for analysis
func (s *PostgresStore) ReadListings() ([]*models.Listing, error) {
	rows, err := s.db.Query(`
		SELECT property_id, COALESCE(title, ''), COALESCE(latitude, 0), COALESCE(longitude, 0),
		       cluster_id, bedrooms, beds, baths, guests, rating, COALESCE(quality_tier, ''),
		       COALESCE(amenities, '{}'), COALESCE(price_per_night, 0), COALESCE(currency, ''),
		       available, fetched_at
		FROM listings
		ORDER BY property_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		var l models.Listing
		var bedrooms, beds, baths, guests sql.NullInt64
		var rating sql.NullFloat64
		if err := rows.Scan(
			&l.ID, &l.Title, &l.Latitude, &l.Longitude,
			&l.ClusterID, &bedrooms, &beds, &baths, &guests, &rating, &l.QualityTier,
			pq.Array(&l.Amenities), &l.Price, &l.Currency,
			&l.Available, &l.FetchedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		l.Bedrooms = intPtr(bedrooms)
		l.Beds = intPtr(beds)
		l.Baths = intPtr(baths)
		l.Guests = intPtr(guests)
		if rating.Valid {
			v := rating.Float64
			l.Rating = &v
		}
		listings = append(listings, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read listings: %w", err)
	}

	s.logger.Info("Loaded %d listings from PostgreSQL", len(listings))
	return listings, nil
}

// ReplaceAnalysis swaps in a full run's outputs inside one transaction.
// Both relations are cleared and rewritten together, so a failed run never
// leaves a mix of old and new rows.
func (s *PostgresStore) ReplaceAnalysis(runID string, edges []*models.CompetitorEdge, recs []*models.PricingRecommendation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM bridge_listing_competitors`); err != nil {
		return fmt.Errorf("failed to clear bridge table: %w", err)
	}
	if _, err = tx.Exec(`DELETE FROM fact_competitor_pricing_analysis`); err != nil {
		return fmt.Errorf("failed to clear pricing table: %w", err)
	}

	edgeStmt, err := tx.Prepare(`
		INSERT INTO bridge_listing_competitors (
			listing_id, competitor_listing_id, similarity_rank,
			overall_similarity, location_similarity, property_similarity,
			quality_similarity, amenity_similarity, price_similarity, weight
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for _, e := range edges {
		if _, err = edgeStmt.Exec(
			e.ListingID, e.CompetitorID, e.Rank,
			e.OverallScore, e.LocationScore, e.PropertyScore,
			e.QualityScore, e.AmenityScore, e.PriceScore, e.Weight,
		); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.ListingID, e.CompetitorID, err)
		}
	}

	recStmt, err := tx.Prepare(`
		INSERT INTO fact_competitor_pricing_analysis (
			listing_id, run_id, competitor_count,
			avg_competitor_price, median_competitor_price,
			min_competitor_price, max_competitor_price,
			percentile_25_price, percentile_75_price,
			weighted_avg_price, price_premium_discount, quality_factor,
			recommended_optimal_price, recommended_price_lower, recommended_price_upper,
			out_of_band, insufficient_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare pricing insert: %w", err)
	}
	defer recStmt.Close()

	for _, r := range recs {
		var premium sql.NullFloat64
		if r.PremiumPct != nil {
			premium = sql.NullFloat64{Float64: *r.PremiumPct, Valid: true}
		}
		if _, err = recStmt.Exec(
			r.ListingID, runID, r.CompetitorCount,
			r.AvgPrice, r.MedianPrice,
			r.MinPrice, r.MaxPrice,
			r.P25Price, r.P75Price,
			r.WeightedAvg, premium, r.QualityFactor,
			r.OptimalPrice, r.LowerBound, r.UpperBound,
			r.OutOfBand, r.Insufficient,
		); err != nil {
			return fmt.Errorf("failed to insert pricing row for %s: %w", r.ListingID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Stored %d competitor edges and %d pricing rows (run %s)", len(edges), len(recs), runID)
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
