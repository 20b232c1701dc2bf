package similarity

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"airbnb-pricing/models"
)

// TopK is the number of competitors retained per listing.
const TopK = 25

// rankOne computes source's full candidate pool, sorts it, and keeps the
// top K as ranked, weighted edges. Ordering is descending overall score
// with ascending competitor ID as the tie-break, so repeated runs over the
// same input produce identical output.
func (e *Engine) rankOne(source *models.Listing, listings []*models.Listing) []*models.CompetitorEdge {
	candidates := make([]PairScore, 0, len(listings))
	for _, other := range listings {
		if other.ID == source.ID {
			continue
		}
		if e.clusterPrefilter && other.ClusterID != source.ClusterID {
			continue
		}
		if score, ok := e.Compare(source, other); ok {
			candidates = append(candidates, score)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Overall != candidates[j].Overall {
			return candidates[i].Overall > candidates[j].Overall
		}
		return candidates[i].CompetitorID < candidates[j].CompetitorID
	})
	if len(candidates) > TopK {
		candidates = candidates[:TopK]
	}

	var total float64
	for _, c := range candidates {
		total += c.Overall
	}

	edges := make([]*models.CompetitorEdge, 0, len(candidates))
	for i, c := range candidates {
		weight := 1.0 / float64(len(candidates)) // uniform fallback when every kept score is zero
		if total > 0 {
			weight = c.Overall / total
		}
		edges = append(edges, &models.CompetitorEdge{
			ListingID:     source.ID,
			CompetitorID:  c.CompetitorID,
			Rank:          i + 1,
			OverallScore:  c.Overall,
			LocationScore: c.Location,
			PropertyScore: c.Property,
			QualityScore:  c.Quality,
			AmenityScore:  c.Amenity,
			PriceScore:    c.Price,
			Weight:        weight,
		})
	}
	return edges
}

// validateEdges checks the per-listing invariants: no self-edge, dense
// ranks starting at 1, and weights summing to 1. A violation aborts that
// listing's result, never the run.
func validateEdges(sourceID string, edges []*models.CompetitorEdge) error {
	var weightSum float64
	for i, edge := range edges {
		if edge.CompetitorID == sourceID {
			return fmt.Errorf("self-edge for listing %s", sourceID)
		}
		if edge.Rank != i+1 {
			return fmt.Errorf("listing %s: rank %d at position %d", sourceID, edge.Rank, i)
		}
		weightSum += edge.Weight
	}
	if len(edges) > 0 && math.Abs(weightSum-1.0) > 1e-6 {
		return fmt.Errorf("listing %s: weights sum to %v", sourceID, weightSum)
	}
	return nil
}

// ComputeAll runs the top-K pass for every listing across a worker pool.
// Each source listing's pass is independent and reads only the shared
// listing slice, so workers share no mutable state. Results come back in
// ascending listing-ID order regardless of scheduling.
//
// The pass is O(n²) in the number of listings: exhaustive pairwise
// comparison is what makes the top-K exact.
func (e *Engine) ComputeAll(listings []*models.Listing, concurrency int) []*models.CompetitorEdge {
	if concurrency < 1 {
		concurrency = 1
	}

	jobs := make(chan *models.Listing)
	results := make(chan []*models.CompetitorEdge, concurrency)

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for source := range jobs {
				edges := e.rankOne(source, listings)
				if err := validateEdges(source.ID, edges); err != nil {
					e.logger.Error("Dropping competitor set: %v", err)
					continue
				}
				results <- edges
			}
		}()
	}

	go func() {
		for _, l := range listings {
			jobs <- l
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	perListing := make(map[string][]*models.CompetitorEdge, len(listings))
	var ids []string
	for edges := range results {
		if len(edges) == 0 {
			continue
		}
		perListing[edges[0].ListingID] = edges
		ids = append(ids, edges[0].ListingID)
	}
	sort.Strings(ids)

	var all []*models.CompetitorEdge
	for _, id := range ids {
		all = append(all, perListing[id]...)
	}
	return all
}

// GroupEdges indexes a flat edge slice by source listing ID, preserving
// rank order within each group.
func GroupEdges(edges []*models.CompetitorEdge) map[string][]*models.CompetitorEdge {
	grouped := make(map[string][]*models.CompetitorEdge)
	for _, e := range edges {
		grouped[e.ListingID] = append(grouped[e.ListingID], e)
	}
	return grouped
}
