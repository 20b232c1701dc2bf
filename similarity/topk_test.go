package similarity

import (
	"fmt"
	"math"
	"reflect"
	"testing"

	"airbnb-pricing/models"
	"airbnb-pricing/utils"
)

// universe builds n comparable listings spread around a common point.
func universe(n int) []*models.Listing {
	listings := make([]*models.Listing, 0, n)
	for i := 0; i < n; i++ {
		l := baseListing(fmt.Sprintf("L%03d", i))
		l.Latitude += float64(i) * 0.01
		l.Price = 100 + float64(i%7)*10
		l.Bedrooms = intp(1 + i%4)
		l.Rating = fp(3.5 + float64(i%3)*0.5)
		listings = append(listings, l)
	}
	return listings
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultWeights(), utils.NewLogger(false), false)
	if err != nil {
		t.Fatal(err)
	}
	return engine
}

func TestComputeAllKeepsExactlyTopK(t *testing.T) {
	engine := newTestEngine(t)
	listings := universe(40) // every listing has 39 eligible competitors

	edges := engine.ComputeAll(listings, 4)
	grouped := GroupEdges(edges)

	if len(grouped) != 40 {
		t.Fatalf("expected edge sets for all 40 listings, got %d", len(grouped))
	}
	for id, set := range grouped {
		if len(set) != TopK {
			t.Errorf("listing %s: expected %d edges, got %d", id, TopK, len(set))
		}
	}
}

func TestComputeAllRanksAndWeights(t *testing.T) {
	engine := newTestEngine(t)
	listings := universe(30)

	edges := engine.ComputeAll(listings, 2)

	for id, set := range GroupEdges(edges) {
		var weightSum float64
		for i, edge := range set {
			if edge.Rank != i+1 {
				t.Errorf("listing %s: rank %d at position %d", id, edge.Rank, i)
			}
			if i > 0 && set[i-1].OverallScore < edge.OverallScore {
				t.Errorf("listing %s: scores not descending at rank %d", id, edge.Rank)
			}
			if edge.CompetitorID == id {
				t.Errorf("listing %s: self-edge at rank %d", id, edge.Rank)
			}
			weightSum += edge.Weight
		}
		if math.Abs(weightSum-1.0) > 1e-6 {
			t.Errorf("listing %s: weights sum to %v, want 1", id, weightSum)
		}
	}
}

func TestComputeAllSmallUniverse(t *testing.T) {
	engine := newTestEngine(t)
	listings := universe(5)

	grouped := GroupEdges(engine.ComputeAll(listings, 3))
	for id, set := range grouped {
		if len(set) != 4 {
			t.Errorf("listing %s: expected 4 edges in a 5-listing universe, got %d", id, len(set))
		}
	}
}

func TestComputeAllDeterministic(t *testing.T) {
	engine := newTestEngine(t)
	listings := universe(25)

	first := engine.ComputeAll(listings, 4)
	second := engine.ComputeAll(listings, 4)

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated runs over unchanged input produced different output")
	}

	// Concurrency must not change the result either.
	sequential := engine.ComputeAll(listings, 1)
	if !reflect.DeepEqual(first, sequential) {
		t.Error("concurrent run differs from sequential run")
	}
}

func TestComputeAllTieBreakAscendingID(t *testing.T) {
	engine := newTestEngine(t)

	// Two identical competitors tie on every component; the smaller ID
	// must take the better rank.
	source := baseListing("A")
	twin1 := baseListing("C")
	twin2 := baseListing("B")

	edges := engine.ComputeAll([]*models.Listing{source, twin1, twin2}, 1)
	set := GroupEdges(edges)["A"]
	if len(set) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(set))
	}
	if set[0].CompetitorID != "B" || set[1].CompetitorID != "C" {
		t.Errorf("tie not broken by ascending id: got %s then %s", set[0].CompetitorID, set[1].CompetitorID)
	}
}

func TestComputeAllExcludesUnpricedCompetitors(t *testing.T) {
	engine := newTestEngine(t)

	source := baseListing("A")
	unpriced := baseListing("B")
	unpriced.Price = 0
	priced := baseListing("C")

	edges := engine.ComputeAll([]*models.Listing{source, unpriced, priced}, 1)
	grouped := GroupEdges(edges)

	set := grouped["A"]
	if len(set) != 1 || set[0].CompetitorID != "C" {
		t.Fatalf("expected exactly one edge A->C, got %v", set)
	}

	// The unpriced listing cannot anchor a price comparison at all, so it
	// gets no edges of its own.
	if _, ok := grouped["B"]; ok {
		t.Error("listing without a price must have an empty competitor pool")
	}
}

func TestComputeAllUniformWeightsWhenAllScoresZero(t *testing.T) {
	engine := newTestEngine(t)

	// Construct a source whose two competitors score exactly zero on every
	// component: opposite side of the globe, different cluster, no shared
	// attributes, disjoint amenities, price 50%+ apart.
	source := &models.Listing{
		ID: "A", Latitude: 51.0, Longitude: -114.0, ClusterID: 1,
		Amenities: []string{"Wifi"}, Price: 300,
	}
	far1 := &models.Listing{
		ID: "B", Latitude: -33.86, Longitude: 151.2, ClusterID: 2,
		Amenities: []string{"Pool"}, Price: 100,
	}
	far2 := &models.Listing{
		ID: "C", Latitude: -33.9, Longitude: 151.3, ClusterID: 3,
		Amenities: []string{"Sauna"}, Price: 100,
	}

	set := GroupEdges(engine.ComputeAll([]*models.Listing{source, far1, far2}, 1))["A"]
	if len(set) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(set))
	}
	for _, edge := range set {
		if edge.OverallScore != 0 {
			t.Fatalf("expected zero overall score, got %v", edge.OverallScore)
		}
		if math.Abs(edge.Weight-0.5) > 1e-9 {
			t.Errorf("expected uniform weight 0.5, got %v", edge.Weight)
		}
	}
}

func TestComputeAllClusterPrefilter(t *testing.T) {
	logger := utils.NewLogger(false)
	engine, err := NewEngine(DefaultWeights(), logger, true)
	if err != nil {
		t.Fatal(err)
	}

	a := baseListing("A")
	sameCluster := baseListing("B")
	otherCluster := baseListing("C")
	otherCluster.ClusterID = 99

	set := GroupEdges(engine.ComputeAll([]*models.Listing{a, sameCluster, otherCluster}, 1))["A"]
	if len(set) != 1 || set[0].CompetitorID != "B" {
		t.Errorf("pre-filter should keep only same-cluster candidates, got %v", set)
	}
}
