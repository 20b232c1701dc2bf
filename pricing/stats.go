package pricing

import "sort"

// priceStats are plain (unweighted) summary statistics over a price set.
type priceStats struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	P25    float64
	P75    float64
}

// summarize computes mean, median, min, max and quartiles of prices.
// The caller guarantees a non-empty slice.
func summarize(prices []float64) priceStats {
	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	var sum float64
	for _, p := range sorted {
		sum += p
	}

	return priceStats{
		Mean:   sum / float64(len(sorted)),
		Median: percentile(sorted, 0.5),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P25:    percentile(sorted, 0.25),
		P75:    percentile(sorted, 0.75),
	}
}

// percentile returns the p-th percentile (p in [0,1]) of an ascending
// slice using linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[lower+1]-sorted[lower])
}
