package services

import (
	"fmt"
	"strings"

	"airbnb-pricing/models"
)

// PrintAnalysisReport formats and prints the run report to terminal
func PrintAnalysisReport(report *models.AnalysisReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Printf("\n╔%s╗\n", border)
	fmt.Printf("║%s║\n", center("COMPETITOR PRICING ANALYSIS ", 55))
	fmt.Printf("╚%s╝\n", border)

	fmt.Printf("\n RUN %s\n%s\n", report.RunID, thin)
	fmt.Printf("  Listings Analyzed       : %d\n", report.TotalListings)
	fmt.Printf("  Competitor Edges        : %d\n", report.EdgesComputed)
	fmt.Printf("  Priced Listings         : %d\n", report.PricedListings)
	fmt.Printf("  Insufficient Data       : %d\n", report.InsufficientData)
	fmt.Printf("  Out-of-Band Optimals    : %d\n", report.OutOfBand)
	fmt.Printf("  Average Optimal Price   : $%.2f\n", report.AvgOptimalPrice)

	if len(report.Underpriced) > 0 {
		fmt.Printf("\n MOST UNDERPRICED LISTINGS\n%s\n", thin)
		for i, r := range report.Underpriced {
			fmt.Printf("  %d. %-20s %+.1f%%  (optimal $%.2f)\n",
				i+1, truncate(r.ListingID, 20), *r.PremiumPct, r.OptimalPrice)
		}
	}

	if len(report.Overpriced) > 0 {
		fmt.Printf("\n MOST OVERPRICED LISTINGS\n%s\n", thin)
		for i, r := range report.Overpriced {
			fmt.Printf("  %d. %-20s %+.1f%%  (optimal $%.2f)\n",
				i+1, truncate(r.ListingID, 20), *r.PremiumPct, r.OptimalPrice)
		}
	}

	fmt.Printf("\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
