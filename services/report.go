package services

import (
	"fmt"
	"io"
	"strings"

	"delivery-dashboard/models"
)

// Report computes every dashboard figure for f from a single filtered view.
func (s *QueryService) Report(f models.Filter) *models.DashboardReport {
	subset := s.dataset.Filter(f)
	return &models.DashboardReport{
		Agent:      f.Agent.String(),
		OrderType:  f.OrderType.String(),
		Summary:    SummaryStats(subset),
		Top:        TopStats(subset),
		Cities:     CityAggregates(subset),
		OrderTypes: OrderTypeDistribution(subset),
	}
}

// PrintReport writes r to w as a coloured terminal summary.
func PrintReport(w io.Writer, r *models.DashboardReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🚚 DELIVERY SERVICE ANALYSIS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
	fmt.Fprintf(w, "  Agent: \033[1m%s\033[0m | Order type: \033[1m%s\033[0m\n\n", r.Agent, r.OrderType)

	// Summary
	fmt.Fprintf(w, "\033[1;33m  Summary\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total orders           : \033[1m%d\033[0m\n", r.Summary.TotalOrders)
	fmt.Fprintf(w, "  Average rating         : \033[1m%s\033[0m\n", formatRating(r.Summary.AverageRating))
	fmt.Fprintf(w, "  Cities covered         : \033[1m%d\033[0m\n", r.Summary.CitiesCovered)
	fmt.Fprintf(w, "  Active agents          : \033[1m%d\033[0m\n", r.Summary.ActiveAgents)
	fmt.Fprintf(w, "  Most common order type : \033[1m%s\033[0m\n", r.Summary.MostCommonOrderType)
	fmt.Fprintln(w)

	// Top cities
	fmt.Fprintf(w, "\033[1;33m  Top Performing City\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Most orders    : %s (%d orders)\n", r.Top.TopCity, r.Top.TopCityOrders)
	if r.Top.TopRatingCity == models.NotAvailable {
		fmt.Fprintf(w, "  Highest rating : %s\n", models.NotAvailable)
	} else {
		fmt.Fprintf(w, "  Highest rating : %s (%.2f/5)\n", r.Top.TopRatingCity, r.Top.TopCityRating)
	}
	fmt.Fprintln(w)

	// Cities
	fmt.Fprintf(w, "\033[1;33m  Ratings by City\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Cities) == 0 {
		fmt.Fprintf(w, "  No location data\n")
	}
	for _, c := range r.Cities {
		fmt.Fprintf(w, "  %-12s %s%.2f/5\033[0m  %5d orders\n",
			c.Location, bandColour(c.Band), c.MeanRating, c.OrderCount)
	}
	fmt.Fprintln(w)

	// Order types
	fmt.Fprintf(w, "\033[1;33m  Order Types\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.OrderTypes) == 0 {
		fmt.Fprintf(w, "  No orders\n")
	}
	maxCount := 0
	if len(r.OrderTypes) > 0 {
		maxCount = r.OrderTypes[0].Count
	}
	for _, ot := range r.OrderTypes {
		bar := strings.Repeat("█", barWidth(ot.Count, maxCount, 30))
		fmt.Fprintf(w, "  %-20s %s (%d)\n", truncate(ot.OrderType, 18), bar, ot.Count)
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func formatRating(o models.OptionalFloat) string {
	if !o.Valid {
		return models.NotAvailable
	}
	return fmt.Sprintf("%.2f/5", o.Value)
}

func bandColour(b models.RatingBand) string {
	switch b {
	case models.BandLow:
		return "\033[1;31m"
	case models.BandMedium:
		return "\033[1;33m"
	default:
		return "\033[1;32m"
	}
}

// barWidth scales count against max so the longest bar is width cells.
func barWidth(count, max, width int) int {
	if max <= 0 || count <= 0 {
		return 0
	}
	n := count * width / max
	if n < 1 {
		n = 1
	}
	return n
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
