package services

import (
	"sort"

	"delivery-dashboard/geo"
	"delivery-dashboard/models"
)

// CityAggregates groups subset by location. Aggregates are ordered by
// location name.
func CityAggregates(subset []models.Review) []models.CityAggregate {
	type acc struct {
		agg models.CityAggregate
		sum float64
	}

	groups := make(map[string]*acc)
	for _, r := range subset {
		g, ok := groups[r.Location]
		if !ok {
			g = &acc{agg: models.CityAggregate{
				Location:  r.Location,
				Latitude:  r.Latitude,
				Longitude: r.Longitude,
			}}
			groups[r.Location] = g
		}
		g.sum += r.Rating
		g.agg.OrderCount++
	}

	out := make([]models.CityAggregate, 0, len(groups))
	for _, g := range groups {
		g.agg.MeanRating = g.sum / float64(g.agg.OrderCount)
		g.agg.Band = models.BandFor(g.agg.MeanRating)
		out = append(out, g.agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out
}

// OrderTypeDistribution counts each order type in subset, highest count
// first. Equal counts keep the order in which the types first appear.
func OrderTypeDistribution(subset []models.Review) []models.OrderTypeCount {
	pos := make(map[string]int)
	var out []models.OrderTypeCount
	for _, r := range subset {
		i, ok := pos[r.OrderType]
		if !ok {
			i = len(out)
			pos[r.OrderType] = i
			out = append(out, models.OrderTypeCount{OrderType: r.OrderType})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if out == nil {
		out = []models.OrderTypeCount{}
	}
	return out
}

// TopStats returns the city with the most orders and the city with the
// highest mean rating. Ties go to the city that sorts first by name.
func TopStats(subset []models.Review) models.TopStats {
	aggs := CityAggregates(subset)
	if len(aggs) == 0 {
		return models.EmptyTopStats()
	}

	busiest, best := aggs[0], aggs[0]
	for _, a := range aggs[1:] {
		if a.OrderCount > busiest.OrderCount {
			busiest = a
		}
		if a.MeanRating > best.MeanRating {
			best = a
		}
	}
	return models.TopStats{
		TopCity:       busiest.Location,
		TopCityOrders: busiest.OrderCount,
		TopRatingCity: best.Location,
		TopCityRating: best.MeanRating,
	}
}

// SummaryStats computes the summary cards for subset. AverageRating is
// undefined for an empty subset.
func SummaryStats(subset []models.Review) models.SummaryStats {
	stats := models.SummaryStats{
		TotalOrders:         len(subset),
		AverageRating:       models.Undefined(),
		MostCommonOrderType: models.NotAvailable,
	}
	if len(subset) == 0 {
		return stats
	}

	var sum float64
	agents := make(map[string]struct{})
	for _, r := range subset {
		sum += r.Rating
		agents[r.AgentName] = struct{}{}
	}
	stats.AverageRating = models.Some(sum / float64(len(subset)))
	stats.CitiesCovered = len(distinctLocations(subset))
	stats.ActiveAgents = len(agents)
	stats.MostCommonOrderType = OrderTypeDistribution(subset)[0].OrderType
	return stats
}

// FilterOptions lists distinct agents and order types in first-seen order.
func FilterOptions(rows []models.Review) models.FilterOptions {
	opts := models.FilterOptions{Agents: []string{}, OrderTypes: []string{}}
	seenAgent := make(map[string]struct{})
	seenType := make(map[string]struct{})
	for _, r := range rows {
		if _, ok := seenAgent[r.AgentName]; !ok {
			seenAgent[r.AgentName] = struct{}{}
			opts.Agents = append(opts.Agents, r.AgentName)
		}
		if _, ok := seenType[r.OrderType]; !ok {
			seenType[r.OrderType] = struct{}{}
			opts.OrderTypes = append(opts.OrderTypes, r.OrderType)
		}
	}
	return opts
}

// CityAggregatesWithin returns the aggregates of subset whose city lies
// inside box.
func CityAggregatesWithin(subset []models.Review, index *geo.Index, box geo.BoundingBox) ([]models.CityAggregate, error) {
	inBox, err := index.Within(box)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]struct{}, len(inBox))
	for _, c := range inBox {
		keep[c.Name] = struct{}{}
	}

	all := CityAggregates(subset)
	out := make([]models.CityAggregate, 0, len(all))
	for _, a := range all {
		if _, ok := keep[a.Location]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func distinctLocations(rows []models.Review) map[string]struct{} {
	locs := make(map[string]struct{})
	for _, r := range rows {
		locs[r.Location] = struct{}{}
	}
	return locs
}
