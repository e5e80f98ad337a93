package models

// RatingBand classifies a mean rating for map markers.
type RatingBand string

const (
	BandLow    RatingBand = "low"
	BandMedium RatingBand = "medium"
	BandHigh   RatingBand = "high"
)

// BandFor returns the band for a rating: below 3.0 is low, below 4.0 is
// medium, anything else is high.
func BandFor(rating float64) RatingBand {
	switch {
	case rating < 3.0:
		return BandLow
	case rating < 4.0:
		return BandMedium
	default:
		return BandHigh
	}
}

// CityAggregate summarises the reviews of one location.
type CityAggregate struct {
	Location   string     `json:"location"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	MeanRating float64    `json:"mean_rating"`
	OrderCount int        `json:"order_count"`
	Band       RatingBand `json:"band"`
}

// OrderTypeCount is one slice of the order type distribution.
type OrderTypeCount struct {
	OrderType string `json:"order_type"`
	Count     int    `json:"count"`
}

// TopStats names the busiest and best rated cities.
type TopStats struct {
	TopCity       string  `json:"top_city"`
	TopCityOrders int     `json:"top_city_orders"`
	TopRatingCity string  `json:"top_rating_city"`
	TopCityRating float64 `json:"top_city_rating"`
}

// EmptyTopStats is returned for an empty selection.
func EmptyTopStats() TopStats {
	return TopStats{
		TopCity:       NotAvailable,
		TopRatingCity: NotAvailable,
	}
}

// SummaryStats holds the scalar summary cards.
type SummaryStats struct {
	TotalOrders         int           `json:"total_orders"`
	AverageRating       OptionalFloat `json:"average_rating"`
	CitiesCovered       int           `json:"cities_covered"`
	ActiveAgents        int           `json:"active_agents"`
	MostCommonOrderType string        `json:"most_common_order_type"`
}

// FilterOptions lists the selectable agent and order type values.
type FilterOptions struct {
	Agents     []string `json:"agents"`
	OrderTypes []string `json:"order_types"`
}

// DashboardReport bundles every query result for one filter selection.
type DashboardReport struct {
	Agent      string           `json:"agent"`
	OrderType  string           `json:"order_type"`
	Summary    SummaryStats     `json:"summary"`
	Top        TopStats         `json:"top"`
	Cities     []CityAggregate  `json:"cities"`
	OrderTypes []OrderTypeCount `json:"order_types"`
}
