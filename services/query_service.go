package services

import (
	"delivery-dashboard/geo"
	"delivery-dashboard/models"
	"delivery-dashboard/utils"
)

// QueryService answers dashboard queries against a loaded Dataset. It keeps
// no selection state: callers pass the filter on every call.
type QueryService struct {
	dataset *Dataset
	index   *geo.Index
	logger  *utils.Logger
}

// NewQueryService creates a QueryService over dataset using the known city
// index for spatial lookups.
func NewQueryService(dataset *Dataset, logger *utils.Logger) *QueryService {
	return &QueryService{
		dataset: dataset,
		index:   geo.NewIndex(),
		logger:  logger,
	}
}

// Reviews returns the detail table rows for f.
func (s *QueryService) Reviews(f models.Filter) []models.Review {
	rows := s.dataset.Filter(f)
	s.logger.Debug("[query] reviews agent=%s order_type=%s -> %d rows", f.Agent, f.OrderType, len(rows))
	return rows
}

// CityAggregates returns per-city aggregates for f.
func (s *QueryService) CityAggregates(f models.Filter) []models.CityAggregate {
	return CityAggregates(s.dataset.Filter(f))
}

// CityAggregatesWithin returns per-city aggregates for f limited to box.
func (s *QueryService) CityAggregatesWithin(f models.Filter, box geo.BoundingBox) ([]models.CityAggregate, error) {
	return CityAggregatesWithin(s.dataset.Filter(f), s.index, box)
}

// OrderTypeDistribution returns order type counts for f.
func (s *QueryService) OrderTypeDistribution(f models.Filter) []models.OrderTypeCount {
	return OrderTypeDistribution(s.dataset.Filter(f))
}

// TopStats returns the top city figures for f.
func (s *QueryService) TopStats(f models.Filter) models.TopStats {
	return TopStats(s.dataset.Filter(f))
}

// SummaryStats returns the summary cards for f.
func (s *QueryService) SummaryStats(f models.Filter) models.SummaryStats {
	return SummaryStats(s.dataset.Filter(f))
}

// Options returns selector values over the whole dataset.
func (s *QueryService) Options() models.FilterOptions {
	return FilterOptions(s.dataset.rows)
}

// NearestCity returns the known city closest to (lat, lon).
func (s *QueryService) NearestCity(lat, lon float64) (geo.City, float64, bool) {
	return s.index.Nearest(lat, lon)
}

// DatasetSize returns the number of loaded reviews.
func (s *QueryService) DatasetSize() int {
	return s.dataset.Len()
}
