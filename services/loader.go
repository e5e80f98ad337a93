package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"delivery-dashboard/geo"
	"delivery-dashboard/models"
	"delivery-dashboard/storage"
	"delivery-dashboard/utils"
)

var errEmptyValue = errors.New("empty value")

// Loader turns raw source rows into a validated, geocoded Dataset.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads every row from source and builds a Dataset. Any bad row aborts
// the load; rows are never skipped.
func (l *Loader) Load(ctx context.Context, source storage.ReviewSource) (*Dataset, error) {
	raw, err := source.Read(ctx)
	if err != nil {
		return nil, &LoadError{Err: err}
	}
	ds, err := l.Build(raw)
	if err != nil {
		return nil, err
	}
	l.logger.Info("[loader] Loaded %d reviews across %d cities", ds.Len(), len(distinctLocations(ds.rows)))
	return ds, nil
}

// Build validates raw rows and resolves their coordinates.
func (l *Loader) Build(raw []*models.RawReview) (*Dataset, error) {
	rows := make([]models.Review, 0, len(raw))
	for _, r := range raw {
		review, err := convert(r)
		if err != nil {
			l.logger.Error("[loader] %v", err)
			return nil, err
		}
		rows = append(rows, review)
	}
	return newDataset(rows), nil
}

func convert(r *models.RawReview) (models.Review, error) {
	agent := normaliseText(r.AgentName)
	if agent == "" {
		return models.Review{}, &LoadError{Line: r.Line, Column: storage.ColumnAgentName, Err: errEmptyValue}
	}

	location := normaliseText(r.Location)
	city, ok := geo.Lookup(location)
	if !ok {
		return models.Review{}, &LoadError{
			Line:   r.Line,
			Column: storage.ColumnLocation,
			Err:    &UnknownLocationError{Location: location},
		}
	}

	orderType := normaliseText(r.OrderType)
	if orderType == "" {
		return models.Review{}, &LoadError{Line: r.Line, Column: storage.ColumnOrderType, Err: errEmptyValue}
	}

	rating, err := parseRating(r.Rating)
	if err != nil {
		return models.Review{}, &LoadError{Line: r.Line, Column: storage.ColumnRating, Err: err}
	}

	return models.Review{
		AgentName: agent,
		Location:  city.Name,
		OrderType: orderType,
		Rating:    rating,
		Latitude:  city.Lat,
		Longitude: city.Lon,
	}, nil
}

// parseRating accepts any finite number. Values outside 0-5 are kept as
// given; the scale is not enforced by the source data.
func parseRating(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errEmptyValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid rating %q", raw)
	}
	return v, nil
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	fields := strings.FieldsFunc(s, unicode.IsSpace)
	return strings.Join(fields, " ")
}
