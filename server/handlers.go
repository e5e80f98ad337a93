package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"delivery-dashboard/geo"
	"delivery-dashboard/models"
)

// apiFunc computes the response body for a request.
type apiFunc func(r *http.Request) (any, error)

// badRequest marks errors caused by the request parameters.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func badRequestf(format string, args ...any) error {
	return &badRequest{msg: fmt.Sprintf(format, args...)}
}

type errorBody struct {
	Error string `json:"error"`
}

// instrument wraps fn with JSON encoding, error mapping and metrics.
func (s *Server) instrument(operation string, fn apiFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		body, err := fn(r)
		code := http.StatusOK
		if err != nil {
			code = http.StatusInternalServerError
			if _, ok := err.(*badRequest); ok {
				code = http.StatusBadRequest
			} else {
				s.logger.Error("[server] %s %s: %v", r.Method, r.URL.Path, err)
			}
			body = errorBody{Error: err.Error()}
		}
		writeJSON(w, code, body)

		s.metrics.queries.WithLabelValues(operation, strconv.Itoa(code)).Inc()
		s.metrics.queryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// parseFilter reads agent, order_type, location, min_rating and max_rating.
// Absent values and "All" mean no filter.
func parseFilter(q url.Values) (models.Filter, error) {
	f := models.Filter{
		Agent:     models.ParseMatch(q.Get("agent")),
		OrderType: models.ParseMatch(q.Get("order_type")),
		Location:  models.ParseMatch(q.Get("location")),
	}

	minRaw, maxRaw := q.Get("min_rating"), q.Get("max_rating")
	if minRaw == "" && maxRaw == "" {
		return f, nil
	}
	rr := models.RatingRange{Min: 0, Max: 5}
	var err error
	if minRaw != "" {
		if rr.Min, err = strconv.ParseFloat(minRaw, 64); err != nil {
			return f, badRequestf("invalid min_rating %q", minRaw)
		}
	}
	if maxRaw != "" {
		if rr.Max, err = strconv.ParseFloat(maxRaw, 64); err != nil {
			return f, badRequestf("invalid max_rating %q", maxRaw)
		}
	}
	if rr.Min > rr.Max {
		return f, badRequestf("min_rating %v is greater than max_rating %v", rr.Min, rr.Max)
	}
	f.Rating = &rr
	return f, nil
}

// parseBox reads "minLat,minLon,maxLat,maxLon".
func parseBox(raw string) (geo.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return geo.BoundingBox{}, badRequestf("bbox must be minLat,minLon,maxLat,maxLon")
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geo.BoundingBox{}, badRequestf("invalid bbox value %q", p)
		}
		v[i] = f
	}
	box := geo.BoundingBox{MinLat: v[0], MinLon: v[1], MaxLat: v[2], MaxLon: v[3]}
	if err := box.Validate(); err != nil {
		return geo.BoundingBox{}, badRequestf("%v", err)
	}
	return box, nil
}

func (s *Server) handleReviews(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	rows := s.queries.Reviews(f)

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, badRequestf("invalid limit %q", raw)
		}
		if limit < len(rows) {
			rows = rows[:limit]
		}
	}
	return rows, nil
}

func (s *Server) handleCities(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	raw := r.URL.Query().Get("bbox")
	if raw == "" {
		return s.queries.CityAggregates(f), nil
	}
	box, err := parseBox(raw)
	if err != nil {
		return nil, err
	}
	return s.queries.CityAggregatesWithin(f, box)
}

func (s *Server) handleOrderTypes(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.queries.OrderTypeDistribution(f), nil
}

func (s *Server) handleTop(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.queries.TopStats(f), nil
}

func (s *Server) handleSummary(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.queries.SummaryStats(f), nil
}

func (s *Server) handleReport(r *http.Request) (any, error) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}
	return s.queries.Report(f), nil
}

func (s *Server) handleOptions(r *http.Request) (any, error) {
	return s.queries.Options(), nil
}

type nearestBody struct {
	City       geo.City `json:"city"`
	DistanceKm float64  `json:"distance_km"`
}

func (s *Server) handleNearest(r *http.Request) (any, error) {
	q := r.URL.Query()
	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return nil, badRequestf("invalid lat %q", q.Get("lat"))
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return nil, badRequestf("invalid lon %q", q.Get("lon"))
	}
	city, dist, ok := s.queries.NearestCity(lat, lon)
	if !ok {
		return nil, fmt.Errorf("no cities indexed")
	}
	return nearestBody{City: city, DistanceKm: dist}, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"reviews": s.queries.DatasetSize(),
	})
}
