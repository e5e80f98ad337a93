package models

import (
	"encoding/json"
	"math"
)

// NotAvailable is shown in place of a city or order type when the filtered
// set is empty.
const NotAvailable = "N/A"

// RawReview holds one unprocessed source row. Line is the 1-based line in
// the source file (or the row id for database sources).
type RawReview struct {
	Line      int
	AgentName string
	Location  string
	OrderType string
	Rating    string
}

// Review is a validated record with coordinates resolved from its location.
type Review struct {
	AgentName string  `json:"agent_name"`
	Location  string  `json:"location"`
	OrderType string  `json:"order_type"`
	Rating    float64 `json:"rating"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OptionalFloat is a float that may be undefined, such as the mean of zero
// ratings. It encodes as JSON null when not valid and never carries NaN.
type OptionalFloat struct {
	Value float64
	Valid bool
}

// Some returns a defined OptionalFloat. NaN and infinities are undefined.
func Some(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return OptionalFloat{}
	}
	return OptionalFloat{Value: v, Valid: true}
}

// Undefined returns an OptionalFloat with no value.
func Undefined() OptionalFloat {
	return OptionalFloat{}
}

// Or returns the value, or fallback when undefined.
func (o OptionalFloat) Or(fallback float64) float64 {
	if !o.Valid {
		return fallback
	}
	return o.Value
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
