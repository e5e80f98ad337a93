package services

import (
	"delivery-dashboard/models"
)

// Dataset is the loaded review table. It is never modified after load, so
// any number of goroutines may read it without locking.
type Dataset struct {
	rows []models.Review
}

func newDataset(rows []models.Review) *Dataset {
	return &Dataset{rows: rows}
}

// NewDataset builds a Dataset from already validated reviews. The slice is
// copied.
func NewDataset(rows []models.Review) *Dataset {
	cp := make([]models.Review, len(rows))
	copy(cp, rows)
	return newDataset(cp)
}

// Len returns the number of reviews.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// All returns a copy of every review in source order.
func (d *Dataset) All() []models.Review {
	return d.Filter(models.Filter{})
}

// Filter returns the reviews accepted by f, in source order, as a new slice.
// An empty result is not an error.
func (d *Dataset) Filter(f models.Filter) []models.Review {
	out := make([]models.Review, 0, len(d.rows))
	for _, r := range d.rows {
		if f.Accepts(r) {
			out = append(out, r)
		}
	}
	return out
}
