package storage

import (
	"context"

	"delivery-dashboard/models"
)

// ReviewSource is the interface any review backend must satisfy. Sources
// are read once at startup; none of them write.
type ReviewSource interface {
	Read(ctx context.Context) ([]*models.RawReview, error)
	Close() error
}
