package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"delivery-dashboard/models"
	"delivery-dashboard/utils"
)

const selectReviews = `
	SELECT id, agent_name, location, order_type, rating::text
	FROM reviews
	ORDER BY id
`

// PostgresReader loads reviews from the PostgreSQL "reviews" table.
type PostgresReader struct {
	db *sql.DB
}

// NewPostgresReader opens a connection to PostgreSQL and waits until it
// answers a ping.
func NewPostgresReader(ctx context.Context, dsn string, retries int, logger *utils.Logger) (*PostgresReader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	retry := &utils.RetryConfig{
		MaxAttempts: retries,
		BaseDelay:   time.Second,
		Logger:      logger,
	}
	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresReader{db: db}, nil
}

// NewPostgresReaderWithDB wraps an existing handle.
func NewPostgresReaderWithDB(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

// Read retrieves every stored review ordered by id. Line carries the row id.
func (pr *PostgresReader) Read(ctx context.Context) ([]*models.RawReview, error) {
	rows, err := pr.db.QueryContext(ctx, selectReviews)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*models.RawReview
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate reviews: %w", err)
	}
	return reviews, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReview(row rowScanner) (*models.RawReview, error) {
	var (
		id                                 int
		agent, location, orderType, rating sql.NullString
	)
	if err := row.Scan(&id, &agent, &location, &orderType, &rating); err != nil {
		return nil, fmt.Errorf("postgres: scan row: %w", err)
	}
	return &models.RawReview{
		Line:      id,
		AgentName: agent.String,
		Location:  location.String,
		OrderType: orderType.String,
		Rating:    rating.String,
	}, nil
}

func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}
