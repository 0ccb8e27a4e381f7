package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/prepcat"
)

// Compile-time interface verification.
var _ prepcat.ViewService = (*ViewService)(nil)

// ViewService implements prepcat.ViewService using SQLite.
// Increments are a single UPSERT statement on the only connection, so
// concurrent calls are serialized by the database and never lost.
type ViewService struct {
	db *DB
}

// NewViewService creates a new ViewService.
func NewViewService(db *DB) *ViewService {
	return &ViewService{db: db}
}

// RecordView increments the count for id and returns the new count.
func (s *ViewService) RecordView(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, prepcat.Errorf(prepcat.EINVALID, "item id required")
	}

	var count int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO views (item_id, count, last_viewed_at)
		VALUES (?, 1, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			count = count + 1,
			last_viewed_at = excluded.last_viewed_at
		RETURNING count
	`, id, time.Now().UTC().Format(time.RFC3339)).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ViewCount returns the count for id, zero if never recorded.
func (s *ViewService) ViewCount(ctx context.Context, id string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT count FROM views WHERE item_id = ?`, id).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}
