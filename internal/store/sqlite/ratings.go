package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/store"
)

// CreateRating inserts a rating and recomputes the item's aggregate rating
// fields in the same transaction, so readers never observe a submitted rating
// without its effect on the average.
// Returns store.ErrAlreadyRated when the rater has already rated the item and
// store.ErrNotFound when the item does not exist.
func (s *Store) CreateRating(ctx context.Context, r *domain.Rating) (*domain.Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (id, created_at, updated_at, item_id, rating, rater_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
		r.ItemID,
		r.Rating,
		r.RaterID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, store.ErrAlreadyRated
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return nil, store.ErrNotFound
		}
		return nil, err
	}

	// Recompute aggregates from the ratings table rather than adjusting
	// incrementally, so the stored values cannot drift.
	_, err = tx.ExecContext(ctx, `
		UPDATE items SET
			average_rating = (SELECT AVG(rating) FROM ratings WHERE item_id = ?),
			rating_count = (SELECT COUNT(*) FROM ratings WHERE item_id = ?)
		WHERE id = ?`,
		r.ItemID, r.ItemID, r.ItemID,
	)
	if err != nil {
		return nil, fmt.Errorf("recompute rating aggregates: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, r.ItemID)
	item, err := scanItem(row)
	if err != nil {
		return nil, fmt.Errorf("reload item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return item, nil
}

// ListItemRatings returns all ratings for an item, newest first.
func (s *Store) ListItemRatings(ctx context.Context, itemID string) ([]*domain.Rating, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, updated_at, item_id, rating, rater_id
		FROM ratings
		WHERE item_id = ?
		ORDER BY created_at DESC`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []*domain.Rating
	for rows.Next() {
		var (
			r         domain.Rating
			createdAt string
			updatedAt string
		)
		if err := rows.Scan(&r.ID, &createdAt, &updatedAt, &r.ItemID, &r.Rating, &r.RaterID); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, err
		}
		ratings = append(ratings, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}
