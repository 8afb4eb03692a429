package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/store"
)

// itemColumns is the ordered list of columns selected in item queries.
// Must match the scan order in scanItem.
const itemColumns = `id, created_at, updated_at, title, description, thumbnail,
	download_url, file_type, file_size, version, download_count,
	average_rating, rating_count, featured, script`

// scanItem scans a sql.Row (or sql.Rows via its Scan method) into a domain.Item.
func scanItem(scanner interface{ Scan(dest ...any) error }) (*domain.Item, error) {
	var item domain.Item

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
		thumbnail   sql.NullString
		fileType    sql.NullString
		fileSize    sql.NullString
		version     sql.NullString
		script      sql.NullString
		featured    int
	)

	err := scanner.Scan(
		&item.ID,
		&createdAt,
		&updatedAt,
		&item.Title,
		&description,
		&thumbnail,
		&item.DownloadURL,
		&fileType,
		&fileSize,
		&version,
		&item.DownloadCount,
		&item.AverageRating,
		&item.RatingCount,
		&featured,
		&script,
	)
	if err != nil {
		return nil, err
	}

	item.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	item.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		item.Description = description.String
	}
	if thumbnail.Valid {
		item.Thumbnail = thumbnail.String
	}
	if fileType.Valid {
		item.FileType = fileType.String
	}
	if fileSize.Valid {
		item.FileSize = fileSize.String
	}
	if version.Valid {
		item.Version = version.String
	}
	if script.Valid {
		item.Script = script.String
	}
	item.Featured = featured != 0

	return &item, nil
}

// CreateItem inserts a new item and indexes it for search.
// Returns store.ErrAlreadyExists if the item ID already exists.
func (s *Store) CreateItem(ctx context.Context, item *domain.Item) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO items (
			id, created_at, updated_at, title, description, thumbnail,
			download_url, file_type, file_size, version, download_count,
			average_rating, rating_count, featured, script
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		formatTime(item.CreatedAt),
		formatTime(item.UpdatedAt),
		item.Title,
		nullString(item.Description),
		nullString(item.Thumbnail),
		item.DownloadURL,
		nullString(item.FileType),
		nullString(item.FileSize),
		nullString(item.Version),
		item.DownloadCount,
		item.AverageRating,
		item.RatingCount,
		boolToInt(item.Featured),
		nullString(item.Script),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexItem(ctx, item); err != nil {
		s.logger.Warn("index item failed", "item_id", item.ID, "error", err)
	}
	return nil
}

// GetItem retrieves an item by ID.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItems returns items matching the filter, newest first.
// Category and text restrictions compose with AND; an item matches the
// category restriction when it is linked to any of the given categories.
func (s *Store) ListItems(ctx context.Context, filter store.ItemFilter) ([]*domain.Item, error) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT ` + itemColumns + ` FROM items WHERE 1=1`)

	if len(filter.CategoryIDs) > 0 {
		sb.WriteString(` AND id IN (
			SELECT item_id FROM item_categories
			WHERE category_id IN (?` + strings.Repeat(", ?", len(filter.CategoryIDs)-1) + `))`)
		for _, categoryID := range filter.CategoryIDs {
			args = append(args, categoryID)
		}
	}

	if filter.Query != "" {
		sb.WriteString(` AND LOWER(title) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Query)+"%")
	}
	if filter.FeaturedOnly {
		sb.WriteString(` AND featured = 1`)
	}

	sb.WriteString(` ORDER BY created_at DESC`)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem performs a full row update on an existing item and re-indexes it.
// Aggregate rating fields and the download count are not written here; they
// are owned by CreateRating and IncrementDownloadCount.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) UpdateItem(ctx context.Context, item *domain.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			updated_at = ?,
			title = ?,
			description = ?,
			thumbnail = ?,
			download_url = ?,
			file_type = ?,
			file_size = ?,
			version = ?,
			featured = ?,
			script = ?
		WHERE id = ?`,
		formatTime(item.UpdatedAt),
		item.Title,
		nullString(item.Description),
		nullString(item.Thumbnail),
		item.DownloadURL,
		nullString(item.FileType),
		nullString(item.FileSize),
		nullString(item.Version),
		boolToInt(item.Featured),
		nullString(item.Script),
		item.ID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.IndexItem(ctx, item); err != nil {
		s.logger.Warn("index item failed", "item_id", item.ID, "error", err)
	}
	return nil
}

// DeleteItem removes an item and its search index entry. Category links and
// ratings are removed by ON DELETE CASCADE.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.DeleteItem(ctx, id); err != nil {
		s.logger.Warn("delete item from index failed", "item_id", id, "error", err)
	}
	return nil
}

// IncrementDownloadCount atomically bumps an item's download counter and
// returns the new value.
// Returns store.ErrNotFound if the item does not exist.
func (s *Store) IncrementDownloadCount(ctx context.Context, id string) (int64, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE items SET download_count = download_count + 1
		WHERE id = ?
		RETURNING download_count`, id)

	var count int64
	err := row.Scan(&count)
	if err == sql.ErrNoRows {
		return 0, store.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment download count: %w", err)
	}
	return count, nil
}
