// Package store defines the persistence interfaces and errors for the catalog.
package store

import (
	"context"

	"github.com/up4down/up4down-server/internal/domain"
)

// ItemFilter narrows ListItems results. Zero value matches everything.
type ItemFilter struct {
	// CategoryIDs restricts results to items linked to ANY of the given
	// categories. Empty means no category restriction.
	CategoryIDs []string
	// Query restricts results to items whose title contains the string,
	// case-insensitively. Empty means no text restriction.
	Query string
	// FeaturedOnly restricts results to featured items.
	FeaturedOnly bool
}

// CategoryStore manages browsing categories.
type CategoryStore interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// ItemStore manages catalog items and their category links.
type ItemStore interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, filter ItemFilter) ([]*domain.Item, error)
	UpdateItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, id string) error
	IncrementDownloadCount(ctx context.Context, id string) (int64, error)

	SetItemCategories(ctx context.Context, itemID string, categoryIDs []string) error
	GetItemCategories(ctx context.Context, itemID string) ([]string, error)
}

// RatingStore manages rating submissions and aggregates.
type RatingStore interface {
	// CreateRating inserts a rating and recomputes the item's aggregate
	// rating fields in the same transaction. Returns ErrAlreadyRated when
	// the rater has already rated the item.
	CreateRating(ctx context.Context, r *domain.Rating) (*domain.Item, error)
	ListItemRatings(ctx context.Context, itemID string) ([]*domain.Rating, error)
}

// AdminStore manages admin accounts.
type AdminStore interface {
	CreateAdminUser(ctx context.Context, u *domain.AdminUser) error
	GetAdminUserByUsername(ctx context.Context, username string) (*domain.AdminUser, error)
	CountAdminUsers(ctx context.Context) (int, error)
}

// Store is the full persistence interface backing the catalog.
type Store interface {
	CategoryStore
	ItemStore
	RatingStore
	AdminStore

	SetSearchIndexer(indexer SearchIndexer)
	Close() error
}

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search implementation.
type SearchIndexer interface {
	IndexItem(ctx context.Context, item *domain.Item) error
	DeleteItem(ctx context.Context, itemID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexItem is a no-op.
func (NoopSearchIndexer) IndexItem(context.Context, *domain.Item) error { return nil }

// DeleteItem is a no-op.
func (NoopSearchIndexer) DeleteItem(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
