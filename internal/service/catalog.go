// Package service contains the business logic between the HTTP handlers
// and the store.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/store"
)

// CatalogService answers the public browsing surface: category listing,
// faceted item browsing, featured items, and related items.
type CatalogService struct {
	store  store.Store
	cfg    config.CatalogConfig
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(store store.Store, cfg config.CatalogConfig, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// GetItem returns a single item by id.
func (s *CatalogService) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.store.GetItem(ctx, id)
}

// Featured returns the featured items for the landing surface, newest first.
func (s *CatalogService) Featured(ctx context.Context) ([]*domain.Item, error) {
	return s.store.ListItems(ctx, store.ItemFilter{FeaturedOnly: true})
}

// Browse returns items matching the given category slugs and text query,
// newest first. Category selection is a union: an item linked to any of
// the selected categories matches. The text query narrows further as a
// case-insensitive substring on the title.
//
// Unknown slugs are dropped silently. When slugs were given but none
// resolved, the result is empty rather than the whole catalog.
func (s *CatalogService) Browse(ctx context.Context, categorySlugs []string, query string) ([]*domain.Item, error) {
	var categoryIDs []string
	for _, slug := range categorySlugs {
		cat, err := s.store.GetCategoryBySlug(ctx, slug)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		categoryIDs = append(categoryIDs, cat.ID)
	}

	if len(categorySlugs) > 0 && len(categoryIDs) == 0 {
		return []*domain.Item{}, nil
	}

	items, err := s.store.ListItems(ctx, store.ItemFilter{
		CategoryIDs: categoryIDs,
		Query:       query,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

// Related returns up to the configured number of other items sharing at
// least one category with the given item, newest first.
//
// With the "same-category" policy an item without categories (or without
// sharing items) yields an empty list. The "global-fallback" policy tops
// the list up with the newest items from the whole catalog instead.
func (s *CatalogService) Related(ctx context.Context, itemID string) ([]*domain.Item, error) {
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	categoryIDs, err := s.store.GetItemCategories(ctx, itemID)
	if err != nil {
		return nil, err
	}

	limit := s.cfg.RelatedLimit
	related := make([]*domain.Item, 0, limit)

	if len(categoryIDs) > 0 {
		items, err := s.store.ListItems(ctx, store.ItemFilter{CategoryIDs: categoryIDs})
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.ID == itemID {
				continue
			}
			related = append(related, item)
			if len(related) == limit {
				return related, nil
			}
		}
	}

	if s.cfg.RelatedPolicy != config.RelatedGlobalFallback {
		return related, nil
	}

	// Top up from the newest items across the whole catalog.
	items, err := s.store.ListItems(ctx, store.ItemFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(related)+1)
	seen[itemID] = true
	for _, item := range related {
		seen[item.ID] = true
	}
	for _, item := range items {
		if seen[item.ID] {
			continue
		}
		related = append(related, item)
		if len(related) == limit {
			break
		}
	}
	return related, nil
}
