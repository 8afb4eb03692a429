package service

import (
	"context"
	"encoding/json"
	"log/slog"

	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/validation"

	"github.com/up4down/up4down-server/internal/domain"
)

// ItemService handles admin item management: create, update, delete, and
// category linking.
type ItemService struct {
	store     store.Store
	validator *validation.Validator
	runner    *sandbox.Runner
	logger    *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(store store.Store, validator *validation.Validator, runner *sandbox.Runner, logger *slog.Logger) *ItemService {
	return &ItemService{
		store:     store,
		validator: validator,
		runner:    runner,
		logger:    logger,
	}
}

// CreateItemInput holds the fields for a new item.
type CreateItemInput struct {
	Title         string   `json:"title" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=5000"`
	Thumbnails    []string `json:"thumbnails" validate:"dive,url"`
	DownloadURL   string   `json:"download_url" validate:"required,url"`
	FileType      string   `json:"file_type" validate:"required,max=20"`
	FileSize      string   `json:"file_size" validate:"max=50"`
	Version       string   `json:"version" validate:"max=50"`
	Featured      bool     `json:"featured"`
	Script        string   `json:"script"`
	CategorySlugs []string `json:"category_slugs"`
}

// UpdateItemInput holds a partial item update. Nil fields are left unchanged.
type UpdateItemInput struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Description   *string  `json:"description" validate:"omitempty,max=5000"`
	Thumbnails    []string `json:"thumbnails" validate:"omitempty,dive,url"`
	DownloadURL   *string  `json:"download_url" validate:"omitempty,url"`
	FileType      *string  `json:"file_type" validate:"omitempty,max=20"`
	FileSize      *string  `json:"file_size" validate:"omitempty,max=50"`
	Version       *string  `json:"version" validate:"omitempty,max=50"`
	Featured      *bool    `json:"featured"`
	Script        *string  `json:"script"`
	CategorySlugs []string `json:"category_slugs"`
}

// Create validates the input, compiles any attached script, and persists
// the item with its category links.
func (s *ItemService) Create(ctx context.Context, input CreateItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if input.Script != "" {
		if err := s.runner.Compile(input.Script); err != nil {
			return nil, err
		}
	}

	categoryIDs, err := s.resolveCategorySlugs(ctx, input.CategorySlugs)
	if err != nil {
		return nil, err
	}

	itemID, err := id.Generate(id.PrefixItem)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{
		Record:      domain.Record{ID: itemID},
		Title:       input.Title,
		Description: input.Description,
		Thumbnail:   encodeThumbnails(input.Thumbnails),
		DownloadURL: input.DownloadURL,
		FileType:    input.FileType,
		FileSize:    input.FileSize,
		Version:     input.Version,
		Featured:    input.Featured,
		Script:      input.Script,
	}
	item.InitTimestamps()

	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if len(categoryIDs) > 0 {
		if err := s.store.SetItemCategories(ctx, item.ID, categoryIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("item created", "item_id", item.ID, "title", item.Title)
	return item, nil
}

// Update applies a partial update to an item. A nil CategorySlugs leaves
// the links alone; an empty non-nil slice clears them.
func (s *ItemService) Update(ctx context.Context, itemID string, input UpdateItemInput) (*domain.Item, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if input.Script != nil && *input.Script != "" {
		if err := s.runner.Compile(*input.Script); err != nil {
			return nil, err
		}
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Thumbnails != nil {
		item.Thumbnail = encodeThumbnails(input.Thumbnails)
	}
	if input.DownloadURL != nil {
		item.DownloadURL = *input.DownloadURL
	}
	if input.FileType != nil {
		item.FileType = *input.FileType
	}
	if input.FileSize != nil {
		item.FileSize = *input.FileSize
	}
	if input.Version != nil {
		item.Version = *input.Version
	}
	if input.Featured != nil {
		item.Featured = *input.Featured
	}
	if input.Script != nil {
		item.Script = *input.Script
	}
	item.Touch()

	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	if input.CategorySlugs != nil {
		categoryIDs, err := s.resolveCategorySlugs(ctx, input.CategorySlugs)
		if err != nil {
			return nil, err
		}
		if err := s.store.SetItemCategories(ctx, item.ID, categoryIDs); err != nil {
			return nil, err
		}
	}

	s.logger.Info("item updated", "item_id", item.ID)
	return item, nil
}

// Delete removes an item, its category links, and its ratings.
func (s *ItemService) Delete(ctx context.Context, itemID string) error {
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	s.logger.Info("item deleted", "item_id", itemID)
	return nil
}

// resolveCategorySlugs maps slugs to category ids. Unlike public browsing,
// an unknown slug here is an input error: the admin referenced a category
// that does not exist.
func (s *ItemService) resolveCategorySlugs(ctx context.Context, slugs []string) ([]string, error) {
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		cat, err := s.store.GetCategoryBySlug(ctx, slug)
		if err != nil {
			if apperrors.Is(err, store.ErrNotFound) {
				return nil, apperrors.Validationf("unknown category: %s", slug)
			}
			return nil, err
		}
		ids = append(ids, cat.ID)
	}
	return ids, nil
}

// encodeThumbnails stores a single URL raw and multiple URLs as a JSON
// array, matching the two shapes Item.Thumbnails decodes.
func encodeThumbnails(urls []string) string {
	switch len(urls) {
	case 0:
		return ""
	case 1:
		return urls[0]
	default:
		encoded, err := json.Marshal(urls)
		if err != nil {
			return urls[0]
		}
		return string(encoded)
	}
}
