package service

import (
	"context"
	"log/slog"

	"github.com/up4down/up4down-server/internal/category"
	"github.com/up4down/up4down-server/internal/domain"
	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/validation"
)

// CategoryService handles admin category management and first-run seeding.
type CategoryService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(store store.Store, validator *validation.Validator, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateCategoryInput holds the fields for a new category.
type CreateCategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Icon string `json:"icon" validate:"max=50"`
}

// UpdateCategoryInput holds a partial category update.
type UpdateCategoryInput struct {
	Name *string `json:"name" validate:"omitempty,max=100"`
	Icon *string `json:"icon" validate:"omitempty,max=50"`
}

// Create validates and persists a new category. The slug is derived from
// the name.
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	slug := category.Slugify(input.Name)
	if slug == "" {
		return nil, apperrors.Validation("name produces an empty slug")
	}

	catID, err := id.Generate(id.PrefixCategory)
	if err != nil {
		return nil, err
	}

	cat := &domain.Category{
		Record: domain.Record{ID: catID},
		Name:   input.Name,
		Slug:   slug,
		Icon:   input.Icon,
	}
	cat.InitTimestamps()

	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, err
	}

	s.logger.Info("category created", "category_id", cat.ID, "slug", cat.Slug)
	return cat, nil
}

// Update applies a partial update to a category. Renaming re-derives the slug.
func (s *CategoryService) Update(ctx context.Context, categoryID string, input UpdateCategoryInput) (*domain.Category, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	cat, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		slug := category.Slugify(*input.Name)
		if slug == "" {
			return nil, apperrors.Validation("name produces an empty slug")
		}
		cat.Name = *input.Name
		cat.Slug = slug
	}
	if input.Icon != nil {
		cat.Icon = *input.Icon
	}
	cat.Touch()

	if err := s.store.UpdateCategory(ctx, cat); err != nil {
		return nil, err
	}

	s.logger.Info("category updated", "category_id", cat.ID, "slug", cat.Slug)
	return cat, nil
}

// Delete removes a category. Item links are removed by the store; the
// items themselves are untouched.
func (s *CategoryService) Delete(ctx context.Context, categoryID string) error {
	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		return err
	}
	s.logger.Info("category deleted", "category_id", categoryID)
	return nil
}

// EnsureDefaults seeds the starter taxonomy when the category table is
// empty. Called once at startup.
func (s *CategoryService) EnsureDefaults(ctx context.Context) error {
	existing, err := s.store.ListCategories(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, def := range category.Defaults {
		cat := &domain.Category{
			Record: domain.Record{ID: id.MustGenerate(id.PrefixCategory)},
			Name:   def.Name,
			Slug:   category.Slugify(def.Name),
			Icon:   def.Icon,
		}
		cat.InitTimestamps()
		if err := s.store.CreateCategory(ctx, cat); err != nil {
			return err
		}
	}

	s.logger.Info("seeded default categories", "count", len(category.Defaults))
	return nil
}
