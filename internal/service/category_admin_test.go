package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/category"
	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/validation"
)

func newCategoryService(s store.Store) *CategoryService {
	return NewCategoryService(s, validation.New(), testLogger())
}

func TestCategoryService_Create(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	cat, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Productivity Apps", Icon: "briefcase"})
	require.NoError(t, err)
	assert.Equal(t, "productivity-apps", cat.Slug)
	assert.Equal(t, "briefcase", cat.Icon)
}

func TestCategoryService_Create_Invalid(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: ""})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Non-ASCII-only names slugify to nothing.
	_, err = svc.Create(context.Background(), CreateCategoryInput{Name: "★★★"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCategoryService_Create_DuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	_, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Apps"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCategoryInput{Name: "apps"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCategoryService_Update_RenameReslugs(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	cat, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Apps"})
	require.NoError(t, err)

	newName := "Mobile Apps"
	updated, err := svc.Update(context.Background(), cat.ID, UpdateCategoryInput{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "mobile-apps", updated.Slug)
}

func TestCategoryService_Delete(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	cat, err := svc.Create(context.Background(), CreateCategoryInput{Name: "Apps"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), cat.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), cat.ID), store.ErrNotFound)
}

func TestCategoryService_EnsureDefaults(t *testing.T) {
	s := newTestStore(t)
	svc := newCategoryService(s)

	require.NoError(t, svc.EnsureDefaults(context.Background()))

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, len(category.Defaults))

	// Second run does not duplicate the seed.
	require.NoError(t, svc.EnsureDefaults(context.Background()))
	cats, err = s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, len(category.Defaults))
}

func TestCategoryService_EnsureDefaults_SkipsNonEmptyTable(t *testing.T) {
	s := newTestStore(t)
	seedCategory(t, s, "Custom")

	svc := newCategoryService(s)
	require.NoError(t, svc.EnsureDefaults(context.Background()))

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
