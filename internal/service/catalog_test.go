package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/store"
)

func TestCatalogService_Browse_NoFilter(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, "First")
	seedItem(t, s, "Second")

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Browse(context.Background(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Second", "First"}, itemTitles(items))
}

func TestCatalogService_Browse_CategoryUnion(t *testing.T) {
	s := newTestStore(t)
	apps := seedCategory(t, s, "Apps")
	games := seedCategory(t, s, "Games")
	seedItem(t, s, "Calculator", apps.ID)
	seedItem(t, s, "Puzzle", games.ID)
	seedItem(t, s, "Arcade Calculator", apps.ID, games.ID)
	seedItem(t, s, "Unfiled")

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Browse(context.Background(), []string{"apps", "games"}, "")
	require.NoError(t, err)
	// Union of both categories, each item once, unfiled excluded.
	assert.ElementsMatch(t, []string{"Calculator", "Puzzle", "Arcade Calculator"}, itemTitles(items))
}

func TestCatalogService_Browse_QueryNarrowsCategories(t *testing.T) {
	s := newTestStore(t)
	apps := seedCategory(t, s, "Apps")
	seedItem(t, s, "Calculator", apps.ID)
	seedItem(t, s, "Notepad", apps.ID)

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Browse(context.Background(), []string{"apps"}, "calc")
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculator"}, itemTitles(items))
}

func TestCatalogService_Browse_UnknownSlugDroppedSilently(t *testing.T) {
	s := newTestStore(t)
	apps := seedCategory(t, s, "Apps")
	seedItem(t, s, "Calculator", apps.ID)

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Browse(context.Background(), []string{"apps", "no-such-category"}, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Calculator"}, itemTitles(items))
}

func TestCatalogService_Browse_OnlyUnknownSlugs(t *testing.T) {
	s := newTestStore(t)
	seedItem(t, s, "Calculator")

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	// A selection that resolves to nothing must not fall back to the
	// whole catalog.
	items, err := svc.Browse(context.Background(), []string{"no-such-category"}, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogService_Browse_EmptyCategoryIsNotAnError(t *testing.T) {
	s := newTestStore(t)
	seedCategory(t, s, "Apps")
	seedItem(t, s, "Unfiled")

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Browse(context.Background(), []string{"apps"}, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCatalogService_Featured(t *testing.T) {
	s := newTestStore(t)
	plain := seedItem(t, s, "Plain")
	featured := seedItem(t, s, "Featured")
	featured.Featured = true
	require.NoError(t, s.UpdateItem(context.Background(), featured))
	_ = plain

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	items, err := svc.Featured(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Featured"}, itemTitles(items))
}

func TestCatalogService_Related_SameCategory(t *testing.T) {
	s := newTestStore(t)
	apps := seedCategory(t, s, "Apps")
	games := seedCategory(t, s, "Games")
	target := seedItem(t, s, "Target", apps.ID)
	seedItem(t, s, "Sibling", apps.ID)
	seedItem(t, s, "Unrelated", games.ID)

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	related, err := svc.Related(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sibling"}, itemTitles(related))
}

func TestCatalogService_Related_ExcludesSelfAndHonorsLimit(t *testing.T) {
	s := newTestStore(t)
	apps := seedCategory(t, s, "Apps")
	target := seedItem(t, s, "Target", apps.ID)
	for _, title := range []string{"A", "B", "C", "D", "E"} {
		seedItem(t, s, title, apps.ID)
	}

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	related, err := svc.Related(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Len(t, related, 4)
	assert.NotContains(t, itemTitles(related), "Target")
}

func TestCatalogService_Related_NoCategoriesSameCategoryPolicy(t *testing.T) {
	s := newTestStore(t)
	target := seedItem(t, s, "Target")
	seedItem(t, s, "Other")

	svc := NewCatalogService(s, catalogConfig(), testLogger())

	related, err := svc.Related(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestCatalogService_Related_GlobalFallback(t *testing.T) {
	s := newTestStore(t)
	target := seedItem(t, s, "Target")
	seedItem(t, s, "Older")
	seedItem(t, s, "Newest")

	cfg := catalogConfig()
	cfg.RelatedPolicy = config.RelatedGlobalFallback
	svc := NewCatalogService(s, cfg, testLogger())

	related, err := svc.Related(context.Background(), target.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Newest", "Older"}, itemTitles(related))
}

func TestCatalogService_Related_MissingItem(t *testing.T) {
	s := newTestStore(t)
	svc := NewCatalogService(s, catalogConfig(), testLogger())

	_, err := svc.Related(context.Background(), "item-missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
