package search

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/up4down/up4down-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	index, err := NewIndex(Options{
		Path: filepath.Join(t.TempDir(), "search.bleve"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func makeIndexedItem(id, title string) *domain.Item {
	now := time.Now()
	return &domain.Item{
		Record: domain.Record{
			ID:        id,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       title,
		DownloadURL: "https://example.com/" + id,
	}
}

func TestNewIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexAndDeleteItem(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	require.NoError(t, index.DeleteItem(ctx, "item-1"))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSuggest_PrefixMatch(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))
	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-2", "Calculator")))

	got, err := index.Suggest(ctx, "pho", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "item-1", got[0].ID)
	assert.Equal(t, "Photo Editor", got[0].Title)
}

func TestSuggest_SubstringMatch(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	// "dito" appears mid-word in "Editor"; only the wildcard clause can hit it.
	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))
	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-2", "Calculator")))

	got, err := index.Suggest(ctx, "dito", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "item-1", got[0].ID)
}

func TestSuggest_CaseInsensitive(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))

	got, err := index.Suggest(ctx, "PHOTO", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "item-1", got[0].ID)
}

func TestSuggest_RespectsLimit(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	titles := []string{
		"Editor One", "Editor Two", "Editor Three",
		"Editor Four", "Editor Five", "Editor Six", "Editor Seven",
	}
	for i, title := range titles {
		require.NoError(t, index.IndexItem(ctx, makeIndexedItem(
			"item-"+string(rune('a'+i)), title)))
	}

	got, err := index.Suggest(ctx, "editor", 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestSuggest_EmptyQuery(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))

	got, err := index.Suggest(ctx, "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggest_NoMatches(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))

	got, err := index.Suggest(ctx, "zzzz", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggest_ReindexedItemUsesLatestTitle(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	item := makeIndexedItem("item-1", "Photo Editor")
	require.NoError(t, index.IndexItem(ctx, item))

	item.Title = "Image Workshop"
	require.NoError(t, index.IndexItem(ctx, item))

	got, err := index.Suggest(ctx, "photo", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = index.Suggest(ctx, "workshop", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Image Workshop", got[0].Title)
}

func TestIndexItems_Batch(t *testing.T) {
	index := setupTestIndex(t)

	items := []*domain.Item{
		makeIndexedItem("item-1", "One"),
		makeIndexedItem("item-2", "Two"),
		makeIndexedItem("item-3", "Three"),
	}
	require.NoError(t, index.IndexItems(items))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestRebuild_EmptiesIndex(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexItem(ctx, makeIndexedItem("item-1", "Photo Editor")))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
