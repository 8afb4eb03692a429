package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/up4down/up4down-server/internal/category"
	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/store"
	"github.com/up4down/up4down-server/internal/store/sqlite"
	"github.com/up4down/up4down-server/internal/validation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func catalogConfig() config.CatalogConfig {
	return config.CatalogConfig{
		RelatedPolicy:   config.RelatedSameCategory,
		RelatedLimit:    4,
		SuggestLimit:    5,
		SuggestMinChars: 2,
	}
}

func seedCategory(t *testing.T, s store.Store, name string) *domain.Category {
	t.Helper()

	cat := &domain.Category{
		Record: domain.Record{ID: id.MustGenerate(id.PrefixCategory)},
		Name:   name,
		Slug:   category.Slugify(name),
	}
	cat.InitTimestamps()
	if err := s.CreateCategory(context.Background(), cat); err != nil {
		t.Fatalf("seed category %q: %v", name, err)
	}
	return cat
}

func seedItem(t *testing.T, s store.Store, title string, categoryIDs ...string) *domain.Item {
	t.Helper()

	item := &domain.Item{
		Record:      domain.Record{ID: id.MustGenerate(id.PrefixItem)},
		Title:       title,
		DownloadURL: "https://example.com/" + category.Slugify(title) + ".zip",
		FileType:    "zip",
	}
	item.InitTimestamps()
	if err := s.CreateItem(context.Background(), item); err != nil {
		t.Fatalf("seed item %q: %v", title, err)
	}
	if len(categoryIDs) > 0 {
		if err := s.SetItemCategories(context.Background(), item.ID, categoryIDs); err != nil {
			t.Fatalf("link item %q: %v", title, err)
		}
	}
	return item
}

func newItemService(s store.Store) *ItemService {
	return NewItemService(s, validation.New(), sandbox.NewRunner(0), testLogger())
}

func itemTitles(items []*domain.Item) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}
