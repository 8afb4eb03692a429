package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/logger"
	"github.com/up4down/up4down-server/internal/search"
	"github.com/up4down/up4down-server/internal/store"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the title suggestion index and wires it to
// the store so item writes keep it in sync.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		Path:   cfg.SearchIndexPath(),
		Logger: log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(index)

	return &SearchIndexHandle{Index: index}, nil
}

// ReindexIfEmpty backfills the suggestion index from the store when the
// index has no documents. A fresh or rebuilt index starts empty even when
// the catalog is not.
func ReindexIfEmpty(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)

	count, err := indexHandle.DocumentCount()
	if err != nil {
		log.Error("Failed to check search index size", "error", err)
		return
	}
	if count > 0 {
		return
	}

	items, err := storeHandle.ListItems(context.Background(), store.ItemFilter{})
	if err != nil {
		log.Error("Failed to list items for reindex", "error", err)
		return
	}
	if len(items) == 0 {
		return
	}

	if err := indexHandle.IndexItems(items); err != nil {
		log.Error("Failed to reindex items", "error", err)
		return
	}
	log.Info("Reindexed items into empty search index", "count", len(items))
}
