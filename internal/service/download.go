package service

import (
	"context"
	"log/slog"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/domain"
	"github.com/up4down/up4down-server/internal/sandbox"
	"github.com/up4down/up4down-server/internal/store"
)

// DownloadService handles download triggers: counting, running the item's
// script, and handing back the file location.
type DownloadService struct {
	store  store.Store
	runner *sandbox.Runner
	cfg    config.ScriptsConfig
	logger *slog.Logger
}

// NewDownloadService creates a new download service.
func NewDownloadService(store store.Store, runner *sandbox.Runner, cfg config.ScriptsConfig, logger *slog.Logger) *DownloadService {
	return &DownloadService{
		store:  store,
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
}

// DownloadResult is what a download trigger hands back.
type DownloadResult struct {
	DownloadURL string       `json:"download_url"`
	Item        *domain.Item `json:"item"`
}

// Trigger records a download of the item and returns its file location.
// The order is fixed: increment the counter, run the item's script, hand
// back the URL. The script is best-effort; its failure never blocks the
// counter increment or the URL handback.
func (s *DownloadService) Trigger(ctx context.Context, itemID string) (*DownloadResult, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.IncrementDownloadCount(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.DownloadCount = count

	if s.cfg.Enabled && item.Script != "" {
		s.runScript(ctx, item)
	}

	return &DownloadResult{
		DownloadURL: item.DownloadURL,
		Item:        item,
	}, nil
}

// runScript executes the item's script against a fresh snapshot and
// forwards everything it did to the server log.
func (s *DownloadService) runScript(ctx context.Context, item *domain.Item) {
	result, err := s.runner.Run(ctx, item.Script, item)
	if err != nil {
		s.logger.Warn("item script failed", "item_id", item.ID, "error", err)
		return
	}

	for _, entry := range result.Logs {
		switch entry.Level {
		case "warn":
			s.logger.Warn("script: "+entry.Message, "item_id", item.ID)
		case "error":
			s.logger.Error("script: "+entry.Message, "item_id", item.ID)
		default:
			s.logger.Info("script: "+entry.Message, "item_id", item.ID)
		}
	}
	for _, url := range result.OpenedURLs {
		s.logger.Info("script opened url", "item_id", item.ID, "url", url)
	}
	for _, alert := range result.Alerts {
		s.logger.Info("script alert", "item_id", item.ID, "message", alert)
	}
}
