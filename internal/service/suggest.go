package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/up4down/up4down-server/internal/config"
	"github.com/up4down/up4down-server/internal/search"
)

// SuggestService serves bounded search-as-you-type suggestions from the
// title index.
type SuggestService struct {
	index  *search.Index
	cfg    config.CatalogConfig
	logger *slog.Logger
}

// NewSuggestService creates a new suggestion service.
func NewSuggestService(index *search.Index, cfg config.CatalogConfig, logger *slog.Logger) *SuggestService {
	return &SuggestService{
		index:  index,
		cfg:    cfg,
		logger: logger,
	}
}

// Suggest returns up to the configured number of title suggestions for a
// partial query. Queries below the minimum length return an empty list
// without touching the index.
func (s *SuggestService) Suggest(ctx context.Context, partial string) ([]search.Suggestion, error) {
	partial = strings.TrimSpace(partial)
	if utf8.RuneCountInString(partial) < s.cfg.SuggestMinChars {
		return []search.Suggestion{}, nil
	}

	suggestions, err := s.index.Suggest(ctx, partial, s.cfg.SuggestLimit)
	if err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []search.Suggestion{}
	}
	return suggestions, nil
}
