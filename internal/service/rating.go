package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/up4down/up4down-server/internal/domain"
	apperrors "github.com/up4down/up4down-server/internal/errors"
	"github.com/up4down/up4down-server/internal/id"
	"github.com/up4down/up4down-server/internal/store"
)

// RatingService handles anonymous rating submissions.
type RatingService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(store store.Store, logger *slog.Logger) *RatingService {
	return &RatingService{
		store:  store,
		logger: logger,
	}
}

// Submit records a 1-5 rating for an item under a fresh anonymous rater
// id and returns the item with its recomputed aggregates. Input is
// validated before anything is written.
func (s *RatingService) Submit(ctx context.Context, itemID string, value int) (*domain.Item, error) {
	if !domain.ValidRating(value) {
		return nil, apperrors.Validationf("rating must be an integer between %d and %d", domain.MinRating, domain.MaxRating)
	}
	if !strings.HasPrefix(itemID, id.PrefixItem+"-") {
		return nil, apperrors.Validation("invalid item id")
	}

	raterID, err := id.Generate(id.PrefixRater)
	if err != nil {
		return nil, err
	}
	ratingID, err := id.Generate(id.PrefixRating)
	if err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		Record:  domain.Record{ID: ratingID},
		ItemID:  itemID,
		Rating:  value,
		RaterID: raterID,
	}
	rating.InitTimestamps()

	item, err := s.store.CreateRating(ctx, rating)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyRated) {
			return nil, apperrors.AlreadyRated("you have already rated this item")
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NotFound("item not found")
		}
		return nil, err
	}

	s.logger.Info("rating submitted",
		"item_id", itemID,
		"rating", value,
		"average_rating", item.AverageRating,
		"rating_count", item.RatingCount,
	)
	return item, nil
}
