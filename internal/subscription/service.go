package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

// subscriptionDocID is the fixed document ID: each user has exactly one
// active subscription.
const subscriptionDocID = "current"

type Service struct {
	store  store.Provider
	logger *zap.Logger
}

func NewService(provider store.Provider, logger *zap.Logger) *Service {
	return &Service{store: provider, logger: logger}
}

// DefaultFree is the free-tier subscription a user falls back to when
// no stored subscription exists (or cannot be read).
func DefaultFree(userID string) *models.Subscription {
	matrix, _ := MatrixFor(models.PlanFree)
	return &models.Subscription{
		ID:       uuid.NewString(),
		UserID:   userID,
		Plan:     models.PlanFree,
		Features: matrix,
	}
}

// Fetch loads the user's subscription. An absent document is the
// free-tier default, not an error. On store failure it logs and still
// returns the free-tier default alongside the error, so gating keeps
// working on the safe side.
func (s *Service) Fetch(ctx context.Context, userID string) (*models.Subscription, error) {
	doc, err := s.store.Get(ctx, userID, store.CollectionSubscriptions, subscriptionDocID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DefaultFree(userID), nil
		}
		s.logger.Warn("failed to fetch subscription", zap.String("user_id", userID), zap.Error(err))
		return DefaultFree(userID), fmt.Errorf("fetch subscription: %w", err)
	}

	return decode(doc)
}

// Upgrade transitions the user to the target tier and persists it,
// then re-reads the stored value so the returned subscription carries
// the store's authoritative timestamps.
func (s *Service) Upgrade(ctx context.Context, userID string, target models.PlanTier) (*models.Subscription, error) {
	current, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	upgraded, err := Upgrade(userID, current, target, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, userID, store.CollectionSubscriptions, subscriptionDocID, upgraded); err != nil {
		return nil, fmt.Errorf("write subscription: %w", err)
	}

	doc, err := s.store.Get(ctx, userID, store.CollectionSubscriptions, subscriptionDocID)
	if err != nil {
		return nil, fmt.Errorf("read back subscription: %w", err)
	}

	s.logger.Info("plan upgraded",
		zap.String("user_id", userID),
		zap.String("plan", string(target)))
	return decode(doc)
}

func decode(doc store.Document) (*models.Subscription, error) {
	var sub models.Subscription
	if err := doc.Decode(&sub); err != nil {
		return nil, err
	}
	// The store's timestamps are authoritative over whatever the
	// client serialized.
	sub.CreatedAt = doc.CreatedAt
	sub.UpdatedAt = doc.UpdatedAt
	return &sub, nil
}
