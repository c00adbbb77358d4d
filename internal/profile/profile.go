// Package profile reads and writes the user profile through the
// document store. Writes are followed by an explicit re-read so the
// in-memory value always reflects what the store actually holds,
// including store-assigned timestamps.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tyamagishi/kaizen/internal/models"
	"github.com/tyamagishi/kaizen/internal/store"
)

const profileDocID = "current"

type Service struct {
	store  store.Provider
	logger *zap.Logger
}

func NewService(provider store.Provider, logger *zap.Logger) *Service {
	return &Service{store: provider, logger: logger}
}

// Input is the caller-supplied profile data.
type Input struct {
	DisplayName string
	Bio         string
	ThemeID     string
}

// Patch updates only the fields that are non-nil.
type Patch struct {
	DisplayName *string
	Bio         *string
	ThemeID     *string
}

// Fetch returns the profile, or nil when none exists yet. A store
// failure is logged and returned; the caller keeps whatever state it
// already had.
func (s *Service) Fetch(ctx context.Context, userID string) (*models.Profile, error) {
	doc, err := s.store.Get(ctx, userID, store.CollectionProfiles, profileDocID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		s.logger.Warn("failed to fetch profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	return decode(doc)
}

// Create writes a new profile and re-reads it. The display name is
// required; everything else may be blank.
func (s *Service) Create(ctx context.Context, userID string, input Input) (*models.Profile, error) {
	if strings.TrimSpace(input.DisplayName) == "" {
		return nil, &models.ValidationError{Field: "display name", Reason: "must not be blank"}
	}

	p := models.Profile{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: strings.TrimSpace(input.DisplayName),
		Bio:         input.Bio,
		ThemeID:     input.ThemeID,
	}
	return s.writeAndReread(ctx, userID, p)
}

// Update applies a partial patch to the existing profile, then
// re-reads. Updating a profile that does not exist is an error.
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*models.Profile, error) {
	current, err := s.Fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("profile for user %s: %w", userID, store.ErrNotFound)
	}

	if patch.DisplayName != nil {
		if strings.TrimSpace(*patch.DisplayName) == "" {
			return nil, &models.ValidationError{Field: "display name", Reason: "must not be blank"}
		}
		current.DisplayName = strings.TrimSpace(*patch.DisplayName)
	}
	if patch.Bio != nil {
		current.Bio = *patch.Bio
	}
	if patch.ThemeID != nil {
		current.ThemeID = *patch.ThemeID
	}

	return s.writeAndReread(ctx, userID, *current)
}

// writeAndReread persists the profile, then fetches the stored copy
// back. The write payload is never trusted as the new state: the
// re-read guards against divergence between client defaults and
// store-assigned fields.
func (s *Service) writeAndReread(ctx context.Context, userID string, p models.Profile) (*models.Profile, error) {
	if _, err := s.store.Put(ctx, userID, store.CollectionProfiles, profileDocID, p); err != nil {
		s.logger.Warn("failed to write profile", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("write profile: %w", err)
	}

	doc, err := s.store.Get(ctx, userID, store.CollectionProfiles, profileDocID)
	if err != nil {
		return nil, fmt.Errorf("read back profile: %w", err)
	}
	return decode(doc)
}

func decode(doc store.Document) (*models.Profile, error) {
	var p models.Profile
	if err := doc.Decode(&p); err != nil {
		return nil, err
	}
	p.CreatedAt = doc.CreatedAt
	p.UpdatedAt = doc.UpdatedAt
	return &p, nil
}
